package common

import "sort"

// NodeID is a unique node identifier, stable for the lifetime of one run.
type NodeID int

// Pair is an unordered node pair stored in canonical (low, high) order.
type Pair struct {
	A, B NodeID
}

// NewPair builds the canonical pair for two node ids.
func NewPair(i, j NodeID) Pair {
	if j < i {
		i, j = j, i
	}
	return Pair{A: i, B: j}
}

// Other returns the endpoint of the pair that is not id.
// The result is only meaningful when id is one of the endpoints.
func (p Pair) Other(id NodeID) NodeID {
	if p.A == id {
		return p.B
	}
	return p.A
}

// Contains reports whether id is one of the pair's endpoints.
func (p Pair) Contains(id NodeID) bool {
	return p.A == id || p.B == id
}

// DistanceMap holds symmetric pairwise distance measurements keyed by
// canonical pairs. Lookups work regardless of argument order.
type DistanceMap map[Pair]float64

// Set records the measured distance between two nodes.
func (m DistanceMap) Set(i, j NodeID, d float64) {
	m[NewPair(i, j)] = d
}

// Get returns the measured distance between two nodes, if present.
func (m DistanceMap) Get(i, j NodeID) (float64, bool) {
	d, ok := m[NewPair(i, j)]
	return d, ok
}

// Nodes returns every node id referenced by some pair, in ascending order.
func (m DistanceMap) Nodes() []NodeID {
	seen := make(map[NodeID]struct{})
	for p := range m {
		seen[p.A] = struct{}{}
		seen[p.B] = struct{}{}
	}
	ids := make([]NodeID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}

// Neighbors returns the ids connected to node by some measurement, in
// ascending order.
func (m DistanceMap) Neighbors(node NodeID) []NodeID {
	var ids []NodeID
	for p := range m {
		if p.Contains(node) {
			ids = append(ids, p.Other(node))
		}
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}
