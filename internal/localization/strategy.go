// Package localization contains the position estimation strategies. Each
// strategy turns a set of known anchor positions and a symmetric pairwise
// distance map into estimated positions for the remaining nodes.
package localization

import (
	"sort"

	"netloc-sim/internal/common"
)

// Strategy estimates positions for every node that appears in distances but
// not in known. Implementations must not mutate the known map; nodes they
// cannot resolve are simply absent from the result.
type Strategy interface {
	Estimate(known map[common.NodeID]common.Point, distances common.DistanceMap) (map[common.NodeID]common.Point, error)
}

// Reference is a known node used to constrain an unknown node's position.
type Reference struct {
	ID       common.NodeID
	Position common.Point
	Distance float64
}

// unknownNodes returns every node referenced by a distance pair that has no
// known position, in ascending id order.
func unknownNodes(known map[common.NodeID]common.Point, distances common.DistanceMap) []common.NodeID {
	var ids []common.NodeID
	for _, id := range distances.Nodes() {
		if _, ok := known[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// knownNeighbors collects the references available to node: every known node
// with a measured distance to it, sorted ascending by distance with ties
// broken by id so repeated runs select the same references.
func knownNeighbors(node common.NodeID, known map[common.NodeID]common.Point, distances common.DistanceMap) []Reference {
	var refs []Reference
	for _, nbr := range distances.Neighbors(node) {
		pos, ok := known[nbr]
		if !ok {
			continue
		}
		d, _ := distances.Get(node, nbr)
		refs = append(refs, Reference{ID: nbr, Position: pos, Distance: d})
	}
	sort.Slice(refs, func(a, b int) bool {
		if refs[a].Distance != refs[b].Distance {
			return refs[a].Distance < refs[b].Distance
		}
		return refs[a].ID < refs[b].ID
	})
	return refs
}
