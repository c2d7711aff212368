// Package network generates the static node network that localization runs
// against: random node placement, distance-threshold edges, minimum-degree
// connectivity repair, and anchor selection.
package network

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"netloc-sim/internal/common"
)

// minDegree is the connectivity floor the generator enforces; the solvers
// need three references per node.
const minDegree = 3

// Config holds the parameters for one generated network snapshot.
type Config struct {
	NumNodes   int
	CommRange  float64
	AreaSize   float64
	NumAnchors int
	Noise      NoiseFunction // nil means no measurement noise
}

// Network is one immutable snapshot of a node network: ground-truth
// positions, measured pairwise distances, and the anchor subset whose
// positions are known a priori.
type Network struct {
	RunID     string
	AreaSize  float64
	CommRange float64
	Positions map[common.NodeID]common.Point // ground truth, all nodes
	Distances common.DistanceMap
	Anchors   map[common.NodeID]common.Point
}

// Generate builds a network snapshot: nodes placed uniformly at random in
// [0, areaSize)², an edge with a measured distance for every pair within
// comm range, extra edges added until every node has at least three
// neighbors, and a random anchor subset. A nil logger disables logging.
func Generate(cfg Config, rng *rand.Rand, logger *zap.Logger) (*Network, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NumNodes <= 0 {
		return nil, fmt.Errorf("num nodes must be positive, got %d", cfg.NumNodes)
	}
	if cfg.AreaSize <= 0 {
		return nil, fmt.Errorf("area size must be positive, got %g", cfg.AreaSize)
	}
	if cfg.CommRange <= 0 {
		return nil, fmt.Errorf("comm range must be positive, got %g", cfg.CommRange)
	}
	if cfg.NumAnchors < 1 || cfg.NumAnchors > cfg.NumNodes {
		return nil, fmt.Errorf("num anchors must be in [1, %d], got %d", cfg.NumNodes, cfg.NumAnchors)
	}
	noise := cfg.Noise
	if noise == nil {
		noise = NoNoise
	}

	n := &Network{
		RunID:     uuid.NewString(),
		AreaSize:  cfg.AreaSize,
		CommRange: cfg.CommRange,
		Positions: make(map[common.NodeID]common.Point, cfg.NumNodes),
		Distances: make(common.DistanceMap),
		Anchors:   make(map[common.NodeID]common.Point, cfg.NumAnchors),
	}

	for i := 0; i < cfg.NumNodes; i++ {
		n.Positions[common.NodeID(i)] = common.NewRandomPoint(rng, cfg.AreaSize)
	}

	// Edges for every pair within communication range.
	for i := 0; i < cfg.NumNodes; i++ {
		for j := i + 1; j < cfg.NumNodes; j++ {
			a, b := common.NodeID(i), common.NodeID(j)
			d := n.Positions[a].Distance(n.Positions[b])
			if d <= cfg.CommRange {
				n.Distances.Set(a, b, noise(rng, d))
			}
		}
	}

	n.repairConnectivity(rng, noise, logger)

	// Random anchor subset.
	for _, idx := range rng.Perm(cfg.NumNodes)[:cfg.NumAnchors] {
		id := common.NodeID(idx)
		n.Anchors[id] = n.Positions[id]
	}

	logger.Info("generated network",
		zap.String("run_id", n.RunID),
		zap.Int("nodes", cfg.NumNodes),
		zap.Int("edges", len(n.Distances)),
		zap.Int("anchors", cfg.NumAnchors))

	return n, nil
}

// repairConnectivity adds random out-of-range links until every node has at
// least minDegree neighbors, so each unknown node can gather three
// references.
func (n *Network) repairConnectivity(rng *rand.Rand, noise NoiseFunction, logger *zap.Logger) {
	numNodes := len(n.Positions)
	for i := 0; i < numNodes; i++ {
		node := common.NodeID(i)
		for len(n.Distances.Neighbors(node)) < minDegree {
			candidates := n.unconnected(node)
			if len(candidates) == 0 {
				logger.Warn("node has no possible connections left",
					zap.Int("node", i),
					zap.Int("degree", len(n.Distances.Neighbors(node))))
				break
			}
			nbr := candidates[rng.Intn(len(candidates))]
			d := n.Positions[node].Distance(n.Positions[nbr])
			n.Distances.Set(node, nbr, noise(rng, d))
		}
	}
}

// unconnected returns the nodes that have no edge to node, in ascending id
// order so candidate selection depends only on the rng.
func (n *Network) unconnected(node common.NodeID) []common.NodeID {
	connected := make(map[common.NodeID]struct{})
	for _, nbr := range n.Distances.Neighbors(node) {
		connected[nbr] = struct{}{}
	}
	var out []common.NodeID
	for i := 0; i < len(n.Positions); i++ {
		id := common.NodeID(i)
		if id == node {
			continue
		}
		if _, ok := connected[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// AnchorPositions returns a copy of the anchor map, safe to hand to a
// solver that grows its working set.
func (n *Network) AnchorPositions() map[common.NodeID]common.Point {
	out := make(map[common.NodeID]common.Point, len(n.Anchors))
	for id, pos := range n.Anchors {
		out[id] = pos
	}
	return out
}

// IsAnchor reports whether a node's position is known a priori.
func (n *Network) IsAnchor(id common.NodeID) bool {
	_, ok := n.Anchors[id]
	return ok
}
