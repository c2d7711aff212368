package localization

import (
	"go.uber.org/zap"

	"netloc-sim/internal/common"
)

// DefaultTolerance is the maximum deviation between a candidate's distance to
// the third reference and the measured distance for the candidate to be
// accepted during disambiguation.
const DefaultTolerance = 0.01

// TrilaterationSolver resolves unknown nodes one at a time via three-circle
// trilateration, feeding each solved node back into the known set so later
// nodes can use it as a reference.
type TrilaterationSolver struct {
	tolerance float64
	logger    *zap.Logger
}

// NewTrilaterationSolver creates a solver with the given disambiguation
// tolerance. A non-positive tolerance falls back to DefaultTolerance; a nil
// logger disables logging.
func NewTrilaterationSolver(tolerance float64, logger *zap.Logger) *TrilaterationSolver {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrilaterationSolver{tolerance: tolerance, logger: logger}
}

// Estimate implements Strategy. It repeatedly scans the unresolved nodes,
// solving any node with at least three known neighbors, until every node is
// resolved, a full pass makes no progress, or the iteration cap triggers.
// Nodes left unresolved are absent from the result; that is a reported
// condition, not an error.
func (s *TrilaterationSolver) Estimate(known map[common.NodeID]common.Point, distances common.DistanceMap) (map[common.NodeID]common.Point, error) {
	// Work on a copy so the caller's map never reflects intermediate state.
	working := make(map[common.NodeID]common.Point, len(known))
	for id, pos := range known {
		working[id] = pos
	}

	unknown := unknownNodes(working, distances)
	estimated := make(map[common.NodeID]common.Point)

	// Cap guards against cyclic or inconsistent data producing infinite retries.
	maxIterations := len(unknown) * len(unknown)

	for iteration := 0; len(estimated) < len(unknown); iteration++ {
		if iteration >= maxIterations {
			s.logger.Warn("iteration cap reached, some nodes may be disconnected",
				zap.Int("resolved", len(estimated)),
				zap.Int("unknown", len(unknown)))
			break
		}

		progress := false
		var pending []common.NodeID

		for _, node := range unknown {
			if _, done := working[node]; done {
				continue
			}

			refs := knownNeighbors(node, working, distances)
			if len(refs) < 3 {
				// Defer: a later pass may have solved more references.
				pending = append(pending, node)
				continue
			}

			r1, r2, r3 := refs[0], refs[1], refs[2]
			pos, err := s.Trilaterate(r1.Position, r2.Position, r3.Position, r1.Distance, r2.Distance, r3.Distance)
			if err != nil {
				// Geometrically impossible with these references; defer the
				// node, never the whole run.
				pending = append(pending, node)
				continue
			}

			estimated[node] = pos
			working[node] = pos
			progress = true
			s.logger.Debug("estimated node position",
				zap.Int("node", int(node)),
				zap.Stringer("position", pos))
		}

		if !progress {
			if len(pending) > 0 {
				s.logger.Info("no further progress, leaving nodes unresolved",
					zap.Int("unresolved", len(pending)))
			}
			break
		}
	}

	return estimated, nil
}

// Trilaterate estimates a position from distances to three known points. The
// circles around p1 and p2 yield two candidates; the third reference picks
// the candidate whose distance to p3 is within the tolerance of d3. When
// neither candidate matches (noisy or inconsistent measurements) the
// arithmetic midpoint of the two candidates is returned as a degraded
// result. Fails only when the two circles cannot intersect at all.
func (s *TrilaterationSolver) Trilaterate(p1, p2, p3 common.Point, d1, d2, d3 float64) (common.Point, error) {
	ca, cb, err := common.CircleIntersection(p1, d1, p2, d2)
	if err != nil {
		return common.Point{}, err
	}

	if da := ca.Distance(p3); absDiff(da, d3) <= s.tolerance {
		return ca, nil
	}
	if db := cb.Distance(p3); absDiff(db, d3) <= s.tolerance {
		return cb, nil
	}

	mid := ca.Midpoint(cb)
	s.logger.Debug("no candidate satisfied the third distance, using midpoint fallback",
		zap.Stringer("candidateA", ca),
		zap.Stringer("candidateB", cb),
		zap.Float64("measured", d3))
	return mid, nil
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
