package localization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"netloc-sim/internal/common"
)

// exactDistances builds a distance map carrying the true Euclidean distances
// for the given edges.
func exactDistances(positions map[common.NodeID]common.Point, edges [][2]common.NodeID) common.DistanceMap {
	m := make(common.DistanceMap)
	for _, e := range edges {
		m.Set(e[0], e[1], positions[e[0]].Distance(positions[e[1]]))
	}
	return m
}

// fourNodeScenario is the reference setup: three anchors at the corners and
// one unknown node truly at (5,5) with exact distance measurements.
func fourNodeScenario() (map[common.NodeID]common.Point, common.DistanceMap, common.Point) {
	truth := map[common.NodeID]common.Point{
		0: {X: 0, Y: 0},
		1: {X: 10, Y: 0},
		2: {X: 0, Y: 10},
		3: {X: 5, Y: 5},
	}
	anchors := map[common.NodeID]common.Point{
		0: truth[0],
		1: truth[1],
		2: truth[2],
	}
	distances := exactDistances(truth, [][2]common.NodeID{{0, 3}, {1, 3}, {2, 3}})
	return anchors, distances, truth[3]
}

func TestTrilaterateRecoversExactPosition(t *testing.T) {
	s := NewTrilaterationSolver(0, zap.NewNop())

	truth := common.Point{X: 5, Y: 5}
	p1 := common.Point{X: 0, Y: 0}
	p2 := common.Point{X: 10, Y: 0}
	p3 := common.Point{X: 0, Y: 10}

	pos, err := s.Trilaterate(p1, p2, p3, truth.Distance(p1), truth.Distance(p2), truth.Distance(p3))
	require.NoError(t, err)
	assert.InDelta(t, truth.X, pos.X, 1e-9)
	assert.InDelta(t, truth.Y, pos.Y, 1e-9)
}

func TestTrilaterateDisjointCircles(t *testing.T) {
	s := NewTrilaterationSolver(0, zap.NewNop())

	_, err := s.Trilaterate(
		common.Point{X: 0, Y: 0}, common.Point{X: 10, Y: 0}, common.Point{X: 5, Y: 5},
		1, 1, 1)
	assert.ErrorIs(t, err, common.ErrNoIntersection)
}

func TestTrilaterateMidpointFallback(t *testing.T) {
	s := NewTrilaterationSolver(0, zap.NewNop())

	// Candidates are (3,4) and (3,-4); d3 is wildly inconsistent so neither
	// matches and the midpoint (3,0) must come back.
	pos, err := s.Trilaterate(
		common.Point{X: 0, Y: 0}, common.Point{X: 6, Y: 0}, common.Point{X: 0, Y: 10},
		5, 5, 100)
	require.NoError(t, err)
	assert.InDelta(t, 3, pos.X, 1e-12)
	assert.InDelta(t, 0, pos.Y, 1e-12)
}

func TestEstimateFourNodeScenario(t *testing.T) {
	anchors, distances, truth := fourNodeScenario()
	s := NewTrilaterationSolver(0, zap.NewNop())

	estimated, err := s.Estimate(anchors, distances)
	require.NoError(t, err)
	require.Contains(t, estimated, common.NodeID(3))
	assert.Less(t, estimated[3].Distance(truth), 1.0)
}

func TestEstimatePropagatesSolvedNodes(t *testing.T) {
	// Node 4 only measures distances to nodes 1, 2 and the unknown node 3,
	// so it can only be solved after node 3 joins the known set.
	truth := map[common.NodeID]common.Point{
		0: {X: 0, Y: 0},
		1: {X: 10, Y: 0},
		2: {X: 0, Y: 10},
		3: {X: 5, Y: 5},
		4: {X: 10, Y: 10},
	}
	anchors := map[common.NodeID]common.Point{0: truth[0], 1: truth[1], 2: truth[2]}
	distances := exactDistances(truth, [][2]common.NodeID{
		{0, 3}, {1, 3}, {2, 3},
		{1, 4}, {2, 4}, {3, 4},
	})

	s := NewTrilaterationSolver(0, zap.NewNop())
	estimated, err := s.Estimate(anchors, distances)
	require.NoError(t, err)

	require.Len(t, estimated, 2)
	assert.Less(t, estimated[3].Distance(truth[3]), 1e-6)
	assert.Less(t, estimated[4].Distance(truth[4]), 1e-6)
	// Anchors never show up in the output.
	assert.NotContains(t, estimated, common.NodeID(0))
}

func TestEstimateTerminatesWithoutProgress(t *testing.T) {
	// No unknown node ever reaches three known neighbors; the solver must
	// terminate with a partial (here empty) result instead of hanging.
	anchors := map[common.NodeID]common.Point{0: {X: 0, Y: 0}}
	distances := make(common.DistanceMap)
	distances.Set(0, 1, 5)
	distances.Set(1, 2, 3)
	distances.Set(2, 3, 4)

	s := NewTrilaterationSolver(0, zap.NewNop())
	estimated, err := s.Estimate(anchors, distances)
	require.NoError(t, err)
	assert.Empty(t, estimated)
}

func TestEstimateDoesNotMutateInput(t *testing.T) {
	anchors, distances, _ := fourNodeScenario()
	s := NewTrilaterationSolver(0, zap.NewNop())

	_, err := s.Estimate(anchors, distances)
	require.NoError(t, err)
	assert.Len(t, anchors, 3)
}

func TestEstimateDeterministic(t *testing.T) {
	truth := map[common.NodeID]common.Point{
		0: {X: 0, Y: 0},
		1: {X: 10, Y: 0},
		2: {X: 0, Y: 10},
		3: {X: 5, Y: 5},
		4: {X: 10, Y: 10},
		5: {X: 2, Y: 7},
	}
	anchors := map[common.NodeID]common.Point{0: truth[0], 1: truth[1], 2: truth[2]}
	distances := exactDistances(truth, [][2]common.NodeID{
		{0, 3}, {1, 3}, {2, 3},
		{1, 4}, {2, 4}, {3, 4},
		{0, 5}, {2, 5}, {3, 5},
	})

	s := NewTrilaterationSolver(0, zap.NewNop())
	first, err := s.Estimate(anchors, distances)
	require.NoError(t, err)
	second, err := s.Estimate(anchors, distances)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
