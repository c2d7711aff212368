package localization

import (
	"math"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"netloc-sim/internal/common"
)

// Defaults for the grid solver configuration.
const (
	DefaultGridResolution = 1.0
	DefaultAreaSize       = 100.0
	DefaultNoiseStd       = 0.5
)

// GridSolver estimates each unknown node independently by accumulating a
// discretized belief surface over the whole area from every known neighbor's
// distance measurement, then picking the highest-belief grid cell.
type GridSolver struct {
	resolution float64 // cell size in area units
	areaSize   float64 // bound of the square region [0, areaSize)
	noiseStd   float64 // std deviation of the assumed Gaussian measurement error
	workers    int     // max nodes estimated concurrently
	logger     *zap.Logger
}

// GridOption configures a GridSolver.
type GridOption func(*GridSolver)

// WithGridResolution sets the belief grid cell size.
func WithGridResolution(res float64) GridOption {
	return func(s *GridSolver) { s.resolution = res }
}

// WithAreaSize sets the bound of the square search region.
func WithAreaSize(area float64) GridOption {
	return func(s *GridSolver) { s.areaSize = area }
}

// WithNoiseStd sets the assumed measurement noise standard deviation.
func WithNoiseStd(std float64) GridOption {
	return func(s *GridSolver) { s.noiseStd = std }
}

// WithWorkers bounds how many nodes are estimated concurrently. Values
// below 1 keep the default of one worker per CPU.
func WithWorkers(n int) GridOption {
	return func(s *GridSolver) {
		if n >= 1 {
			s.workers = n
		}
	}
}

// NewGridSolver creates a solver with the given options applied over the
// defaults. A nil logger disables logging.
func NewGridSolver(logger *zap.Logger, opts ...GridOption) *GridSolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &GridSolver{
		resolution: DefaultGridResolution,
		areaSize:   DefaultAreaSize,
		noiseStd:   DefaultNoiseStd,
		workers:    runtime.GOMAXPROCS(0),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolution <= 0 {
		s.resolution = DefaultGridResolution
	}
	if s.areaSize <= 0 {
		s.areaSize = DefaultAreaSize
	}
	if s.noiseStd <= 0 {
		s.noiseStd = DefaultNoiseStd
	}
	if s.workers < 1 {
		s.workers = 1
	}
	return s
}

// Estimate implements Strategy. Every unknown node is resolved in a single
// independent pass; already-resolved nodes are never fed back as references
// for other unknowns. Nodes whose belief surface degenerates to zero are
// left unresolved. Estimation fans out across a bounded worker group; the
// output does not depend on scheduling since no state is shared between
// nodes.
func (s *GridSolver) Estimate(known map[common.NodeID]common.Point, distances common.DistanceMap) (map[common.NodeID]common.Point, error) {
	estimated := make(map[common.NodeID]common.Point)
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, node := range unknownNodes(known, distances) {
		g.Go(func() error {
			pos, ok := s.estimateNode(node, known, distances)
			if !ok {
				return nil
			}
			mu.Lock()
			estimated[node] = pos
			mu.Unlock()
			s.logger.Debug("estimated node position",
				zap.Int("node", int(node)),
				zap.Stringer("position", pos))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return estimated, nil
}

// estimateNode builds the belief surface for one node and extracts the
// maximum-a-posteriori cell. Returns false when no grid cell is plausible
// given the measurements.
func (s *GridSolver) estimateNode(node common.NodeID, known map[common.NodeID]common.Point, distances common.DistanceMap) (common.Point, bool) {
	// Fewer than three references cannot pin down a position; the node is
	// simply unresolved, never an error.
	refs := knownNeighbors(node, known, distances)
	if len(refs) < 3 {
		return common.Point{}, false
	}

	cells := int(math.Ceil(s.areaSize / s.resolution))

	// Uniform prior.
	belief := mat.NewDense(cells, cells, nil)
	for row := 0; row < cells; row++ {
		for col := 0; col < cells; col++ {
			belief.Set(row, col, 1)
		}
	}

	for _, ref := range refs {
		likelihood := distuv.Normal{Mu: ref.Distance, Sigma: s.noiseStd}
		for row := 0; row < cells; row++ {
			for col := 0; col < cells; col++ {
				cell := s.cellPosition(row, col)
				predicted := cell.Distance(ref.Position)
				belief.Set(row, col, belief.At(row, col)*likelihood.Prob(predicted))
			}
		}
	}

	// A zero or non-finite maximum means the measurements ruled out every
	// cell; report the node unresolved instead of dividing by zero.
	max := mat.Max(belief)
	if max == 0 || math.IsNaN(max) || math.IsInf(max, 0) {
		s.logger.Warn("degenerate belief surface, node unresolved",
			zap.Int("node", int(node)),
			zap.Int("references", len(refs)))
		return common.Point{}, false
	}
	belief.Scale(1/max, belief)

	// First occurrence in row-major order wins on ties.
	bestRow, bestCol := 0, 0
	bestBelief := belief.At(0, 0)
	for row := 0; row < cells; row++ {
		for col := 0; col < cells; col++ {
			if b := belief.At(row, col); b > bestBelief {
				bestBelief = b
				bestRow, bestCol = row, col
			}
		}
	}

	return s.cellPosition(bestRow, bestCol), true
}

// cellPosition maps a grid index to its position in area coordinates. Rows
// advance along y, columns along x.
func (s *GridSolver) cellPosition(row, col int) common.Point {
	return common.Point{
		X: float64(col) * s.resolution,
		Y: float64(row) * s.resolution,
	}
}
