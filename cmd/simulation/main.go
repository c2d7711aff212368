package main

import (
	"flag"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"netloc-sim/internal/config"
	"netloc-sim/internal/evaluation"
	"netloc-sim/internal/localization"
	"netloc-sim/internal/network"
	"netloc-sim/internal/visualization"
)

func main() {
	configPath := flag.String("config", "", "path to yaml run configuration (defaults apply when empty)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := buildLogger(*debug)
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	seed := cfg.Network.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("starting localization run",
		zap.String("strategy", cfg.Strategy),
		zap.Int64("seed", seed))

	net, err := network.Generate(network.Config{
		NumNodes:   cfg.Network.Nodes,
		CommRange:  cfg.Network.CommRange,
		AreaSize:   cfg.Network.AreaSize,
		NumAnchors: cfg.Network.Anchors,
		Noise:      noiseFunc(cfg.Network.Noise),
	}, rng, logger)
	if err != nil {
		logger.Fatal("failed to generate network", zap.Error(err))
	}

	strategy := buildStrategy(cfg, logger)
	estimated, err := strategy.Estimate(net.AnchorPositions(), net.Distances)
	if err != nil {
		logger.Fatal("localization failed", zap.Error(err))
	}

	report := evaluation.Evaluate(net.Positions, estimated, cfg.Evaluation.Threshold)
	report.Log(logger)

	if cfg.Visualization.Enabled {
		viewer := visualization.NewViewer(net, estimated, report)
		ebiten.SetWindowSize(cfg.Visualization.Width, cfg.Visualization.Height)
		ebiten.SetWindowTitle("Network Localization: Actual vs Estimated")
		if err := ebiten.RunGame(viewer); err != nil {
			logger.Fatal("viewer exited", zap.Error(err))
		}
	}
}

func buildLogger(debug bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

// buildStrategy picks the solver variant named in the config.
func buildStrategy(cfg config.Config, logger *zap.Logger) localization.Strategy {
	switch cfg.Strategy {
	case config.StrategyGrid:
		return localization.NewGridSolver(logger,
			localization.WithGridResolution(cfg.Grid.Resolution),
			localization.WithAreaSize(cfg.Network.AreaSize),
			localization.WithNoiseStd(cfg.Grid.NoiseStd),
			localization.WithWorkers(cfg.Grid.Workers),
		)
	default:
		return localization.NewTrilaterationSolver(cfg.Trilateration.Tolerance, logger)
	}
}

// noiseFunc maps the config noise model onto a network.NoiseFunction.
func noiseFunc(nc config.NoiseConfig) network.NoiseFunction {
	switch nc.Kind {
	case "gaussian":
		return network.GaussianNoise(nc.Param)
	case "uniform":
		return network.UniformNoise(nc.Param)
	case "percentage":
		return network.PercentageNoise(nc.Param)
	default:
		return network.NoNoise
	}
}
