package network

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"netloc-sim/internal/common"
)

func testConfig() Config {
	return Config{
		NumNodes:   10,
		CommRange:  70,
		AreaSize:   100,
		NumAnchors: 3,
	}
}

func TestGenerateInvariants(t *testing.T) {
	net, err := Generate(testConfig(), rand.New(rand.NewSource(42)), zap.NewNop())
	require.NoError(t, err)

	assert.NotEmpty(t, net.RunID)
	assert.Len(t, net.Positions, 10)
	assert.Len(t, net.Anchors, 3)

	// Every node sits inside the area and has at least three neighbors.
	for id, pos := range net.Positions {
		assert.GreaterOrEqual(t, pos.X, 0.0)
		assert.Less(t, pos.X, net.AreaSize)
		assert.GreaterOrEqual(t, pos.Y, 0.0)
		assert.Less(t, pos.Y, net.AreaSize)
		assert.GreaterOrEqual(t, len(net.Distances.Neighbors(id)), 3,
			"node %d below minimum degree", id)
	}

	// Anchors are real nodes with their true positions.
	for id, pos := range net.Anchors {
		truth, ok := net.Positions[id]
		require.True(t, ok)
		assert.Equal(t, truth, pos)
		assert.True(t, net.IsAnchor(id))
	}
}

func TestGenerateExactDistancesWithoutNoise(t *testing.T) {
	net, err := Generate(testConfig(), rand.New(rand.NewSource(7)), zap.NewNop())
	require.NoError(t, err)

	for pair, d := range net.Distances {
		truth := net.Positions[pair.A].Distance(net.Positions[pair.B])
		assert.InDelta(t, truth, d, 1e-12)
		// Symmetric lookup regardless of argument order.
		got, ok := net.Distances.Get(pair.B, pair.A)
		require.True(t, ok)
		assert.Equal(t, d, got)
	}
}

func TestGenerateReproducibleWithSeed(t *testing.T) {
	a, err := Generate(testConfig(), rand.New(rand.NewSource(99)), zap.NewNop())
	require.NoError(t, err)
	b, err := Generate(testConfig(), rand.New(rand.NewSource(99)), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, a.Positions, b.Positions)
	assert.Equal(t, a.Distances, b.Distances)
	assert.Equal(t, a.Anchors, b.Anchors)
}

func TestGenerateValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero nodes", func(c *Config) { c.NumNodes = 0 }},
		{"negative area", func(c *Config) { c.AreaSize = -1 }},
		{"zero comm range", func(c *Config) { c.CommRange = 0 }},
		{"no anchors", func(c *Config) { c.NumAnchors = 0 }},
		{"too many anchors", func(c *Config) { c.NumAnchors = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := Generate(cfg, rng, zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestAnchorPositionsIsACopy(t *testing.T) {
	net, err := Generate(testConfig(), rand.New(rand.NewSource(3)), zap.NewNop())
	require.NoError(t, err)

	anchors := net.AnchorPositions()
	anchors[common.NodeID(1000)] = common.Point{}
	assert.NotContains(t, net.Anchors, common.NodeID(1000))
}

func TestNoiseFunctions(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	assert.Equal(t, 10.0, NoNoise(rng, 10))

	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, GaussianNoise(2)(rng, 0.1), 0.0)

		d := UniformNoise(3)(rng, 10)
		assert.GreaterOrEqual(t, d, 7.0)
		assert.LessOrEqual(t, d, 13.0)

		p := PercentageNoise(0.05)(rng, 10)
		assert.GreaterOrEqual(t, p, 9.5)
		assert.LessOrEqual(t, p, 10.5)
	}

	// Negative parameters degrade to no noise.
	assert.Equal(t, 10.0, GaussianNoise(-1)(rng, 10))
	assert.Equal(t, 10.0, UniformNoise(-1)(rng, 10))
	assert.Equal(t, 10.0, PercentageNoise(-1)(rng, 10))
}
