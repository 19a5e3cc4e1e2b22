package sampler

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestCategoricalFrequencies(t *testing.T) {
	c, err := NewCategorical([]float64{0, 1, 0, 3})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	const draws = 100000
	counts := make([]int, 4)
	for i := 0; i < draws; i++ {
		counts[c.Sample(rng)]++
	}

	require.Zero(t, counts[0], "zero-weight outcome sampled")
	require.Zero(t, counts[2], "zero-weight outcome sampled")
	require.InDelta(t, 0.25, float64(counts[1])/draws, 0.01)
	require.InDelta(t, 0.75, float64(counts[3])/draws, 0.01)
}

func TestCategoricalSingleOutcome(t *testing.T) {
	c, err := NewCategorical([]float64{2.5})
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		require.Equal(t, 0, c.Sample(rng))
	}
}

func TestCategoricalInvalid(t *testing.T) {
	for name, weights := range map[string][]float64{
		"empty":    {},
		"all zero": {0, 0, 0, 0},
		"negative": {1, -1, 2},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewCategorical(weights)
			require.True(t, errors.Is(err, ErrInvalidDistribution), "got %v", err)
		})
	}
}

func TestCategoricalFill(t *testing.T) {
	c, err := NewCategorical([]float64{0, 0, 1, 0})
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(7))
	buf := make([]byte, 16)
	c.Fill(rng, buf, "TCAG")
	require.Equal(t, "AAAAAAAAAAAAAAAA", string(buf))
}
