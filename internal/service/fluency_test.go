package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFluencyModel_Stats(t *testing.T) {
	m := NewFluencyModel(annotate("the cat sat . the cat sat . the dog ran ."), 3, nil)

	stats := m.Stats()
	require.Equal(t, 3, stats.N)
	require.Equal(t, 6, stats.VocabularySize)
	require.Equal(t, int64(12), stats.TotalTokens)
	require.Equal(t, "AddK", stats.SmootherName)
}

func TestFluencyModel_Perplexity(t *testing.T) {
	corpus := annotate("the cat sat . the cat sat . the dog ran .")

	for _, smoother := range []Smoother{NewAddKSmoother(0.5), NewWittenBellSmoother()} {
		m := NewFluencyModel(corpus, 3, smoother)

		seen := m.Perplexity([]string{"The", "cat", "sat", "."})
		scrambled := m.Perplexity([]string{"sat", ".", "dog", "the"})
		require.Less(t, seen, scrambled, smoother.Name())
		require.GreaterOrEqual(t, seen, 1.0, smoother.Name())
	}

	m := NewFluencyModel(corpus, 3, nil)
	require.Equal(t, 0.0, m.CrossEntropy(nil))
	require.Equal(t, 1.0, m.Perplexity(nil))
}

func TestFluencyModel_ProbabilitySumsToOne(t *testing.T) {
	corpus := annotate("the cat sat . the cat sat . the dog ran .")
	m := NewFluencyModel(corpus, 3, NewAddKSmoother(1))

	sum := 0.0
	for token := range m.vocabulary {
		sum += m.Probability(token, []string{"the", "cat"})
	}
	require.InDelta(t, 1.0, sum, 1e-9)
	require.False(t, math.IsNaN(sum))
}

func TestNewSmoother(t *testing.T) {
	s, err := NewSmoother("", 0)
	require.NoError(t, err)
	require.Equal(t, "AddK", s.Name())

	s, err = NewSmoother(SmoothingWittenBell, 0)
	require.NoError(t, err)
	require.Equal(t, "WittenBell", s.Name())

	_, err = NewSmoother("kneser-ney", 0)
	require.Error(t, err)
}
