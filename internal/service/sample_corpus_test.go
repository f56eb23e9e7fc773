package service

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"sentgen/internal/config"
	"sentgen/internal/model"
	sentmodel "sentgen/internal/model/sentgen"
	"sentgen/internal/service/sentgen"
	"sentgen/internal/service/tokenizer"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadSampleCorpus(t *testing.T) *CorpusManager {
	t.Helper()
	registry, err := tokenizer.NewDefaultRegistry()
	require.NoError(t, err)

	manager := NewCorpusManager(NewCorpusLoader(registry, zap.NewNop()), nil, nil, zap.NewNop())
	_, err = manager.LoadCorpus(context.Background(), &config.Corpus{
		Name:     "sample",
		Path:     filepath.Join("..", "..", "corpora", "sample.txt"),
		Format:   config.FormatText,
		Language: "english",
	}, false)
	require.NoError(t, err)
	return manager
}

func TestSampleCorpus_DefaultSeed(t *testing.T) {
	manager := loadSampleCorpus(t)
	entry, err := manager.Get("sample")
	require.NoError(t, err)

	_, err = entry.Generator.SelectSecondSeed(rand.New(rand.NewPCG(1, 1)), sentmodel.DefaultSeed)
	require.NoError(t, err, "sample corpus has no %s token", sentmodel.DefaultSeed)

	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		sentence, err := entry.Generator.Generate(context.Background(), rng, sentgen.DefaultOptions())
		require.NoError(t, err, "seed %d", seed)
		require.Equal(t, "want", sentence.Tokens[0])
		require.GreaterOrEqual(t, sentence.Score, sentmodel.DefaultThreshold)
	}
}

func TestSampleCorpus_ServiceDefaults(t *testing.T) {
	manager := loadSampleCorpus(t)

	defaults := testGeneratorConfig()
	defaults.Threshold = sentmodel.DefaultThreshold
	defaults.RandomSeed = 3
	svc := NewSentenceService(manager, nil, defaults, zap.NewNop())

	for i := 0; i < 10; i++ {
		resp, err := svc.Generate(context.Background(), &model.GenerateRequest{Corpus: "sample"})
		require.NoError(t, err, "request %d", i)
		require.Equal(t, sentmodel.DefaultSeed, resp.Seed)
		require.Equal(t, "want", resp.Tokens[0])
	}
}
