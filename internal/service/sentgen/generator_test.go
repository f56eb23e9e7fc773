package sentgen

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	model "sentgen/internal/model/sentgen"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testLexicon = map[string]string{
	"the": "DT", "a": "DT",
	"cat": "NN", "mat": "NN", "dog": "NN", "rug": "NN",
	"sat": "VBD", "ran": "VBD", "slept": "VBD",
	"on": "IN", "under": "IN",
	"want": "VB", "see": "VB",
	"i": "PRP", "to": "TO",
	".": ".", "!": ".", "?": ".", ",": ",",
}

// annotate tags a whitespace separated text with the fixed test lexicon
func annotate(t *testing.T, text string) model.Corpus {
	t.Helper()
	var corpus model.Corpus
	for _, word := range strings.Fields(text) {
		tag, ok := testLexicon[word]
		require.True(t, ok, "word %q missing from test lexicon", word)
		corpus = append(corpus, model.AnnotatedToken{Token: word, Tag: tag})
	}
	return corpus
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// chatCorpus ends on a tag bigram that also occurs earlier, so every tag pair a
// skeleton walk can reach has a successor
const chatCorpus = "i want to see the cat . the cat sat on the mat . i want the dog . " +
	"the dog slept under the rug . the cat ran . i want to see a dog . the cat"

func newTestGenerator(t *testing.T, text string) *Generator {
	t.Helper()
	g, err := NewGenerator(annotate(t, text), zap.NewNop())
	require.NoError(t, err)
	return g
}

func TestNewGenerator_EmptyCorpus(t *testing.T) {
	for _, text := range []string{"", "the", "the cat"} {
		_, err := NewGenerator(annotate(t, text), zap.NewNop())
		require.ErrorIs(t, err, ErrEmptyCorpus, "corpus %q", text)
	}
}

func TestNewGenerator_OwnsCorpus(t *testing.T) {
	corpus := annotate(t, "the cat sat on the mat .")
	g, err := NewGenerator(corpus, nil)
	require.NoError(t, err)

	corpus[2] = model.AnnotatedToken{Token: "ran", Tag: "VBD"}

	candidates, ok := g.Index().WordCandidates("the", "cat")
	require.True(t, ok)
	require.Equal(t, "sat", candidates[0].Token)
	require.Equal(t, 7, g.CorpusSize())
}

func TestSelectSecondSeed(t *testing.T) {
	g := newTestGenerator(t, chatCorpus)
	rng := newRand(7)

	allowed := map[model.AnnotatedToken]bool{
		{Token: "to", Tag: "TO"}:  true,
		{Token: "the", Tag: "DT"}: true,
	}
	seen := make(map[model.AnnotatedToken]bool)
	for i := 0; i < 200; i++ {
		seed2, err := g.SelectSecondSeed(rng, model.DefaultSeed)
		require.NoError(t, err)
		require.True(t, allowed[seed2], "unexpected follower %s", seed2)
		seen[seed2] = true
	}
	require.Len(t, seen, 2, "both distinct followers should be drawn")
}

func TestSelectSecondSeed_NotFound(t *testing.T) {
	g := newTestGenerator(t, chatCorpus)
	rng := newRand(1)

	_, err := g.SelectSecondSeed(rng, model.AnnotatedToken{Token: "want", Tag: "NN"})
	require.ErrorIs(t, err, ErrSeedNotFound)

	_, err = g.SelectSecondSeed(rng, model.AnnotatedToken{Token: "zebra", Tag: "NN"})
	require.ErrorIs(t, err, ErrSeedNotFound)

	// "mat" and "rug" are only ever followed by "."
	_, err = g.SelectSecondSeed(rng, model.AnnotatedToken{Token: "mat", Tag: "NN"})
	require.ErrorIs(t, err, ErrSeedNotFound)
}

func TestBuildSkeleton(t *testing.T) {
	g := newTestGenerator(t, chatCorpus)
	rng := newRand(3)

	for i := 0; i < 100; i++ {
		skeleton, err := g.BuildSkeleton(rng, "DT", "NN", 15)
		require.NoError(t, err)
		require.NotEmpty(t, skeleton)
		require.LessOrEqual(t, len(skeleton), 15)
		require.Equal(t, "DT", skeleton[0])

		for j, tag := range skeleton[:len(skeleton)-1] {
			require.False(t, model.IsTerminator(tag), "terminator before end at %d: %v", j, skeleton)
		}
		if len(skeleton) < 15 {
			require.True(t, model.IsTerminator(skeleton[len(skeleton)-1]), "short skeleton must end on a terminator: %v", skeleton)
		}
	}
}

func TestBuildSkeleton_StopsOnTerminator(t *testing.T) {
	g := newTestGenerator(t, chatCorpus)

	skeleton, err := g.BuildSkeleton(newRand(1), ".", "DT", 15)
	require.NoError(t, err)
	require.Equal(t, []model.Tag{"."}, skeleton)
}

func TestBuildSkeleton_MaxLength(t *testing.T) {
	g := newTestGenerator(t, chatCorpus)

	skeleton, err := g.BuildSkeleton(newRand(1), "DT", "NN", 1)
	require.NoError(t, err)
	require.Equal(t, []model.Tag{"DT"}, skeleton)

	_, err = g.BuildSkeleton(newRand(1), "DT", "NN", 0)
	require.ErrorIs(t, err, ErrInvalidSkeletonLength)
}

func TestBuildSkeleton_KeyMissing(t *testing.T) {
	g := newTestGenerator(t, chatCorpus)

	_, err := g.BuildSkeleton(newRand(1), "VB", "VBD", 15)
	require.ErrorIs(t, err, ErrSkeletonKeyMissing)
}

func TestGenerate_ZeroThresholdFirstAttempt(t *testing.T) {
	g := newTestGenerator(t, chatCorpus)
	opts := DefaultOptions()
	opts.Threshold = 0

	for seed := uint64(0); seed < 50; seed++ {
		sentence, err := g.Generate(context.Background(), newRand(seed), opts)
		require.NoError(t, err)
		require.Equal(t, 1, sentence.Attempts)
		require.Equal(t, "want", sentence.Tokens[0])
		require.GreaterOrEqual(t, len(sentence.Tokens), 2)
		require.GreaterOrEqual(t, sentence.Score, 0.0)
		require.LessOrEqual(t, sentence.Score, 1.0)
		require.NotEmpty(t, sentence.Skeleton)
		require.LessOrEqual(t, len(sentence.Tokens), len(sentence.Skeleton)+1)
	}
}

func TestGenerate_MeetsThreshold(t *testing.T) {
	// determiners and nouns strictly alternate, so every walk step can match its target tag
	g := newTestGenerator(t, "the cat a dog the mat a rug the cat the dog a cat the rug a mat the dog")
	opts := DefaultOptions()
	opts.Seed = model.AnnotatedToken{Token: "the", Tag: "DT"}
	opts.Threshold = 0.9

	for seed := uint64(0); seed < 20; seed++ {
		sentence, err := g.Generate(context.Background(), newRand(seed), opts)
		require.NoError(t, err)
		require.Equal(t, 1.0, sentence.Score)
		require.Len(t, sentence.Skeleton, model.DefaultSkeletonLength)
		require.Len(t, sentence.Tokens, model.DefaultSkeletonLength+1)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g1 := newTestGenerator(t, chatCorpus)
	g2 := newTestGenerator(t, chatCorpus)
	opts := DefaultOptions()
	opts.Threshold = 0

	for seed := uint64(0); seed < 10; seed++ {
		s1, err := g1.Generate(context.Background(), newRand(seed), opts)
		require.NoError(t, err)
		s2, err := g2.Generate(context.Background(), newRand(seed), opts)
		require.NoError(t, err)
		require.Equal(t, s1, s2)
	}
}

func TestGenerate_UnreachableThreshold(t *testing.T) {
	g := newTestGenerator(t, chatCorpus)
	opts := DefaultOptions()
	opts.Threshold = 1.5
	opts.MaxAttempts = 25

	_, err := g.Generate(context.Background(), newRand(9), opts)
	require.ErrorIs(t, err, ErrAttemptsExhausted)

	var exhausted *AttemptsExhaustedError
	require.True(t, errors.As(err, &exhausted))
	require.Equal(t, 25, exhausted.Attempts)
	require.LessOrEqual(t, exhausted.BestScore, 1.0)
}

func TestGenerate_SeedNotFoundIsNotRetried(t *testing.T) {
	g := newTestGenerator(t, chatCorpus)
	opts := DefaultOptions()
	opts.Seed = model.AnnotatedToken{Token: "zebra", Tag: "NN"}

	_, err := g.Generate(context.Background(), newRand(1), opts)
	require.ErrorIs(t, err, ErrSeedNotFound)
}

func TestGenerate_ShortSentenceOnIndexMiss(t *testing.T) {
	// "the mat" is only followed by ".", so the word index has no (the, mat) key
	g := newTestGenerator(t, "the mat . the mat . the mat")
	opts := DefaultOptions()
	opts.Seed = model.AnnotatedToken{Token: "the", Tag: "DT"}
	opts.Threshold = 0

	sentence, err := g.Generate(context.Background(), newRand(1), opts)
	require.NoError(t, err)
	require.Equal(t, []model.Token{"the", "mat"}, sentence.Tokens)
	require.Equal(t, 0.0, sentence.Score)
}

func TestGenerate_Cancelled(t *testing.T) {
	g := newTestGenerator(t, chatCorpus)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, newRand(1), DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
}
