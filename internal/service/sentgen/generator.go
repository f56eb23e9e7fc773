package sentgen

import (
	"context"
	"fmt"
	"math/rand/v2"

	model "sentgen/internal/model/sentgen"

	"go.uber.org/zap"
)

// Generator owns one annotated corpus and the tables derived from it.
// Generation only reads those tables, so a Generator may be shared between goroutines
// as long as every call brings its own random stream.
type Generator struct {
	corpus   model.Corpus
	index    *Index
	freqDist *FreqDist
	logger   *zap.Logger
}

// Options controls one call to Generate. A zero Seed, SkeletonLength or MaxAttempts
// selects the package default; Threshold is always used as given.
type Options struct {
	Seed           model.AnnotatedToken
	Threshold      float64
	SkeletonLength int
	MaxAttempts    int
}

// DefaultOptions returns the want/VB seed, a 0.4 threshold, 15-tag skeletons and a
// budget of 1000 attempts
func DefaultOptions() Options {
	return Options{
		Seed:           model.DefaultSeed,
		Threshold:      model.DefaultThreshold,
		SkeletonLength: model.DefaultSkeletonLength,
		MaxAttempts:    model.DefaultMaxAttempts,
	}
}

func (o Options) withDefaults() Options {
	if o.Seed == (model.AnnotatedToken{}) {
		o.Seed = model.DefaultSeed
	}
	if o.SkeletonLength == 0 {
		o.SkeletonLength = model.DefaultSkeletonLength
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = model.DefaultMaxAttempts
	}
	return o
}

// NewGenerator builds both trigram indices and the bigram frequency distribution.
// Corpora shorter than three tokens are rejected with ErrEmptyCorpus.
func NewGenerator(corpus model.Corpus, logger *zap.Logger) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	owned := make(model.Corpus, len(corpus))
	copy(owned, corpus)

	index, err := BuildIndex(owned)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		corpus:   owned,
		index:    index,
		freqDist: NewFreqDist(owned),
		logger:   logger,
	}

	stats := index.Stats()
	logger.Debug("Built trigram indices",
		zap.Int("tokens", stats.CorpusTokens),
		zap.Int("word_bigrams", stats.WordBigrams),
		zap.Int("tag_bigrams", stats.TagBigrams),
	)

	return g, nil
}

// Index returns the trigram tables of the generator
func (g *Generator) Index() *Index {
	return g.index
}

// FreqDist returns the bigram frequency distribution of the generator
func (g *Generator) FreqDist() *FreqDist {
	return g.freqDist
}

// CorpusSize returns the number of annotated tokens the generator was built from
func (g *Generator) CorpusSize() int {
	return len(g.corpus)
}

// SelectSecondSeed picks a token that followed seed1 in the corpus, ignoring punctuation.
// Every distinct follower is equally likely.
func (g *Generator) SelectSecondSeed(rng *rand.Rand, seed1 model.AnnotatedToken) (model.AnnotatedToken, error) {
	followers := g.freqDist.FollowersOf(seed1)

	bank := make([]model.AnnotatedToken, 0, len(followers))
	for _, f := range followers {
		if !model.IsPunctuation(f.Token) {
			bank = append(bank, f.AnnotatedToken)
		}
	}

	if len(bank) == 0 {
		return model.AnnotatedToken{}, fmt.Errorf("%w: %s", ErrSeedNotFound, seed1)
	}

	return bank[rng.IntN(len(bank))], nil
}

// BuildSkeleton random-walks the tag index starting from (tag1, tag2) and returns the
// target tag sequence. It stops after emitting a sentence terminator or maxLength tags.
func (g *Generator) BuildSkeleton(rng *rand.Rand, tag1, tag2 model.Tag, maxLength int) ([]model.Tag, error) {
	if maxLength < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSkeletonLength, maxLength)
	}

	skeleton := make([]model.Tag, 0, maxLength)
	for len(skeleton) < maxLength {
		skeleton = append(skeleton, tag1)

		if model.IsTerminator(tag1) {
			break
		}

		candidates, ok := g.index.TagCandidates(tag1, tag2)
		if !ok {
			return nil, fmt.Errorf("%w: (%s, %s)", ErrSkeletonKeyMissing, tag1, tag2)
		}

		tag1, tag2 = tag2, candidates[rng.IntN(len(candidates))]
	}

	g.logger.Debug("Built skeleton", zap.Strings("skeleton", skeleton))
	return skeleton, nil
}

// walk fills the skeleton with words and returns the tokens and the number of positions
// where a word with the target tag was available
func (g *Generator) walk(rng *rand.Rand, seed1, seed2 model.AnnotatedToken, skeleton []model.Tag) ([]model.Token, int) {
	tokens := make([]model.Token, 0, len(skeleton)+1)
	correct := 0
	prev1, prev2 := seed1, seed2

	for _, target := range skeleton {
		tokens = append(tokens, prev1.Token)

		candidates, ok := g.index.WordCandidates(prev1.Token, prev2.Token)
		if !ok {
			g.logger.Debug("No continuation for word bigram, ending sentence early",
				zap.String("first", prev1.Token),
				zap.String("second", prev2.Token),
			)
			break
		}

		var matching, other []model.AnnotatedToken
		for _, c := range candidates {
			if c.Tag == target {
				matching = append(matching, c)
			} else {
				other = append(other, c)
			}
		}

		var next model.AnnotatedToken
		if len(matching) > 0 {
			next = matching[rng.IntN(len(matching))]
			correct++
		} else {
			next = other[rng.IntN(len(other))]
		}

		g.logger.Debug("Word choice",
			zap.String("target", target),
			zap.Stringer("word", next),
		)
		prev1, prev2 = prev2, next
	}

	// the loop emits prev1 before looking ahead, so prev2 still has to be written out
	tokens = append(tokens, prev2.Token)
	return tokens, correct
}

// Generate produces one sentence whose skeleton match score reaches opts.Threshold.
// Each attempt draws a new second seed, a new skeleton and a new walk. Seed and
// skeleton errors end the call immediately. When opts.MaxAttempts attempts all fall
// below the threshold an *AttemptsExhaustedError is returned.
func (g *Generator) Generate(ctx context.Context, rng *rand.Rand, opts Options) (*model.Sentence, error) {
	opts = opts.withDefaults()

	bestScore := 0.0
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		seed2, err := g.SelectSecondSeed(rng, opts.Seed)
		if err != nil {
			return nil, err
		}
		g.logger.Debug("Seeds",
			zap.Stringer("seed1", opts.Seed),
			zap.Stringer("seed2", seed2),
		)

		skeleton, err := g.BuildSkeleton(rng, opts.Seed.Tag, seed2.Tag, opts.SkeletonLength)
		if err != nil {
			return nil, err
		}

		tokens, correct := g.walk(rng, opts.Seed, seed2, skeleton)
		score := float64(correct) / float64(len(skeleton))

		g.logger.Debug("Scored attempt",
			zap.Int("attempt", attempt),
			zap.Float64("score", score),
			zap.Strings("tokens", tokens),
		)

		if score >= opts.Threshold {
			return &model.Sentence{
				Tokens:   tokens,
				Skeleton: skeleton,
				Score:    score,
				Attempts: attempt,
			}, nil
		}

		if score > bestScore {
			bestScore = score
		}
	}

	return nil, &AttemptsExhaustedError{
		Attempts:  opts.MaxAttempts,
		Threshold: opts.Threshold,
		BestScore: bestScore,
	}
}
