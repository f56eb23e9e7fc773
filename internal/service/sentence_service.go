package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"

	"sentgen/internal/config"
	"sentgen/internal/model"
	sentmodel "sentgen/internal/model/sentgen"
	"sentgen/internal/service/sentgen"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SentenceService serves generation, reflection and chat requests against the loaded corpora
type SentenceService struct {
	corpora   *CorpusManager
	reflector *ReflectionService
	defaults  config.GeneratorConfig
	logger    *zap.Logger

	// master hands out per-request streams when a fixed random seed is configured
	master *rand.Rand
	mu     sync.Mutex
}

// NewSentenceService creates a sentence service. A non-zero defaults.RandomSeed makes
// the sequence of requests reproducible.
func NewSentenceService(corpora *CorpusManager, reflector *ReflectionService, defaults config.GeneratorConfig, logger *zap.Logger) *SentenceService {
	s := &SentenceService{
		corpora:   corpora,
		reflector: reflector,
		defaults:  defaults,
		logger:    logger,
	}
	if defaults.RandomSeed != 0 {
		s.master = rand.New(rand.NewPCG(defaults.RandomSeed, defaults.RandomSeed))
	}
	return s
}

// Corpora returns the corpus manager behind the service
func (s *SentenceService) Corpora() *CorpusManager {
	return s.corpora
}

// newRand returns a private random stream for one request
func (s *SentenceService) newRand(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed))
	}
	if s.master != nil {
		s.mu.Lock()
		a, b := s.master.Uint64(), s.master.Uint64()
		s.mu.Unlock()
		return rand.New(rand.NewPCG(a, b))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (s *SentenceService) options(seed sentmodel.AnnotatedToken, threshold *float64, skeletonLength, maxAttempts int) sentgen.Options {
	opts := sentgen.Options{
		Seed:           seed,
		Threshold:      s.defaults.Threshold,
		SkeletonLength: s.defaults.SkeletonLength,
		MaxAttempts:    s.defaults.MaxAttempts,
	}
	if opts.Seed == (sentmodel.AnnotatedToken{}) {
		opts.Seed = s.defaults.Seed()
	}
	if threshold != nil {
		opts.Threshold = *threshold
	}
	if skeletonLength != 0 {
		opts.SkeletonLength = skeletonLength
	}
	// requests may lower the attempt budget but never raise it past the configured cap
	if maxAttempts > 0 && maxAttempts < opts.MaxAttempts {
		opts.MaxAttempts = maxAttempts
	}
	return opts
}

func (s *SentenceService) generate(ctx context.Context, entry *CorpusEntry, rng *rand.Rand, opts sentgen.Options) (*model.GenerateResponse, error) {
	sentence, err := entry.Generator.Generate(ctx, rng, opts)
	if err != nil {
		return nil, err
	}
	sentence.ID = uuid.NewString()

	resp := &model.GenerateResponse{
		ID:         sentence.ID,
		Corpus:     entry.Name,
		Seed:       opts.Seed,
		Text:       sentence.Text(),
		Tokens:     sentence.Tokens,
		Skeleton:   sentence.Skeleton,
		Score:      sentence.Score,
		Attempts:   sentence.Attempts,
		Novel:      entry.Novelty.IsNovel(sentence.Tokens),
		Perplexity: entry.Fluency.Perplexity(sentence.Tokens),
	}

	s.logger.Info("Generated sentence",
		zap.String("id", resp.ID),
		zap.String("corpus", entry.Name),
		zap.Stringer("seed", opts.Seed),
		zap.Float64("score", resp.Score),
		zap.Int("attempts", resp.Attempts),
		zap.Bool("novel", resp.Novel),
		zap.Float64("perplexity", resp.Perplexity),
	)
	return resp, nil
}

// Generate produces one sentence from the requested corpus
func (s *SentenceService) Generate(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResponse, error) {
	if (req.SeedWord == "") != (req.SeedTag == "") {
		return nil, ErrInvalidSeed
	}

	entry, err := s.corpora.Get(req.Corpus)
	if err != nil {
		return nil, err
	}

	seed := sentmodel.AnnotatedToken{Token: req.SeedWord, Tag: req.SeedTag}
	opts := s.options(seed, req.Threshold, req.SkeletonLength, req.MaxAttempts)
	return s.generate(ctx, entry, s.newRand(req.RandomSeed), opts)
}

// Reflect returns the reflected phrase and first base verb of a sentence
func (s *SentenceService) Reflect(ctx context.Context, req *model.ReflectRequest) (*model.ReflectResponse, error) {
	reflection, err := s.reflector.Reflect(ctx, req.Sentence)
	if err != nil {
		return nil, err
	}
	verb := reflection.Verb
	return &model.ReflectResponse{
		Reflection: reflection.Phrase,
		Verb:       &verb,
	}, nil
}

// Chat answers a message with a generated sentence seeded by the message's first base
// verb. The reply is prefixed with the reflected phrase when the message has one. When
// the verb is missing or unknown to the corpus the configured default seed is used.
func (s *SentenceService) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	entry, err := s.corpora.Get(req.Corpus)
	if err != nil {
		return nil, err
	}

	resp := &model.ChatResponse{}

	phrase, err := ReflectPhrase(req.Message)
	if err == nil {
		resp.Reflection = phrase
	}

	rng := s.newRand(req.RandomSeed)
	fallback := s.options(sentmodel.AnnotatedToken{}, req.Threshold, 0, 0)

	verb, err := s.reflector.FirstBaseVerb(ctx, req.Message)
	switch {
	case err == nil:
		seed := sentmodel.AnnotatedToken{Token: strings.ToLower(verb.Token), Tag: verb.Tag}
		resp.Sentence, err = s.generate(ctx, entry, rng, s.options(seed, req.Threshold, 0, 0))
		if errors.Is(err, sentgen.ErrSeedNotFound) {
			s.logger.Debug("Verb unknown to corpus, using default seed",
				zap.String("corpus", entry.Name),
				zap.Stringer("verb", seed))
			resp.FellBack = true
			resp.Sentence, err = s.generate(ctx, entry, rng, fallback)
		}
	case errors.Is(err, ErrNoBaseVerb):
		resp.FellBack = true
		resp.Sentence, err = s.generate(ctx, entry, rng, fallback)
	}
	if err != nil {
		return nil, err
	}

	resp.Reply = resp.Sentence.Text
	if resp.Reflection != "" {
		resp.Reply = resp.Reflection + " " + resp.Sentence.Text
	}
	return resp, nil
}
