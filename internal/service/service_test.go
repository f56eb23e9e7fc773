package service

import (
	"context"
	"strings"

	"sentgen/internal/config"
	model "sentgen/internal/model/sentgen"
	"sentgen/internal/service/tokenizer"

	"go.uber.org/zap"
)

var testLexicon = map[string]string{
	"the": "DT", "a": "DT",
	"cat": "NN", "mat": "NN", "dog": "NN", "rug": "NN",
	"sat": "VBD", "ran": "VBD", "slept": "VBD",
	"on": "IN", "under": "IN",
	"want": "VB", "see": "VB", "eat": "VB",
	"i": "PRP", "you": "PRP", "to": "TO",
	".": ".", "!": ".", "?": ".", ",": ",",
}

// lexiconTagger tags from the fixed test lexicon, case-insensitively. Unknown words are NN.
type lexiconTagger struct{}

func (lexiconTagger) Tag(ctx context.Context, tokens []string) (model.Corpus, error) {
	corpus := make(model.Corpus, len(tokens))
	for i, tok := range tokens {
		tag, ok := testLexicon[strings.ToLower(tok)]
		if !ok {
			tag = "NN"
		}
		corpus[i] = model.AnnotatedToken{Token: tok, Tag: tag}
	}
	return corpus, nil
}

type fieldsTokenizer struct{}

func (fieldsTokenizer) Tokenize(ctx context.Context, text string) ([]string, error) {
	return strings.Fields(text), nil
}

const testLanguage = "test"

// chatCorpus ends on a tag bigram that also occurs earlier, so every tag pair a
// skeleton walk can reach has a successor
const chatCorpus = "i want to see the cat . the cat sat on the mat . i want the dog . " +
	"the dog slept under the rug . the cat ran . i want to see a dog . the cat"

func newTestRegistry() *tokenizer.TokenizerRegistry {
	registry := tokenizer.NewTokenizerRegistry()
	registry.Register(testLanguage, fieldsTokenizer{}, lexiconTagger{})
	return registry
}

func newTestPipeline() *tokenizer.Pipeline {
	pipeline, err := newTestRegistry().GetPipeline(testLanguage)
	if err != nil {
		panic(err)
	}
	return pipeline
}

func annotate(text string) model.Corpus {
	corpus, _ := lexiconTagger{}.Tag(context.Background(), strings.Fields(text))
	return corpus
}

func testGeneratorConfig() config.GeneratorConfig {
	return config.GeneratorConfig{
		Threshold:      0,
		SkeletonLength: model.DefaultSkeletonLength,
		MaxAttempts:    model.DefaultMaxAttempts,
		SeedWord:       model.DefaultSeed.Token,
		SeedTag:        model.DefaultSeed.Tag,
	}
}

func newTestManager(persistence *CorpusPersistence) *CorpusManager {
	loader := NewCorpusLoader(newTestRegistry(), zap.NewNop())
	return NewCorpusManager(loader, persistence, nil, zap.NewNop())
}
