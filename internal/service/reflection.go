package service

import (
	"context"
	"fmt"
	"strings"

	model "sentgen/internal/model/sentgen"
	"sentgen/internal/service/tokenizer"

	"go.uber.org/zap"
)

// baseVerbTag is the Penn Treebank tag of a verb in base form
const baseVerbTag = "VB"

var reflections = map[string]string{
	"am":     "are",
	"was":    "were",
	"i":      "you",
	"i'd":    "you would",
	"i've":   "you have",
	"i'll":   "you will",
	"my":     "your",
	"are":    "am",
	"you've": "I have",
	"you'll": "I will",
	"your":   "my",
	"yours":  "mine",
	"you":    "I",
	"me":     "you",
}

// Reflection is the first-person/second-person swap of a sentence and its first base verb
type Reflection struct {
	Phrase string
	Verb   model.AnnotatedToken
}

// ReflectionService turns user sentences into the pieces a reply is built from
type ReflectionService struct {
	pipeline *tokenizer.Pipeline
	logger   *zap.Logger
}

// NewReflectionService creates a reflection service that tags with the given pipeline
func NewReflectionService(pipeline *tokenizer.Pipeline, logger *zap.Logger) *ReflectionService {
	return &ReflectionService{
		pipeline: pipeline,
		logger:   logger,
	}
}

// ReflectPhrase returns the reflection of the first word of the sentence that has one.
// Words are compared lowercased and split on whitespace only, so "I'm" or "me." do not match.
func ReflectPhrase(sentence string) (string, error) {
	for _, word := range strings.Fields(strings.ToLower(sentence)) {
		if phrase, ok := reflections[word]; ok {
			return phrase, nil
		}
	}
	return "", ErrNoReflection
}

// FirstBaseVerb tags the sentence and returns its first VB token
func (r *ReflectionService) FirstBaseVerb(ctx context.Context, sentence string) (model.AnnotatedToken, error) {
	tagged, err := r.pipeline.TagText(ctx, sentence)
	if err != nil {
		return model.AnnotatedToken{}, fmt.Errorf("failed to tag sentence: %w", err)
	}

	for _, at := range tagged {
		if at.Tag == baseVerbTag {
			return at, nil
		}
	}
	return model.AnnotatedToken{}, ErrNoBaseVerb
}

// Reflect returns both the reflected phrase and the first base verb. Either one
// missing is an error.
func (r *ReflectionService) Reflect(ctx context.Context, sentence string) (*Reflection, error) {
	phrase, err := ReflectPhrase(sentence)
	if err != nil {
		return nil, err
	}

	verb, err := r.FirstBaseVerb(ctx, sentence)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Reflected sentence",
		zap.String("phrase", phrase),
		zap.Stringer("verb", verb))

	return &Reflection{Phrase: phrase, Verb: verb}, nil
}
