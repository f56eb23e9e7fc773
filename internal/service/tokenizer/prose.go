package tokenizer

import (
	"context"

	model "sentgen/internal/model/sentgen"

	"github.com/jdkato/prose/tag"
	"github.com/jdkato/prose/tokenize"
)

// ProseTokenizer splits English text into sentences and then each sentence into
// Penn Treebank word tokens. The treebank rules only split a sentence-final period,
// so sentence splitting has to come first.
type ProseTokenizer struct {
	sentences *SentenceSplitter
	words     *tokenize.TreebankWordTokenizer
}

// NewProseTokenizer creates a punkt + treebank tokenizer
func NewProseTokenizer() (*ProseTokenizer, error) {
	splitter, err := NewSentenceSplitter()
	if err != nil {
		return nil, err
	}

	return &ProseTokenizer{
		sentences: splitter,
		words:     tokenize.NewTreebankWordTokenizer(),
	}, nil
}

func (t *ProseTokenizer) Tokenize(ctx context.Context, text string) ([]string, error) {
	var tokens []string
	for _, sentence := range t.sentences.Split(text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tokens = append(tokens, t.words.Tokenize(sentence)...)
	}
	return tokens, nil
}

// PerceptronTagger assigns Penn Treebank tags with prose's averaged perceptron model
type PerceptronTagger struct {
	tagger *tag.PerceptronTagger
}

// NewPerceptronTagger loads the bundled English perceptron model
func NewPerceptronTagger() *PerceptronTagger {
	return &PerceptronTagger{
		tagger: tag.NewPerceptronTagger(),
	}
}

func (t *PerceptronTagger) Tag(ctx context.Context, tokens []string) (model.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tagged := t.tagger.Tag(tokens)
	corpus := make(model.Corpus, len(tagged))
	for i, tok := range tagged {
		corpus[i] = model.AnnotatedToken{Token: tok.Text, Tag: tok.Tag}
	}
	return corpus, nil
}
