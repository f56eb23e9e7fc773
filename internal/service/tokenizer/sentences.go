package tokenizer

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SentenceSplitter breaks raw text into sentences with the English punkt model
type SentenceSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSentenceSplitter loads the bundled English punkt training data
func NewSentenceSplitter() (*SentenceSplitter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load english sentence model: %w", err)
	}
	return &SentenceSplitter{tokenizer: tokenizer}, nil
}

// Split returns the trimmed, non-empty sentences of text
func (s *SentenceSplitter) Split(text string) []string {
	var result []string
	for _, sent := range s.tokenizer.Tokenize(text) {
		trimmed := strings.TrimSpace(sent.Text)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
