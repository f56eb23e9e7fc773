package service

import (
	"strings"

	model "sentgen/internal/model/sentgen"

	"github.com/bits-and-blooms/bloom/v3"
)

// NoveltyFilter remembers every corpus sentence so generated sentences that merely
// repeat one can be flagged. Membership is approximate: a false positive marks a new
// sentence as copied, never the other way round.
type NoveltyFilter struct {
	filter    *bloom.BloomFilter
	sentences int
}

// NewNoveltyFilter splits the corpus at terminator tags and adds each sentence,
// terminator excluded, to a bloom filter with a 1% false positive rate
func NewNoveltyFilter(corpus model.Corpus) *NoveltyFilter {
	var sentences []string
	var current []string
	for _, at := range corpus {
		if model.IsTerminator(at.Tag) {
			if len(current) > 0 {
				sentences = append(sentences, sentenceKey(current))
			}
			current = current[:0]
			continue
		}
		current = append(current, at.Token)
	}
	if len(current) > 0 {
		sentences = append(sentences, sentenceKey(current))
	}

	expected := uint(len(sentences))
	if expected == 0 {
		expected = 1
	}
	filter := bloom.NewWithEstimates(expected, 0.01)
	for _, s := range sentences {
		filter.AddString(s)
	}

	return &NoveltyFilter{
		filter:    filter,
		sentences: len(sentences),
	}
}

// IsNovel reports whether tokens are not a verbatim corpus sentence
func (n *NoveltyFilter) IsNovel(tokens []string) bool {
	end := len(tokens)
	for end > 0 && model.IsPunctuation(tokens[end-1]) {
		end--
	}
	if end == 0 {
		return false
	}
	return !n.filter.TestString(sentenceKey(tokens[:end]))
}

// Sentences returns how many corpus sentences were added
func (n *NoveltyFilter) Sentences() int {
	return n.sentences
}

func sentenceKey(tokens []string) string {
	return strings.ToLower(strings.Join(tokens, " "))
}
