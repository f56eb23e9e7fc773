package sentgen

import (
	"fmt"

	model "sentgen/internal/model/sentgen"
)

// Index holds the word and tag trigram tables built from one corpus.
// It is read-only once BuildIndex returns.
type Index struct {
	words      map[model.WordBigram][]model.AnnotatedToken // word bigram -> following tokens
	tags       map[model.TagBigram][]model.Tag             // tag bigram -> following tags
	corpusSize int
}

// BuildIndex makes a single pass over every window of three consecutive tokens.
// Punctuation is kept out of the word candidates but not out of the tag candidates,
// so skeletons can still end on a terminator.
func BuildIndex(corpus model.Corpus) (*Index, error) {
	if len(corpus) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrEmptyCorpus, len(corpus))
	}

	idx := &Index{
		words:      make(map[model.WordBigram][]model.AnnotatedToken),
		tags:       make(map[model.TagBigram][]model.Tag),
		corpusSize: len(corpus),
	}

	for i := 0; i <= len(corpus)-3; i++ {
		w1, w2, w3 := corpus[i], corpus[i+1], corpus[i+2]

		if !model.IsPunctuation(w3.Token) {
			key := model.WordBigram{First: w1.Token, Second: w2.Token}
			idx.words[key] = append(idx.words[key], w3)
		}

		tagKey := model.TagBigram{First: w1.Tag, Second: w2.Tag}
		idx.tags[tagKey] = append(idx.tags[tagKey], w3.Tag)
	}

	return idx, nil
}

// WordCandidates returns the tokens observed after the word bigram (first, second).
// The returned slice must not be modified.
func (idx *Index) WordCandidates(first, second model.Token) ([]model.AnnotatedToken, bool) {
	candidates, ok := idx.words[model.WordBigram{First: first, Second: second}]
	return candidates, ok
}

// TagCandidates returns the tags observed after the tag bigram (first, second).
// The returned slice must not be modified.
func (idx *Index) TagCandidates(first, second model.Tag) ([]model.Tag, bool) {
	candidates, ok := idx.tags[model.TagBigram{First: first, Second: second}]
	return candidates, ok
}

// Stats returns size information about the index
func (idx *Index) Stats() IndexStats {
	stats := IndexStats{
		CorpusTokens: idx.corpusSize,
		WordBigrams:  len(idx.words),
		TagBigrams:   len(idx.tags),
	}
	for _, candidates := range idx.words {
		stats.WordCandidates += len(candidates)
	}
	for _, candidates := range idx.tags {
		stats.TagCandidates += len(candidates)
	}
	return stats
}

// IndexStats contains statistics about a trigram index
type IndexStats struct {
	CorpusTokens   int `json:"corpus_tokens"`
	WordBigrams    int `json:"word_bigrams"`
	WordCandidates int `json:"word_candidates"`
	TagBigrams     int `json:"tag_bigrams"`
	TagCandidates  int `json:"tag_candidates"`
}
