package service

import (
	"math"
	"strings"

	"sentgen/internal/model/ngram"
	model "sentgen/internal/model/sentgen"
)

const fluencyOrder = 3

// FluencyModel is a lowercased word n-gram language model of a corpus. It scores how
// natural a generated sentence reads; lower perplexity means closer to the corpus.
// The model is immutable once built.
type FluencyModel struct {
	n             int              // N-gram size
	vocabulary    map[string]int64 // token -> frequency
	ngramCounts   map[string]int64 // k-gram string -> count, for k = 1..n
	contextCounts map[string]int64 // (k-1)-gram string -> count
	totalTokens   int64            // Total number of tokens
	smoother      Smoother         // Smoothing algorithm
}

// NewFluencyModel counts every 1..n-gram of the corpus
func NewFluencyModel(corpus model.Corpus, n int, smoother Smoother) *FluencyModel {
	if n < 1 {
		n = fluencyOrder
	}
	if smoother == nil {
		smoother = NewAddKSmoother(1.0) // Default to Laplace smoothing
	}

	m := &FluencyModel{
		n:             n,
		vocabulary:    make(map[string]int64),
		ngramCounts:   make(map[string]int64),
		contextCounts: make(map[string]int64),
		smoother:      smoother,
	}

	tokens := normalize(corpus.Tokens())
	for i, token := range tokens {
		m.vocabulary[token]++
		m.totalTokens++

		for k := 1; k <= n && i-k+1 >= 0; k++ {
			ng := ngram.NGram(tokens[i-k+1 : i+1])
			m.ngramCounts[ng.String()]++
			m.contextCounts[ng.Context().String()]++
		}
	}
	return m
}

func normalize(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}

// Probability calculates the probability of a token given its context. The backoff
// distribution is the add-one unigram distribution.
func (m *FluencyModel) Probability(token string, context []string) float64 {
	if len(context) > m.n-1 {
		context = context[len(context)-m.n+1:]
	}

	ng := make(ngram.NGram, 0, len(context)+1)
	ng = append(ng, context...)
	ng = append(ng, token)

	vocabularySize := len(m.vocabulary)
	backoffProb := float64(m.vocabulary[token]+1) / float64(m.totalTokens+int64(vocabularySize))

	return m.smoother.Smooth(m.ngramCounts[ng.String()], m.contextCounts[ng.Context().String()], backoffProb, vocabularySize)
}

// CrossEntropy calculates the cross-entropy of a token sequence in bits per token
func (m *FluencyModel) CrossEntropy(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0.0
	}
	tokens = normalize(tokens)

	totalLogProb := 0.0
	count := 0

	for i := 0; i < len(tokens); i++ {
		contextStart := 0
		if i >= m.n-1 {
			contextStart = i - m.n + 1
		}

		prob := m.Probability(tokens[i], tokens[contextStart:i])
		if prob > 0 {
			totalLogProb += math.Log2(prob)
			count++
		}
	}

	if count == 0 {
		return 0.0
	}

	return -totalLogProb / float64(count)
}

// Perplexity calculates the perplexity of a token sequence
func (m *FluencyModel) Perplexity(tokens []string) float64 {
	return math.Pow(2, m.CrossEntropy(tokens))
}

// Stats returns statistics about the model
func (m *FluencyModel) Stats() FluencyStats {
	return FluencyStats{
		N:              m.n,
		VocabularySize: len(m.vocabulary),
		NGramCount:     len(m.ngramCounts),
		TotalTokens:    m.totalTokens,
		SmootherName:   m.smoother.Name(),
	}
}

// FluencyStats contains statistics about a fluency model
type FluencyStats struct {
	N              int    `json:"n"`
	VocabularySize int    `json:"vocabulary_size"`
	NGramCount     int    `json:"ngram_count"`
	TotalTokens    int64  `json:"total_tokens"`
	SmootherName   string `json:"smoother_name"`
}
