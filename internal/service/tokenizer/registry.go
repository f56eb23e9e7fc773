package tokenizer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	model "sentgen/internal/model/sentgen"
)

// Tokenizer splits raw text into word tokens
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]string, error)
}

// Tagger annotates tokens with part-of-speech tags. The result has the same length
// and order as the input.
type Tagger interface {
	Tag(ctx context.Context, tokens []string) (model.Corpus, error)
}

// WordLister supplies an already tokenized corpus
type WordLister interface {
	Words() ([]string, error)
}

// Pipeline couples the tokenizer and tagger used for one language
type Pipeline struct {
	Language  string
	Tokenizer Tokenizer
	Tagger    Tagger
}

// TokenizerRegistry manages tokenizer/tagger pipelines for different languages
type TokenizerRegistry struct {
	pipelines map[string]*Pipeline
	mu        sync.RWMutex
}

// NewTokenizerRegistry creates an empty registry
func NewTokenizerRegistry() *TokenizerRegistry {
	return &TokenizerRegistry{
		pipelines: make(map[string]*Pipeline),
	}
}

// NewDefaultRegistry creates a registry with the English prose pipeline registered
func NewDefaultRegistry() (*TokenizerRegistry, error) {
	proseTokenizer, err := NewProseTokenizer()
	if err != nil {
		return nil, fmt.Errorf("failed to create English tokenizer: %w", err)
	}

	registry := NewTokenizerRegistry()
	registry.Register("english", proseTokenizer, NewPerceptronTagger())
	return registry, nil
}

// Register adds a pipeline for a specific language
func (tr *TokenizerRegistry) Register(language string, tokenizer Tokenizer, tagger Tagger) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.pipelines[language] = &Pipeline{
		Language:  language,
		Tokenizer: tokenizer,
		Tagger:    tagger,
	}
}

// GetPipeline returns the pipeline for a given language
func (tr *TokenizerRegistry) GetPipeline(language string) (*Pipeline, error) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	pipeline, ok := tr.pipelines[language]
	if !ok {
		return nil, fmt.Errorf("no tokenizer registered for language: %s", language)
	}
	return pipeline, nil
}

// SupportedLanguages returns the registered languages in sorted order
func (tr *TokenizerRegistry) SupportedLanguages() []string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	languages := make([]string, 0, len(tr.pipelines))
	for lang := range tr.pipelines {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}

// TagText tokenizes and tags raw text in one step
func (p *Pipeline) TagText(ctx context.Context, text string) (model.Corpus, error) {
	tokens, err := p.Tokenizer.Tokenize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("tokenization failed: %w", err)
	}
	return p.TagWords(ctx, tokens)
}

// TagWords tags an already tokenized word list
func (p *Pipeline) TagWords(ctx context.Context, words []string) (model.Corpus, error) {
	corpus, err := p.Tagger.Tag(ctx, words)
	if err != nil {
		return nil, fmt.Errorf("tagging failed: %w", err)
	}
	if len(corpus) != len(words) {
		return nil, fmt.Errorf("tagger returned %d tokens for %d words", len(corpus), len(words))
	}
	return corpus, nil
}
