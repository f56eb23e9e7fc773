package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sentgen/internal/config"
	model "sentgen/internal/model/sentgen"
	"sentgen/internal/service/tokenizer"

	"go.uber.org/zap"
)

// CorpusSource is either raw text or a pre-tokenized word list. Both are tagged the
// same way, so they produce the same annotated corpus for the same words.
type CorpusSource interface {
	Describe() string
}

// TextSource is raw text that still has to be tokenized
type TextSource struct {
	Text string
	Path string
}

func (s TextSource) Describe() string {
	if s.Path != "" {
		return "text:" + s.Path
	}
	return "text"
}

// WordsSource is a corpus that already exposes its tokens
type WordsSource struct {
	Lister tokenizer.WordLister
	Path   string
}

func (s WordsSource) Describe() string {
	if s.Path != "" {
		return "words:" + s.Path
	}
	return "words"
}

// SourceFromConfig opens the corpus described in the source configuration.
// Text corpora may point at a single file or a directory of .txt files.
func SourceFromConfig(c *config.Corpus) (CorpusSource, error) {
	switch c.Format {
	case config.FormatWords:
		return WordsSource{Lister: tokenizer.WordFile{Path: c.Path}, Path: c.Path}, nil
	case config.FormatText, "":
		text, err := readText(c.Path)
		if err != nil {
			return nil, err
		}
		return TextSource{Text: text, Path: c.Path}, nil
	default:
		return nil, fmt.Errorf("unknown corpus format: %s", c.Format)
	}
}

// readText reads a file, or every .txt file below a directory in lexical order
func readText(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat corpus path: %w", err)
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read corpus file: %w", err)
		}
		return string(data), nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".txt") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk corpus directory: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no .txt files found in %s", path)
	}
	sort.Strings(files)

	var b strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("failed to read corpus file %s: %w", f, err)
		}
		b.Write(data)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// CorpusLoader turns corpus sources into annotated corpora
type CorpusLoader struct {
	registry *tokenizer.TokenizerRegistry
	logger   *zap.Logger
}

// NewCorpusLoader creates a loader backed by the given tokenizer registry
func NewCorpusLoader(registry *tokenizer.TokenizerRegistry, logger *zap.Logger) *CorpusLoader {
	return &CorpusLoader{
		registry: registry,
		logger:   logger,
	}
}

// Registry returns the tokenizer registry used by the loader
func (l *CorpusLoader) Registry() *tokenizer.TokenizerRegistry {
	return l.registry
}

// Load tokenizes (for text sources) and tags the source with the language's pipeline
func (l *CorpusLoader) Load(ctx context.Context, language string, source CorpusSource) (model.Corpus, error) {
	pipeline, err := l.registry.GetPipeline(language)
	if err != nil {
		return nil, err
	}

	var corpus model.Corpus
	switch src := source.(type) {
	case TextSource:
		corpus, err = pipeline.TagText(ctx, src.Text)
	case WordsSource:
		var words []string
		words, err = src.Lister.Words()
		if err != nil {
			return nil, fmt.Errorf("failed to list words: %w", err)
		}
		corpus, err = pipeline.TagWords(ctx, words)
	default:
		return nil, fmt.Errorf("unsupported corpus source: %T", source)
	}
	if err != nil {
		return nil, err
	}

	l.logger.Info("Tagged corpus",
		zap.String("source", source.Describe()),
		zap.String("language", language),
		zap.Int("tokens", len(corpus)),
	)
	return corpus, nil
}
