package service

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	model "sentgen/internal/model/sentgen"

	"go.uber.org/zap"
)

const snapshotVersion = "1.0"

// CorpusSnapshot is the on-disk form of a tagged corpus. Tagging is the slow step of
// loading, so only its output is stored; indices are rebuilt from it.
type CorpusSnapshot struct {
	Version    string       // Format version
	Name       string       // Corpus name
	Language   string       // Pipeline that tagged it
	Source     string       // Source description
	CreatedAt  time.Time    // When the snapshot was written
	TokenCount int          // Number of annotated tokens
	Tokens     model.Corpus // Annotated tokens in corpus order
}

// CorpusPersistence handles saving and loading tagged corpora
type CorpusPersistence struct {
	outputDir string
	logger    *zap.Logger
}

// NewCorpusPersistence creates a new persistence manager
func NewCorpusPersistence(outputDir string, logger *zap.Logger) (*CorpusPersistence, error) {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &CorpusPersistence{
		outputDir: outputDir,
		logger:    logger,
	}, nil
}

// GetSnapshotPath returns the file path for a corpus snapshot
func (p *CorpusPersistence) GetSnapshotPath(name string) string {
	return filepath.Join(p.outputDir, fmt.Sprintf("%s_corpus.gob", name))
}

// Save writes the tagged corpus to disk
func (p *CorpusPersistence) Save(name, language, source string, corpus model.Corpus) error {
	snapshot := &CorpusSnapshot{
		Version:    snapshotVersion,
		Name:       name,
		Language:   language,
		Source:     source,
		CreatedAt:  time.Now(),
		TokenCount: len(corpus),
		Tokens:     corpus,
	}

	path := p.GetSnapshotPath(name)
	if err := p.saveToFile(snapshot, path); err != nil {
		return fmt.Errorf("failed to save to file: %w", err)
	}

	p.logger.Info("Saved corpus snapshot",
		zap.String("corpus", name),
		zap.String("path", path),
		zap.Int("tokens", snapshot.TokenCount))

	return nil
}

// Load reads a corpus snapshot from disk
func (p *CorpusPersistence) Load(name string) (*CorpusSnapshot, error) {
	path := p.GetSnapshotPath(name)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no saved snapshot found for corpus: %s", name)
	}

	snapshot, err := p.loadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load from file: %w", err)
	}

	if snapshot.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %q for corpus %s", snapshot.Version, name)
	}
	if snapshot.TokenCount != len(snapshot.Tokens) {
		return nil, fmt.Errorf("corrupt snapshot for corpus %s: expected %d tokens, found %d",
			name, snapshot.TokenCount, len(snapshot.Tokens))
	}

	p.logger.Info("Loaded corpus snapshot",
		zap.String("corpus", name),
		zap.String("path", path),
		zap.Int("tokens", snapshot.TokenCount),
		zap.Time("created_at", snapshot.CreatedAt))

	return snapshot, nil
}

// Exists checks if a snapshot exists for a corpus
func (p *CorpusPersistence) Exists(name string) bool {
	_, err := os.Stat(p.GetSnapshotPath(name))
	return err == nil
}

// Delete removes the snapshot of a corpus
func (p *CorpusPersistence) Delete(name string) error {
	if err := os.Remove(p.GetSnapshotPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	p.logger.Info("Deleted corpus snapshot", zap.String("corpus", name))
	return nil
}

// saveToFile saves a snapshot to a file using gob encoding
func (p *CorpusPersistence) saveToFile(snapshot *CorpusSnapshot, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(snapshot); err != nil {
		return err
	}

	return nil
}

// loadFromFile loads a snapshot from a file using gob decoding
func (p *CorpusPersistence) loadFromFile(path string) (*CorpusSnapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snapshot CorpusSnapshot
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}
