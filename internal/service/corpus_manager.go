package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sentgen/internal/config"
	model "sentgen/internal/model/sentgen"
	"sentgen/internal/service/sentgen"

	"go.uber.org/zap"
)

// CorpusEntry is one loaded corpus together with everything derived from it
type CorpusEntry struct {
	Name         string
	Language     string
	Source       string
	LoadedAt     time.Time
	FromSnapshot bool
	Generator    *sentgen.Generator
	Novelty      *NoveltyFilter
	Fluency      *FluencyModel
	vocabulary   int
	tags         int
}

// CorpusStats summarizes a loaded corpus
type CorpusStats struct {
	Name         string             `json:"name"`
	Language     string             `json:"language"`
	Source       string             `json:"source"`
	LoadedAt     time.Time          `json:"loaded_at"`
	FromSnapshot bool               `json:"from_snapshot"`
	Vocabulary   int                `json:"vocabulary"`
	Tags         int                `json:"tags"`
	Sentences    int                `json:"sentences"`
	Conditions   int                `json:"conditions"`
	Index        sentgen.IndexStats `json:"index"`
	Fluency      FluencyStats       `json:"fluency"`
}

// Stats returns the summary of the entry
func (e *CorpusEntry) Stats() CorpusStats {
	return CorpusStats{
		Name:         e.Name,
		Language:     e.Language,
		Source:       e.Source,
		LoadedAt:     e.LoadedAt,
		FromSnapshot: e.FromSnapshot,
		Vocabulary:   e.vocabulary,
		Tags:         e.tags,
		Sentences:    e.Novelty.Sentences(),
		Conditions:   e.Generator.FreqDist().Conditions(),
		Index:        e.Generator.Index().Stats(),
		Fluency:      e.Fluency.Stats(),
	}
}

// CorpusManager keeps the named corpora the service can generate from.
// Entries are replaced as a whole on reload, so readers never see a half-built corpus.
type CorpusManager struct {
	corpora     map[string]*CorpusEntry
	loader      *CorpusLoader
	persistence *CorpusPersistence
	smoother    Smoother
	logger      *zap.Logger
	mu          sync.RWMutex // Protects corpora map
}

// NewCorpusManager creates a corpus manager. persistence may be nil, in which case
// corpora are always tagged from source. A nil smoother selects add-one smoothing.
func NewCorpusManager(loader *CorpusLoader, persistence *CorpusPersistence, smoother Smoother, logger *zap.Logger) *CorpusManager {
	if smoother == nil {
		smoother = NewAddKSmoother(1.0)
	}
	return &CorpusManager{
		corpora:     make(map[string]*CorpusEntry),
		loader:      loader,
		persistence: persistence,
		smoother:    smoother,
		logger:      logger,
	}
}

// LoadCorpus loads a configured corpus. A saved snapshot is used unless override is set
// or the snapshot cannot be read; freshly tagged corpora are saved for next time.
func (cm *CorpusManager) LoadCorpus(ctx context.Context, c *config.Corpus, override bool) (*CorpusEntry, error) {
	start := time.Now()

	if !override && cm.persistence != nil && cm.persistence.Exists(c.Name) {
		snapshot, err := cm.persistence.Load(c.Name)
		if err == nil {
			entry, err := cm.install(c.Name, snapshot.Language, snapshot.Source, snapshot.Tokens, true)
			if err != nil {
				return nil, err
			}
			cm.logger.Info("Corpus restored from snapshot",
				zap.String("corpus", c.Name),
				zap.Duration("duration", time.Since(start)))
			return entry, nil
		}
		cm.logger.Warn("Failed to load corpus snapshot, re-tagging from source",
			zap.String("corpus", c.Name),
			zap.Error(err))
	}

	source, err := SourceFromConfig(c)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", c.Name, err)
	}

	corpus, err := cm.loader.Load(ctx, c.Language, source)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", c.Name, err)
	}

	entry, err := cm.install(c.Name, c.Language, source.Describe(), corpus, false)
	if err != nil {
		return nil, err
	}

	if cm.persistence != nil {
		if err := cm.persistence.Save(c.Name, c.Language, source.Describe(), corpus); err != nil {
			cm.logger.Warn("Failed to save corpus snapshot",
				zap.String("corpus", c.Name),
				zap.Error(err))
		}
	}

	cm.logger.Info("Corpus loaded from source",
		zap.String("corpus", c.Name),
		zap.Duration("duration", time.Since(start)))
	return entry, nil
}

// AddCorpus installs an already annotated corpus under the given name
func (cm *CorpusManager) AddCorpus(name, language string, corpus model.Corpus) (*CorpusEntry, error) {
	return cm.install(name, language, "memory", corpus, false)
}

func (cm *CorpusManager) install(name, language, source string, corpus model.Corpus, fromSnapshot bool) (*CorpusEntry, error) {
	generator, err := sentgen.NewGenerator(corpus, cm.logger.With(zap.String("corpus", name)))
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", name, err)
	}

	vocabulary := make(map[model.Token]struct{})
	tags := make(map[model.Tag]struct{})
	for _, at := range corpus {
		vocabulary[at.Token] = struct{}{}
		tags[at.Tag] = struct{}{}
	}

	entry := &CorpusEntry{
		Name:         name,
		Language:     language,
		Source:       source,
		LoadedAt:     time.Now(),
		FromSnapshot: fromSnapshot,
		Generator:    generator,
		Novelty:      NewNoveltyFilter(corpus),
		Fluency:      NewFluencyModel(corpus, fluencyOrder, cm.smoother),
		vocabulary:   len(vocabulary),
		tags:         len(tags),
	}

	cm.mu.Lock()
	cm.corpora[name] = entry
	cm.mu.Unlock()

	cm.logger.Info("Installed corpus",
		zap.String("corpus", name),
		zap.Int("tokens", len(corpus)),
		zap.Int("vocabulary", entry.vocabulary),
		zap.Int("tags", entry.tags),
		zap.Bool("from_snapshot", fromSnapshot),
	)
	return entry, nil
}

// Get returns the named corpus
func (cm *CorpusManager) Get(name string) (*CorpusEntry, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	entry, ok := cm.corpora[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCorpusNotFound, name)
	}
	return entry, nil
}

// List returns the names of all loaded corpora in sorted order
func (cm *CorpusManager) List() []string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	names := make([]string, 0, len(cm.corpora))
	for name := range cm.corpora {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetStats returns the stats of the named corpus
func (cm *CorpusManager) GetStats(name string) (CorpusStats, error) {
	entry, err := cm.Get(name)
	if err != nil {
		return CorpusStats{}, err
	}
	return entry.Stats(), nil
}

// Remove unloads a corpus and deletes its snapshot
func (cm *CorpusManager) Remove(name string) error {
	cm.mu.Lock()
	_, ok := cm.corpora[name]
	delete(cm.corpora, name)
	cm.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrCorpusNotFound, name)
	}
	if cm.persistence != nil {
		return cm.persistence.Delete(name)
	}
	return nil
}
