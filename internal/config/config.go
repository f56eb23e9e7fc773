package config

import (
	"fmt"
	"os"
	"path/filepath"

	model "sentgen/internal/model/sentgen"

	"gopkg.in/yaml.v2"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Generator GeneratorConfig `yaml:"generator"`
	Mcp       McpConfig       `yaml:"mcp"`
	Cors      CorsConfig      `yaml:"cors"`
	Source    SourceConfig    `yaml:"source"`
}

type AppConfig struct {
	Port     int      `yaml:"port"`
	WorkDir  string   `yaml:"workdir"`
	LogLevel string   `yaml:"log_level"`
	LogPaths []string `yaml:"log_paths"`
	// Override forces corpora to be re-tagged even when a snapshot exists
	Override bool `yaml:"override"`
}

type GeneratorConfig struct {
	Threshold      float64 `yaml:"threshold"`
	SkeletonLength int     `yaml:"skeleton_length"`
	MaxAttempts    int     `yaml:"max_attempts"`
	SeedWord       string  `yaml:"seed_word"`
	SeedTag        string  `yaml:"seed_tag"`
	// RandomSeed makes generation reproducible when non-zero
	RandomSeed uint64 `yaml:"random_seed"`
	// Smoothing selects the fluency model smoother, "addk" or "wittenbell"
	Smoothing  string  `yaml:"smoothing"`
	SmoothingK float64 `yaml:"smoothing_k"`
}

type McpConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type CorsConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type SourceConfig struct {
	Corpora []Corpus `yaml:"corpora"`
}

// Corpus describes one reference text the generator can imitate
type Corpus struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Format   string `yaml:"format"`   // "text" (default) or "words"
	Language string `yaml:"language"` // tokenizer registry key, "english" by default
}

const (
	FormatText  = "text"
	FormatWords = "words"
)

// GetAddress returns the listen address of the MCP server
func (m McpConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// Seed returns the configured default seed as an annotated token
func (g GeneratorConfig) Seed() model.AnnotatedToken {
	return model.AnnotatedToken{Token: g.SeedWord, Tag: g.SeedTag}
}

// LoadConfig reads the app and source YAML files and fills in defaults
func LoadConfig(appConfigPath, sourceConfigPath string) (*Config, error) {
	config := &Config{}

	if err := loadYAML(appConfigPath, config); err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	var source SourceConfig
	if err := loadYAML(sourceConfigPath, &source); err != nil {
		return nil, fmt.Errorf("failed to load source config: %w", err)
	}
	config.Source.Corpora = append(config.Source.Corpora, source.Corpora...)

	config.applyDefaults(filepath.Dir(sourceConfigPath))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

func (c *Config) applyDefaults(sourceDir string) {
	if c.App.Port == 0 {
		c.App.Port = 8080
	}
	if c.App.WorkDir == "" {
		c.App.WorkDir = "./corpus_cache"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if len(c.App.LogPaths) == 0 {
		c.App.LogPaths = []string{"stdout"}
	}

	if c.Generator.Threshold == 0 {
		c.Generator.Threshold = model.DefaultThreshold
	}
	if c.Generator.SkeletonLength == 0 {
		c.Generator.SkeletonLength = model.DefaultSkeletonLength
	}
	if c.Generator.MaxAttempts == 0 {
		c.Generator.MaxAttempts = model.DefaultMaxAttempts
	}
	if c.Generator.Smoothing == "" {
		c.Generator.Smoothing = "addk"
	}
	if c.Generator.SmoothingK == 0 {
		c.Generator.SmoothingK = 1.0
	}
	if c.Generator.SeedWord == "" && c.Generator.SeedTag == "" {
		c.Generator.SeedWord = model.DefaultSeed.Token
		c.Generator.SeedTag = model.DefaultSeed.Tag
	}

	if c.Mcp.Host == "" {
		c.Mcp.Host = "localhost"
	}
	if c.Mcp.Port == 0 {
		c.Mcp.Port = 8081
	}

	for i := range c.Source.Corpora {
		corpus := &c.Source.Corpora[i]
		if corpus.Format == "" {
			corpus.Format = FormatText
		}
		if corpus.Language == "" {
			corpus.Language = "english"
		}
		if corpus.Path != "" && !filepath.IsAbs(corpus.Path) && sourceDir != "" {
			corpus.Path = filepath.Join(sourceDir, corpus.Path)
		}
	}
}

// Validate checks values that have no sensible default
func (c *Config) Validate() error {
	if c.Generator.SkeletonLength < 1 {
		return fmt.Errorf("generator.skeleton_length must be at least 1, got %d", c.Generator.SkeletonLength)
	}
	if c.Generator.MaxAttempts < 1 {
		return fmt.Errorf("generator.max_attempts must be at least 1, got %d", c.Generator.MaxAttempts)
	}
	if c.Generator.Threshold < 0 {
		return fmt.Errorf("generator.threshold must not be negative, got %f", c.Generator.Threshold)
	}
	if (c.Generator.SeedWord == "") != (c.Generator.SeedTag == "") {
		return fmt.Errorf("generator.seed_word and generator.seed_tag must be set together, got %q/%q",
			c.Generator.SeedWord, c.Generator.SeedTag)
	}

	seen := make(map[string]bool)
	for _, corpus := range c.Source.Corpora {
		if corpus.Name == "" {
			return fmt.Errorf("corpus with path %q has no name", corpus.Path)
		}
		if seen[corpus.Name] {
			return fmt.Errorf("duplicate corpus name: %s", corpus.Name)
		}
		seen[corpus.Name] = true

		if corpus.Format != FormatText && corpus.Format != FormatWords {
			return fmt.Errorf("corpus %s: unknown format %q", corpus.Name, corpus.Format)
		}
	}
	return nil
}

// GetCorpus returns the corpus configuration with the given name
func (c *Config) GetCorpus(name string) (*Corpus, error) {
	for i := range c.Source.Corpora {
		if c.Source.Corpora[i].Name == name {
			return &c.Source.Corpora[i], nil
		}
	}
	return nil, fmt.Errorf("corpus not found: %s", name)
}
