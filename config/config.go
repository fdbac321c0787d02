package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for moodrec.
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset"`
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatasetConfig locates the catalog CSV.
type DatasetConfig struct {
	Path string `yaml:"path"` // file path or doublestar pattern
}

// IndexConfig holds similarity index configuration.
type IndexConfig struct {
	Backend    string `yaml:"backend"` // "bolt" or "memory"
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	BatchSize  int    `yaml:"batch_size"`
	Metric     string `yaml:"metric"` // "l2" or "cosine"
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string        `yaml:"provider"` // "openai", "ollama", "hash"
	Model     string        `yaml:"model"`
	BaseURL   string        `yaml:"base_url"`
	APIKeyEnv string        `yaml:"api_key_env"` // Environment variable for API key
	Dimension int           `yaml:"dimension"`
	Stemming  bool          `yaml:"stemming"` // hash provider only
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// LLMConfig holds generative model configuration.
type LLMConfig struct {
	Provider  string        `yaml:"provider"` // "gemini" or "openai"
	Model     string        `yaml:"model"`
	BaseURL   string        `yaml:"base_url"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"` // 0 = bounded only by the caller's context

	// Consecutive failures that open the circuit breaker, and how long it stays open.
	BreakerFailures uint32        `yaml:"breaker_failures"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown"`
}

// APIKey reads the credential from the configured environment variable.
func (c LLMConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(c.APIKeyEnv))
}

// RetrieveConfig holds result counts.
type RetrieveConfig struct {
	SearchResults    int `yaml:"search_results"`
	RecommendResults int `yaml:"recommend_results"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path: "data/netflix_content.csv",
		},
		Index: IndexConfig{
			Backend:    "bolt",
			Path:       "database/netflix_db",
			Collection: "netflix_movies",
			BatchSize:  500,
			Metric:     "l2",
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "all-minilm",
			BaseURL:   "http://localhost:11434/v1",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 384,
			CacheSize: 100,
			CacheTTL:  5 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:  "gemini",
			Model:     "gemini-2.0-flash",
			APIKeyEnv: "GEMINI_API_KEY",

			BreakerFailures: 3,
			BreakerCooldown: 30 * time.Second,
		},
		Retrieve: RetrieveConfig{
			SearchResults:    5,
			RecommendResults: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir looks for moodrec.yaml, then .moodrec/config.yaml, in dir.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "moodrec.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".moodrec", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// LoadDotEnv loads dir/.env into the process environment. Variables already
// set are not overridden and a missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides selected fields from MOODREC_* environment variables.
func (c *Config) ApplyEnv() {
	overrides := map[string]*string{
		"MOODREC_DATASET":            &c.Dataset.Path,
		"MOODREC_INDEX_PATH":         &c.Index.Path,
		"MOODREC_INDEX_BACKEND":      &c.Index.Backend,
		"MOODREC_EMBEDDING_PROVIDER": &c.Embedding.Provider,
		"MOODREC_EMBEDDING_MODEL":    &c.Embedding.Model,
		"MOODREC_LLM_MODEL":          &c.LLM.Model,
		"MOODREC_LOG_LEVEL":          &c.Logging.Level,
		"MOODREC_LOG_FORMAT":         &c.Logging.Format,
	}
	for env, field := range overrides {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*field = v
		}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Index.Backend {
	case "bolt", "memory":
	default:
		return fmt.Errorf("unsupported index backend: %s", c.Index.Backend)
	}
	switch c.Index.Metric {
	case "", "l2", "cosine":
	default:
		return fmt.Errorf("unsupported index metric: %s", c.Index.Metric)
	}
	switch c.Embedding.Provider {
	case "openai", "ollama", "hash":
	default:
		return fmt.Errorf("unsupported embedding provider: %s", c.Embedding.Provider)
	}
	switch c.LLM.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported llm provider: %s", c.LLM.Provider)
	}
	if c.Index.BatchSize <= 0 {
		return fmt.Errorf("index.batch_size must be positive, got %d", c.Index.BatchSize)
	}
	if c.Index.Collection == "" {
		return errors.New("index.collection must not be empty")
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
