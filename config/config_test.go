package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dataset.Path != "data/netflix_content.csv" {
		t.Errorf("expected dataset path data/netflix_content.csv, got %s", cfg.Dataset.Path)
	}
	if cfg.Index.BatchSize != 500 {
		t.Errorf("expected BatchSize=500, got %d", cfg.Index.BatchSize)
	}
	if cfg.Index.Collection != "netflix_movies" {
		t.Errorf("expected collection netflix_movies, got %s", cfg.Index.Collection)
	}
	if cfg.Retrieve.SearchResults != 5 || cfg.Retrieve.RecommendResults != 10 {
		t.Errorf("unexpected result counts: %+v", cfg.Retrieve)
	}
	if cfg.LLM.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("expected GEMINI_API_KEY, got %s", cfg.LLM.APIKeyEnv)
	}
	if cfg.LLM.Timeout != 0 {
		t.Errorf("expected no default timeout, got %s", cfg.LLM.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "moodrec.yaml")

	content := `
index:
  backend: memory
  batch_size: 100
embedding:
  provider: hash
  cache_ttl: 30s
llm:
  timeout: 20s
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Index.Backend != "memory" {
		t.Errorf("expected backend memory, got %s", cfg.Index.Backend)
	}
	if cfg.Index.BatchSize != 100 {
		t.Errorf("expected BatchSize=100, got %d", cfg.Index.BatchSize)
	}
	if cfg.Embedding.CacheTTL != 30*time.Second {
		t.Errorf("expected CacheTTL=30s, got %s", cfg.Embedding.CacheTTL)
	}
	if cfg.LLM.Timeout != 20*time.Second {
		t.Errorf("expected Timeout=20s, got %s", cfg.LLM.Timeout)
	}
	// Unset fields keep defaults.
	if cfg.Index.Collection != "netflix_movies" {
		t.Errorf("expected default collection, got %s", cfg.Index.Collection)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "moodrec.yaml")
	if err := os.WriteFile(configPath, []byte("index: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".moodrec"), 0755); err != nil {
		t.Fatal(err)
	}
	content := `
retrieve:
  recommend_results: 15
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".moodrec", "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Retrieve.RecommendResults != 15 {
		t.Errorf("expected RecommendResults=15, got %d", cfg.Retrieve.RecommendResults)
	}
}

func TestLoadFromDir_NoConfig(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Index.BatchSize != 500 {
		t.Errorf("expected defaults, got BatchSize=%d", cfg.Index.BatchSize)
	}
}

func TestLoadDotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	if err := LoadDotEnv(tmpDir); err != nil {
		t.Fatalf("missing .env should not fail: %v", err)
	}

	const key = "MOODREC_TEST_DOTENV_KEY"
	t.Setenv(key, "")
	os.Unsetenv(key)
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(key+"=secret\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := LoadDotEnv(tmpDir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv(key); got != "secret" {
		t.Errorf("expected secret, got %q", got)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MOODREC_DATASET", "other.csv")
	t.Setenv("MOODREC_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Dataset.Path != "other.csv" {
		t.Errorf("expected other.csv, got %s", cfg.Dataset.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug, got %s", cfg.Logging.Level)
	}
}

func TestLLMConfig_APIKey(t *testing.T) {
	t.Setenv("MOODREC_TEST_KEY", " abc ")
	cfg := LLMConfig{APIKeyEnv: "MOODREC_TEST_KEY"}
	if got := cfg.APIKey(); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
	if got := (LLMConfig{}).APIKey(); got != "" {
		t.Errorf("expected empty key, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Index.Backend = "chroma" }},
		{"metric", func(c *Config) { c.Index.Metric = "dot" }},
		{"embedding", func(c *Config) { c.Embedding.Provider = "sbert" }},
		{"llm", func(c *Config) { c.LLM.Provider = "palm" }},
		{"batch", func(c *Config) { c.Index.BatchSize = 0 }},
		{"collection", func(c *Config) { c.Index.Collection = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
