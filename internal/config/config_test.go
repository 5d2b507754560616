package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverValkey, Addrs: []string{"localhost:6379"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"valkey without addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs"},
		{"redis without addrs", func(c *Config) {
			c.Database.Driver = DriverRedis
			c.Database.Addrs = nil
		}, "database.addrs"},
		{"memory without addrs", func(c *Config) {
			c.Database.Driver = DriverMemory
			c.Database.Addrs = nil
		}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, "database.driver"},
		{"negative ttl", func(c *Config) { c.Embedding.CacheTTLSec = -1 }, "cache_ttl_sec"},
		{"negative batch", func(c *Config) { c.Embedding.MaxBatchSize = -5 }, "max_batch_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("ReadTimeoutSec = %d, want 10", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("WriteTimeoutSec = %d, want 30", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != DriverValkey {
		t.Errorf("Driver = %q, want valkey", cfg.Database.Driver)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" || cfg.Embedding.Dimensions != 1536 {
		t.Errorf("embedding defaults = %q/%d", cfg.Embedding.Model, cfg.Embedding.Dimensions)
	}
	if cfg.Index.HNSWM != 16 || cfg.Index.HNSWEFConstruct != 200 {
		t.Errorf("index defaults = %d/%d", cfg.Index.HNSWM, cfg.Index.HNSWEFConstruct)
	}
	if cfg.Storage.KeyPrefix != "simplerag:" {
		t.Errorf("KeyPrefix = %q", cfg.Storage.KeyPrefix)
	}
	if !cfg.SeedEnabled() {
		t.Error("seeding must default to enabled")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	disabled := false
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 3},
		Database:  DatabaseConfig{Driver: DriverMemory},
		Embedding: EmbeddingConfig{Model: "nomic-embed-text", Dimensions: 768},
		Storage:   StorageConfig{KeyPrefix: "rag:"},
		Seed:      SeedConfig{Enabled: &disabled},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 3 {
		t.Errorf("ReadTimeoutSec overridden: %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Errorf("Driver overridden: %q", cfg.Database.Driver)
	}
	if cfg.Embedding.Model != "nomic-embed-text" || cfg.Embedding.Dimensions != 768 {
		t.Errorf("embedding overridden: %q/%d", cfg.Embedding.Model, cfg.Embedding.Dimensions)
	}
	if cfg.Storage.KeyPrefix != "rag:" {
		t.Errorf("KeyPrefix overridden: %q", cfg.Storage.KeyPrefix)
	}
	if cfg.SeedEnabled() {
		t.Error("explicit seed.enabled=false must stick")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SIMPLERAG_TEST_KEY", "sk-123")

	tests := []struct {
		in   string
		want string
	}{
		{"key: ${SIMPLERAG_TEST_KEY}", "key: sk-123"},
		{"key: ${SIMPLERAG_TEST_KEY:-fallback}", "key: sk-123"},
		{"key: ${SIMPLERAG_TEST_UNSET:-fallback}", "key: fallback"},
		{"key: ${SIMPLERAG_TEST_UNSET}", "key: "},
		{"url: ${SIMPLERAG_TEST_UNSET:-http://localhost:11434/v1}", "url: http://localhost:11434/v1"},
	}
	for _, tt := range tests {
		if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("SIMPLERAG_TEST_PORT", "9090")

	path := filepath.Join(t.TempDir(), "test.yaml")
	yaml := `
http:
  port: ${SIMPLERAG_TEST_PORT:-8080}
database:
  driver: memory
embedding:
  api_key: ${SIMPLERAG_TEST_OPENAI_KEY:-none}
  dimensions: 4
seed:
  enabled: false
auth:
  api_keys: ["a", "b"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Embedding.APIKey != "none" || cfg.Embedding.Dimensions != 4 {
		t.Errorf("embedding = %+v", cfg.Embedding)
	}
	if cfg.SeedEnabled() {
		t.Error("seed.enabled=false not honored")
	}
	if len(cfg.Auth.APIKeys) != 2 {
		t.Errorf("APIKeys = %v", cfg.Auth.APIKeys)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(bad, []byte("http: [unclosed"), 0o600)
	if _, err := LoadFile(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	_ = os.WriteFile(invalid, []byte("http:\n  port: 8080\ndatabase:\n  driver: valkey\n"), 0o600)
	if _, err := LoadFile(invalid); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoad_RepositoryConfigs(t *testing.T) {
	for _, env := range []string{"local", "docker", "prod"} {
		t.Run(env, func(t *testing.T) {
			if _, err := Load(env); err != nil {
				t.Fatalf("Load(%q): %v", env, err)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("GetEnv() = %q, want local", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("GetEnv() = %q, want prod", GetEnv())
	}
}
