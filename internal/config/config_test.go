package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Judge.Provider != "gemini" {
		t.Errorf("Provider = %q, want gemini", cfg.Judge.Provider)
	}
	if cfg.Judge.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want 60", cfg.Judge.TimeoutSeconds)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[judge]
provider = "openai"
openai_api_key = "sk-test"
timeout_seconds = 30

[admin]
secret_hash = "$2a$10$abcdefghijklmnopqrstuv"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Judge.Provider != "openai" {
		t.Errorf("Provider = %q", cfg.Judge.Provider)
	}
	if cfg.Judge.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q", cfg.Judge.OpenAIAPIKey)
	}
	if cfg.Judge.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d", cfg.Judge.TimeoutSeconds)
	}
	if cfg.Admin.SecretHash == "" {
		t.Error("SecretHash not loaded")
	}
	// Unset sections keep defaults.
	if cfg.Judge.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("GeminiModel = %q", cfg.Judge.GeminiModel)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[judge]\nprovider = \"gemini\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("ETASMIK_JUDGE_PROVIDER", "mock")
	t.Setenv("ETASMIK_GEMINI_API_KEY", "key-from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Judge.Provider != "mock" {
		t.Errorf("Provider = %q, want env override", cfg.Judge.Provider)
	}
	if cfg.Judge.GeminiAPIKey != "key-from-env" {
		t.Errorf("GeminiAPIKey = %q", cfg.Judge.GeminiAPIKey)
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etasmik", "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Error("second WriteSample should refuse to overwrite")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if cfg.Judge.Provider != "gemini" {
		t.Errorf("sample provider = %q", cfg.Judge.Provider)
	}
}
