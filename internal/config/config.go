// Package config loads the e-Tasmik configuration from a TOML file with
// environment variable overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Judge selects and configures the judging provider.
type Judge struct {
	Provider       string `toml:"provider"`
	GeminiAPIKey   string `toml:"gemini_api_key"`
	GeminiModel    string `toml:"gemini_model"`
	OpenAIAPIKey   string `toml:"openai_api_key"`
	OpenAIModel    string `toml:"openai_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Recorder configures the audio capture command.
type Recorder struct {
	Command  []string `toml:"command"`
	MimeType string   `toml:"mime_type"`
}

// Storage configures the SQLite database location.
type Storage struct {
	DBPath string `toml:"db_path"`
}

// Admin configures operator access to the directory view.
type Admin struct {
	SecretHash string `toml:"secret_hash"`
}

// Logging configures the log file.
type Logging struct {
	Path string `toml:"path"`
}

// Config is the full application configuration.
type Config struct {
	Judge    Judge    `toml:"judge"`
	Recorder Recorder `toml:"recorder"`
	Storage  Storage  `toml:"storage"`
	Admin    Admin    `toml:"admin"`
	Logging  Logging  `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Judge: Judge{
			Provider:       "gemini",
			GeminiModel:    "gemini-2.5-flash",
			OpenAIModel:    "gpt-4o",
			TimeoutSeconds: 60,
		},
		Recorder: Recorder{
			MimeType: "audio/pcm;rate=16000",
		},
	}
}

// DefaultPath resolves the config file location:
// 1. ETASMIK_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/etasmik/config.toml
// 3. ~/.config/etasmik/config.toml
func DefaultPath() (string, error) {
	if p := os.Getenv("ETASMIK_CONFIG"); p != "" {
		return p, nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "etasmik", "config.toml"), nil
}

// Load reads the config file at path, applying defaults for unset values
// and environment overrides on top. A missing file is not an error: the
// defaults plus environment are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults + env only.
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// WriteSample writes the annotated sample config to path unless a file
// already exists there.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ETASMIK_JUDGE_PROVIDER"); v != "" {
		cfg.Judge.Provider = v
	}
	if v := firstEnv("ETASMIK_GEMINI_API_KEY", "GEMINI_API_KEY"); v != "" {
		cfg.Judge.GeminiAPIKey = v
	}
	if v := os.Getenv("ETASMIK_GEMINI_MODEL"); v != "" {
		cfg.Judge.GeminiModel = v
	}
	if v := firstEnv("ETASMIK_OPENAI_API_KEY", "OPENAI_API_KEY"); v != "" {
		cfg.Judge.OpenAIAPIKey = v
	}
	if v := os.Getenv("ETASMIK_OPENAI_MODEL"); v != "" {
		cfg.Judge.OpenAIModel = v
	}
	if v := os.Getenv("ETASMIK_JUDGE_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Judge.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("ETASMIK_DB"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("ETASMIK_ADMIN_SECRET_HASH"); v != "" {
		cfg.Admin.SecretHash = v
	}
	if v := os.Getenv("ETASMIK_LOG"); v != "" {
		cfg.Logging.Path = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
