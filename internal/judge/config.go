package judge

import (
	"context"
	"fmt"
	"time"

	"github.com/mohdridwan/etasmik/internal/store"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultOpenAIModel = "gpt-4o"

	// DefaultTimeout bounds a single judging call end to end.
	DefaultTimeout = 60 * time.Second
)

// Config selects and configures the judging provider.
type Config struct {
	// Provider selects which judge to use: "gemini", "openai", "mock".
	Provider string

	Gemini GeminiConfig
	OpenAI OpenAIConfig

	// Timeout is the maximum duration for a single judging call.
	Timeout time.Duration
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-2.5-flash"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o"
	BaseURL string // Optional override for compatible APIs.
}

// Validate checks that the selected provider has its required key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini API key is required for the gemini provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai API key is required for the openai provider")
		}
	case "mock":
		// No key needed.
	default:
		return fmt.Errorf("unknown judge provider: %q", c.Provider)
	}
	return nil
}

// New creates a Judge from configuration, wrapped with the standard
// middleware chain: caller → timeout → trust boundary → event log → base.
func New(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Judge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Judge
	var err error
	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiJudge(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIJudge(cfg.OpenAI)
	case "mock":
		base = NewMockJudge(MockResult{Verdict: &Verdict{
			Score:         90,
			Transcription: "(bacaan contoh)",
			Errors:        []string{},
			Feedback:      "Mumtaz.",
		}})
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s judge: %w", cfg.Provider, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logged := WithEventLog(base, eventRepo)
	trusted := WithTrustBoundary(logged)
	return WithTimeout(trusted, timeout), nil
}
