package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "anthropic", "openai", "openrouter", "mock"
	Provider string

	Gemini     ProviderConfig
	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	OpenRouter ProviderConfig

	// ThinkingBudget is the extended-reasoning budget given to the
	// reasoning profile. Zero disables extended reasoning.
	ThinkingBudget int

	// AspectRatio is the fixed aspect ratio for generated images.
	AspectRatio string

	// Timeout is the maximum duration for a single backend request.
	Timeout time.Duration
}

// ProviderConfig holds the credentials and the three model profiles
// for one backend.
type ProviderConfig struct {
	APIKey  string
	BaseURL string // Optional. Override for compatible APIs.

	Model          string // fast profile
	ReasoningModel string // reasoning profile
	ImageModel     string // image-generation profile
}

// Selected returns the ProviderConfig for the configured provider.
func (c Config) Selected() ProviderConfig {
	switch c.Provider {
	case "anthropic":
		return c.Anthropic
	case "openai":
		return c.OpenAI
	case "openrouter":
		return c.OpenRouter
	default:
		return c.Gemini
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: ProviderConfig{
			Model:          "gemini-flash",
			ReasoningModel: "gemini-pro",
			ImageModel:     "gemini-image",
		},
		Anthropic: ProviderConfig{
			Model:          "claude-haiku",
			ReasoningModel: "claude-sonnet",
			ImageModel:     "claude-haiku",
		},
		OpenAI: ProviderConfig{
			Model:          "gpt-4o-mini",
			ReasoningModel: "gpt-4o",
			ImageModel:     "gpt-image-1",
		},
		OpenRouter: ProviderConfig{
			Model:          "google/gemini-2.5-flash",
			ReasoningModel: "google/gemini-2.5-pro",
			ImageModel:     "google/gemini-2.5-flash-image",
		},
		ThinkingBudget: 32768,
		AspectRatio:    "1:1",
		Timeout:        90 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("SKILLFORGE_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	readProviderEnv(&cfg.Gemini, "GEMINI")
	readProviderEnv(&cfg.Anthropic, "ANTHROPIC")
	readProviderEnv(&cfg.OpenAI, "OPENAI")
	readProviderEnv(&cfg.OpenRouter, "OPENROUTER")

	if v := os.Getenv("SKILLFORGE_THINKING_BUDGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ThinkingBudget = n
		}
	}
	if v := os.Getenv("SKILLFORGE_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

func readProviderEnv(pc *ProviderConfig, name string) {
	prefix := "SKILLFORGE_" + name + "_"
	if k := os.Getenv(prefix + "API_KEY"); k != "" {
		pc.APIKey = k
	}
	if u := os.Getenv(prefix + "BASE_URL"); u != "" {
		pc.BaseURL = u
	}
	if m := os.Getenv(prefix + "MODEL"); m != "" {
		pc.Model = m
	}
	if m := os.Getenv(prefix + "REASONING_MODEL"); m != "" {
		pc.ReasoningModel = m
	}
	if m := os.Getenv(prefix + "IMAGE_MODEL"); m != "" {
		pc.ImageModel = m
	}
}

// DiscoverConfig checks standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := ConfigFromEnv()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "anthropic", "openai", "openrouter":
		if c.Selected().APIKey == "" {
			return fmt.Errorf("SKILLFORGE_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.ThinkingBudget < 0 {
		return fmt.Errorf("thinking budget must be >= 0, got %d", c.ThinkingBudget)
	}
	return nil
}
