package llm

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/abhisek/skillforge/internal/store"
)

// NewProfiles creates the fast, reasoning and image providers for the
// configured backend. Each is wrapped with timeout and logging middleware,
// the mock backend included, so every request lands in the event log
// labeled with its profile.
func NewProfiles(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Profiles, error) {
	var fast, reasoning, image Provider
	if cfg.Provider == "mock" {
		fast, reasoning, image = NewMockProvider(), NewMockProvider(), NewMockProvider()
	} else {
		pc := cfg.Selected()
		build := func(profile, model string) (Provider, error) {
			p, err := newProvider(ctx, cfg.Provider, pc, model)
			if err != nil {
				return nil, fmt.Errorf("initializing %s %s profile: %w", cfg.Provider, profile, err)
			}
			return p, nil
		}

		var err error
		if fast, err = build(ProfileFast, pc.Model); err != nil {
			return Profiles{}, err
		}
		if reasoning, err = build(ProfileReasoning, pc.ReasoningModel); err != nil {
			return Profiles{}, err
		}
		if image, err = build(ProfileImage, pc.ImageModel); err != nil {
			return Profiles{}, err
		}
	}

	// Wrap with middleware: caller → timeout → logging → base
	wrap := func(p Provider, profile string) Provider {
		labels := Labels{Provider: cfg.Provider, Profile: profile}
		return WithTimeout(WithLogging(p, labels, eventRepo, logger), cfg.Timeout)
	}

	return Profiles{
		Fast:      wrap(fast, ProfileFast),
		Reasoning: wrap(reasoning, ProfileReasoning),
		Image:     wrap(image, ProfileImage),
	}, nil
}

// NewProfilesFromEnv resolves configuration from the environment and builds
// the provider profiles. An explicit SKILLFORGE_LLM_PROVIDER wins; otherwise
// the standard vendor API key variables are checked.
func NewProfilesFromEnv(ctx context.Context, eventRepo store.EventRepo, logger *zap.Logger) (Profiles, Config, error) {
	var cfg Config
	if os.Getenv("SKILLFORGE_LLM_PROVIDER") != "" {
		cfg = ConfigFromEnv()
	} else {
		var ok bool
		cfg, ok = DiscoverConfig()
		if !ok {
			return Profiles{}, Config{}, fmt.Errorf("no LLM API key found (set GEMINI_API_KEY or SKILLFORGE_LLM_PROVIDER)")
		}
	}
	if err := cfg.Validate(); err != nil {
		return Profiles{}, Config{}, err
	}

	profiles, err := NewProfiles(ctx, cfg, eventRepo, logger)
	if err != nil {
		return Profiles{}, Config{}, err
	}
	return profiles, cfg, nil
}

func newProvider(ctx context.Context, name string, pc ProviderConfig, model string) (Provider, error) {
	switch name {
	case "gemini":
		return NewGeminiProvider(ctx, pc, model)
	case "anthropic":
		return NewAnthropicProvider(pc, model)
	case "openai":
		return NewOpenAIProvider(pc, model)
	case "openrouter":
		return NewOpenRouterProvider(pc, model)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", name)
	}
}
