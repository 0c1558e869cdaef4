package llm

import (
	"context"
	"errors"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		p, err := NewOpenRouterProvider(ProviderConfig{APIKey: "sk-or-test"}, "google/gemini-2.5-flash")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "google/gemini-2.5-flash" {
			t.Errorf("model = %q, want %q", p.ModelID(), "google/gemini-2.5-flash")
		}
	})

	t.Run("empty API key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(ProviderConfig{}, "google/gemini-2.5-flash")
		if err == nil {
			t.Fatal("expected error for empty API key")
		}
	})

	t.Run("friendly names are not mapped", func(t *testing.T) {
		p, err := NewOpenRouterProvider(ProviderConfig{APIKey: "sk-or-test"}, "gpt-image")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "gpt-image" {
			t.Errorf("model = %q, want %q", p.ModelID(), "gpt-image")
		}
	})

	t.Run("custom base URL", func(t *testing.T) {
		p, err := NewOpenRouterProvider(ProviderConfig{
			APIKey:  "sk-or-test",
			BaseURL: "https://custom.openrouter.example/v1",
		}, "google/gemini-2.5-flash")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p == nil {
			t.Fatal("expected non-nil provider")
		}
	})

	t.Run("image output unsupported", func(t *testing.T) {
		p, err := NewOpenRouterProvider(ProviderConfig{APIKey: "sk-or-test"}, "google/gemini-2.5-flash-image")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err = p.Generate(context.Background(), Request{ResponseImages: true})
		var unsupported *ErrUnsupported
		if !errors.As(err, &unsupported) {
			t.Fatalf("expected ErrUnsupported, got: %T (%v)", err, err)
		}
	})
}
