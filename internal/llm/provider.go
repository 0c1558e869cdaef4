package llm

import (
	"context"
)

// Provider is the core abstraction for talking to a generative backend.
// Consumers call Generate with a Request and receive the model's raw output.
// Providers do not parse or trust the text: structured extraction is the
// caller's job (see internal/extract).
type Provider interface {
	// Generate sends a request to the backend and returns its output.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Streamer is implemented by providers that can deliver text incrementally.
// onChunk receives text fragments in arrival order; returning an error from
// it aborts the stream. The returned Response carries the full text.
type Streamer interface {
	Stream(ctx context.Context, req Request, onChunk func(string) error) (*Response, error)
}

// Request describes what to send to the backend.
type Request struct {
	// System is the system instruction. Sets the model's role and constraints.
	System string

	// Messages is the conversation history, oldest first. Single-shot calls
	// carry exactly one user message.
	Messages []Message

	// JSON asks the backend to emit a JSON document. This is a hint only:
	// the expected shape is described in the prompt text and the output is
	// validated after extraction.
	JSON bool

	// ThinkingBudget is the extended-reasoning token budget. Zero disables it.
	ThinkingBudget int

	// ResponseImages requests inline image output (image-generation profile).
	ResponseImages bool

	// AspectRatio for generated images, e.g. "1:1". Only used with ResponseImages.
	AspectRatio string

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Zero leaves the provider default in place.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string

	// Images are inline image parts sent after the text content.
	Images []Image
}

// Image is an inline image payload.
type Image struct {
	MIMEType string
	Data     []byte
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema describes a JSON document the caller expects back. It is embedded
// in prompts as prose and used to validate extracted records.
type Schema struct {
	// Name identifies this schema, kebab-case, e.g. "learning-path".
	Name string

	// Description is a human-readable description of the document.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the backend's output.
type Response struct {
	// Text is the primary text output, unmodified.
	Text string

	// Images holds inline image parts, in the order the backend returned them.
	Images []Image

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Profile names, as recorded in the request log.
const (
	ProfileFast      = "fast"
	ProfileReasoning = "reasoning"
	ProfileImage     = "image"
)

// Profiles bundles the three backend configurations the application uses.
type Profiles struct {
	// Fast is the low-latency profile: chat, hints, challenge brainstorming.
	Fast Provider

	// Reasoning is the high-budget profile: curriculum design and image judging.
	Reasoning Provider

	// Image is the image-generation profile: reference images and edits.
	Image Provider
}

// Stream delivers the response to req through onChunk. Providers that
// implement Streamer stream natively; others are called once and their
// full text is delivered as a single fragment.
func Stream(ctx context.Context, p Provider, req Request, onChunk func(string) error) (*Response, error) {
	if s, ok := p.(Streamer); ok {
		return s.Stream(ctx, req, onChunk)
	}

	resp, err := p.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Text != "" {
		if err := onChunk(resp.Text); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
