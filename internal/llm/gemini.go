package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.5-flash",
	"gemini-pro":   "gemini-2.5-pro",
	"gemini-image": "gemini-2.5-flash-image",
}

// GeminiProvider implements Provider and Streamer using the Google Gemini SDK.
// It is the only backend that serves every profile, including image output.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider for the given model.
func NewGeminiProvider(ctx context.Context, cfg ProviderConfig, model string) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  resolveModel(model, geminiModels),
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	result, err := p.client.Models.GenerateContent(ctx, p.model, buildGeminiContents(req.Messages), buildGeminiConfig(req))
	if err != nil {
		return nil, mapGeminiError(err)
	}

	resp := &Response{
		Text:       geminiText(result),
		Images:     geminiImages(result),
		Model:      p.model,
		StopReason: mapGeminiStopReason(result),
		Usage:      mapGeminiUsage(result),
	}
	if resp.Text == "" && len(resp.Images) == 0 {
		return nil, &ErrEmptyResponse{Model: p.model}
	}
	return resp, nil
}

// Stream delivers text fragments as the backend produces them.
func (p *GeminiProvider) Stream(ctx context.Context, req Request, onChunk func(string) error) (*Response, error) {
	var full strings.Builder
	resp := &Response{Model: p.model, StopReason: "end"}

	for result, err := range p.client.Models.GenerateContentStream(ctx, p.model, buildGeminiContents(req.Messages), buildGeminiConfig(req)) {
		if err != nil {
			return nil, mapGeminiError(err)
		}
		chunk := geminiText(result)
		if chunk != "" {
			full.WriteString(chunk)
			if err := onChunk(chunk); err != nil {
				return nil, err
			}
		}
		resp.StopReason = mapGeminiStopReason(result)
		if result.UsageMetadata != nil {
			resp.Usage = mapGeminiUsage(result)
		}
	}

	resp.Text = full.String()
	if resp.Text == "" {
		return nil, &ErrEmptyResponse{Model: p.model}
	}
	return resp, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

func buildGeminiConfig(req Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}
	if req.ThinkingBudget > 0 {
		budget := int32(req.ThinkingBudget)
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget}
	}
	if req.ResponseImages {
		config.ResponseModalities = []string{"IMAGE", "TEXT"}
		if req.AspectRatio != "" {
			config.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
		}
	}

	return config
}

func buildGeminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, len(msgs))
	for i, m := range msgs {
		role := genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		parts := make([]*genai.Part, 0, 1+len(m.Images))
		if m.Content != "" {
			parts = append(parts, &genai.Part{Text: m.Content})
		}
		for _, img := range m.Images {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
			})
		}
		out[i] = &genai.Content{Role: string(role), Parts: parts}
	}
	return out
}

// geminiText concatenates the non-thought text parts of the first candidate.
func geminiText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

func geminiImages(result *genai.GenerateContentResponse) []Image {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil
	}
	var out []Image
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		out = append(out, Image{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data})
	}
	return out
}

func mapGeminiUsage(result *genai.GenerateContentResponse) Usage {
	if result == nil || result.UsageMetadata == nil {
		return Usage{}
	}
	return Usage{
		InputTokens:  int(result.UsageMetadata.PromptTokenCount),
		OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
	}
}

func mapGeminiStopReason(result *genai.GenerateContentResponse) string {
	if result != nil && len(result.Candidates) > 0 {
		switch result.Candidates[0].FinishReason {
		case genai.FinishReasonStop:
			return "end"
		case genai.FinishReasonMaxTokens:
			return "max_tokens"
		}
	}
	return "end"
}

func mapGeminiError(err error) error {
	var code int
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	if code == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
