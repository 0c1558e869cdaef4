package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// openaiModels maps friendly names to OpenAI model IDs.
var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
	"gpt-image":   "gpt-image-1",
}

// OpenAIProvider implements Provider and Streamer using the OpenAI SDK.
// It also supports OpenRouter and other OpenAI-compatible APIs via BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string

	// name labels errors; imagesAPI enables the /images endpoint for
	// ResponseImages requests.
	name      string
	imagesAPI bool
}

// NewOpenAIProvider creates a new OpenAI provider for the given model.
func NewOpenAIProvider(cfg ProviderConfig, model string) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	return newOpenAICompatible("openai", cfg, resolveModel(model, openaiModels), true), nil
}

func newOpenAICompatible(name string, cfg ProviderConfig, model string, imagesAPI bool) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(config),
		model:     model,
		name:      name,
		imagesAPI: imagesAPI,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.ResponseImages {
		return p.generateImage(ctx, req)
	}

	resp, err := p.client.CreateChatCompletion(ctx, p.buildChatRequest(req))
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &ErrEmptyResponse{Model: p.model}
	}

	return &Response{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: mapOpenAIStopReason(resp.Choices[0].FinishReason),
	}, nil
}

// Stream reads server-sent deltas until the stream reports EOF.
func (p *OpenAIProvider) Stream(ctx context.Context, req Request, onChunk func(string) error) (*Response, error) {
	if req.ResponseImages {
		return nil, &ErrUnsupported{Provider: p.name, Feature: "streamed image output"}
	}

	chatReq := p.buildChatRequest(req)
	chatReq.Stream = true
	chatReq.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	stream, err := p.client.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	defer stream.Close()

	var full strings.Builder
	resp := &Response{Model: p.model, StopReason: "end"}
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, mapOpenAIError(err)
		}

		if chunk.Usage != nil {
			resp.Usage = Usage{
				InputTokens:  chunk.Usage.PromptTokens,
				OutputTokens: chunk.Usage.CompletionTokens,
				TotalTokens:  chunk.Usage.TotalTokens,
			}
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if chunk.Choices[0].FinishReason != "" {
			resp.StopReason = mapOpenAIStopReason(chunk.Choices[0].FinishReason)
		}
		if text := chunk.Choices[0].Delta.Content; text != "" {
			full.WriteString(text)
			if err := onChunk(text); err != nil {
				return nil, err
			}
		}
	}

	resp.Text = full.String()
	if resp.Text == "" {
		return nil, &ErrEmptyResponse{Model: p.model}
	}
	return resp, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

// generateImage serves text-to-image requests through the images API.
// Edits of an existing image are not supported.
func (p *OpenAIProvider) generateImage(ctx context.Context, req Request) (*Response, error) {
	if !p.imagesAPI {
		return nil, &ErrUnsupported{Provider: p.name, Feature: "image output"}
	}

	var prompt strings.Builder
	for _, m := range req.Messages {
		if len(m.Images) > 0 {
			return nil, &ErrUnsupported{Provider: p.name, Feature: "image editing"}
		}
		if m.Role == RoleUser {
			prompt.WriteString(m.Content)
		}
	}

	imgReq := openai.ImageRequest{
		Prompt: prompt.String(),
		Model:  p.model,
		N:      1,
		Size:   openai.CreateImageSize1024x1024,
	}
	// gpt-image models always answer with base64 and reject the parameter.
	if !strings.HasPrefix(p.model, "gpt-image") {
		imgReq.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	}

	resp, err := p.client.CreateImage(ctx, imgReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	out := &Response{Model: p.model, StopReason: "end"}
	for _, d := range resp.Data {
		if d.B64JSON == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(d.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("decode image payload: %w", err)
		}
		out.Images = append(out.Images, Image{MIMEType: "image/png", Data: data})
	}
	if len(out.Images) == 0 {
		return nil, &ErrEmptyResponse{Model: p.model}
	}
	return out, nil
}

func (p *OpenAIProvider) buildChatRequest(req Request) openai.ChatCompletionRequest {
	chatReq := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            buildOpenAIMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return chatReq
}

func buildOpenAIMessages(req Request) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage

	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}

		if len(m.Images) == 0 {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    role,
				Content: m.Content,
			})
			continue
		}

		parts := make([]openai.ChatMessagePart, 0, 1+len(m.Images))
		if m.Content != "" {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: m.Content,
			})
		}
		for _, img := range m.Images {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:         role,
			MultiContent: parts,
		})
	}

	return messages
}

func mapOpenAIStopReason(reason openai.FinishReason) string {
	switch reason {
	case openai.FinishReasonStop:
		return "end"
	case openai.FinishReasonLength:
		return "max_tokens"
	default:
		return "end"
	}
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
