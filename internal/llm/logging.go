package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/skillforge/internal/store"
)

// Labels identify where a logged request was sent.
type Labels struct {
	Provider string // backend name, e.g. "gemini"
	Profile  string // ProfileFast, ProfileReasoning or ProfileImage
}

// LoggingProvider is a decorator that records every backend request as an
// event and emits a debug line. A nil event repo disables persistence.
type LoggingProvider struct {
	inner     Provider
	labels    Labels
	eventRepo store.EventRepo
	logger    *zap.Logger
}

// WithLogging wraps a Provider with event logging.
func WithLogging(p Provider, labels Labels, repo store.EventRepo, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, labels: labels, eventRepo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	l.record(ctx, req, resp, err, time.Since(start))
	return resp, err
}

func (l *LoggingProvider) Stream(ctx context.Context, req Request, onChunk func(string) error) (*Response, error) {
	start := time.Now()
	resp, err := Stream(ctx, l.inner, req, onChunk)
	l.record(ctx, req, resp, err, time.Since(start))
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) record(ctx context.Context, req Request, resp *Response, err error, latency time.Duration) {
	data := store.LLMRequestEventData{
		Provider:    l.labels.Provider,
		Model:       l.inner.ModelID(),
		Profile:     l.labels.Profile,
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = serializeResponse(resp)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.logger.Debug("llm request",
		zap.String("purpose", data.Purpose),
		zap.String("profile", data.Profile),
		zap.String("model", data.Model),
		zap.Int64("latency_ms", data.LatencyMs),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
		zap.Bool("success", data.Success),
		zap.Error(err),
	)

	if l.eventRepo == nil {
		return
	}
	// The request outcome stands even if the log write fails.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		l.logger.Warn("failed to log LLM request event", zap.Error(logErr))
	}
}

// serializeRequest builds a readable representation of the request.
// Inline images are summarized rather than dumped.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n")
		for _, img := range m.Images {
			b.WriteString(fmt.Sprintf("[image: %s, %d bytes]\n", img.MIMEType, len(img.Data)))
		}
		b.WriteString("\n")
	}

	if req.ThinkingBudget > 0 {
		b.WriteString(fmt.Sprintf("[thinking budget: %d]\n", req.ThinkingBudget))
	}
	if req.ResponseImages {
		b.WriteString(fmt.Sprintf("[image output, aspect %s]\n", req.AspectRatio))
	}

	return b.String()
}

func serializeResponse(resp *Response) string {
	var b strings.Builder
	b.WriteString(resp.Text)
	for _, img := range resp.Images {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("[image: %s, %d bytes]", img.MIMEType, len(img.Data)))
	}
	return b.String()
}
