package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Text   string
	Images []Image
	Usage  Usage
	Err    error

	// Chunks, when set, are the fragments delivered by Stream.
	// Text defaults to their concatenation.
	Chunks []string
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	resp, err := m.next(req)
	if err != nil {
		return nil, err
	}
	return m.build(resp), nil
}

// Stream delivers the next canned response through onChunk, one fragment
// per entry in Chunks (or the whole Text when Chunks is empty).
func (m *MockProvider) Stream(ctx context.Context, req Request, onChunk func(string) error) (*Response, error) {
	resp, err := m.next(req)
	if err != nil {
		return nil, err
	}

	chunks := resp.Chunks
	if len(chunks) == 0 && resp.Text != "" {
		chunks = []string{resp.Text}
	}
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := onChunk(c); err != nil {
			return nil, err
		}
	}
	return m.build(resp), nil
}

func (m *MockProvider) next(req Request) (MockResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return MockResponse{}, &ErrProviderUnavailable{Err: nil}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return MockResponse{}, resp.Err
	}
	return resp, nil
}

func (m *MockProvider) build(resp MockResponse) *Response {
	text := resp.Text
	if text == "" {
		for _, c := range resp.Chunks {
			text += c
		}
	}
	return &Response{
		Text:       text,
		Images:     resp.Images,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate and Stream calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or the zero Request.
func (m *MockProvider) LastCall() Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}
	}
	return m.Calls[len(m.Calls)-1]
}
