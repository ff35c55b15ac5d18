package llm

import (
	"context"
	"encoding/json"
	"sync"
)

const mockModelID = "mock"

// MockResponse is one canned reply for the MockProvider. Either Content
// or Err is set; a set Err wins.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// ObservationReply builds a canned reply in the classification shape the
// vision gateway parses. FaceVisible is always true; tests that need a
// hidden face build the JSON by hand.
func ObservationReply(label string, confidence float64, indicators ...string) MockResponse {
	if indicators == nil {
		indicators = []string{}
	}
	content, _ := json.Marshal(struct {
		Emotion     string   `json:"emotion"`
		Confidence  float64  `json:"confidence"`
		Indicators  []string `json:"indicators"`
		FaceVisible bool     `json:"faceVisible"`
	}{label, confidence, indicators, true})
	return MockResponse{Content: content}
}

// MockProvider is a deterministic Provider for tests: it replays canned
// responses in FIFO order and records every request it saw, so tests can
// assert on both sides of the wire.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider seeds the queue. An empty queue makes every Generate
// fail with ErrProviderUnavailable, which is how tests simulate a
// provider outage.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{}
	}

	next := m.responses[0]
	m.responses = m.responses[1:]

	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      mockModelID,
		StopReason: "end",
	}, nil
}

func (m *MockProvider) ModelID() string {
	return mockModelID
}

// AddResponse appends to the queue mid-test.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// LastCall returns the most recent request, if any.
func (m *MockProvider) LastCall() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}

// CallCount returns how many Generate calls were made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
