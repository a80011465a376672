package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Call records a single request made against the mock.
type Call struct {
	Method string
	Params json.RawMessage
}

// MockProvider is a scriptable Provider for testing. Handlers are registered
// per method; every request is recorded so tests can assert which provider
// calls were (or were not) issued.
type MockProvider struct {
	mu       sync.Mutex
	handlers map[string]func(params json.RawMessage) (any, error)
	calls    []Call
}

// NewMockProvider creates an empty mock. Requests for methods with no
// registered handler fail, which keeps tests honest about the calls they
// expect.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		handlers: make(map[string]func(params json.RawMessage) (any, error)),
	}
}

// Handle registers a handler for a method. The handler's return value is
// marshaled as the JSON-RPC result; a returned error is surfaced as-is
// (use *RPCError to simulate coded provider failures).
func (m *MockProvider) Handle(method string, fn func(params json.RawMessage) (any, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method] = fn
}

// HandleResult registers a fixed successful result for a method.
func (m *MockProvider) HandleResult(method string, result any) {
	m.Handle(method, func(json.RawMessage) (any, error) {
		return result, nil
	})
}

// HandleError registers a fixed error for a method.
func (m *MockProvider) HandleError(method string, err error) {
	m.Handle(method, func(json.RawMessage) (any, error) {
		return nil, err
	})
}

// Request implements Provider.
func (m *MockProvider) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	m.mu.Lock()
	m.calls = append(m.calls, Call{Method: method, Params: raw})
	fn, ok := m.handlers[method]
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unexpected provider method: %s", method)
	}

	result, err := fn(raw)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return out, nil
}

// Calls returns a copy of all recorded requests.
func (m *MockProvider) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of requests issued for a method.
func (m *MockProvider) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// TotalCalls returns the total number of requests issued.
func (m *MockProvider) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears recorded calls and handlers.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.handlers = make(map[string]func(params json.RawMessage) (any, error))
}
