package llm

import (
    "context"
    "errors"
    "sync"
)

// MockClient is used when no real backend is configured. It never calls out;
// it just surrenders immediately so the run still produces an outcome.
type MockClient struct{}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
    return "Final Answer: no inference backend is configured; set OLLAMA_BASE_URL or LLM_PROVIDER.", nil
}

// ScriptedClient replays a fixed sequence of responses and is the workhorse
// of the agent loop tests. After the script runs out it returns Err if set,
// otherwise the last response again.
type ScriptedClient struct {
    Responses []string
    Err       error

    mu    sync.Mutex
    calls int
}

func (s *ScriptedClient) Generate(ctx context.Context, prompt string) (string, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    i := s.calls
    s.calls++
    if i >= len(s.Responses) {
        if s.Err != nil { return "", s.Err }
        if len(s.Responses) == 0 { return "", errors.New("scripted client has no responses") }
        i = len(s.Responses) - 1
    }
    return s.Responses[i], nil
}

// Calls reports how many times Generate was invoked.
func (s *ScriptedClient) Calls() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.calls
}
