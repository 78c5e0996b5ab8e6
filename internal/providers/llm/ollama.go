package llm

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"
)

// OllamaClient talks to a local Ollama server via the native generate API.
// Temperature is pinned to 0 so research tasks stay deterministic.
type OllamaClient struct {
    BaseURL string
    Model   string
}

func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
    body := map[string]any{
        "model":  c.Model,
        "prompt": prompt,
        "stream": false,
        "options": map[string]any{"temperature": 0},
    }
    b, _ := json.Marshal(body)
    url := strings.TrimRight(c.BaseURL, "/") + "/api/generate"
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
    if err != nil { return "", err }
    req.Header.Set("Content-Type", "application/json")

    httpClient := &http.Client{Timeout: clientTimeout()}
    res, err := httpClient.Do(req)
    if err != nil { return "", fmt.Errorf("ollama request: %w", err) }
    defer res.Body.Close()
    if res.StatusCode < 200 || res.StatusCode >= 300 {
        var eresp map[string]any
        _ = json.NewDecoder(res.Body).Decode(&eresp)
        return "", fmt.Errorf("ollama status %d: %v", res.StatusCode, eresp)
    }
    var out struct {
        Response string `json:"response"`
        Done     bool   `json:"done"`
    }
    if err := json.NewDecoder(res.Body).Decode(&out); err != nil { return "", err }
    if out.Response == "" { return "", errors.New("empty response from ollama") }
    return out.Response, nil
}
