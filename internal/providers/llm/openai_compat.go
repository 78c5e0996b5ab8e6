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

// OpenAICompatClient speaks the chat-completions dialect, which llama.cpp,
// vLLM and Ollama's /v1 endpoint all serve. Useful when the local backend is
// not Ollama's native API.
type OpenAICompatClient struct {
    APIKey  string
    Model   string
    BaseURL string
}

func (c *OpenAICompatClient) Generate(ctx context.Context, prompt string) (string, error) {
    body := map[string]any{
        "model":       c.Model,
        "messages":    []map[string]string{{"role": "user", "content": prompt}},
        "temperature": 0,
    }
    b, _ := json.Marshal(body)
    url := strings.TrimRight(c.BaseURL, "/") + "/v1/chat/completions"
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
    if err != nil { return "", err }
    if c.APIKey != "" { req.Header.Set("Authorization", "Bearer "+c.APIKey) }
    req.Header.Set("Content-Type", "application/json")

    httpClient := &http.Client{Timeout: clientTimeout()}
    res, err := httpClient.Do(req)
    if err != nil { return "", fmt.Errorf("chat completions request: %w", err) }
    defer res.Body.Close()
    if res.StatusCode < 200 || res.StatusCode >= 300 {
        var eresp map[string]any
        _ = json.NewDecoder(res.Body).Decode(&eresp)
        return "", fmt.Errorf("chat completions status %d: %v", res.StatusCode, eresp)
    }
    var resp struct {
        Choices []struct {
            Message struct {
                Content string `json:"content"`
            } `json:"message"`
        } `json:"choices"`
    }
    if err := json.NewDecoder(res.Body).Decode(&resp); err != nil { return "", err }
    if len(resp.Choices) == 0 { return "", errors.New("no choices") }
    return resp.Choices[0].Message.Content, nil
}
