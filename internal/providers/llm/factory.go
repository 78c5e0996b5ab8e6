package llm

import (
    "context"
    "log"
    "os"
    "strings"
)

// NewFromEnv returns a Client based on environment variables.
// Supported providers:
// - LLM_PROVIDER=ollama (default): OLLAMA_BASE_URL, OLLAMA_MODEL
// - LLM_PROVIDER=openai: OPENAI_API_BASE, OPENAI_API_KEY, LLM_MODEL
//   (works against any chat-completions-compatible local server)
// - LLM_PROVIDER=gemini: GOOGLE_API_KEY, LLM_MODEL
// If nothing usable is configured, returns a MockClient.
func NewFromEnv(ctx context.Context) Client {
    prov := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
    switch prov {
    case "", "ollama":
        base := strings.TrimSpace(os.Getenv("OLLAMA_BASE_URL"))
        if base == "" { base = "http://localhost:11434" }
        return &OllamaClient{BaseURL: base, Model: getModelWithDefault("OLLAMA_MODEL", "qwen2.5:7b")}
    case "openai":
        base := strings.TrimRight(os.Getenv("OPENAI_API_BASE"), "/")
        if base == "" { base = "https://api.openai.com" }
        return &OpenAICompatClient{APIKey: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")), Model: getModelWithDefault("LLM_MODEL", "gpt-4o-mini"), BaseURL: base}
    case "gemini":
        if key := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); key != "" {
            c, err := NewGeminiClient(ctx, key, getModelWithDefault("LLM_MODEL", "gemini-1.5-flash"))
            if err == nil { return c }
            log.Printf("gemini client init failed, falling back to mock: %v", err)
        }
    case "mock":
        return &MockClient{}
    default:
        log.Printf("unknown LLM_PROVIDER %q, falling back to mock", prov)
    }
    return &MockClient{}
}
