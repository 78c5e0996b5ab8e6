package llm

import (
    "context"
    "errors"

    genai "github.com/google/generative-ai-go/genai"
    "google.golang.org/api/option"
)

// GeminiClient is a hosted fallback for machines without a local model.
type GeminiClient struct {
    model *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
    c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
    if err != nil { return nil, err }
    return &GeminiClient{model: c.GenerativeModel(model)}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
    resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
    if err != nil { return "", err }
    txt := firstText(resp)
    if txt == "" { return "", errors.New("no candidates") }
    return txt, nil
}

func firstText(r *genai.GenerateContentResponse) string {
    if r == nil { return "" }
    for _, c := range r.Candidates {
        if c.Content == nil { continue }
        for _, part := range c.Content.Parts {
            if t, ok := part.(genai.Text); ok { return string(t) }
        }
    }
    return ""
}
