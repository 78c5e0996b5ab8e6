package llm

import (
    "context"
)

// Client is the prompt-in/text-out boundary to an inference backend. One call
// per reasoning step; implementations bound every call with a timeout and
// return transport errors instead of blocking.
type Client interface {
    Generate(ctx context.Context, prompt string) (string, error)
}

// GenerateFunc adapts a plain function to the Client interface.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

func (f GenerateFunc) Generate(ctx context.Context, prompt string) (string, error) {
    return f(ctx, prompt)
}
