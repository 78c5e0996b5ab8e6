package tools

import (
    "context"
    "errors"
    "fmt"
    "net"
    "os"
    "strconv"
    "strings"

    "github.com/example/huginn/internal/models"
)

// Tool is a named capability the agent can invoke. Implementations enforce
// their own timeouts and return an error instead of blocking or panicking.
type Tool interface {
    Name() string
    Description() string
    Required() []string
    Execute(ctx context.Context, args map[string]string) (string, error)
}

// Registry maps tool names to capabilities. It is populated once at startup
// and read-only afterwards, so it is safe to call from the single active run.
type Registry struct {
    tools map[string]Tool
    order []string
}

func NewRegistry() *Registry {
    return &Registry{tools: map[string]Tool{}}
}

func (r *Registry) Register(t Tool) {
    if _, ok := r.tools[t.Name()]; !ok { r.order = append(r.order, t.Name()) }
    r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
    t, ok := r.tools[name]
    return t, ok
}

// List returns tools in registration order, for the prompt preamble.
func (r *Registry) List() []Tool {
    out := make([]Tool, 0, len(r.order))
    for _, name := range r.order { out = append(out, r.tools[name]) }
    return out
}

// Dispatch validates and runs a tool call. It fails closed: unknown names,
// missing arguments, tool errors, timeouts and panics all come back as
// ToolResult{OK:false} with a category; nothing escapes this boundary.
func (r *Registry) Dispatch(ctx context.Context, call models.ToolCall) (res models.ToolResult) {
    defer func() {
        if rec := recover(); rec != nil {
            res = models.ToolResult{Category: models.ErrCategoryToolError, Output: fmt.Sprintf("tool %s panicked: %v", call.Tool, rec)}
        }
    }()

    t, ok := r.Get(call.Tool)
    if !ok {
        return models.ToolResult{Category: models.ErrCategoryUnknownTool, Output: "unknown tool: " + call.Tool}
    }
    var missing []string
    for _, name := range t.Required() {
        if strings.TrimSpace(call.Args[name]) == "" { missing = append(missing, name) }
    }
    if len(missing) > 0 {
        return models.ToolResult{Category: models.ErrCategoryBadArgs, Output: fmt.Sprintf("tool %s missing required argument(s): %s", call.Tool, strings.Join(missing, ", "))}
    }

    out, err := t.Execute(ctx, call.Args)
    if err != nil {
        cat := models.ErrCategoryToolError
        if isTimeout(err) { cat = models.ErrCategoryTimeout }
        return models.ToolResult{Category: cat, Output: err.Error()}
    }
    max := envInt("TOOL_OUTPUT_MAX_BYTES", 8192)
    if len(out) > max { out = out[:max] + "\n[truncated]" }
    return models.ToolResult{OK: true, Output: out}
}

func isTimeout(err error) bool {
    if errors.Is(err, context.DeadlineExceeded) { return true }
    var ne net.Error
    if errors.As(err, &ne) && ne.Timeout() { return true }
    return false
}

func envInt(key string, def int) int {
    if v := os.Getenv(key); v != "" { if n, err := strconv.Atoi(v); err == nil { return n } }
    return def
}
