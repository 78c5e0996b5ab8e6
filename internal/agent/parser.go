package agent

import (
    "encoding/json"
    "errors"
    "fmt"
    "regexp"
    "strconv"
    "strings"

    "github.com/example/huginn/internal/models"
)

// ErrNoStep is returned when a model response matches none of the three step
// markers. It is informational, never fatal: the loop feeds it back to the
// model as an observation.
var ErrNoStep = errors.New("no recognizable step marker in model response")

// ParsedStep is one structured step extracted from raw model text. A single
// response may carry a Thought line followed by an Action or Final Answer
// line (the usual ReAct shape); the leading thought rides along on the acting
// step so the loop can record both.
type ParsedStep struct {
    Kind    models.StepKind
    Thought string
    Answer  string
    Call    models.ToolCall
}

var (
    finalRe    = regexp.MustCompile(`(?i)^\s*final\s*answer\s*[:\-]\s*(.*)$`)
    thoughtRe  = regexp.MustCompile(`(?i)^\s*thought\s*[:\-]\s*(.*)$`)
    actionRe   = regexp.MustCompile(`(?i)^\s*action\s*[:\-]\s*(.*)$`)
    inputRe    = regexp.MustCompile(`(?i)^\s*action\s+input\s*[:\-]\s*`)
    toolNameRe = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_\-]*)\s*(.*)$`)
)

// Parse extracts at most one step from raw model output. Markers are matched
// case-insensitively with tolerant whitespace; the first acting marker
// (Action or Final Answer) wins and anything after it is ignored, so a
// rambling response still yields a single step. The model deciding it is
// "done" is free-text pattern matching and therefore best effort; the
// grammar here is a policy choice, not an oracle.
func Parse(raw string) (*ParsedStep, error) {
    lines := strings.Split(raw, "\n")
    thought := ""
    for i, line := range lines {
        if m := finalRe.FindStringSubmatch(line); m != nil {
            answer := strings.TrimSpace(m[1])
            if answer == "" {
                answer = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
            }
            if answer == "" { return nil, fmt.Errorf("%w: final answer marker with no text", ErrNoStep) }
            return &ParsedStep{Kind: models.StepFinalAnswer, Thought: thought, Answer: answer}, nil
        }
        if m := actionRe.FindStringSubmatch(line); m != nil {
            call, err := parseToolCall(strings.TrimSpace(m[1]), lines[i+1:])
            if err != nil { return nil, err }
            return &ParsedStep{Kind: models.StepAction, Thought: thought, Call: call}, nil
        }
        if m := thoughtRe.FindStringSubmatch(line); m != nil && thought == "" {
            thought = strings.TrimSpace(m[1])
        }
    }
    if thought != "" {
        return &ParsedStep{Kind: models.StepThought, Thought: thought}, nil
    }
    return nil, ErrNoStep
}

// parseToolCall reads `tool{args}` from the action line; the argument block
// may also start on a following line (optionally behind "Action Input:").
func parseToolCall(rest string, following []string) (models.ToolCall, error) {
    m := toolNameRe.FindStringSubmatch(rest)
    if m == nil { return models.ToolCall{}, fmt.Errorf("%w: action marker with no tool name", ErrNoStep) }
    name := m[1]
    blob := m[2] + "\n" + strings.Join(following, "\n")
    blob = inputRe.ReplaceAllString(blob, "")

    block := braceBlock(blob)
    if block == "" {
        return models.ToolCall{Tool: name, Args: map[string]string{}}, nil
    }
    args, err := parseArgs(block)
    if err != nil { return models.ToolCall{}, fmt.Errorf("%w: bad argument block for %s: %v", ErrNoStep, name, err) }
    return models.ToolCall{Tool: name, Args: args}, nil
}

// braceBlock returns the first balanced {...} block in s, or "".
func braceBlock(s string) string {
    start := strings.Index(s, "{")
    if start == -1 { return "" }
    depth := 0
    inString := false
    var quote byte
    for i := start; i < len(s); i++ {
        c := s[i]
        if inString {
            if c == quote && (i == 0 || s[i-1] != '\\') { inString = false }
            continue
        }
        switch c {
        case '"', '\'':
            inString = true
            quote = c
        case '{':
            depth++
        case '}':
            depth--
            if depth == 0 { return s[start : i+1] }
        }
    }
    return ""
}

// parseArgs turns an argument block into a flat string map. Strict JSON is
// tried first; the relaxed form the model usually emits ({query: 'a', n: 2})
// is handled by hand.
func parseArgs(block string) (map[string]string, error) {
    var asJSON map[string]any
    if err := json.Unmarshal([]byte(block), &asJSON); err == nil {
        out := make(map[string]string, len(asJSON))
        for k, v := range asJSON { out[k] = stringifyArg(v) }
        return out, nil
    }

    inner := strings.TrimSpace(block)
    inner = strings.TrimPrefix(inner, "{")
    inner = strings.TrimSuffix(inner, "}")
    out := map[string]string{}
    for _, part := range splitTopLevel(inner) {
        part = strings.TrimSpace(part)
        if part == "" { continue }
        kv := strings.SplitN(part, ":", 2)
        if len(kv) != 2 { return nil, fmt.Errorf("argument %q is not key: value", part) }
        key := strings.Trim(strings.TrimSpace(kv[0]), `"'`)
        if key == "" { return nil, fmt.Errorf("argument %q has an empty key", part) }
        out[key] = unquote(strings.TrimSpace(kv[1]))
    }
    return out, nil
}

// splitTopLevel splits on commas that are not nested in quotes or braces.
func splitTopLevel(s string) []string {
    var parts []string
    depth := 0
    inString := false
    var quote byte
    last := 0
    for i := 0; i < len(s); i++ {
        c := s[i]
        if inString {
            if c == quote && s[i-1] != '\\' { inString = false }
            continue
        }
        switch c {
        case '"', '\'':
            inString = true
            quote = c
        case '{', '[':
            depth++
        case '}', ']':
            depth--
        case ',':
            if depth == 0 {
                parts = append(parts, s[last:i])
                last = i + 1
            }
        }
    }
    parts = append(parts, s[last:])
    return parts
}

func unquote(s string) string {
    if len(s) >= 2 {
        if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '`' && s[len(s)-1] == '`') {
            return s[1 : len(s)-1]
        }
    }
    return s
}

func stringifyArg(v any) string {
    switch t := v.(type) {
    case string:
        return t
    case float64:
        return strconv.FormatFloat(t, 'f', -1, 64)
    case bool:
        return strconv.FormatBool(t)
    default:
        b, _ := json.Marshal(t)
        return string(b)
    }
}
