package agent

import (
    "fmt"
    "sort"
    "strings"

    "github.com/pkoukk/tiktoken-go"

    "github.com/example/huginn/internal/models"
    "github.com/example/huginn/internal/tools"
)

const promptPreamble = `You are Huginn, an autonomous research agent. Solve the task below. Use a tool whenever you need information you do not reliably know.

Respond with exactly ONE step per turn, in one of these forms:

Thought: <your reasoning about what to do next>
Action: <tool_name>{<arg>: '<value>', ...}
Final Answer: <the complete answer to the task>

A Thought line may directly precede an Action or Final Answer line. After an Action you will receive an Observation line with the tool result. When you know the answer, reply with Final Answer and nothing after it.`

// PromptBuilder renders a transcript into the next model request. Build is a
// pure function of the transcript, so identical histories produce identical
// prompts.
type PromptBuilder struct {
    registry *tools.Registry
    budget   int
    enc      *tiktoken.Tiktoken
}

// NewPromptBuilder creates a builder with a token budget. Token counts use
// the cl100k_base encoding; if the encoding cannot be loaded (offline first
// run, tiktoken downloads its dictionary) a bytes/4 estimate is used instead.
func NewPromptBuilder(registry *tools.Registry, tokenBudget int) *PromptBuilder {
    enc, err := tiktoken.GetEncoding("cl100k_base")
    if err != nil { enc = nil }
    return &PromptBuilder{registry: registry, budget: tokenBudget, enc: enc}
}

func (b *PromptBuilder) countTokens(s string) int {
    if b.enc != nil { return len(b.enc.Encode(s, nil, nil)) }
    return len(s) / 4
}

// Build renders preamble, tool catalogue, task and history. If the result
// exceeds the token budget, whole Thought/Action/Observation groups are
// dropped oldest-first; the task statement is always preserved.
func (b *PromptBuilder) Build(tr *models.Transcript) string {
    groups := groupSteps(tr.Steps)
    dropped := 0
    for {
        prompt := b.render(tr.Task, groups[dropped:], dropped)
        if b.budget <= 0 || b.countTokens(prompt) <= b.budget || dropped >= len(groups) {
            return prompt
        }
        dropped++
    }
}

func (b *PromptBuilder) render(task *models.Task, groups [][]models.Step, dropped int) string {
    var p strings.Builder
    p.WriteString(promptPreamble)
    p.WriteString("\n\nAvailable tools:\n")
    for _, t := range b.registry.List() {
        fmt.Fprintf(&p, "- %s (required: %s): %s\n", t.Name(), strings.Join(t.Required(), ", "), t.Description())
    }
    fmt.Fprintf(&p, "\nTask: %s\n", task.Text)
    if dropped > 0 {
        fmt.Fprintf(&p, "\n[%d earlier exchange(s) omitted to fit the context window]\n", dropped)
    }
    for _, group := range groups {
        for _, s := range group {
            p.WriteString(renderStep(s))
        }
    }
    return p.String()
}

func renderStep(s models.Step) string {
    switch s.Kind {
    case models.StepThought:
        return "Thought: " + s.Text + "\n"
    case models.StepAction:
        return fmt.Sprintf("Action: %s%s\n", s.Tool, renderArgs(s.Args))
    case models.StepObservation:
        if !s.OK { return "Observation (error): " + s.Text + "\n" }
        return "Observation: " + s.Text + "\n"
    case models.StepFinalAnswer:
        return "Final Answer: " + s.Text + "\n"
    }
    return ""
}

func renderArgs(args map[string]string) string {
    if len(args) == 0 { return "{}" }
    keys := make([]string, 0, len(args))
    for k := range args { keys = append(keys, k) }
    // deterministic order so Build stays a pure function
    sort.Strings(keys)
    var b strings.Builder
    b.WriteByte('{')
    for i, k := range keys {
        if i > 0 { b.WriteString(", ") }
        fmt.Fprintf(&b, "%s: '%s'", k, args[k])
    }
    b.WriteByte('}')
    return b.String()
}

// groupSteps bundles the history into droppable units: a Thought plus any
// Action/Observation pair it led to, or a bare Action/Observation pair. The
// truncation policy drops these oldest-first, never splitting a pair.
func groupSteps(steps []models.Step) [][]models.Step {
    var groups [][]models.Step
    var cur []models.Step
    for _, s := range steps {
        switch s.Kind {
        case models.StepThought:
            if len(cur) > 0 { groups = append(groups, cur) }
            cur = []models.Step{s}
        case models.StepAction:
            if len(cur) > 0 && cur[len(cur)-1].Kind != models.StepThought {
                groups = append(groups, cur)
                cur = nil
            }
            cur = append(cur, s)
        case models.StepObservation:
            cur = append(cur, s)
            groups = append(groups, cur)
            cur = nil
        default:
            cur = append(cur, s)
        }
    }
    if len(cur) > 0 { groups = append(groups, cur) }
    return groups
}
