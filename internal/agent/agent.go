package agent

import (
    "context"
    "errors"
    "log"
    "time"

    "github.com/example/huginn/internal/models"
    "github.com/example/huginn/internal/providers/llm"
    "github.com/example/huginn/internal/tools"
)

const (
    defaultMaxSteps     = 30
    defaultModelRetries = 3
    defaultRetryBackoff = 500 * time.Millisecond
)

// Budget bounds one run: a step count and a wall clock. Whichever is hit
// first terminates the run with an Exhausted outcome.
type Budget struct {
    MaxSteps    int
    MaxWallTime time.Duration
}

// Runner drives the ReAct loop for one task at a time: prompt the model,
// parse its step, dispatch tools, feed observations back, until a final
// answer or a budget boundary. It holds no per-run state; everything lives
// in the run's transcript, so a fresh run may start as soon as the previous
// one returns.
type Runner struct {
    Client   llm.Client
    Registry *tools.Registry
    Prompts  *PromptBuilder

    // ModelRetries is the number of attempts per reasoning step before the
    // run fails with model_unreachable; RetryBackoff is the base delay,
    // doubled per attempt.
    ModelRetries int
    RetryBackoff time.Duration
}

func NewRunner(client llm.Client, registry *tools.Registry, prompts *PromptBuilder) *Runner {
    return &Runner{Client: client, Registry: registry, Prompts: prompts}
}

// Run executes one task to a terminal outcome. Every run ends in exactly one
// of Solved, Exhausted or Failed; nothing escapes as a panic or a lost task.
func (r *Runner) Run(ctx context.Context, task *models.Task, budget Budget) *models.Outcome {
    start := time.Now()
    tr := models.NewTranscript(task)
    outcome := &models.Outcome{Transcript: tr, StartedAt: start}

    maxSteps := budget.MaxSteps
    if maxSteps <= 0 { maxSteps = defaultMaxSteps }

    for step := 0; step < maxSteps; step++ {
        // budget checkpoints: never interrupt an in-flight call, only
        // refuse to start the next one
        if budget.MaxWallTime > 0 && time.Since(start) >= budget.MaxWallTime {
            return r.finish(outcome, models.OutcomeExhausted, "", "wall clock budget exceeded")
        }
        if ctx.Err() != nil {
            return r.finish(outcome, models.OutcomeFailed, "", "canceled")
        }

        raw, err := r.infer(ctx, r.Prompts.Build(tr), outcome)
        if err != nil {
            log.Printf("task %s: model unreachable after %d attempt(s): %v", task.ID, outcome.ModelCalls, err)
            return r.finish(outcome, models.OutcomeFailed, "", "model_unreachable")
        }

        parsed, perr := Parse(raw)
        if perr != nil {
            // format errors are informational input for the next step and
            // still consume budget, so garbage output cannot stall forever
            log.Printf("task %s: unparseable model output: %v", task.ID, perr)
            r.append(tr, models.Step{Kind: models.StepObservation, OK: false, Text: "could not parse a valid step; reply with Thought:, Action: or Final Answer:"})
            continue
        }

        if parsed.Kind != models.StepThought && parsed.Thought != "" {
            r.append(tr, models.Step{Kind: models.StepThought, Text: parsed.Thought})
        }

        switch parsed.Kind {
        case models.StepThought:
            r.append(tr, models.Step{Kind: models.StepThought, Text: parsed.Thought})
        case models.StepFinalAnswer:
            r.append(tr, models.Step{Kind: models.StepFinalAnswer, Text: parsed.Answer})
            return r.finish(outcome, models.OutcomeSolved, parsed.Answer, "")
        case models.StepAction:
            r.append(tr, models.Step{Kind: models.StepAction, Tool: parsed.Call.Tool, Args: parsed.Call.Args})
            res := r.Registry.Dispatch(ctx, parsed.Call)
            outcome.ToolCalls++
            r.append(tr, models.Step{Kind: models.StepObservation, Tool: parsed.Call.Tool, Text: res.Output, OK: res.OK})
        }
    }
    return r.finish(outcome, models.OutcomeExhausted, "", "step budget exhausted")
}

// infer calls the model with bounded retry and backoff. Each attempt counts
// as a model call.
func (r *Runner) infer(ctx context.Context, prompt string, outcome *models.Outcome) (string, error) {
    attempts := r.ModelRetries
    if attempts <= 0 { attempts = defaultModelRetries }
    backoff := r.RetryBackoff
    if backoff <= 0 { backoff = defaultRetryBackoff }

    var lastErr error
    for i := 0; i < attempts; i++ {
        if i > 0 {
            select {
            case <-ctx.Done():
                return "", ctx.Err()
            case <-time.After(backoff * (1 << (i - 1))):
            }
        }
        outcome.ModelCalls++
        raw, err := r.Client.Generate(ctx, prompt)
        if err == nil { return raw, nil }
        lastErr = err
    }
    return "", lastErr
}

// append is Transcript.Append with the error logged instead of propagated:
// the controller sequences steps so a violation here is a bug, not a runtime
// condition, and must not kill the run.
func (r *Runner) append(tr *models.Transcript, s models.Step) {
    if err := tr.Append(s); err != nil && !errors.Is(err, models.ErrTranscriptTerminated) {
        log.Printf("transcript append rejected %s step: %v", s.Kind, err)
    }
}

func (r *Runner) finish(outcome *models.Outcome, state models.OutcomeState, answer, reason string) *models.Outcome {
    outcome.State = state
    outcome.Answer = answer
    outcome.Reason = reason
    outcome.FinishedAt = time.Now()
    return outcome
}
