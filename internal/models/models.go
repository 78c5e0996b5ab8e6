package models

import (
    "errors"
    "fmt"
    "time"
)

type StepKind string

const (
    StepThought     StepKind = "THOUGHT"
    StepAction      StepKind = "ACTION"
    StepObservation StepKind = "OBSERVATION"
    StepFinalAnswer StepKind = "FINAL_ANSWER"
)

// Task is one natural-language request read from the watched file.
// Immutable once created; owned by a single agent run until it terminates.
type Task struct {
    ID        string    `json:"id"`
    Text      string    `json:"text"`
    CreatedAt time.Time `json:"created_at"`
}

// Step is one transcript entry. Text holds the thought, the observation body
// or the final answer depending on Kind; Tool/Args are set for actions and
// Tool/OK for observations.
type Step struct {
    Kind StepKind          `json:"kind"`
    Text string            `json:"text,omitempty"`
    Tool string            `json:"tool,omitempty"`
    Args map[string]string `json:"args,omitempty"`
    OK   bool              `json:"ok,omitempty"`
}

// ToolCall is a request to invoke a named tool; validated against the
// registry before dispatch.
type ToolCall struct {
    Tool string            `json:"tool"`
    Args map[string]string `json:"args,omitempty"`
}

// ToolResult is what every dispatch returns, success or not. Category is one
// of the ErrCategory* constants when OK is false.
type ToolResult struct {
    OK       bool   `json:"ok"`
    Output   string `json:"output,omitempty"`
    Category string `json:"category,omitempty"`
}

const (
    ErrCategoryUnknownTool = "unknown_tool"
    ErrCategoryBadArgs     = "bad_args"
    ErrCategoryToolError   = "tool_error"
    ErrCategoryTimeout     = "timeout"
)

var (
    ErrTranscriptTerminated = errors.New("transcript already has a final answer")
    ErrObservationPending   = errors.New("previous action has no observation yet")
    ErrNoOpenAction         = errors.New("observation without a preceding action")
)

// Transcript is the append-only step history for one task run. It is owned by
// exactly one run at a time, so no locking.
type Transcript struct {
    Task  *Task  `json:"task"`
    Steps []Step `json:"steps"`
}

func NewTranscript(task *Task) *Transcript {
    return &Transcript{Task: task}
}

// Append adds a step, enforcing the structural invariants: nothing follows a
// final answer, and every action is followed by exactly one observation for
// the same tool before anything else. Observations without a tool name are
// synthetic (parse failures fed back to the model) and may appear anywhere.
func (t *Transcript) Append(s Step) error {
    if t.Terminated() { return ErrTranscriptTerminated }
    last, ok := t.Last()
    if ok && last.Kind == StepAction && s.Kind != StepObservation {
        return ErrObservationPending
    }
    if s.Kind == StepObservation && s.Tool != "" {
        if !ok || last.Kind != StepAction {
            return ErrNoOpenAction
        }
        if s.Tool != last.Tool {
            return fmt.Errorf("observation for tool %q but open action is %q", s.Tool, last.Tool)
        }
    }
    t.Steps = append(t.Steps, s)
    return nil
}

func (t *Transcript) Last() (Step, bool) {
    if len(t.Steps) == 0 { return Step{}, false }
    return t.Steps[len(t.Steps)-1], true
}

func (t *Transcript) Len() int { return len(t.Steps) }

// Terminated reports whether a final answer has been appended.
func (t *Transcript) Terminated() bool {
    last, ok := t.Last()
    return ok && last.Kind == StepFinalAnswer
}

// FinalAnswer returns the answer text when the transcript is terminated.
func (t *Transcript) FinalAnswer() (string, bool) {
    last, ok := t.Last()
    if !ok || last.Kind != StepFinalAnswer { return "", false }
    return last.Text, true
}

type OutcomeState string

const (
    OutcomeSolved    OutcomeState = "SOLVED"
    OutcomeExhausted OutcomeState = "EXHAUSTED"
    OutcomeFailed    OutcomeState = "FAILED"
)

// Outcome is the terminal value of one run. Exactly one is produced per task
// and handed to the result sink; the transcript is discarded afterwards.
type Outcome struct {
    State      OutcomeState `json:"state"`
    Answer     string       `json:"answer,omitempty"`
    Reason     string       `json:"reason,omitempty"`
    Transcript *Transcript  `json:"transcript,omitempty"`
    ModelCalls int          `json:"model_calls"`
    ToolCalls  int          `json:"tool_calls"`
    StartedAt  time.Time    `json:"started_at"`
    FinishedAt time.Time    `json:"finished_at"`
}
