package api

import (
    "encoding/json"
    "net/http"
    "sync"
    "time"

    "github.com/example/huginn/internal/models"
)

// Stats collects run counters for the status endpoint. The consumer loop
// records outcomes; the HTTP handler reads them.
type Stats struct {
    mu   sync.Mutex
    runs int
    last *outcomeSummary
}

type outcomeSummary struct {
    TaskID     string              `json:"task_id"`
    Task       string              `json:"task"`
    State      models.OutcomeState `json:"state"`
    Reason     string              `json:"reason,omitempty"`
    ModelCalls int                 `json:"model_calls"`
    ToolCalls  int                 `json:"tool_calls"`
    FinishedAt time.Time           `json:"finished_at"`
}

func (s *Stats) Record(task *models.Task, outcome *models.Outcome) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.runs++
    s.last = &outcomeSummary{
        TaskID:     task.ID,
        Task:       task.Text,
        State:      outcome.State,
        Reason:     outcome.Reason,
        ModelCalls: outcome.ModelCalls,
        ToolCalls:  outcome.ToolCalls,
        FinishedAt: outcome.FinishedAt,
    }
}

func (s *Stats) snapshot() (int, *outcomeSummary) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.runs, s.last
}

// Queue is the part of the task queue the status endpoint needs.
type Queue interface {
    Depth() int
}

// RegisterRoutes mounts the read-only status surface.
func RegisterRoutes(mux *http.ServeMux, stats *Stats, queue Queue) {
    mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        w.Write([]byte("ok"))
    })

    mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
        runs, last := stats.snapshot()
        respondJSON(w, struct {
            QueueDepth    int             `json:"queue_depth"`
            RunsCompleted int             `json:"runs_completed"`
            LastOutcome   *outcomeSummary `json:"last_outcome,omitempty"`
        }{queue.Depth(), runs, last})
    })
}

func respondJSON(w http.ResponseWriter, v any) {
    w.Header().Set("Content-Type", "application/json")
    enc := json.NewEncoder(w)
    enc.SetIndent("", "  ")
    enc.Encode(v)
}
