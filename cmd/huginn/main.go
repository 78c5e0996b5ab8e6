package main

import (
    "context"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"

    "github.com/joho/godotenv"

    "github.com/example/huginn/internal/agent"
    "github.com/example/huginn/internal/api"
    "github.com/example/huginn/internal/config"
    "github.com/example/huginn/internal/mailer"
    "github.com/example/huginn/internal/providers/llm"
    "github.com/example/huginn/internal/tools"
    "github.com/example/huginn/internal/watcher"
)

func main() {
    if err := godotenv.Load(); err == nil {
        log.Printf("loaded configuration from .env")
    }
    cfg := config.FromEnv()

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    reg := tools.NewRegistry()
    reg.Register(tools.NewWebSearchTool())
    reg.Register(tools.NewFetchPageTool())
    reg.Register(tools.NewReadFileTool(cfg.FileRoot))

    client := llm.NewFromEnv(ctx)
    runner := agent.NewRunner(client, reg, agent.NewPromptBuilder(reg, cfg.PromptTokenBudget))
    budget := agent.Budget{MaxSteps: cfg.MaxSteps, MaxWallTime: cfg.MaxWallTime}

    sink := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.Sender, cfg.Recipient)

    queue := watcher.NewQueue(cfg.QueueSize)
    w, err := watcher.New(cfg.TasksFile, queue)
    if err != nil {
        log.Fatalf("cannot watch tasks file: %v", err)
    }
    if err := w.Start(ctx); err != nil {
        log.Fatalf("cannot start watcher: %v", err)
    }
    defer w.Stop()

    stats := &api.Stats{}
    if cfg.StatusAddr != "" {
        mux := http.NewServeMux()
        api.RegisterRoutes(mux, stats, queue)
        go func() {
            log.Printf("status server listening on %s", cfg.StatusAddr)
            if err := http.ListenAndServe(cfg.StatusAddr, mux); err != nil {
                log.Printf("status server stopped: %v", err)
            }
        }()
    }

    log.Printf("huginn ready, provider=%s model=%s", cfg.Provider, cfg.OllamaModel)

    // one run at a time; tasks arriving during a run wait in the queue
    for {
        select {
        case <-ctx.Done():
            log.Printf("shutting down")
            return
        case task := <-queue.C():
            log.Printf("task %s started: %.80s", task.ID, task.Text)
            outcome := runner.Run(ctx, task, budget)
            log.Printf("task %s finished: %s (%d model calls, %d tool calls)",
                task.ID, outcome.State, outcome.ModelCalls, outcome.ToolCalls)
            stats.Record(task, outcome)
            if err := sink.Deliver(ctx, task, outcome); err != nil {
                log.Printf("delivery failed for task %s: %v", task.ID, err)
            }
        }
    }
}
