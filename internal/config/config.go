package config

import (
    "os"
    "strconv"
    "time"
)

// Config is the process configuration, read once from the environment at
// startup. main loads .env first, so every field can also come from a dotenv
// file next to the binary.
type Config struct {
    TasksFile string

    Provider      string
    OllamaBaseURL string
    OllamaModel   string

    MaxSteps    int
    MaxWallTime time.Duration

    PromptTokenBudget int

    SMTPHost     string
    SMTPPort     int
    SMTPUser     string
    SMTPPassword string
    Sender       string
    Recipient    string

    QueueSize  int
    StatusAddr string
    FileRoot   string
}

func FromEnv() Config {
    return Config{
        TasksFile: envStr("TASKS_FILE", "tasks.txt"),

        Provider:      envStr("LLM_PROVIDER", "ollama"),
        OllamaBaseURL: envStr("OLLAMA_BASE_URL", "http://localhost:11434"),
        OllamaModel:   envStr("OLLAMA_MODEL", "qwen2.5:7b"),

        MaxSteps:    envInt("MAX_STEPS", 30),
        MaxWallTime: time.Duration(envInt("MAX_WALL_TIME_MS", 0)) * time.Millisecond,

        PromptTokenBudget: envInt("PROMPT_TOKEN_BUDGET", 8000),

        SMTPHost:     os.Getenv("SMTP_HOST"),
        SMTPPort:     envInt("SMTP_PORT", 587),
        SMTPUser:     os.Getenv("SMTP_USER"),
        SMTPPassword: os.Getenv("SMTP_PASSWORD"),
        Sender:       envStr("EMAIL_SENDER", "huginn@localhost"),
        Recipient:    os.Getenv("EMAIL_RECIPIENT"),

        QueueSize:  envInt("TASK_QUEUE_SIZE", 16),
        StatusAddr: os.Getenv("STATUS_ADDR"),
        FileRoot:   envStr("READ_FILE_ROOT", "."),
    }
}

func envStr(key, def string) string {
    if v := os.Getenv(key); v != "" { return v }
    return def
}

func envInt(key string, def int) int {
    if v := os.Getenv(key); v != "" { if n, err := strconv.Atoi(v); err == nil { return n } }
    return def
}
