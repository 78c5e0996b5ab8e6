package llm

import (
    "os"
    "time"
)

func clientTimeout() time.Duration {
    if v := os.Getenv("LLM_HTTP_TIMEOUT_MS"); v != "" {
        if ms, err := time.ParseDuration(v + "ms"); err == nil { return ms }
    }
    return 120 * time.Second
}

func getModelWithDefault(envKey, def string) string {
    if v := os.Getenv(envKey); v != "" { return v }
    return def
}
