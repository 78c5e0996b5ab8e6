package mailer

import (
    "context"
    "fmt"
    "log"
    "net/smtp"
    "strings"
    "time"

    "github.com/example/huginn/internal/models"
)

const (
    subjectLimit   = 60
    sendAttempts   = 3
    retryBackoff   = 2 * time.Second
    transcriptTail = 5
)

// Mailer delivers run outcomes by SMTP. With no Host configured it prints to
// stdout instead, so a run never vanishes silently on an unconfigured box.
type Mailer struct {
    Host      string
    Port      int
    User      string
    Password  string
    Sender    string
    Recipient string

    Backoff time.Duration

    // send is swapped out in tests.
    send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(host string, port int, user, password, sender, recipient string) *Mailer {
    return &Mailer{
        Host: host, Port: port, User: user, Password: password,
        Sender: sender, Recipient: recipient,
        Backoff: retryBackoff,
        send:    smtp.SendMail,
    }
}

// Deliver reports one outcome. Solved outcomes carry the answer; Exhausted
// and Failed outcomes carry a diagnostic with the transcript tail. Delivery
// is retried with backoff and then given up with a log line.
func (m *Mailer) Deliver(ctx context.Context, task *models.Task, outcome *models.Outcome) error {
    subject := Subject(task)
    body := Body(task, outcome)

    if m.Host == "" || m.Recipient == "" {
        fmt.Printf("=== %s ===\n%s\n", subject, body)
        return nil
    }

    msg := []byte("From: " + m.Sender + "\r\n" +
        "To: " + m.Recipient + "\r\n" +
        "Subject: " + subject + "\r\n" +
        "MIME-Version: 1.0\r\n" +
        "Content-Type: text/plain; charset=utf-8\r\n" +
        "\r\n" + body + "\r\n")

    addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
    var auth smtp.Auth
    if m.User != "" {
        auth = smtp.PlainAuth("", m.User, m.Password, m.Host)
    }

    var lastErr error
    for i := 0; i < sendAttempts; i++ {
        if i > 0 {
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(m.Backoff * time.Duration(i)):
            }
        }
        if lastErr = m.send(addr, auth, m.Sender, []string{m.Recipient}, msg); lastErr == nil {
            log.Printf("delivered outcome for task %s to %s", task.ID, m.Recipient)
            return nil
        }
        log.Printf("smtp send attempt %d failed: %v", i+1, lastErr)
    }
    return fmt.Errorf("giving up on delivery for task %s: %w", task.ID, lastErr)
}

// Subject is "[Huginn] <task>" with the task text clipped.
func Subject(task *models.Task) string {
    text := strings.Join(strings.Fields(task.Text), " ")
    if len(text) > subjectLimit {
        text = text[:subjectLimit-3] + "..."
    }
    return "[Huginn] " + text
}

// Body renders the outcome as a plain-text report.
func Body(task *models.Task, outcome *models.Outcome) string {
    var b strings.Builder
    fmt.Fprintf(&b, "Task: %s\n\n", task.Text)
    switch outcome.State {
    case models.OutcomeSolved:
        b.WriteString(outcome.Answer)
    case models.OutcomeExhausted:
        fmt.Fprintf(&b, "The agent ran out of budget before finding an answer (%s).\n", outcome.Reason)
        b.WriteString(tail(outcome))
    case models.OutcomeFailed:
        fmt.Fprintf(&b, "The agent failed: %s.\n", outcome.Reason)
        b.WriteString(tail(outcome))
    }
    fmt.Fprintf(&b, "\n\n-- %d model call(s), %d tool call(s), %s",
        outcome.ModelCalls, outcome.ToolCalls, outcome.FinishedAt.Sub(outcome.StartedAt).Round(time.Second))
    return b.String()
}

func tail(outcome *models.Outcome) string {
    if outcome.Transcript == nil || outcome.Transcript.Len() == 0 {
        return ""
    }
    steps := outcome.Transcript.Steps
    if len(steps) > transcriptTail {
        steps = steps[len(steps)-transcriptTail:]
    }
    var b strings.Builder
    b.WriteString("\nLast steps:\n")
    for _, s := range steps {
        line := s.Text
        if s.Kind == models.StepAction { line = s.Tool }
        if len(line) > 200 { line = line[:200] + "..." }
        fmt.Fprintf(&b, "  %s: %s\n", s.Kind, line)
    }
    return b.String()
}
