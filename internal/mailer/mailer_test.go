package mailer

import (
    "context"
    "errors"
    "net/smtp"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/require"

    "github.com/example/huginn/internal/models"
)

func solvedOutcome() (*models.Task, *models.Outcome) {
    task := &models.Task{ID: "t1", Text: "what is the capital of norway"}
    return task, &models.Outcome{
        State: models.OutcomeSolved, Answer: "Oslo",
        ModelCalls: 2, ToolCalls: 1,
        StartedAt: time.Now(), FinishedAt: time.Now(),
    }
}

func TestSubjectClipped(t *testing.T) {
    task := &models.Task{Text: strings.Repeat("long task text ", 20)}
    subject := Subject(task)
    require.True(t, strings.HasPrefix(subject, "[Huginn] "))
    require.LessOrEqual(t, len(subject), len("[Huginn] ")+60)
    require.True(t, strings.HasSuffix(subject, "..."))
}

func TestBodySolvedCarriesAnswer(t *testing.T) {
    task, outcome := solvedOutcome()
    body := Body(task, outcome)
    require.Contains(t, body, "Oslo")
    require.Contains(t, body, "2 model call(s), 1 tool call(s)")
}

func TestBodyFailedCarriesTranscriptTail(t *testing.T) {
    task := &models.Task{ID: "t1", Text: "q"}
    tr := models.NewTranscript(task)
    require.NoError(t, tr.Append(models.Step{Kind: models.StepThought, Text: "hm"}))
    require.NoError(t, tr.Append(models.Step{Kind: models.StepAction, Tool: "web_search", Args: map[string]string{"query": "q"}}))
    require.NoError(t, tr.Append(models.Step{Kind: models.StepObservation, Tool: "web_search", Text: "nothing useful", OK: true}))
    outcome := &models.Outcome{State: models.OutcomeFailed, Reason: "model_unreachable", Transcript: tr}

    body := Body(task, outcome)
    require.Contains(t, body, "model_unreachable")
    require.Contains(t, body, "web_search")
    require.Contains(t, body, "nothing useful")
}

func TestDeliverRetriesThenSucceeds(t *testing.T) {
    m := New("smtp.example.com", 587, "u", "p", "huginn@example.com", "me@example.com")
    m.Backoff = time.Millisecond
    attempts := 0
    m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
        attempts++
        if attempts < 2 { return errors.New("454 try again") }
        require.Equal(t, "smtp.example.com:587", addr)
        require.Equal(t, []string{"me@example.com"}, to)
        require.Contains(t, string(msg), "Subject: [Huginn] what is the capital of norway")
        require.Contains(t, string(msg), "Oslo")
        return nil
    }

    task, outcome := solvedOutcome()
    require.NoError(t, m.Deliver(context.Background(), task, outcome))
    require.Equal(t, 2, attempts)
}

func TestDeliverGivesUpAfterRetries(t *testing.T) {
    m := New("smtp.example.com", 587, "", "", "huginn@example.com", "me@example.com")
    m.Backoff = time.Millisecond
    attempts := 0
    m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
        attempts++
        return errors.New("connection refused")
    }

    task, outcome := solvedOutcome()
    err := m.Deliver(context.Background(), task, outcome)
    require.Error(t, err)
    require.Equal(t, 3, attempts)
}

func TestDeliverStdoutFallbackWithoutHost(t *testing.T) {
    m := New("", 0, "", "", "huginn@localhost", "")
    task, outcome := solvedOutcome()
    require.NoError(t, m.Deliver(context.Background(), task, outcome))
}
