package agent

import (
    "testing"

    "github.com/stretchr/testify/require"

    "github.com/example/huginn/internal/models"
)

func TestParseFinalAnswer(t *testing.T) {
    for _, raw := range []string{
        "Final Answer: Oslo",
        "final answer - Oslo",
        "FinalAnswer: Oslo",
        "  Final  Answer :  Oslo  ",
    } {
        step, err := Parse(raw)
        require.NoError(t, err, raw)
        require.Equal(t, models.StepFinalAnswer, step.Kind)
        require.Equal(t, "Oslo", step.Answer)
    }
}

func TestParseFinalAnswerOnFollowingLines(t *testing.T) {
    step, err := Parse("Final Answer:\nThe capital of Norway\nis Oslo.")
    require.NoError(t, err)
    require.Equal(t, "The capital of Norway\nis Oslo.", step.Answer)
}

func TestParseThoughtWithAction(t *testing.T) {
    step, err := Parse("Thought: need fresh data\nAction: web_search{query: 'oslo population'}")
    require.NoError(t, err)
    require.Equal(t, models.StepAction, step.Kind)
    require.Equal(t, "need fresh data", step.Thought)
    require.Equal(t, "web_search", step.Call.Tool)
    require.Equal(t, "oslo population", step.Call.Args["query"])
}

func TestParseActionJSONArgs(t *testing.T) {
    step, err := Parse(`Action: web_search{"query": "go 1.24 release date", "count": 3}`)
    require.NoError(t, err)
    require.Equal(t, "go 1.24 release date", step.Call.Args["query"])
    require.Equal(t, "3", step.Call.Args["count"])
}

func TestParseActionInputOnNextLine(t *testing.T) {
    step, err := Parse("Action: fetch_page\nAction Input: {url: 'https://example.com'}")
    require.NoError(t, err)
    require.Equal(t, "fetch_page", step.Call.Tool)
    require.Equal(t, "https://example.com", step.Call.Args["url"])
}

func TestParseActionNoArgs(t *testing.T) {
    step, err := Parse("Action: web_search")
    require.NoError(t, err)
    require.Equal(t, "web_search", step.Call.Tool)
    require.Empty(t, step.Call.Args)
}

func TestParseFirstActingMarkerWins(t *testing.T) {
    step, err := Parse("Thought: a\nAction: web_search{query: 'x'}\nFinal Answer: ignored\nAction: fetch_page{url: 'y'}")
    require.NoError(t, err)
    require.Equal(t, models.StepAction, step.Kind)
    require.Equal(t, "web_search", step.Call.Tool)
}

func TestParseThoughtOnly(t *testing.T) {
    step, err := Parse("Thought: I should break this task into parts.")
    require.NoError(t, err)
    require.Equal(t, models.StepThought, step.Kind)
    require.Equal(t, "I should break this task into parts.", step.Thought)
}

func TestParseNoStep(t *testing.T) {
    for _, raw := range []string{
        "",
        "Here is some free prose with no markers at all.",
        "Final Answer:",
    } {
        _, err := Parse(raw)
        require.ErrorIs(t, err, ErrNoStep, raw)
    }
}

func TestParseArgValueWithComma(t *testing.T) {
    step, err := Parse("Action: web_search{query: 'oslo, norway'}")
    require.NoError(t, err)
    require.Equal(t, "oslo, norway", step.Call.Args["query"])
}
