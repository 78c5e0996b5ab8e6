package tools

import (
    "context"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/stretchr/testify/require"
)

const ddgFixture = `<html><body>
<div class="result">
  <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fen.wikipedia.org%2Fwiki%2FOslo&rut=abc">Oslo - <b>Wikipedia</b></a>
  <a class="result__snippet" href="#">Oslo is the <b>capital</b> of Norway.</a>
</div>
<div class="result">
  <a rel="nofollow" class="result__a" href="https://www.visitoslo.com/">Visit Oslo</a>
  <a class="result__snippet" href="#">Official travel guide.</a>
</div>
</body></html>`

func TestWebSearchExtractsResults(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        require.Equal(t, "capital of norway", r.URL.Query().Get("q"))
        w.Write([]byte(ddgFixture))
    }))
    defer srv.Close()

    tool := NewWebSearchTool()
    tool.Endpoint = srv.URL

    out, err := tool.Execute(context.Background(), map[string]string{"query": "capital of norway"})
    require.NoError(t, err)
    require.Contains(t, out, "1. Oslo - Wikipedia")
    require.Contains(t, out, "https://en.wikipedia.org/wiki/Oslo")
    require.Contains(t, out, "Oslo is the capital of Norway.")
    require.Contains(t, out, "2. Visit Oslo")
}

func TestWebSearchCountLimit(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(ddgFixture))
    }))
    defer srv.Close()

    tool := NewWebSearchTool()
    tool.Endpoint = srv.URL

    out, err := tool.Execute(context.Background(), map[string]string{"query": "oslo", "count": "1"})
    require.NoError(t, err)
    require.Contains(t, out, "1. Oslo - Wikipedia")
    require.NotContains(t, out, "Visit Oslo")
}

func TestWebSearchEmptyQueryFailsClosed(t *testing.T) {
    tool := NewWebSearchTool()
    _, err := tool.Execute(context.Background(), map[string]string{"query": "   "})
    require.Error(t, err)
}

func TestWebSearchBackendErrorFailsClosed(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusServiceUnavailable)
    }))
    defer srv.Close()

    tool := NewWebSearchTool()
    tool.Endpoint = srv.URL

    _, err := tool.Execute(context.Background(), map[string]string{"query": "oslo"})
    require.Error(t, err)
}

func TestWebSearchNoResults(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte("<html><body>no results markup</body></html>"))
    }))
    defer srv.Close()

    tool := NewWebSearchTool()
    tool.Endpoint = srv.URL

    out, err := tool.Execute(context.Background(), map[string]string{"query": "zxqw"})
    require.NoError(t, err)
    require.Contains(t, out, "No results found")
}
