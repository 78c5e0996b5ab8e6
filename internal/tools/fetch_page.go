package tools

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "golang.org/x/net/html"
)

// FetchPageTool performs a bounded HTTP GET and converts HTML responses to
// plain text so the model gets something readable instead of markup.
type FetchPageTool struct {
    client *http.Client
}

func NewFetchPageTool() *FetchPageTool {
    timeout := time.Duration(envInt("FETCH_TIMEOUT_MS", 15000)) * time.Millisecond
    return &FetchPageTool{client: &http.Client{Timeout: timeout}}
}

func (t *FetchPageTool) Name() string { return "fetch_page" }

func (t *FetchPageTool) Description() string {
    return "Fetch a web page by URL and return its text content. Input: a full http(s) URL."
}

func (t *FetchPageTool) Required() []string { return []string{"url"} }

func (t *FetchPageTool) Execute(ctx context.Context, args map[string]string) (string, error) {
    pageURL := strings.TrimSpace(args["url"])
    if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
        return "", fmt.Errorf("url must start with http:// or https://")
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
    if err != nil { return "", err }
    req.Header.Set("User-Agent", searchUserAgent)

    resp, err := t.client.Do(req)
    if err != nil { return "", fmt.Errorf("fetch failed: %w", err) }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        return "", fmt.Errorf("fetch returned status %d", resp.StatusCode)
    }

    max := envInt("FETCH_MAX_BYTES", 2<<20)
    lr := io.LimitedReader{R: resp.Body, N: int64(max)}
    body, err := io.ReadAll(&lr)
    if err != nil { return "", fmt.Errorf("read body: %w", err) }

    text := string(body)
    ctype := resp.Header.Get("Content-Type")
    if strings.Contains(ctype, "html") || looksLikeHTML(text) {
        text, err = htmlToText(text)
        if err != nil { return "", fmt.Errorf("parse html: %w", err) }
    }
    return strings.TrimSpace(text), nil
}

func looksLikeHTML(s string) bool {
    lower := strings.ToLower(s)
    return strings.Contains(lower, "<html") || strings.Contains(lower, "<body")
}

func htmlToText(htmlStr string) (string, error) {
    node, err := html.Parse(strings.NewReader(htmlStr))
    if err != nil { return "", err }
    var b strings.Builder
    extractText(node, &b, false)
    return compactWhitespace(b.String()), nil
}

func extractText(n *html.Node, b *strings.Builder, inHidden bool) {
    if n.Type == html.ElementNode {
        // skip script/style/noscript
        switch strings.ToLower(n.Data) {
        case "script", "style", "noscript":
            inHidden = true
        case "br", "p", "div", "li", "tr":
            b.WriteString("\n")
        }
    }
    if !inHidden && n.Type == html.TextNode {
        b.WriteString(n.Data)
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        extractText(c, b, inHidden)
    }
}

func compactWhitespace(s string) string {
    s = strings.ReplaceAll(s, "\t", " ")
    s = strings.ReplaceAll(s, "\r", " ")
    lines := strings.Split(s, "\n")
    var out []string
    for _, ln := range lines {
        ln = strings.Join(strings.Fields(ln), " ")
        if ln != "" { out = append(out, ln) }
    }
    return strings.Join(out, "\n")
}
