package tools

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "regexp"
    "strconv"
    "strings"
    "time"
)

const (
    defaultSearchCount  = 5
    maxSearchCount      = 10
    ddgEndpoint         = "https://html.duckduckgo.com/html/"
    searchUserAgent     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

type searchResult struct {
    Title   string
    URL     string
    Snippet string
}

// WebSearchTool queries the DuckDuckGo HTML endpoint (no API key needed) and
// returns an ordered list of result snippets.
type WebSearchTool struct {
    Endpoint string // defaults to ddgEndpoint
    Count    int    // defaults to defaultSearchCount
    client   *http.Client
}

func NewWebSearchTool() *WebSearchTool {
    timeout := time.Duration(envInt("SEARCH_TIMEOUT_MS", 30000)) * time.Millisecond
    return &WebSearchTool{client: &http.Client{Timeout: timeout}}
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Description() string {
    return "Search the internet for up-to-date information. Use this whenever you need facts, news, or data you are not sure about."
}

func (t *WebSearchTool) Required() []string { return []string{"query"} }

func (t *WebSearchTool) Execute(ctx context.Context, args map[string]string) (string, error) {
    query := strings.TrimSpace(args["query"])
    if query == "" { return "", fmt.Errorf("empty query") }
    count := t.Count
    if count <= 0 { count = defaultSearchCount }
    if n, err := strconv.Atoi(args["count"]); err == nil && n >= 1 && n <= maxSearchCount { count = n }

    endpoint := t.Endpoint
    if endpoint == "" { endpoint = ddgEndpoint }
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?q="+url.QueryEscape(query), nil)
    if err != nil { return "", err }
    req.Header.Set("User-Agent", searchUserAgent)

    resp, err := t.client.Do(req)
    if err != nil { return "", fmt.Errorf("search request failed: %w", err) }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK {
        return "", fmt.Errorf("search backend returned status %d", resp.StatusCode)
    }
    body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
    if err != nil { return "", fmt.Errorf("read search response: %w", err) }

    results := extractDDGResults(string(body), count)
    return formatSearchResults(query, results), nil
}

var (
    ddgLinkRe    = regexp.MustCompile(`<a[^>]*class="[^"]*result__a[^"]*"[^>]*href="([^"]+)"[^>]*>([\s\S]*?)</a>`)
    ddgSnippetRe = regexp.MustCompile(`<a class="result__snippet[^"]*".*?>([\s\S]*?)</a>`)
    htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
)

func extractDDGResults(html string, count int) []searchResult {
    linkMatches := ddgLinkRe.FindAllStringSubmatch(html, count+5)
    snippetMatches := ddgSnippetRe.FindAllStringSubmatch(html, count+5)

    var results []searchResult
    for i := 0; i < len(linkMatches) && i < count; i++ {
        rawURL := linkMatches[i][1]
        title := strings.TrimSpace(htmlTagRe.ReplaceAllString(linkMatches[i][2], ""))

        // DDG wraps result URLs in a redirect; the real URL sits in uddg=
        if strings.Contains(rawURL, "uddg=") {
            if u, err := url.QueryUnescape(rawURL); err == nil {
                if idx := strings.Index(u, "uddg="); idx != -1 {
                    extracted := u[idx+5:]
                    if amp := strings.Index(extracted, "&"); amp != -1 { extracted = extracted[:amp] }
                    rawURL = extracted
                }
            }
        }

        snippet := ""
        if i < len(snippetMatches) {
            snippet = strings.TrimSpace(htmlTagRe.ReplaceAllString(snippetMatches[i][1], ""))
        }
        results = append(results, searchResult{Title: title, URL: rawURL, Snippet: snippet})
    }
    return results
}

func formatSearchResults(query string, results []searchResult) string {
    if len(results) == 0 { return "No results found for: " + query }
    var b strings.Builder
    fmt.Fprintf(&b, "Search results for: %s\n\n", query)
    for i, r := range results {
        fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, r.Title, r.URL)
        if r.Snippet != "" { fmt.Fprintf(&b, "   %s\n", r.Snippet) }
        b.WriteByte('\n')
    }
    return strings.TrimSpace(b.String())
}
