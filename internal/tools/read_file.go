package tools

import (
    "context"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    pdfx "github.com/ledongthuc/pdf"
)

// ReadFileTool loads a local text or PDF document so tasks can reference
// files sitting next to the tasks file. Paths are resolved under Root only.
type ReadFileTool struct {
    Root string
}

func NewReadFileTool(root string) *ReadFileTool {
    return &ReadFileTool{Root: root}
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
    return "Read a local text or PDF file and return its contents. Input: a path relative to the agent's working directory."
}

func (t *ReadFileTool) Required() []string { return []string{"path"} }

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]string) (string, error) {
    rel := strings.TrimSpace(args["path"])
    root, err := filepath.Abs(t.Root)
    if err != nil { return "", err }
    path := filepath.Join(root, filepath.Clean("/"+rel))

    info, err := os.Stat(path)
    if err != nil { return "", fmt.Errorf("stat %s: %w", rel, err) }
    if info.IsDir() { return "", fmt.Errorf("%s is a directory", rel) }
    max := int64(envInt("FILE_MAX_BYTES", 20*1024*1024))
    if info.Size() > max { return "", fmt.Errorf("file too large: %d bytes > limit %d", info.Size(), max) }

    if strings.EqualFold(filepath.Ext(path), ".pdf") {
        return extractPDF(path)
    }
    buf, err := os.ReadFile(path)
    if err != nil { return "", err }
    // magic check in case the extension lies
    if strings.HasPrefix(string(buf), "%PDF-") { return extractPDF(path) }
    return strings.TrimSpace(string(buf)), nil
}

func extractPDF(path string) (string, error) {
    f, r, err := pdfx.Open(path)
    if err != nil { return "", fmt.Errorf("open pdf: %w", err) }
    defer f.Close()

    maxPages := envInt("PDF_MAX_PAGES", 20)
    total := r.NumPage()
    if total > maxPages { total = maxPages }

    var out strings.Builder
    for page := 1; page <= total; page++ {
        p := r.Page(page)
        txt, _ := p.GetPlainText(nil)
        txt = strings.TrimSpace(txt)
        if txt != "" {
            out.WriteString(txt)
            out.WriteString("\n\n")
        }
    }
    text := strings.TrimSpace(out.String())
    if text == "" { return "", fmt.Errorf("no extractable text in %d page(s)", r.NumPage()) }
    return text, nil
}
