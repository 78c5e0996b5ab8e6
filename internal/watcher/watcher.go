package watcher

import (
    "context"
    "log"
    "os"
    "path/filepath"
    "strings"
    "sync"
    "time"

    "github.com/fsnotify/fsnotify"
    "github.com/google/uuid"

    "github.com/example/huginn/internal/models"
)

// Editors save in one burst of writes; collapse them into a single read.
const defaultDebounce = 1 * time.Second

// Watcher turns edits of the tasks file into queued tasks. It watches the
// file's directory (editors replace files on save, which would drop a watch
// on the file itself), filters events to the file, debounces, then reads the
// whole file as one task description.
type Watcher struct {
    path  string
    queue *Queue
    fsw   *fsnotify.Watcher

    Debounce time.Duration

    cancel context.CancelFunc
    wg     sync.WaitGroup

    mu       sync.Mutex
    timer    *time.Timer
    lastText string
}

// New creates a watcher for the given tasks file, creating the file empty if
// it does not exist yet.
func New(path string, queue *Queue) (*Watcher, error) {
    abs, err := filepath.Abs(path)
    if err != nil { return nil, err }
    if _, err := os.Stat(abs); os.IsNotExist(err) {
        if err := os.WriteFile(abs, nil, 0o644); err != nil { return nil, err }
        log.Printf("created tasks file %s", abs)
    }
    fsw, err := fsnotify.NewWatcher()
    if err != nil { return nil, err }
    return &Watcher{path: abs, queue: queue, fsw: fsw, Debounce: defaultDebounce}, nil
}

func (w *Watcher) Start(ctx context.Context) error {
    if err := w.fsw.Add(filepath.Dir(w.path)); err != nil { return err }
    ctx, w.cancel = context.WithCancel(ctx)
    w.wg.Add(1)
    go w.loop(ctx)
    log.Printf("watching %s for tasks", w.path)
    return nil
}

func (w *Watcher) Stop() {
    if w.cancel != nil { w.cancel() }
    w.wg.Wait()
    w.fsw.Close()

    w.mu.Lock()
    if w.timer != nil { w.timer.Stop() }
    w.mu.Unlock()
}

func (w *Watcher) loop(ctx context.Context) {
    defer w.wg.Done()
    for {
        select {
        case <-ctx.Done():
            return
        case event, ok := <-w.fsw.Events:
            if !ok { return }
            w.handleEvent(event)
        case err, ok := <-w.fsw.Errors:
            if !ok { return }
            log.Printf("watcher error: %v", err)
        }
    }
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
    if filepath.Clean(event.Name) != w.path {
        return
    }
    if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
        return
    }
    w.schedule()
}

func (w *Watcher) schedule() {
    w.mu.Lock()
    defer w.mu.Unlock()
    if w.timer != nil { w.timer.Stop() }
    w.timer = time.AfterFunc(w.Debounce, w.flush)
}

func (w *Watcher) flush() {
    data, err := os.ReadFile(w.path)
    if err != nil {
        log.Printf("cannot read tasks file: %v", err)
        return
    }
    text := strings.TrimSpace(string(data))

    w.mu.Lock()
    if text == "" || text == w.lastText {
        w.mu.Unlock()
        return
    }
    w.lastText = text
    w.mu.Unlock()

    task := &models.Task{ID: uuid.NewString(), Text: text, CreatedAt: time.Now()}
    if w.queue.Push(task) {
        log.Printf("queued task %s: %.80s", task.ID, text)
    }
}
