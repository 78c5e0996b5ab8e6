package watcher

import (
    "context"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/require"

    "github.com/example/huginn/internal/models"
)

func TestQueueBounded(t *testing.T) {
    q := NewQueue(2)
    require.True(t, q.Push(&models.Task{ID: "a"}))
    require.True(t, q.Push(&models.Task{ID: "b"}))
    require.False(t, q.Push(&models.Task{ID: "c"}))
    require.Equal(t, 2, q.Depth())

    first := <-q.C()
    require.Equal(t, "a", first.ID)
}

func TestWatcherCreatesMissingFile(t *testing.T) {
    path := filepath.Join(t.TempDir(), "tasks.txt")
    w, err := New(path, NewQueue(1))
    require.NoError(t, err)
    defer w.Stop()

    _, err = os.Stat(path)
    require.NoError(t, err)
}

func TestWatcherQueuesTaskOnWrite(t *testing.T) {
    path := filepath.Join(t.TempDir(), "tasks.txt")
    q := NewQueue(4)
    w, err := New(path, q)
    require.NoError(t, err)
    w.Debounce = 20 * time.Millisecond

    require.NoError(t, w.Start(context.Background()))
    defer w.Stop()

    require.NoError(t, os.WriteFile(path, []byte("what is the capital of norway\n"), 0o644))

    select {
    case task := <-q.C():
        require.Equal(t, "what is the capital of norway", task.Text)
        require.NotEmpty(t, task.ID)
    case <-time.After(5 * time.Second):
        t.Fatal("no task queued after file write")
    }
}

func TestWatcherIgnoresUnchangedContent(t *testing.T) {
    path := filepath.Join(t.TempDir(), "tasks.txt")
    q := NewQueue(4)
    w, err := New(path, q)
    require.NoError(t, err)
    w.Debounce = 20 * time.Millisecond

    require.NoError(t, w.Start(context.Background()))
    defer w.Stop()

    require.NoError(t, os.WriteFile(path, []byte("same task"), 0o644))
    <-q.C()

    // rewriting identical content must not produce a second task
    require.NoError(t, os.WriteFile(path, []byte("same task"), 0o644))
    select {
    case task := <-q.C():
        t.Fatalf("duplicate task queued: %s", task.Text)
    case <-time.After(200 * time.Millisecond):
    }
}
