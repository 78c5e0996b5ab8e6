package watcher

import (
    "log"

    "github.com/example/huginn/internal/models"
)

// Queue is a bounded FIFO of pending tasks. The watcher pushes, the single
// consumer loop in main pops; when full, new tasks are dropped with a log
// line rather than blocking the watcher goroutine.
type Queue struct {
    ch chan *models.Task
}

func NewQueue(size int) *Queue {
    if size <= 0 { size = 16 }
    return &Queue{ch: make(chan *models.Task, size)}
}

// Push enqueues a task, reporting whether it was accepted.
func (q *Queue) Push(task *models.Task) bool {
    select {
    case q.ch <- task:
        return true
    default:
        log.Printf("task queue full (%d pending), dropping task %s", cap(q.ch), task.ID)
        return false
    }
}

// C is the consumer end.
func (q *Queue) C() <-chan *models.Task { return q.ch }

// Depth is the number of tasks waiting, for the status endpoint.
func (q *Queue) Depth() int { return len(q.ch) }
