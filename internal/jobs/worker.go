package jobs

import (
	"context"
	"log"
	"time"

	"github.com/cloo-solutions/yuholens/internal/telemetry"
	"github.com/getsentry/sentry-go"
)

// Task is one unit of periodic work.
type Task interface {
	Run(ctx context.Context) error
}

// Worker runs a task once at start and then on every tick until stopped.
type Worker struct {
	name     string
	task     Task
	interval time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewWorker creates a Worker.
func NewWorker(name string, task Task, interval time.Duration) *Worker {
	return &Worker{
		name:     name,
		task:     task,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start runs the polling loop; it blocks until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Printf("%s: started with interval %v", w.name, w.interval)
	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("%s: stopped: context cancelled", w.name)
			return
		case <-w.stopChan:
			log.Printf("%s: stopped", w.name)
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *Worker) run(ctx context.Context) {
	ctx, span := telemetry.StartTransaction(ctx, w.name, "job")
	defer span.End()

	if err := w.task.Run(ctx); err != nil {
		log.Printf("%s: %v", w.name, err)
		span.SetError(err)
		return
	}
	span.SetStatus(sentry.SpanStatusOK)
}

// Stop ends the loop and waits for the running task to return.
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
}
