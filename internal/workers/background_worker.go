package workers

import (
	"context"
	"log"
	"sync"
	"time"
)

// Task is a unit of background work. Interval 0 means the task runs once.
type Task struct {
	Name     string
	Handler  func(ctx context.Context) error
	Interval time.Duration
}

// BackgroundWorker runs tasks in goroutines until Shutdown cancels them.
// Tasks added before Start are queued; tasks added afterwards start at once.
type BackgroundWorker struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	pending  []Task
	started  bool
	stopOnce sync.Once
}

// NewBackgroundWorker creates a worker whose tasks stop when ctx is cancelled.
func NewBackgroundWorker(ctx context.Context) *BackgroundWorker {
	cctx, cancel := context.WithCancel(ctx)
	return &BackgroundWorker{
		ctx:    cctx,
		cancel: cancel,
	}
}

// Add queues or starts a task.
func (bw *BackgroundWorker) Add(task Task) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.started {
		bw.run(task)
		return
	}
	bw.pending = append(bw.pending, task)
}

// AddPeriodicTask adds a task that runs immediately and then every interval.
func (bw *BackgroundWorker) AddPeriodicTask(name string, interval time.Duration, handler func(ctx context.Context) error) {
	bw.Add(Task{Name: name, Handler: handler, Interval: interval})
}

// AddOneTimeTask adds a task that runs once.
func (bw *BackgroundWorker) AddOneTimeTask(name string, handler func(ctx context.Context) error) {
	bw.Add(Task{Name: name, Handler: handler})
}

// Start runs every queued task.
func (bw *BackgroundWorker) Start() {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.started {
		return
	}
	bw.started = true

	for _, task := range bw.pending {
		bw.run(task)
	}
	bw.pending = nil
}

// Context returns the context passed to task handlers.
func (bw *BackgroundWorker) Context() context.Context {
	return bw.ctx
}

func (bw *BackgroundWorker) run(task Task) {
	bw.wg.Add(1)
	go func(t Task) {
		defer bw.wg.Done()

		if t.Interval <= 0 {
			bw.invoke(t)
			return
		}

		ticker := time.NewTicker(t.Interval)
		defer ticker.Stop()

		bw.invoke(t)
		for {
			select {
			case <-bw.ctx.Done():
				log.Printf("Background task '%s' stopping", t.Name)
				return
			case <-ticker.C:
				bw.invoke(t)
			}
		}
	}(task)
}

// invoke calls the handler, logging errors and recovering panics so one task
// cannot take down the others.
func (bw *BackgroundWorker) invoke(t Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in task %s: %v", t.Name, r)
		}
	}()

	if err := t.Handler(bw.ctx); err != nil {
		log.Printf("Background task '%s' error: %v", t.Name, err)
	}
}

// Shutdown cancels all tasks and waits for them to return. It is safe to call more than once.
func (bw *BackgroundWorker) Shutdown() {
	bw.stopOnce.Do(func() {
		log.Println("Shutting down background tasks...")
		bw.cancel()
		bw.wg.Wait()
		log.Println("All background tasks stopped.")
	})
}
