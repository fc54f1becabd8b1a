package viewer

import (
	"context"
	"sync"
)

// Loop is a manually stepped Scheduler. Dispatched tasks and async jobs wait
// in separate FIFO queues until Step, RunJob or Drain runs them, which makes
// interleavings of UI work and engine replies reproducible.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	jobs  []func()
}

// NewLoop creates an empty Loop
func NewLoop() *Loop {
	return &Loop{}
}

// Dispatch queues fn on the UI queue
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
}

// Async queues fn on the job queue
func (l *Loop) Async(fn func()) {
	l.mu.Lock()
	l.jobs = append(l.jobs, fn)
	l.mu.Unlock()
}

// Pending returns the number of queued tasks and jobs
func (l *Loop) Pending() (tasks, jobs int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks), len(l.jobs)
}

// Step runs the oldest UI task, reporting whether there was one
func (l *Loop) Step() bool {
	return l.pop(&l.tasks)
}

// RunJob runs the oldest async job, reporting whether there was one
func (l *Loop) RunJob() bool {
	return l.pop(&l.jobs)
}

func (l *Loop) pop(queue *[]func()) bool {
	l.mu.Lock()
	if len(*queue) == 0 {
		l.mu.Unlock()
		return false
	}
	fn := (*queue)[0]
	*queue = (*queue)[1:]
	l.mu.Unlock()
	fn()
	return true
}

// Drain runs tasks and jobs until both queues are empty and returns how many
// it ran. UI tasks go first.
func (l *Loop) Drain() int {
	n := 0
	for {
		if l.Step() || l.RunJob() {
			n++
			continue
		}
		return n
	}
}

// RunUntil runs tasks and jobs until cond holds or nothing is left to run
func (l *Loop) RunUntil(cond func() bool) bool {
	for !cond() {
		if !l.Step() && !l.RunJob() {
			return cond()
		}
	}
	return true
}

// EventLoop is a Scheduler backed by a single goroutine for UI tasks and one
// goroutine per async job.
type EventLoop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	jobs   sync.WaitGroup
	closed bool
}

// NewEventLoop creates an EventLoop; call Run to process tasks
func NewEventLoop() *EventLoop {
	return &EventLoop{wake: make(chan struct{}, 1)}
}

// Dispatch queues fn for the loop goroutine. It never blocks, so tasks may
// dispatch further tasks.
func (e *EventLoop) Dispatch(fn func()) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.queue = append(e.queue, fn)
	e.mu.Unlock()
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Async runs fn on its own goroutine
func (e *EventLoop) Async(fn func()) {
	e.jobs.Add(1)
	go func() {
		defer e.jobs.Done()
		fn()
	}()
}

// Run processes dispatched tasks until ctx is done. Pending async jobs are
// waited for before Run returns; their late dispatches are dropped.
func (e *EventLoop) Run(ctx context.Context) error {
	defer func() {
		e.mu.Lock()
		e.closed = true
		e.queue = nil
		e.mu.Unlock()
		e.jobs.Wait()
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.wake:
		}
		for {
			e.mu.Lock()
			if len(e.queue) == 0 {
				e.mu.Unlock()
				break
			}
			fn := e.queue[0]
			e.queue = e.queue[1:]
			e.mu.Unlock()
			fn()
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
}
