// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package effect

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Task is a unit of detached work.
type Task func(ctx context.Context) Outcome

// Handle tracks a submitted task. Callers on the request path never wait
// on it; it exists for tests, shutdown and diagnostics.
type Handle struct {
	name    string
	done    chan struct{}
	outcome Outcome
}

func newHandle(name string) *Handle {
	return &Handle{name: name, done: make(chan struct{})}
}

func (h *Handle) finish(o Outcome) {
	h.outcome = o
	close(h.done)
}

// Name returns the effect name the task was submitted under.
func (h *Handle) Name() string { return h.name }

// Done is closed once the task has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the task finishes or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-h.done:
		return h.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

type job struct {
	ctx    context.Context
	task   Task
	handle *Handle
	onDone func(Outcome)
}

// Runner executes submitted tasks on a fixed pool of worker goroutines fed
// by a buffered channel. Submit never blocks: when the queue is full the
// task is rejected with a KindOverloaded outcome. There are no retries.
type Runner struct {
	mu     sync.RWMutex
	closed bool
	jobs   chan job
	wg     sync.WaitGroup
}

// DefaultWorkers and DefaultQueueSize size the pool when the caller passes 0.
const (
	DefaultWorkers   = 8
	DefaultQueueSize = 256
)

// NewRunner starts a runner with the given number of workers and queue
// capacity.
func NewRunner(workers, queueSize int) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	r := &Runner{jobs: make(chan job, queueSize)}
	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.work()
	}
	return r
}

// Submit queues task under name and returns immediately. The task runs on
// a context that keeps ctx's values (trace spans) but not its cancellation,
// so a finished HTTP request does not abort it. onDone, if non-nil, is
// called with the outcome on the worker goroutine.
func (r *Runner) Submit(ctx context.Context, name string, task Task, onDone func(Outcome)) *Handle {
	h := newHandle(name)
	j := job{ctx: context.WithoutCancel(ctx), task: task, handle: h, onDone: onDone}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.reject(j, "runner is shut down")
		return h
	}

	select {
	case r.jobs <- j:
	default:
		r.reject(j, "background queue is full")
	}
	return h
}

// reject completes a job without running it.
func (r *Runner) reject(j job, reason string) {
	o := Failf(j.handle.name, KindOverloaded, "%s", reason)
	slog.Warn("background task rejected", o.LogAttrs()...)
	notify(j.onDone, o)
	j.handle.finish(o)
}

// Close stops accepting work and waits for queued tasks to drain or ctx to
// expire.
func (r *Runner) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.jobs)
	}
	r.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("runner drain: %w", ctx.Err())
	}
}

func (r *Runner) work() {
	defer r.wg.Done()
	for j := range r.jobs {
		o := run(j)
		notify(j.onDone, o)
		j.handle.finish(o)
	}
}

// run executes one task, converting a panic into a KindPanic outcome so a
// misbehaving dispatcher can't take the worker down.
func run(j job) (o Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("background task panicked",
				"effect", j.handle.name,
				"error", rec,
				"stack", string(debug.Stack()),
			)
			o = Failf(j.handle.name, KindPanic, "panic: %v", rec)
		}
	}()

	o = j.task(j.ctx)
	if o.Effect == "" {
		o.Effect = j.handle.name
	}
	return o
}

func notify(onDone func(Outcome), o Outcome) {
	if onDone == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("background task callback panicked", "effect", o.Effect, "error", rec)
		}
	}()
	onDone(o)
}
