// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queue schedules pipeline runs onto a bounded worker pool. Each
// submitted question becomes exactly one coordinator execution under a fresh
// run ID; results are read back from the shared record store.
package queue

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// Runner executes one pipeline run to a terminal record.
type Runner interface {
	Run(ctx context.Context, runID, question string) *types.PipelineRecord
}

// RunStore reads and writes run records.
type RunStore interface {
	Put(ctx context.Context, record *types.PipelineRecord) error
	Get(ctx context.Context, id string) (*types.PipelineRecord, error)
}

type task struct {
	runID    string
	question string
}

// Queue owns the worker pool. Construct with New, then Start once; Submit
// may be called from any goroutine until Shutdown.
type Queue struct {
	runner  Runner
	store   RunStore
	workers int
	tasks   chan task
	wg      sync.WaitGroup
	w       io.Writer

	mu       sync.Mutex
	stats    Stats
	totalRun time.Duration
	started  bool
}

// Stats counts run outcomes across the queue's lifetime.
type Stats struct {
	Submitted    int           `json:"submitted" yaml:"submitted"`
	Completed    int           `json:"completed" yaml:"completed"`
	Failed       int           `json:"failed" yaml:"failed"`
	InFlight     int           `json:"in_flight" yaml:"in_flight"`
	MeanDuration time.Duration `json:"mean_duration" yaml:"mean_duration"`
}

// New builds a queue over the runner and store. w receives worker log lines;
// nil discards them.
func New(runner Runner, store RunStore, cfg types.QueueConfig, w io.Writer) *Queue {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	if w == nil {
		w = io.Discard
	}
	return &Queue{
		runner:  runner,
		store:   store,
		workers: workers,
		tasks:   make(chan task, 4*workers),
		w:       w,
	}
}

// Start launches the worker pool. Workers exit when Shutdown closes the task
// channel or when ctx is cancelled.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-q.tasks:
			if !ok {
				return
			}
			fmt.Fprintf(q.w, "worker %d: starting run %s\n", id, t.runID)
			start := time.Now()
			record := q.runner.Run(ctx, t.runID, t.question)
			q.finish(record, time.Since(start))
			fmt.Fprintf(q.w, "worker %d: run %s %s\n", id, t.runID, record.Status)
		}
	}
}

// Submit registers the question, persists an initial processing record so
// readers never observe a missing run after submission, and enqueues it.
// Returns the generated run ID.
func (q *Queue) Submit(ctx context.Context, question string) (string, error) {
	runID := uuid.NewString()
	record := &types.PipelineRecord{
		ID:       runID,
		Question: question,
		Status:   types.StatusProcessing,
	}
	if err := q.store.Put(ctx, record); err != nil {
		return "", fmt.Errorf("registering run %s: %w", runID, err)
	}

	q.mu.Lock()
	q.stats.Submitted++
	q.stats.InFlight++
	q.mu.Unlock()

	select {
	case q.tasks <- task{runID: runID, question: question}:
	case <-ctx.Done():
		q.mu.Lock()
		q.stats.Submitted--
		q.stats.InFlight--
		q.mu.Unlock()
		return "", ctx.Err()
	}
	return runID, nil
}

func (q *Queue) finish(record *types.PipelineRecord, elapsed time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stats.InFlight--
	q.totalRun += elapsed
	if record.Status == types.StatusFailed {
		q.stats.Failed++
	} else {
		q.stats.Completed++
	}
}

// Get returns the current record for the run ID.
func (q *Queue) Get(ctx context.Context, runID string) (*types.PipelineRecord, error) {
	return q.store.Get(ctx, runID)
}

// Watch polls the record until its status is terminal, then returns it once.
// A missing record is tolerated until the first write lands.
func (q *Queue) Watch(ctx context.Context, runID string, interval time.Duration) (*types.PipelineRecord, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		record, err := q.store.Get(ctx, runID)
		if err == nil && record.Status.Terminal() {
			return record, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Stats returns a snapshot of the run counters. MeanDuration averages over
// finished runs only.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.stats
	if done := s.Completed + s.Failed; done > 0 {
		s.MeanDuration = q.totalRun / time.Duration(done)
	}
	return s
}

// Shutdown stops accepting tasks and waits for in-flight runs to finish.
func (q *Queue) Shutdown() {
	close(q.tasks)
	q.wg.Wait()
}
