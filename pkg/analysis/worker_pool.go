package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/df07/go-principled-bsdf/pkg/core"
)

// Task is a unit of work run with its own deterministic sampler
type Task[T any] struct {
	ID   int   // For deterministic ordering
	Seed int64 // Seeds the task's sampler
	Run  func(sampler core.Sampler) (T, error)
}

// Result contains the output of a task
type Result[T any] struct {
	TaskID int
	Value  T
	Error  error
}

// WorkerPool runs tasks in parallel
type WorkerPool[T any] struct {
	taskQueue   chan Task[T]
	resultQueue chan Result[T]
	numWorkers  int
	wg          sync.WaitGroup
}

// NewWorkerPool creates a pool with numWorkers workers and room for queueSize
// pending tasks and results
func NewWorkerPool[T any](numWorkers, queueSize int) *WorkerPool[T] {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &WorkerPool[T]{
		taskQueue:   make(chan Task[T], queueSize),
		resultQueue: make(chan Result[T], queueSize),
		numWorkers:  numWorkers,
	}
}

// Start begins all workers
func (wp *WorkerPool[T]) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool[T]) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a task to the pool
func (wp *WorkerPool[T]) SubmitTask(task Task[T]) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed result
func (wp *WorkerPool[T]) GetResult() (Result[T], bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool[T]) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool[T]) run() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		sampler := core.NewSeededSampler(task.Seed)
		value, err := task.Run(sampler)
		wp.resultQueue <- Result[T]{
			TaskID: task.ID,
			Value:  value,
			Error:  err,
		}
	}
}

// runTasks executes tasks on a fresh pool and returns their values in task
// order. Task i is seeded with cfg.Seed+i so results do not depend on
// scheduling.
func runTasks[T any](ctx context.Context, cfg Config, tasks []func(core.Sampler) (T, error)) ([]T, error) {
	pool := NewWorkerPool[T](min(cfg.workers(), max(len(tasks), 1)), len(tasks))
	pool.Start()
	// Both queues are sized to hold every task
	defer pool.Stop()

	for i, run := range tasks {
		pool.SubmitTask(Task[T]{
			ID:   i,
			Seed: cfg.Seed + int64(i),
			Run: func(sampler core.Sampler) (T, error) {
				if err := ctx.Err(); err != nil {
					var zero T
					return zero, err
				}
				return run(sampler)
			},
		})
	}

	values := make([]T, len(tasks))
	for range tasks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result, ok := pool.GetResult()
		if !ok {
			return nil, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, fmt.Errorf("task %d: %w", result.TaskID, result.Error)
		}
		values[result.TaskID] = result.Value
	}
	return values, nil
}
