package renderer

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// RowTask represents a row rendering task for the worker pool
type RowTask struct {
	Row int
}

// RowResult contains the colors of one finished row
type RowResult struct {
	Row    int
	Colors []core.Color
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	group       *errgroup.Group
	ctx         context.Context
	err         error
}

// Worker handles individual row rendering tasks
type Worker struct {
	ID        int
	raytracer *Raytracer
	seed      int64
	rows      int
}

// NewWorkerPool creates a worker pool sized for every row of the scene.
// numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(ctx context.Context, s *scene.Scene, numWorkers int, seed int64) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	group, ctx := errgroup.WithContext(ctx)
	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, s.Height()),   // Buffer for all rows
		resultQueue: make(chan RowResult, s.Height()), // Buffer for all results
		numWorkers:  numWorkers,
		group:       group,
		ctx:         ctx,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:        i,
			raytracer: NewRaytracer(s),
			seed:      seed,
		})
	}

	return wp
}

// Start begins all workers. The result queue is closed once every worker
// has returned.
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		worker := worker // per-iteration copy (go directive < 1.22)
		wp.group.Go(func() error {
			return worker.run(wp.ctx, wp.taskQueue, wp.resultQueue)
		})
	}

	go func() {
		wp.err = wp.group.Wait()
		close(wp.resultQueue)
	}()
}

// SubmitTask queues a row. It never blocks for rows of the scene.
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// Stop signals that no more tasks will be submitted
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
}

// Results returns the channel of finished rows. It is closed when all
// workers have stopped, after which Err reports the first failure.
func (wp *WorkerPool) Results() <-chan RowResult {
	return wp.resultQueue
}

// Err returns the first worker error. Only valid once Results is drained.
func (wp *WorkerPool) Err() error {
	return wp.err
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Stats sums the statistics of all workers. Only valid once Results is drained.
func (wp *WorkerPool) Stats() RenderStats {
	var stats RenderStats
	for _, worker := range wp.workers {
		workerStats := worker.raytracer.Stats()
		workerStats.Rows = worker.rows
		stats.Add(workerStats)
	}
	return stats
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, tasks <-chan RowTask, results chan<- RowResult) error {
	for task := range tasks {
		// Another worker failed; abandon the remaining rows
		if err := ctx.Err(); err != nil {
			return err
		}

		colors, err := w.renderRow(task.Row)
		if err != nil {
			return err
		}
		w.rows++

		results <- RowResult{Row: task.Row, Colors: colors}
	}
	return nil
}

// renderRow renders one row with its own deterministic random source,
// turning a panic into an error.
func (w *Worker) renderRow(row int) (colors []core.Color, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d: panic rendering row %d: %v\n%s", w.ID, row, r, debug.Stack())
		}
	}()

	return w.raytracer.RenderRow(row, core.NewRowRandom(w.seed, row)), nil
}
