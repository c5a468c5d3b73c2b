package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// RowCallback is called on the rendering goroutine after each row is stored.
// completed counts the rows finished so far, including this one.
type RowCallback func(row int, colors []core.Color, completed int)

// RenderConfig contains configuration for a render
type RenderConfig struct {
	NumWorkers  int         // Number of parallel workers (0 = use CPU count)
	Seed        int64       // Base seed; row y samples with Seed + y
	RowCallback RowCallback // Optional progress callback
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		NumWorkers: 0,
		Seed:       42,
	}
}

// Render traces every row of the scene in parallel and assembles the image.
// Output depends only on the scene and seed, never on the worker count.
// A failure in any worker aborts the render and no image is returned.
func Render(s *scene.Scene, config RenderConfig, logger core.Logger) (*ColorImage, RenderStats, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	start := time.Now()
	width, height := s.Width(), s.Height()
	img := NewColorImage(width, height)

	pool := NewWorkerPool(context.Background(), s, config.NumWorkers, config.Seed)
	logger.Printf("Rendering %dx%d (%d primitives, %d lights) with %d workers...\n",
		width, height, s.PrimitiveCount(), len(s.Lights), pool.GetNumWorkers())

	pool.Start()
	for y := 0; y < height; y++ {
		pool.SubmitTask(RowTask{Row: y})
	}
	pool.Stop()

	completed := 0
	var storeErr error
	for result := range pool.Results() {
		if storeErr != nil {
			continue
		}
		if err := img.SetRow(result.Row, result.Colors); err != nil {
			storeErr = err
			continue
		}
		completed++
		if config.RowCallback != nil {
			config.RowCallback(result.Row, result.Colors, completed)
		}
	}

	if err := pool.Err(); err != nil {
		logger.Printf("Render failed after %d of %d rows: %v\n", completed, height, err)
		return nil, RenderStats{}, fmt.Errorf("render failed: %w", err)
	}
	if storeErr != nil {
		return nil, RenderStats{}, fmt.Errorf("render failed: %w", storeErr)
	}

	stats := pool.Stats()
	stats.Pixels = width * height
	stats.Elapsed = time.Since(start)

	logger.Printf("Render completed in %v (%d primary rays, %d shadow rays)\n",
		stats.Elapsed, stats.PrimaryRays, stats.ShadowRays)

	return img, stats, nil
}
