package renderer

import (
	"testing"
	"time"
)

func TestRenderStats_Add(t *testing.T) {
	stats := RenderStats{Rows: 1, PrimaryRays: 10, TracedRays: 12, ShadowRays: 5}
	stats.Add(RenderStats{Rows: 2, Pixels: 4, PrimaryRays: 1, TracedRays: 2, ShadowRays: 3})

	expected := RenderStats{Rows: 3, Pixels: 4, PrimaryRays: 11, TracedRays: 14, ShadowRays: 8}
	if stats != expected {
		t.Errorf("Expected %+v, got %+v", expected, stats)
	}
}

func TestRenderStats_RaysPerSecond(t *testing.T) {
	stats := RenderStats{TracedRays: 30, ShadowRays: 70, Elapsed: 2 * time.Second}
	if got := stats.RaysPerSecond(); got != 50 {
		t.Errorf("Expected 50 rays/s, got %f", got)
	}

	stats.Elapsed = 0
	if got := stats.RaysPerSecond(); got != 0 {
		t.Errorf("Expected 0 rays/s for zero elapsed, got %f", got)
	}
}
