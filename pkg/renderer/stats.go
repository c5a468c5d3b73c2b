package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Rows        int           // Rows rendered
	Pixels      int           // Pixels rendered
	PrimaryRays int           // Camera rays, including supersamples
	TracedRays  int           // Rays intersected against the scene, including reflections
	ShadowRays  int           // Rays cast from lights towards surface points
	Elapsed     time.Duration // Wall-clock render time
}

// Add accumulates the ray counts of other into s
func (s *RenderStats) Add(other RenderStats) {
	s.Rows += other.Rows
	s.Pixels += other.Pixels
	s.PrimaryRays += other.PrimaryRays
	s.TracedRays += other.TracedRays
	s.ShadowRays += other.ShadowRays
}

// RaysPerSecond returns the throughput of all traced and shadow rays
func (s RenderStats) RaysPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TracedRays+s.ShadowRays) / s.Elapsed.Seconds()
}
