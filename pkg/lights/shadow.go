package lights

import (
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// HitFinder answers intersection queries against a scene
type HitFinder interface {
	// FindHits returns every hit along the ray sorted by ascending distance
	FindHits(ray core.Ray) []geometry.Hit
	// MaterialOf returns the material of the primitive with the given index
	MaterialOf(object int) material.Material
}

// ShadowSampler estimates how much of a light reaches a surface point by
// casting a grid of jittered rays from the light area towards the point.
// A sampler is owned by a single goroutine.
type ShadowSampler struct {
	finder      HitFinder
	raysPerAxis int
	raysCast    int
}

// NewShadowSampler creates a sampler casting raysPerAxis² rays per light
func NewShadowSampler(finder HitFinder, raysPerAxis int) *ShadowSampler {
	return &ShadowSampler{
		finder:      finder,
		raysPerAxis: max(1, raysPerAxis),
	}
}

// RaysCast returns the number of shadow rays traced so far
func (s *ShadowSampler) RaysCast() int {
	return s.raysCast
}

// Intensity returns the fraction of the light reaching hit.Point, in [0, 1].
// Full shadow maps to 1 - light.ShadowIntensity rather than 0.
func (s *ShadowSampler) Intensity(light Light, hit geometry.Hit, random *rand.Rand) float64 {
	directionX, directionY := lightBasis(hit.Point.DirectionTo(light.Position))

	n := s.raysPerAxis
	halfSide := light.Radius / 2

	total := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			xOffset := light.Radius*core.StratifiedOffset(i, n, random) - halfSide
			yOffset := light.Radius*core.StratifiedOffset(j, n, random) - halfSide
			cellPoint := light.Position.
				Add(directionX.Multiply(xOffset)).
				Add(directionY.Multiply(yOffset))

			total += s.RayIntensity(hit, core.NewRayBetween(cellPoint, hit.Point))
		}
	}

	raw := total / float64(n*n)
	return 1 - (1-raw)*light.ShadowIntensity
}

// RayIntensity walks the hits of a ray cast from the light towards hit and
// returns the fraction of light that survives the occluders in between.
func (s *ShadowSampler) RayIntensity(hit geometry.Hit, ray core.Ray) float64 {
	s.raysCast++

	intensity := 1.0
	maxDistance := ray.Origin.DistanceTo(hit.Point) + core.Epsilon

	for _, rayHit := range s.finder.FindHits(ray) {
		// Reached the shaded point, or passed it at an object edge
		sameHit := rayHit.Object == hit.Object && rayHit.Point.AlmostEqual(hit.Point, core.Epsilon)
		if sameHit || rayHit.Distance > maxDistance {
			break
		}

		mat := s.finder.MaterialOf(rayHit.Object)
		if !mat.IsTransparent() {
			return 0
		}
		intensity *= mat.Transparency
	}

	return intensity
}

// lightBasis returns two unit vectors spanning the plane perpendicular to
// the direction towards the light.
func lightBasis(lightDirection core.Vec3) (core.Vec3, core.Vec3) {
	directionX := core.NewVec3(1, 0, 0)
	if lightDirection.X != 0 || lightDirection.Y != 0 {
		// Rotate by 90 degrees around the z-axis
		directionX = core.NewVec3(-lightDirection.Y, lightDirection.X, 0).Normalize()
	}
	directionY := lightDirection.Cross(directionX).Normalize()
	return directionX, directionY
}
