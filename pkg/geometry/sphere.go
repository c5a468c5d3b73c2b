package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		material: mat,
	}
}

// Material returns the sphere's material
func (s *Sphere) Material() material.Material {
	return s.material
}

// Hit tests if a ray intersects with the sphere using the geometric method.
// Rays starting inside the sphere, or whose closest approach to the center
// lies behind the origin, count as misses.
func (s *Sphere) Hit(ray core.Ray) (Hit, bool) {
	// Vector from ray origin to sphere center
	l := s.Center.Subtract(ray.Origin)

	// Projection of the center onto the ray
	tca := l.Dot(ray.Direction)
	if tca < 0 {
		return Hit{}, false
	}

	// Squared distance from the center to the ray
	dSquared := l.LengthSquared() - tca*tca
	rSquared := s.Radius * s.Radius
	if dSquared > rSquared {
		return Hit{}, false
	}

	thc := math.Sqrt(rSquared - dSquared)
	distance := tca - thc
	if distance <= 0 {
		return Hit{}, false
	}

	point := ray.At(distance)
	normal := s.Center.DirectionTo(point)

	return newHit(ray, distance, normal, point), true
}
