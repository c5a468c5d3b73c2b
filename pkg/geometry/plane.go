package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite plane satisfying Normal·P = Offset
type Plane struct {
	Normal   core.Vec3 // Unit normal
	Offset   float64   // Signed distance from the origin along Normal
	material material.Material
}

// NewPlane creates a new plane, normalizing the normal and rescaling the offset to match
func NewPlane(normal core.Vec3, offset float64, mat material.Material) *Plane {
	length := normal.Length()
	if length > 0 {
		offset /= length
	}
	return &Plane{
		Normal:   normal.Normalize(),
		Offset:   offset,
		material: mat,
	}
}

// Material returns the plane's material
func (p *Plane) Material() material.Material {
	return p.material
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray) (Hit, bool) {
	t, cosAngle, ok := intersectPlane(p.Normal, p.Offset, ray)
	if !ok {
		return Hit{}, false
	}

	return newHit(ray, t, faceToward(p.Normal, cosAngle), ray.At(t)), true
}

// intersectPlane solves Normal·(origin + t·dir) = offset for t.
// Parallel rays and intersections at or behind the origin are misses.
func intersectPlane(normal core.Vec3, offset float64, ray core.Ray) (t, cosAngle float64, ok bool) {
	cosAngle = normal.Dot(ray.Direction)
	if cosAngle == 0 {
		return 0, 0, false
	}

	t = (offset - ray.Origin.Dot(normal)) / cosAngle
	if t <= 0 {
		return 0, 0, false
	}
	return t, cosAngle, true
}
