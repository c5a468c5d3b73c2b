package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V1, V2, V3 core.Vec3 // The three vertices
	normal     core.Vec3 // Cached plane normal
	offset     float64   // Cached plane offset
	material   material.Material
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v1, v2, v3 core.Vec3, mat material.Material) *Triangle {
	normal := v2.Subtract(v1).Cross(v3.Subtract(v1)).Normalize()
	return &Triangle{
		V1:       v1,
		V2:       v2,
		V3:       v3,
		normal:   normal,
		offset:   normal.Dot(v1),
		material: mat,
	}
}

// Material returns the triangle's material
func (t *Triangle) Material() material.Material {
	return t.material
}

// Normal returns the triangle's cached plane normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Hit intersects the supporting plane, then checks that the ray direction
// lies inside the three half-spaces spanned by the ray origin and each edge.
func (t *Triangle) Hit(ray core.Ray) (Hit, bool) {
	dist, cosAngle, ok := intersectPlane(t.normal, t.offset, ray)
	if !ok {
		return Hit{}, false
	}

	if !insideEdge(ray, t.V1, t.V2, t.V3) ||
		!insideEdge(ray, t.V2, t.V3, t.V1) ||
		!insideEdge(ray, t.V3, t.V1, t.V2) {
		return Hit{}, false
	}

	return newHit(ray, dist, faceToward(t.normal, cosAngle), ray.At(dist)), true
}

// insideEdge reports whether the ray direction is on the same side of the
// plane through the ray origin and edge (a, b) as the opposite vertex.
func insideEdge(ray core.Ray, a, b, opposite core.Vec3) bool {
	toA := a.Subtract(ray.Origin)
	toB := b.Subtract(ray.Origin)
	n := toB.Cross(toA).Normalize()
	if n.Dot(opposite.Subtract(ray.Origin)) < 0 {
		n = n.Negate()
	}
	return ray.Direction.Dot(n) >= 0
}
