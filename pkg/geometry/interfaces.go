package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Primitive interface for objects that can be hit by rays
type Primitive interface {
	// Hit returns the nearest intersection in front of the ray origin, if any.
	// The returned Hit has Object set to NoObject; the scene fills it in.
	Hit(ray core.Ray) (Hit, bool)
	Material() material.Material
}

// NoObject marks a hit that has not been attributed to a scene primitive yet
const NoObject = -1

// Hit contains information about a ray-primitive intersection
type Hit struct {
	Distance          float64   // Distance along the ray, always > 0 for a valid hit
	Normal            core.Vec3 // Unit surface normal facing the incoming ray
	Point             core.Vec3 // Point of intersection
	DirectionToSource core.Vec3 // Unit vector back towards the ray origin
	Object            int       // Index of the primitive in the scene
}

// newHit builds a hit record for a ray at the given distance
func newHit(ray core.Ray, distance float64, normal, point core.Vec3) Hit {
	return Hit{
		Distance:          distance,
		Normal:            normal,
		Point:             point,
		DirectionToSource: ray.Direction.Negate(),
		Object:            NoObject,
	}
}

// faceToward flips normal so that it faces against the ray direction
func faceToward(normal core.Vec3, cosAngle float64) core.Vec3 {
	if cosAngle > 0 {
		return normal.Negate()
	}
	return normal
}
