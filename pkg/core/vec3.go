package core

import (
	"math"
)

// Epsilon is the tolerance used when comparing points and unit lengths
const Epsilon = 0.00001

// ReflectionOffset moves reflection rays off their originating surface
const ReflectionOffset = 0.000000001

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Normalize returns a unit vector in the same direction
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{
		X: -v.X,
		Y: -v.Y,
		Z: -v.Z,
	}
}

// DirectionTo returns the unit vector pointing from v to other
func (v Vec3) DirectionTo(other Vec3) Vec3 {
	return other.Subtract(v).Normalize()
}

// DistanceTo returns the euclidean distance between two points
func (v Vec3) DistanceTo(other Vec3) float64 {
	return other.Subtract(v).Length()
}

// AlmostEqual reports whether two points lie within epsilon of each other
func (v Vec3) AlmostEqual(other Vec3, epsilon float64) bool {
	return v.DistanceTo(other) <= epsilon
}

// ReflectAround mirrors v around the given unit normal: 2(n·v)n - v.
// A vector pointing away from a surface stays on the same side.
func (v Vec3) ReflectAround(normal Vec3) Vec3 {
	d := normal.Dot(v)
	return normal.Multiply(2 * d).Subtract(v)
}

// IsZero reports whether all components are exactly zero
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Ray represents a ray with an origin and a unit-length direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray, normalizing the direction
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// NewRayBetween creates a ray starting at from and pointing towards to
func NewRayBetween(from, to Vec3) Ray {
	return Ray{Origin: from, Direction: from.DirectionTo(to)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Advance returns the ray with its origin moved by distance along the direction
func (r Ray) Advance(distance float64) Ray {
	return Ray{Origin: r.At(distance), Direction: r.Direction}
}
