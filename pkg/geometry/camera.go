package geometry

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidCamera is returned when a camera configuration cannot form an orthonormal basis
var ErrInvalidCamera = errors.New("invalid camera")

// CameraConfig contains the parameters used to build a camera
type CameraConfig struct {
	Position       core.Vec3 // Eye position
	LookAt         core.Vec3 // Point the camera looks at
	Up             core.Vec3 // Nominal up direction, re-orthogonalized
	ScreenDistance float64   // Distance from the eye to the screen
	ScreenWidth    float64   // Screen width in world units
	ImageWidth     int       // Output width in pixels
	ImageHeight    int       // Output height in pixels
	SuperSampling  int       // Rays per pixel along each axis
}

// Camera maps pixels to world-space rays through a virtual screen
type Camera struct {
	Position       core.Vec3
	Direction      core.Vec3 // Unit view direction
	Up             core.Vec3 // Unit, orthogonal to Direction and Right
	Right          core.Vec3 // Unit, orthogonal to Direction and Up
	ScreenDistance float64
	ScreenWidth    float64
	ScreenHeight   float64 // Derived from the image aspect ratio
	ImageWidth     int
	ImageHeight    int
	ScreenCenter   core.Vec3
	SuperSampling  int
}

// NewCamera builds a camera with an orthonormal basis regardless of the supplied up vector
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.ImageWidth <= 0 || config.ImageHeight <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrInvalidCamera, config.ImageWidth, config.ImageHeight)
	}
	if config.SuperSampling < 1 {
		return nil, fmt.Errorf("%w: super sampling %d", ErrInvalidCamera, config.SuperSampling)
	}
	if config.ScreenDistance <= 0 || config.ScreenWidth <= 0 {
		return nil, fmt.Errorf("%w: screen distance %g and width %g must be positive",
			ErrInvalidCamera, config.ScreenDistance, config.ScreenWidth)
	}

	direction := config.Position.DirectionTo(config.LookAt)
	if direction.IsZero() {
		return nil, fmt.Errorf("%w: look-at point equals position", ErrInvalidCamera)
	}

	right := config.Up.Cross(direction).Normalize()
	if right.IsZero() || math.IsNaN(right.X) {
		return nil, fmt.Errorf("%w: up vector %v is parallel to view direction", ErrInvalidCamera, config.Up)
	}
	up := direction.Cross(right).Normalize()

	aspect := float64(config.ImageHeight) / float64(config.ImageWidth)

	return &Camera{
		Position:       config.Position,
		Direction:      direction,
		Up:             up,
		Right:          right,
		ScreenDistance: config.ScreenDistance,
		ScreenWidth:    config.ScreenWidth,
		ScreenHeight:   config.ScreenWidth * aspect,
		ImageWidth:     config.ImageWidth,
		ImageHeight:    config.ImageHeight,
		ScreenCenter:   config.Position.Add(direction.Multiply(config.ScreenDistance)),
		SuperSampling:  config.SuperSampling,
	}, nil
}

// ScreenPoint returns the world-space point on the screen for fractional
// pixel coordinates, with (0, 0) at the top-left corner of the image.
func (c *Camera) ScreenPoint(px, py float64) core.Vec3 {
	sx := (px/float64(c.ImageWidth) - 0.5) * c.ScreenWidth
	sy := (0.5 - py/float64(c.ImageHeight)) * c.ScreenHeight
	return c.ScreenCenter.Add(c.Right.Multiply(sx)).Add(c.Up.Multiply(sy))
}

// SamplesForPixel returns SuperSampling² rays through pixel (x, y), one per
// sub-cell, jittered within the cell. With SuperSampling == 1 the single ray
// goes through the exact pixel center and random is not used.
func (c *Camera) SamplesForPixel(x, y int, random *rand.Rand) []core.Ray {
	n := c.SuperSampling
	if n == 1 {
		random = nil
	}

	rays := make([]core.Ray, 0, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			px := float64(x) + core.StratifiedOffset(i, n, random)
			py := float64(y) + core.StratifiedOffset(j, n, random)
			rays = append(rays, core.NewRayBetween(c.Position, c.ScreenPoint(px, py)))
		}
	}
	return rays
}
