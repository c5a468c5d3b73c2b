package lights

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidLight is returned for lights with out-of-range parameters
var ErrInvalidLight = errors.New("invalid light")

// Light is a square area light facing the shaded point. A zero radius
// degenerates to a point light.
type Light struct {
	Position          core.Vec3
	Color             core.Color
	SpecularIntensity float64 // Scale of the Phong highlight contribution
	ShadowIntensity   float64 // 1 means fully dark shadows, 0 means no shadows
	Radius            float64 // Side length of the sampled light area
}

// NewLight creates a light, rejecting shadow intensity outside [0, 1] and negative radii
func NewLight(position core.Vec3, color core.Color, specularIntensity, shadowIntensity, radius float64) (Light, error) {
	if !(shadowIntensity >= 0 && shadowIntensity <= 1) {
		return Light{}, fmt.Errorf("%w: shadow intensity must be in [0, 1], got %g", ErrInvalidLight, shadowIntensity)
	}
	if !(radius >= 0) {
		return Light{}, fmt.Errorf("%w: radius must be non-negative, got %g", ErrInvalidLight, radius)
	}
	return Light{
		Position:          position,
		Color:             color,
		SpecularIntensity: specularIntensity,
		ShadowIntensity:   shadowIntensity,
		Radius:            radius,
	}, nil
}
