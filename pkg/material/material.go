package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidTransparency is returned for transparency outside [0, 1]
var ErrInvalidTransparency = errors.New("transparency must be in [0, 1]")

// Material describes how a surface responds to light under the Phong model.
// Materials are immutable values copied into every primitive that uses them.
type Material struct {
	DiffuseColor     core.Color // Color scattered equally in all directions
	SpecularColor    core.Color // Color of Phong highlights
	ReflectionColor  core.Color // Tint applied to mirror reflections
	PhongSpecularity float64    // Exponent controlling highlight size
	Transparency     float64    // 0 is opaque, 1 lets everything through
}

// NewMaterial creates a material, rejecting out-of-range transparency
func NewMaterial(diffuse, specular, reflection core.Color, phongSpecularity, transparency float64) (Material, error) {
	if !(transparency >= 0 && transparency <= 1) {
		return Material{}, fmt.Errorf("%w, got %g", ErrInvalidTransparency, transparency)
	}
	return Material{
		DiffuseColor:     diffuse,
		SpecularColor:    specular,
		ReflectionColor:  reflection,
		PhongSpecularity: phongSpecularity,
		Transparency:     transparency,
	}, nil
}

// NewDiffuse creates an opaque, non-reflective material with only a diffuse color
func NewDiffuse(diffuse core.Color) Material {
	return Material{DiffuseColor: diffuse}
}

// IsTransparent returns true if any light passes through the surface
func (m Material) IsTransparent() bool {
	return m.Transparency > 0
}

// IsReflective returns true if the surface mirrors its surroundings
func (m Material) IsReflective() bool {
	return !m.ReflectionColor.IsBlack()
}

// IsSpecular returns true if the surface has Phong highlights
func (m Material) IsSpecular() bool {
	return !m.SpecularColor.IsBlack()
}
