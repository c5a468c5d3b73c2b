package scene

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrInvalidSettings is returned when scene settings are out of range
var ErrInvalidSettings = errors.New("invalid scene settings")

// Settings contains the global rendering parameters of a scene
type Settings struct {
	BackgroundColor core.Color // Color returned for rays that escape the scene
	ShadowRays      int        // Shadow rays per light along each axis
	MaxRecursion    int        // Maximum number of reflection bounces
	SuperSampling   int        // Camera rays per pixel along each axis
}

// DefaultSettings returns the settings used by the built-in scenes
func DefaultSettings() Settings {
	return Settings{
		BackgroundColor: core.Black,
		ShadowRays:      1,
		MaxRecursion:    10,
		SuperSampling:   1,
	}
}

// Validate checks the settings ranges
func (s Settings) Validate() error {
	if s.ShadowRays < 1 {
		return fmt.Errorf("%w: shadow rays must be at least 1, got %d", ErrInvalidSettings, s.ShadowRays)
	}
	if s.MaxRecursion < 0 {
		return fmt.Errorf("%w: max recursion must not be negative, got %d", ErrInvalidSettings, s.MaxRecursion)
	}
	if s.SuperSampling < 1 {
		return fmt.Errorf("%w: super sampling must be at least 1, got %d", ErrInvalidSettings, s.SuperSampling)
	}
	return nil
}

// Scene contains all the elements needed for rendering. It is immutable
// after New and safe to share between render goroutines.
type Scene struct {
	BackgroundColor core.Color
	ShadowRays      int
	MaxRecursion    int
	SuperSampling   int
	Camera          *geometry.Camera
	Primitives      []geometry.Primitive
	Lights          []lights.Light
}

// New validates the settings and assembles a scene
func New(settings Settings, camera *geometry.Camera, primitives []geometry.Primitive, sceneLights []lights.Light) (*Scene, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, fmt.Errorf("%w: missing camera", ErrInvalidSettings)
	}
	if camera.SuperSampling != settings.SuperSampling {
		return nil, fmt.Errorf("%w: camera super sampling %d does not match settings %d",
			ErrInvalidSettings, camera.SuperSampling, settings.SuperSampling)
	}

	return &Scene{
		BackgroundColor: settings.BackgroundColor,
		ShadowRays:      settings.ShadowRays,
		MaxRecursion:    settings.MaxRecursion,
		SuperSampling:   settings.SuperSampling,
		Camera:          camera,
		Primitives:      slices.Clone(primitives),
		Lights:          slices.Clone(sceneLights),
	}, nil
}

// Settings returns the global rendering parameters of the scene
func (s *Scene) Settings() Settings {
	return Settings{
		BackgroundColor: s.BackgroundColor,
		ShadowRays:      s.ShadowRays,
		MaxRecursion:    s.MaxRecursion,
		SuperSampling:   s.SuperSampling,
	}
}

// Width returns the output image width in pixels
func (s *Scene) Width() int {
	return s.Camera.ImageWidth
}

// Height returns the output image height in pixels
func (s *Scene) Height() int {
	return s.Camera.ImageHeight
}

// FindHits intersects the ray with every primitive and returns the hits
// sorted by ascending distance. A NaN distance means a primitive is broken
// and panics rather than silently mis-sorting.
func (s *Scene) FindHits(ray core.Ray) []geometry.Hit {
	var hits []geometry.Hit
	for i, primitive := range s.Primitives {
		hit, ok := primitive.Hit(ray)
		if !ok {
			continue
		}
		if math.IsNaN(hit.Distance) {
			panic(fmt.Sprintf("primitive %d (%T) returned NaN hit distance for ray %v", i, primitive, ray))
		}
		hit.Object = i
		hits = append(hits, hit)
	}

	slices.SortStableFunc(hits, func(a, b geometry.Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})
	return hits
}

// MaterialOf returns the material of the primitive with the given index
func (s *Scene) MaterialOf(object int) material.Material {
	return s.Primitives[object].Material()
}

// PrimitiveCount returns the number of primitives in the scene
func (s *Scene) PrimitiveCount() int {
	return len(s.Primitives)
}
