package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// forwardCamera looks down +z from the origin
func forwardCamera(width, height, superSampling int) geometry.CameraConfig {
	return geometry.CameraConfig{
		Position:       core.NewVec3(0, 0, 0),
		LookAt:         core.NewVec3(0, 0, 1),
		Up:             core.NewVec3(0, 1, 0),
		ScreenDistance: 1.4,
		ScreenWidth:    1,
		ImageWidth:     width,
		ImageHeight:    height,
		SuperSampling:  superSampling,
	}
}

func newTestScene(t *testing.T, settings scene.Settings, cameraConfig geometry.CameraConfig, primitives []geometry.Primitive, sceneLights []lights.Light) *scene.Scene {
	t.Helper()
	cameraConfig.SuperSampling = settings.SuperSampling
	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		t.Fatalf("NewCamera() error: %v", err)
	}
	s, err := scene.New(settings, camera, primitives, sceneLights)
	if err != nil {
		t.Fatalf("scene.New() error: %v", err)
	}
	return s
}

func newTestMaterial(t *testing.T, diffuse, specular, reflection core.Color, phong, transparency float64) material.Material {
	t.Helper()
	m, err := material.NewMaterial(diffuse, specular, reflection, phong, transparency)
	if err != nil {
		t.Fatalf("NewMaterial() error: %v", err)
	}
	return m
}

func newTestLight(t *testing.T, position core.Vec3, specular float64) lights.Light {
	t.Helper()
	light, err := lights.NewLight(position, core.White, specular, 1, 0)
	if err != nil {
		t.Fatalf("NewLight() error: %v", err)
	}
	return light
}

func colorsClose(a, b core.Color, tolerance float64) bool {
	return math.Abs(a.R-b.R) <= tolerance &&
		math.Abs(a.G-b.G) <= tolerance &&
		math.Abs(a.B-b.B) <= tolerance
}

func TestColorRay_Miss(t *testing.T) {
	settings := scene.DefaultSettings()
	settings.BackgroundColor = core.NewColor(0.1, 0.2, 0.3)
	s := newTestScene(t, settings, forwardCamera(10, 10, 1), nil, nil)

	rt := NewRaytracer(s)
	color := rt.ColorRay(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), 0)
	if color != settings.BackgroundColor {
		t.Errorf("Expected background %v, got %v", settings.BackgroundColor, color)
	}
}

func TestColorRay_RecursionCap(t *testing.T) {
	// Two parallel perfect mirrors facing each other: every bounce hits a
	// mirror until the recursion limit returns the background.
	settings := scene.DefaultSettings()
	settings.BackgroundColor = core.NewColor(0.25, 0.5, 0.75)

	mirror := newTestMaterial(t, core.Black, core.Black, core.White, 0, 0)
	primitives := []geometry.Primitive{
		geometry.NewPlane(core.NewVec3(0, 0, 1), 3, mirror),
		geometry.NewPlane(core.NewVec3(0, 0, 1), -3, mirror),
	}
	sceneLights := []lights.Light{newTestLight(t, core.NewVec3(0, 1, 0), 1)}

	for _, maxRecursion := range []int{0, 1, 2, 5, 10} {
		settings.MaxRecursion = maxRecursion
		s := newTestScene(t, settings, forwardCamera(10, 10, 1), primitives, sceneLights)

		rt := NewRaytracer(s)
		color := rt.ColorRay(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), 0)

		if !colorsClose(color, settings.BackgroundColor, 1e-12) {
			t.Errorf("max recursion %d: expected background %v, got %v", maxRecursion, settings.BackgroundColor, color)
		}
		if rt.Stats().TracedRays != maxRecursion {
			t.Errorf("max recursion %d: expected %d traced rays, got %d", maxRecursion, maxRecursion, rt.Stats().TracedRays)
		}
	}
}

func TestColorRay_TransparencyCompositing(t *testing.T) {
	// Without lights only the background shows through the surfaces
	settings := scene.DefaultSettings()
	settings.BackgroundColor = core.White

	half := newTestMaterial(t, core.White, core.Black, core.Black, 0, 0.5)
	opaque := material.NewDiffuse(core.White)

	tests := []struct {
		name       string
		primitives []geometry.Primitive
		expected   float64
	}{
		{"one half transparent", []geometry.Primitive{
			geometry.NewSphere(core.NewVec3(0, 0, 4), 1, half),
		}, 0.5},
		{"two half transparent", []geometry.Primitive{
			geometry.NewSphere(core.NewVec3(0, 0, 4), 1, half),
			geometry.NewSphere(core.NewVec3(0, 0, 8), 1, half),
		}, 0.25},
		{"opaque in front", []geometry.Primitive{
			geometry.NewSphere(core.NewVec3(0, 0, 8), 1, half),
			geometry.NewSphere(core.NewVec3(0, 0, 4), 1, opaque),
		}, 0},
		{"opaque behind", []geometry.Primitive{
			geometry.NewSphere(core.NewVec3(0, 0, 4), 1, half),
			geometry.NewSphere(core.NewVec3(0, 0, 8), 1, opaque),
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(t, settings, forwardCamera(10, 10, 1), tt.primitives, nil)
			color := NewRaytracer(s).ColorRay(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), 0)

			expected := core.NewColor(tt.expected, tt.expected, tt.expected)
			if !colorsClose(color, expected, 1e-12) {
				t.Errorf("Expected %v, got %v", expected, color)
			}
		})
	}
}

func TestColorRay_Specular(t *testing.T) {
	// Light at the eye: the reflected light direction points straight back
	// at the viewer so the Phong cosine is 1.
	shiny := newTestMaterial(t, core.Black, core.NewColor(0, 1, 0), core.Black, 10, 0)
	primitives := []geometry.Primitive{geometry.NewPlane(core.NewVec3(0, 0, 1), 5, shiny)}
	sceneLights := []lights.Light{newTestLight(t, core.NewVec3(0, 0, 0), 0.5)}
	s := newTestScene(t, scene.DefaultSettings(), forwardCamera(10, 10, 1), primitives, sceneLights)

	color := NewRaytracer(s).ColorRay(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), 0)
	expected := core.NewColor(0, 0.5, 0)
	if !colorsClose(color, expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, color)
	}
}

func TestColorRay_Diffuse(t *testing.T) {
	tests := []struct {
		name     string
		light    core.Vec3
		expected float64
	}{
		{"head on", core.NewVec3(0, 0, 0), 1},
		{"45 degrees", core.NewVec3(0, 5, 0), math.Sqrt(0.5)},
		{"behind surface", core.NewVec3(0, 0, 10), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wall := material.NewDiffuse(core.NewColor(1, 0.5, 0))
			primitives := []geometry.Primitive{geometry.NewPlane(core.NewVec3(0, 0, 1), 5, wall)}
			sceneLights := []lights.Light{newTestLight(t, tt.light, 1)}
			s := newTestScene(t, scene.DefaultSettings(), forwardCamera(10, 10, 1), primitives, sceneLights)

			color := NewRaytracer(s).ColorRay(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), 0)
			expected := core.NewColor(tt.expected, tt.expected*0.5, 0)
			if !colorsClose(color, expected, 1e-9) {
				t.Errorf("Expected %v, got %v", expected, color)
			}
		})
	}
}

func TestColorRay_Reflection(t *testing.T) {
	// A half-reflective mirror facing the camera reflects the camera-side wall
	mirror := newTestMaterial(t, core.Black, core.Black, core.NewColor(0.5, 0.5, 0.5), 0, 0)
	wall := material.NewDiffuse(core.NewColor(0, 0, 1))
	primitives := []geometry.Primitive{
		geometry.NewPlane(core.NewVec3(0, 0, 1), 5, mirror),
		geometry.NewPlane(core.NewVec3(0, 0, 1), -5, wall),
	}
	sceneLights := []lights.Light{newTestLight(t, core.NewVec3(0, 0, 0), 1)}
	s := newTestScene(t, scene.DefaultSettings(), forwardCamera(10, 10, 1), primitives, sceneLights)

	rt := NewRaytracer(s)
	color := rt.ColorRay(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), 0)

	expected := core.NewColor(0, 0, 0.5)
	if !colorsClose(color, expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, color)
	}
	if rt.Stats().TracedRays != 2 {
		t.Errorf("Expected 2 traced rays, got %d", rt.Stats().TracedRays)
	}
}

func TestRenderPixel_AveragesSamples(t *testing.T) {
	settings := scene.DefaultSettings()
	settings.SuperSampling = 3
	settings.BackgroundColor = core.NewColor(0.3, 0.3, 0.3)
	s := newTestScene(t, settings, forwardCamera(4, 4, 3), nil, nil)

	rt := NewRaytracer(s)
	color := rt.RenderPixel(1, 2, core.NewRowRandom(1, 2))
	if !colorsClose(color, settings.BackgroundColor, 1e-12) {
		t.Errorf("Expected %v, got %v", settings.BackgroundColor, color)
	}
	if rt.Stats().PrimaryRays != 9 {
		t.Errorf("Expected 9 primary rays, got %d", rt.Stats().PrimaryRays)
	}
}
