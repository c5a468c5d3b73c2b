package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// builder collects primitives and lights for the built-in scenes
type builder struct {
	settings   Settings
	camera     geometry.CameraConfig
	primitives []geometry.Primitive
	lights     []lights.Light
	err        error
}

func newBuilder(settings Settings, camera geometry.CameraConfig, width, height int) *builder {
	camera.ImageWidth = width
	camera.ImageHeight = height
	camera.SuperSampling = settings.SuperSampling
	return &builder{settings: settings, camera: camera}
}

func (b *builder) add(p geometry.Primitive) {
	b.primitives = append(b.primitives, p)
}

func (b *builder) material(diffuse, specular, reflection core.Color, phong, transparency float64) material.Material {
	m, err := material.NewMaterial(diffuse, specular, reflection, phong, transparency)
	if err != nil && b.err == nil {
		b.err = err
	}
	return m
}

func (b *builder) light(position core.Vec3, color core.Color, specular, shadow, radius float64) {
	l, err := lights.NewLight(position, color, specular, shadow, radius)
	if err != nil && b.err == nil {
		b.err = err
	}
	b.lights = append(b.lights, l)
}

func (b *builder) build() (*Scene, error) {
	if b.err != nil {
		return nil, b.err
	}
	camera, err := geometry.NewCamera(b.camera)
	if err != nil {
		return nil, err
	}
	return New(b.settings, camera, b.primitives, b.lights)
}

// lookAlongZ is the camera used by most built-in scenes: at the origin looking down +z
var lookAlongZ = geometry.CameraConfig{
	Position:       core.NewVec3(0, 0, 0),
	LookAt:         core.NewVec3(0, 0, 1),
	Up:             core.NewVec3(0, 1, 0),
	ScreenDistance: 1.4,
	ScreenWidth:    1,
}

// NewSimpleScene creates a single red diffuse sphere lit by one white light
func NewSimpleScene(width, height int) (*Scene, error) {
	b := newBuilder(DefaultSettings(), lookAlongZ, width, height)

	red := material.NewDiffuse(core.NewColor(1, 0, 0))
	b.add(geometry.NewSphere(core.NewVec3(0, 0, 4), 1, red))
	b.light(core.NewVec3(0, 3, 0), core.White, 1, 1, 0)

	return b.build()
}

// NewTransparencyScene places a fully transparent sphere in front of a diffuse wall
func NewTransparencyScene(width, height int) (*Scene, error) {
	b := newBuilder(DefaultSettings(), lookAlongZ, width, height)

	glass := b.material(core.White, core.Black, core.Black, 0, 1)
	wall := material.NewDiffuse(core.NewColor(0.2, 0.6, 0.9))
	b.add(geometry.NewSphere(core.NewVec3(0, 0, 4), 1, glass))
	b.add(geometry.NewPlane(core.NewVec3(0, 0, 1), 8, wall))
	b.light(core.NewVec3(0, 0, 0), core.White, 1, 1, 0)

	return b.build()
}

// NewMirrorsScene is a hall of mirrors: two perfect mirrors facing each other
// with a small lit sphere between them.
func NewMirrorsScene(width, height int) (*Scene, error) {
	settings := DefaultSettings()
	settings.BackgroundColor = core.NewColor(0.1, 0.1, 0.1)
	settings.MaxRecursion = 8

	camera := geometry.CameraConfig{
		Position:       core.NewVec3(0, 0, -1),
		LookAt:         core.NewVec3(0, 0, 1),
		Up:             core.NewVec3(0, 1, 0),
		ScreenDistance: 1,
		ScreenWidth:    1,
	}
	b := newBuilder(settings, camera, width, height)

	mirror := b.material(core.Black, core.Black, core.White, 0, 0)
	b.add(geometry.NewPlane(core.NewVec3(0, 0, 1), 3, mirror))
	b.add(geometry.NewPlane(core.NewVec3(0, 0, 1), -3, mirror))
	b.add(geometry.NewSphere(core.NewVec3(0, -0.4, 1.5), 0.3, material.NewDiffuse(core.NewColor(0.9, 0.7, 0.1))))
	b.light(core.NewVec3(0, 1, 0), core.White, 1, 0.8, 0)

	return b.build()
}

// NewSpheresScene shows specular, reflective and transparent spheres on a
// ground plane with soft shadows and anti-aliasing.
func NewSpheresScene(width, height int) (*Scene, error) {
	settings := Settings{
		BackgroundColor: core.NewColor(0.6, 0.7, 0.9),
		ShadowRays:      4,
		MaxRecursion:    5,
		SuperSampling:   2,
	}
	camera := geometry.CameraConfig{
		Position:       core.NewVec3(0, 2, -6),
		LookAt:         core.NewVec3(0, 0.5, 2),
		Up:             core.NewVec3(0, 1, 0),
		ScreenDistance: 1.2,
		ScreenWidth:    1.2,
	}
	b := newBuilder(settings, camera, width, height)

	ground := b.material(core.NewColor(0.8, 0.8, 0.8), core.Black, core.NewColor(0.2, 0.2, 0.2), 0, 0)
	shiny := b.material(core.NewColor(0.9, 0.2, 0.2), core.White, core.Black, 40, 0)
	chrome := b.material(core.NewColor(0.1, 0.1, 0.1), core.White, core.NewColor(0.8, 0.8, 0.8), 100, 0)
	glass := b.material(core.NewColor(0.2, 0.4, 0.9), core.White, core.NewColor(0.1, 0.1, 0.1), 60, 0.6)

	b.add(geometry.NewPlane(core.NewVec3(0, 1, 0), -1, ground))
	b.add(geometry.NewSphere(core.NewVec3(-2.2, 0, 2), 1, shiny))
	b.add(geometry.NewSphere(core.NewVec3(0, 0, 3), 1, chrome))
	b.add(geometry.NewSphere(core.NewVec3(2.2, 0, 2), 1, glass))

	b.light(core.NewVec3(-3, 6, -2), core.White, 1, 0.9, 1)
	b.light(core.NewVec3(4, 4, -3), core.NewColor(0.4, 0.4, 0.5), 0.5, 0.6, 0.5)

	return b.build()
}

// NewTriangleScene builds a pyramid out of triangles standing on a plane
func NewTriangleScene(width, height int) (*Scene, error) {
	settings := DefaultSettings()
	settings.BackgroundColor = core.NewColor(0.05, 0.05, 0.1)
	settings.ShadowRays = 3
	camera := geometry.CameraConfig{
		Position:       core.NewVec3(3, 3, -4),
		LookAt:         core.NewVec3(0, 0.5, 0),
		Up:             core.NewVec3(0, 1, 0),
		ScreenDistance: 1.5,
		ScreenWidth:    1.5,
	}
	b := newBuilder(settings, camera, width, height)

	floor := material.NewDiffuse(core.NewColor(0.5, 0.5, 0.5))
	stone := b.material(core.NewColor(0.9, 0.75, 0.4), core.NewColor(0.3, 0.3, 0.3), core.Black, 8, 0)

	apex := core.NewVec3(0, 2, 0)
	base := []core.Vec3{
		core.NewVec3(-1, 0, -1),
		core.NewVec3(1, 0, -1),
		core.NewVec3(1, 0, 1),
		core.NewVec3(-1, 0, 1),
	}
	b.add(geometry.NewPlane(core.NewVec3(0, 1, 0), 0, floor))
	for i := range base {
		b.add(geometry.NewTriangle(base[i], base[(i+1)%len(base)], apex, stone))
	}

	b.light(core.NewVec3(2, 5, -3), core.White, 1, 0.85, 1)

	return b.build()
}

// builtinScenes maps scene names to their constructors
var builtinScenes = map[string]func(width, height int) (*Scene, error){
	"simple":       NewSimpleScene,
	"transparency": NewTransparencyScene,
	"mirrors":      NewMirrorsScene,
	"spheres":      NewSpheresScene,
	"triangle":     NewTriangleScene,
}

// NewBuiltinScene creates the named built-in scene at the given image size
func NewBuiltinScene(name string, width, height int) (*Scene, error) {
	create, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown built-in scene: %q", name)
	}
	return create(width, height)
}

// BuiltinSceneNames returns the names of all built-in scenes in sorted order
func BuiltinSceneNames() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
