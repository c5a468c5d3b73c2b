package lights

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// MockFinder implements HitFinder over a plain primitive list
type MockFinder struct {
	primitives []geometry.Primitive
	calls      int
}

func (m *MockFinder) FindHits(ray core.Ray) []geometry.Hit {
	m.calls++
	var hits []geometry.Hit
	for i, p := range m.primitives {
		if hit, ok := p.Hit(ray); ok {
			hit.Object = i
			hits = append(hits, hit)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func (m *MockFinder) MaterialOf(object int) material.Material {
	return m.primitives[object].Material()
}

// groundHit returns the hit of a straight-down ray on the ground plane (primitive 0)
func groundHit(t *testing.T, finder *MockFinder) geometry.Hit {
	t.Helper()
	hits := finder.FindHits(core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)))
	for _, h := range hits {
		if h.Object == 0 {
			return h
		}
	}
	t.Fatal("Expected to hit the ground plane")
	return geometry.Hit{}
}

func newGround() *geometry.Plane {
	return geometry.NewPlane(core.NewVec3(0, 1, 0), 0, material.NewDiffuse(core.White))
}

func TestNewLight_Validation(t *testing.T) {
	tests := []struct {
		name            string
		shadowIntensity float64
		radius          float64
		expectError     bool
	}{
		{"valid", 0.8, 1, false},
		{"point light", 1, 0, false},
		{"negative shadow", -0.1, 1, true},
		{"shadow above one", 1.1, 1, true},
		{"negative radius", 0.5, -1, true},
		{"NaN shadow", math.NaN(), 1, true},
		{"NaN radius", 0.5, math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLight(core.NewVec3(0, 5, 0), core.White, 1, tt.shadowIntensity, tt.radius)
			if tt.expectError != (err != nil) {
				t.Fatalf("Expected error=%t, got %v", tt.expectError, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidLight) {
				t.Errorf("Expected ErrInvalidLight, got %v", err)
			}
		})
	}
}

func TestShadowSampler_Unoccluded(t *testing.T) {
	finder := &MockFinder{primitives: []geometry.Primitive{newGround()}}
	light, _ := NewLight(core.NewVec3(0, 4, 0), core.White, 1, 1, 1)
	sampler := NewShadowSampler(finder, 3)

	intensity := sampler.Intensity(light, groundHit(t, finder), rand.New(rand.NewSource(1)))
	if math.Abs(intensity-1) > 1e-12 {
		t.Errorf("Expected full intensity, got %f", intensity)
	}
	if sampler.RaysCast() != 9 {
		t.Errorf("Expected 9 shadow rays, got %d", sampler.RaysCast())
	}
}

func TestShadowSampler_OpaqueBlocker(t *testing.T) {
	blocker := geometry.NewSphere(core.NewVec3(0, 2, 0), 1, material.NewDiffuse(core.White))
	finder := &MockFinder{primitives: []geometry.Primitive{newGround(), blocker}}
	hit := groundHit(t, finder)

	tests := []struct {
		name            string
		shadowIntensity float64
		expected        float64
	}{
		{"full shadow", 1, 0},
		{"partial shadow", 0.75, 0.25},
		{"no shadow", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Point light straight above the blocker
			light, _ := NewLight(core.NewVec3(0, 6, 0), core.White, 1, tt.shadowIntensity, 0)
			sampler := NewShadowSampler(finder, 2)

			intensity := sampler.Intensity(light, hit, rand.New(rand.NewSource(1)))
			if math.Abs(intensity-tt.expected) > 1e-12 {
				t.Errorf("Expected intensity %f, got %f", tt.expected, intensity)
			}
		})
	}
}

func TestShadowSampler_TransparentBlockersAttenuate(t *testing.T) {
	glassA, _ := material.NewMaterial(core.White, core.Black, core.Black, 0, 0.5)
	glassB, _ := material.NewMaterial(core.White, core.Black, core.Black, 0, 0.4)
	finder := &MockFinder{primitives: []geometry.Primitive{
		newGround(),
		geometry.NewPlane(core.NewVec3(0, 1, 0), 1, glassA),
		geometry.NewPlane(core.NewVec3(0, 1, 0), 2, glassB),
	}}
	hit := groundHit(t, finder)
	sampler := NewShadowSampler(finder, 1)

	ray := core.NewRayBetween(core.NewVec3(0, 4, 0), hit.Point)
	if got := sampler.RayIntensity(hit, ray); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("Expected attenuation 0.5*0.4=0.2, got %f", got)
	}
}

func TestShadowSampler_IgnoresHitsBeyondPoint(t *testing.T) {
	// The opaque plane lies below the ground, behind the shaded point
	below := geometry.NewPlane(core.NewVec3(0, 1, 0), -1, material.NewDiffuse(core.White))
	finder := &MockFinder{primitives: []geometry.Primitive{newGround(), below}}
	hit := groundHit(t, finder)
	sampler := NewShadowSampler(finder, 1)

	ray := core.NewRayBetween(core.NewVec3(1, 4, 0), hit.Point)
	if got := sampler.RayIntensity(hit, ray); got != 1 {
		t.Errorf("Expected intensity 1, got %f", got)
	}
}

func TestShadowSampler_SoftShadowIsPartial(t *testing.T) {
	// A small blocker under a large light only hides part of it
	blocker := geometry.NewSphere(core.NewVec3(0, 1, 0), 0.3, material.NewDiffuse(core.White))
	finder := &MockFinder{primitives: []geometry.Primitive{newGround(), blocker}}
	hit := groundHit(t, finder)
	light, _ := NewLight(core.NewVec3(0, 3, 0), core.White, 1, 1, 4)
	sampler := NewShadowSampler(finder, 8)

	intensity := sampler.Intensity(light, hit, rand.New(rand.NewSource(42)))
	if intensity <= 0 || intensity >= 1 {
		t.Errorf("Expected penumbra intensity in (0, 1), got %f", intensity)
	}
}

func TestLightBasis_Orthonormal(t *testing.T) {
	directions := []core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 0, -1),
		core.NewVec3(1, 2, 3).Normalize(),
		core.NewVec3(0, 1, 0),
	}

	for _, d := range directions {
		x, y := lightBasis(d)
		if math.Abs(x.Length()-1) > 1e-9 || math.Abs(y.Length()-1) > 1e-9 {
			t.Errorf("Basis for %v not unit length: %v %v", d, x, y)
		}
		if math.Abs(x.Dot(d)) > 1e-9 || math.Abs(y.Dot(d)) > 1e-9 || math.Abs(x.Dot(y)) > 1e-9 {
			t.Errorf("Basis for %v not orthogonal: %v %v", d, x, y)
		}
	}
}
