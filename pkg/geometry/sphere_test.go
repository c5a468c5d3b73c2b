package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, material.Material{})
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray)
	if isHit {
		t.Errorf("Expected miss, but got hit at distance=%f", hit.Distance)
	}
}

func TestSphere_Hit_Cases(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, material.Material{})

	tests := []struct {
		name             string
		rayOrigin        core.Vec3
		rayDirection     core.Vec3
		expectHit        bool
		expectedDistance float64
		expectedNormal   core.Vec3
	}{
		{
			name:             "front hit",
			rayOrigin:        core.NewVec3(0, 0, 3),
			rayDirection:     core.NewVec3(0, 0, -1),
			expectHit:        true,
			expectedDistance: 2.0,
			expectedNormal:   core.NewVec3(0, 0, 1),
		},
		{
			name:         "origin inside sphere",
			rayOrigin:    core.NewVec3(0, 0, 0.5),
			rayDirection: core.NewVec3(0, 0, -1),
			expectHit:    false,
		},
		{
			name:         "pointing away",
			rayOrigin:    core.NewVec3(0, 0, 3),
			rayDirection: core.NewVec3(0, 0, 1),
			expectHit:    false,
		},
		{
			name:         "origin on surface",
			rayOrigin:    core.NewVec3(0, 0, 1),
			rayDirection: core.NewVec3(0, 0, -1),
			expectHit:    false,
		},
		{
			name:             "tangent",
			rayOrigin:        core.NewVec3(1, 0, 3),
			rayDirection:     core.NewVec3(0, 0, -1),
			expectHit:        true,
			expectedDistance: 3.0,
			expectedNormal:   core.NewVec3(1, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray)

			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if !tt.expectHit {
				return
			}

			if math.Abs(hit.Distance-tt.expectedDistance) > 1e-9 {
				t.Errorf("Expected distance=%f, got %f", tt.expectedDistance, hit.Distance)
			}
			if !hit.Normal.AlmostEqual(tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if !hit.DirectionToSource.AlmostEqual(ray.Direction.Negate(), 1e-12) {
				t.Errorf("Expected direction to source %v, got %v", ray.Direction.Negate(), hit.DirectionToSource)
			}
			if hit.Object != NoObject {
				t.Errorf("Expected unattributed hit, got object %d", hit.Object)
			}
		})
	}
}

func TestSphere_Hit_AimedAtCenter(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		center := core.NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
		radius := 0.1 + random.Float64()*2
		sphere := NewSphere(center, radius, material.Material{})

		offset := core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1)
		if offset.Length() < 1e-3 {
			continue
		}
		origin := center.Add(offset.Normalize().Multiply(radius + 0.5 + random.Float64()*10))

		ray := core.NewRayBetween(origin, center)
		hit, isHit := sphere.Hit(ray)
		if !isHit {
			t.Fatalf("Ray aimed at center from %v missed sphere at %v", origin, center)
		}

		expected := origin.DistanceTo(center) - radius
		if math.Abs(hit.Distance-expected) > 1e-9 {
			t.Errorf("Expected distance %f, got %f", expected, hit.Distance)
		}
		if hit.Normal.Dot(hit.Point.Subtract(center)) <= 0 {
			t.Errorf("Normal %v does not point away from center", hit.Normal)
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Errorf("Normal not unit length: %f", hit.Normal.Length())
		}
	}
}
