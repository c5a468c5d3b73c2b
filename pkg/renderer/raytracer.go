package renderer

import (
	"math"
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Raytracer shades rays against a scene. The scene is shared read-only;
// the raytracer itself holds per-worker state and must not be shared
// between goroutines.
type Raytracer struct {
	scene   *scene.Scene
	shadows *lights.ShadowSampler
	random  *rand.Rand

	primaryRays int
	tracedRays  int
}

// NewRaytracer creates a new raytracer for the scene
func NewRaytracer(s *scene.Scene) *Raytracer {
	return &Raytracer{
		scene:   s,
		shadows: lights.NewShadowSampler(s, s.ShadowRays),
	}
}

// Stats returns the ray counts accumulated by this raytracer
func (rt *Raytracer) Stats() RenderStats {
	return RenderStats{
		PrimaryRays: rt.primaryRays,
		TracedRays:  rt.tracedRays,
		ShadowRays:  rt.shadows.RaysCast(),
	}
}

// RenderRow computes the colors of row y from left to right
func (rt *Raytracer) RenderRow(y int, random *rand.Rand) []core.Color {
	colors := make([]core.Color, rt.scene.Width())
	for x := range colors {
		colors[x] = rt.RenderPixel(x, y, random)
	}
	return colors
}

// RenderPixel returns the mean color over all camera samples of a pixel
func (rt *Raytracer) RenderPixel(x, y int, random *rand.Rand) core.Color {
	rt.random = random
	rays := rt.scene.Camera.SamplesForPixel(x, y, random)

	total := core.Black
	for _, ray := range rays {
		total = total.Add(rt.ColorRay(ray, 0))
	}
	rt.primaryRays += len(rays)

	return total.Divide(float64(len(rays)))
}

// ColorRay returns the color seen along ray. Level counts reflection
// bounces; once it reaches the scene's recursion limit the background
// color is returned.
func (rt *Raytracer) ColorRay(ray core.Ray, level int) core.Color {
	if level+1 > rt.scene.MaxRecursion {
		return rt.scene.BackgroundColor
	}

	rt.tracedRays++
	return rt.colorHits(rt.scene.FindHits(ray), level)
}

// colorHits composites the sorted hits front to back until an opaque
// surface is reached. Whatever transparency is left shows the background.
func (rt *Raytracer) colorHits(hits []geometry.Hit, level int) core.Color {
	total := core.Black
	prevTransparency := 1.0

	for _, hit := range hits {
		transparency := rt.scene.MaterialOf(hit.Object).Transparency

		direct := rt.directColor(hit).Multiply(1 - transparency)
		reflection := rt.reflectionColor(hit, level)
		total = total.Add(direct.Add(reflection).Multiply(prevTransparency))

		prevTransparency *= transparency
		if transparency == 0 {
			return total
		}
	}

	return total.Add(rt.scene.BackgroundColor.Multiply(prevTransparency))
}

// directColor sums the diffuse and Phong specular contributions of every
// light reaching the hit point.
func (rt *Raytracer) directColor(hit geometry.Hit) core.Color {
	mat := rt.scene.MaterialOf(hit.Object)

	diffuse := core.Black
	specular := core.Black
	for _, light := range rt.scene.Lights {
		intensity := rt.shadows.Intensity(light, hit, rt.random)
		if intensity == 0 {
			continue
		}

		directionToLight := hit.Point.DirectionTo(light.Position)
		lambert := max(0, hit.Normal.Dot(directionToLight))
		diffuse = diffuse.Add(light.Color.Multiply(lambert * intensity))

		if !mat.IsSpecular() {
			continue
		}
		cosAngle := directionToLight.ReflectAround(hit.Normal).Dot(hit.DirectionToSource)
		if cosAngle > 0 {
			phong := math.Pow(cosAngle, mat.PhongSpecularity) * light.SpecularIntensity * intensity
			specular = specular.Add(light.Color.Multiply(phong))
		}
	}

	return diffuse.MultiplyColor(mat.DiffuseColor).Add(specular.MultiplyColor(mat.SpecularColor))
}

// reflectionColor traces the mirror reflection of the incoming ray one level deeper
func (rt *Raytracer) reflectionColor(hit geometry.Hit, level int) core.Color {
	mat := rt.scene.MaterialOf(hit.Object)
	if !mat.IsReflective() {
		return core.Black
	}

	direction := hit.DirectionToSource.ReflectAround(hit.Normal)
	reflected := core.NewRay(hit.Point, direction).Advance(core.ReflectionOffset)
	return rt.ColorRay(reflected, level+1).MultiplyColor(mat.ReflectionColor)
}
