package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit  bool           `json:"hit"`
	Hits []InspectedHit `json:"hits"`
}

// InspectedHit describes one intersection along the pixel's primary ray.
// Hits are listed front to back, stopping after the first opaque surface.
type InspectedHit struct {
	Object       int                    `json:"object"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Material     map[string]interface{} `json:"material"`
	Geometry     map[string]interface{} `json:"geometry"`
}

// inspectPixel casts the ray through the center of pixel (x, y)
func inspectPixel(sceneObj *scene.Scene, x, y int) []InspectedHit {
	center := sceneObj.Camera.ScreenPoint(float64(x)+0.5, float64(y)+0.5)
	ray := core.NewRayBetween(sceneObj.Camera.Position, center)

	var result []InspectedHit
	for _, hit := range sceneObj.FindHits(ray) {
		primitive := sceneObj.Primitives[hit.Object]
		geometryType, geometryProps := extractGeometryInfo(primitive)
		mat := primitive.Material()
		result = append(result, InspectedHit{
			Object:       hit.Object,
			GeometryType: geometryType,
			Point:        vecArray(hit.Point),
			Normal:       vecArray(hit.Normal),
			Distance:     hit.Distance,
			Material:     extractMaterialInfo(mat),
			Geometry:     geometryProps,
		})
		if !mat.IsTransparent() {
			break
		}
	}
	return result
}

// extractMaterialInfo lists the shading coefficients of a material
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	return map[string]interface{}{
		"diffuse":          colorArray(mat.DiffuseColor),
		"specular":         colorArray(mat.SpecularColor),
		"reflection":       colorArray(mat.ReflectionColor),
		"phongSpecularity": mat.PhongSpecularity,
		"transparency":     mat.Transparency,
		"color":            hexColor(mat.DiffuseColor),
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(primitive geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := primitive.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["normal"] = vecArray(geom.Normal)
		properties["offset"] = geom.Offset
		return "plane", properties

	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{vecArray(geom.V1), vecArray(geom.V2), vecArray(geom.V3)}
		properties["normal"] = vecArray(geom.Normal())
		return "triangle", properties

	default:
		return "unknown", properties
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

func hexColor(c core.Color) string {
	r, g, b := c.Bytes()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// handleInspect reports what the primary ray through a pixel hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	inspectReq := &RenderRequest{}
	if err := s.parseSceneParams(r.URL.Query(), inspectReq); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid y coordinate"})
		return
	}

	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sceneObj, err := s.createScene(inspectReq.Scene, inspectReq.Width, inspectReq.Height, nil)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	hits := inspectPixel(sceneObj, pixelX, pixelY)
	response := InspectResponse{Hit: len(hits) > 0, Hits: hits}
	if response.Hits == nil {
		response.Hits = []InspectedHit{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
