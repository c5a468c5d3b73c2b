package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var (
	// ErrMissingCamera is returned when a scene file has no cam record
	ErrMissingCamera = errors.New("scene has no camera (cam) record")
	// ErrMissingSettings is returned when a scene file has no set record
	ErrMissingSettings = errors.New("scene has no settings (set) record")
	// ErrUnknownRecord is returned for an unrecognized leading keyword
	ErrUnknownRecord = errors.New("unknown record type")
	// ErrDuplicateRecord is returned when cam or set appears more than once
	ErrDuplicateRecord = errors.New("duplicate record")
	// ErrMaterialIndex is returned for a material reference that is not defined yet
	ErrMaterialIndex = errors.New("material index out of range")
)

// LoadOptions contains the parameters a scene file does not carry itself
type LoadOptions struct {
	Width   int         // Output image width in pixels
	Height  int         // Output image height in pixels
	BaseDir string      // Directory that msh paths are relative to
	Logger  core.Logger // Receives mesh import messages (nil = silent)
}

// DefaultLoadOptions returns a 500x500 image size
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Width:  500,
		Height: 500,
	}
}

// LoadScene loads and parses a scene file. Relative msh paths resolve
// against the scene file's directory unless options.BaseDir is set.
func LoadScene(filename string, options LoadOptions) (*scene.Scene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	if options.BaseDir == "" {
		options.BaseDir = filepath.Dir(filename)
	}

	s, err := ParseScene(file, options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// sceneParser accumulates the records of a scene file
type sceneParser struct {
	options    LoadOptions
	camera     *geometry.CameraConfig
	settings   *scene.Settings
	materials  []material.Material
	primitives []geometry.Primitive
	lights     []lights.Light
}

// ParseScene parses scene records from a reader and builds the scene
func ParseScene(reader io.Reader, options LoadOptions) (*scene.Scene, error) {
	if options.Logger == nil {
		options.Logger = core.NopLogger{}
	}
	parser := &sceneParser{options: options}

	scanner := bufio.NewScanner(reader)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		if err := parser.processLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return parser.build()
}

// processLine parses a single record; blank lines and # comments are skipped
func (p *sceneParser) processLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	fields := strings.Fields(line)
	keyword, args := fields[0], fields[1:]

	switch keyword {
	case "cam":
		return p.parseCamera(args)
	case "set":
		return p.parseSettings(args)
	case "mtl":
		return p.parseMaterial(args)
	case "sph":
		return p.parseSphere(args)
	case "pln":
		return p.parsePlane(args)
	case "trg":
		return p.parseTriangle(args)
	case "lgt":
		return p.parseLight(args)
	case "msh":
		return p.parseMesh(args)
	default:
		return fmt.Errorf("%w %q", ErrUnknownRecord, keyword)
	}
}

func (p *sceneParser) parseCamera(args []string) error {
	values, err := parseFloats("cam", args, 11)
	if err != nil {
		return err
	}
	if p.camera != nil {
		return fmt.Errorf("%w: cam", ErrDuplicateRecord)
	}

	p.camera = &geometry.CameraConfig{
		Position:       vec3At(values, 0),
		LookAt:         vec3At(values, 3),
		Up:             vec3At(values, 6),
		ScreenDistance: values[9],
		ScreenWidth:    values[10],
		ImageWidth:     p.options.Width,
		ImageHeight:    p.options.Height,
	}
	return nil
}

func (p *sceneParser) parseSettings(args []string) error {
	if len(args) != 6 {
		return fmt.Errorf("set: expected 6 values, got %d", len(args))
	}
	background, err := parseFloats("set", args[:3], 3)
	if err != nil {
		return err
	}
	counts := make([]int, 3)
	for i, arg := range args[3:] {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return fmt.Errorf("set: invalid count %q", arg)
		}
		counts[i] = n
	}
	if p.settings != nil {
		return fmt.Errorf("%w: set", ErrDuplicateRecord)
	}

	settings := scene.Settings{
		BackgroundColor: colorAt(background, 0),
		ShadowRays:      counts[0],
		MaxRecursion:    counts[1],
		SuperSampling:   counts[2],
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	p.settings = &settings
	return nil
}

func (p *sceneParser) parseMaterial(args []string) error {
	values, err := parseFloats("mtl", args, 11)
	if err != nil {
		return err
	}

	mat, err := material.NewMaterial(colorAt(values, 0), colorAt(values, 3), colorAt(values, 6), values[9], values[10])
	if err != nil {
		return fmt.Errorf("mtl: %w", err)
	}
	p.materials = append(p.materials, mat)
	return nil
}

func (p *sceneParser) parseSphere(args []string) error {
	values, mat, err := p.parseShape("sph", args, 4)
	if err != nil {
		return err
	}
	if !(values[3] > 0) {
		return fmt.Errorf("sph: radius must be positive, got %g", values[3])
	}

	p.primitives = append(p.primitives, geometry.NewSphere(vec3At(values, 0), values[3], mat))
	return nil
}

func (p *sceneParser) parsePlane(args []string) error {
	values, mat, err := p.parseShape("pln", args, 4)
	if err != nil {
		return err
	}
	normal := vec3At(values, 0)
	if normal.IsZero() {
		return fmt.Errorf("pln: normal must not be zero")
	}

	p.primitives = append(p.primitives, geometry.NewPlane(normal, values[3], mat))
	return nil
}

func (p *sceneParser) parseTriangle(args []string) error {
	values, mat, err := p.parseShape("trg", args, 9)
	if err != nil {
		return err
	}

	p.primitives = append(p.primitives, geometry.NewTriangle(vec3At(values, 0), vec3At(values, 3), vec3At(values, 6), mat))
	return nil
}

func (p *sceneParser) parseLight(args []string) error {
	values, err := parseFloats("lgt", args, 9)
	if err != nil {
		return err
	}

	light, err := lights.NewLight(vec3At(values, 0), colorAt(values, 3), values[6], values[7], values[8])
	if err != nil {
		return fmt.Errorf("lgt: %w", err)
	}
	p.lights = append(p.lights, light)
	return nil
}

// parseMesh handles "msh path material_index [scale] [tx ty tz]"
func (p *sceneParser) parseMesh(args []string) error {
	if len(args) != 2 && len(args) != 3 && len(args) != 6 {
		return fmt.Errorf("msh: expected path, material index, optional scale and translation, got %d values", len(args))
	}

	mat, err := p.material("msh", args[1])
	if err != nil {
		return err
	}

	transform := IdentityTransform()
	if len(args) >= 3 {
		values, err := parseFloats("msh", args[2:], len(args)-2)
		if err != nil {
			return err
		}
		transform.Scale = values[0]
		if len(values) == 4 {
			transform.Translate = vec3At(values, 1)
		}
	}
	if !(transform.Scale > 0) {
		return fmt.Errorf("msh: scale must be positive, got %g", transform.Scale)
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.options.BaseDir, path)
	}

	triangles, err := LoadMeshTriangles(path, mat, transform)
	if err != nil {
		return fmt.Errorf("msh: %w", err)
	}
	p.options.Logger.Printf("Loaded mesh %s: %d triangles\n", args[0], len(triangles))
	p.primitives = append(p.primitives, triangles...)
	return nil
}

// parseShape parses n numeric values followed by a material index
func (p *sceneParser) parseShape(keyword string, args []string, n int) ([]float64, material.Material, error) {
	if len(args) != n+1 {
		return nil, material.Material{}, fmt.Errorf("%s: expected %d values, got %d", keyword, n+1, len(args))
	}
	values, err := parseFloats(keyword, args[:n], n)
	if err != nil {
		return nil, material.Material{}, err
	}
	mat, err := p.material(keyword, args[n])
	if err != nil {
		return nil, material.Material{}, err
	}
	return values, mat, nil
}

// material resolves a 1-based reference to an already defined material
func (p *sceneParser) material(keyword, arg string) (material.Material, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return material.Material{}, fmt.Errorf("%s: invalid material index %q", keyword, arg)
	}
	if index < 1 || index > len(p.materials) {
		return material.Material{}, fmt.Errorf("%s: %w: %d (%d defined)", keyword, ErrMaterialIndex, index, len(p.materials))
	}
	return p.materials[index-1], nil
}

// build validates the collected records and assembles the scene
func (p *sceneParser) build() (*scene.Scene, error) {
	if p.camera == nil {
		return nil, ErrMissingCamera
	}
	if p.settings == nil {
		return nil, ErrMissingSettings
	}

	cameraConfig := *p.camera
	cameraConfig.SuperSampling = p.settings.SuperSampling
	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("cam: %w", err)
	}

	return scene.New(*p.settings, camera, p.primitives, p.lights)
}

// parseFloats parses exactly n float arguments
func parseFloats(keyword string, args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s: expected %d values, got %d", keyword, n, len(args))
	}
	values := make([]float64, n)
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", keyword, arg)
		}
		values[i] = v
	}
	return values, nil
}

func vec3At(values []float64, i int) core.Vec3 {
	return core.NewVec3(values[i], values[i+1], values[i+2])
}

func colorAt(values []float64, i int) core.Color {
	return core.NewColor(values[i], values[i+1], values[i+2])
}
