package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to scene file (file type only)
}

const (
	// SceneTypeBuiltin marks scenes constructed in code
	SceneTypeBuiltin = "builtin"
	// SceneTypeFile marks scenes loaded from a scene text file
	SceneTypeFile = "file"

	fileScenePrefix = "file:"
)

var builtinDescriptions = map[string]string{
	"simple":       "Red diffuse sphere lit by a single white light",
	"transparency": "Fully transparent sphere in front of a diffuse wall",
	"mirrors":      "Two facing mirrors reflecting a small sphere",
	"spheres":      "Specular, reflective and transparent spheres with soft shadows",
	"triangle":     "Triangle pyramid standing on a plane",
}

// FindScenesDir returns dir when it exists, otherwise the first of
// "scenes" and "../scenes" that exists, or "" when none do.
func FindScenesDir(dir string) string {
	possiblePaths := []string{"scenes", "../scenes"}
	if dir != "" {
		possiblePaths = []string{dir}
	}

	for _, path := range possiblePaths {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListSceneFiles scans dir for *.txt scene files and returns their metadata
// sorted by name. A missing directory yields an empty list.
func ListSceneFiles(dir string, logger core.Logger) ([]SceneInfo, error) {
	scenes := []SceneInfo{}
	if dir == "" {
		return scenes, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			logger.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the leading comment block of a
// scene file. Missing headers fall back to values derived from the file name.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       fileScenePrefix + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Type:     SceneTypeFile,
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// Metadata only lives in the header
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		switch {
		case strings.HasPrefix(content, "Scene:"):
			if name := strings.TrimSpace(strings.TrimPrefix(content, "Scene:")); name != "" {
				info.Name = name
			}
		case strings.HasPrefix(content, "Description:"):
			info.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		}
	}

	return info, scanner.Err()
}

// ListAllScenes returns the built-in scenes followed by the scene files in dir
func ListAllScenes(dir string, logger core.Logger) ([]SceneInfo, error) {
	var scenes []SceneInfo
	for _, name := range BuiltinSceneNames() {
		scenes = append(scenes, SceneInfo{
			ID:          name,
			Name:        titleCase(name),
			Description: builtinDescriptions[name],
			Type:        SceneTypeBuiltin,
		})
	}

	files, err := ListSceneFiles(FindScenesDir(dir), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to list scene files: %w", err)
	}
	return append(scenes, files...), nil
}

// SceneFileID reports whether id refers to a scene file and returns its base name
func SceneFileID(id string) (string, bool) {
	if !strings.HasPrefix(id, fileScenePrefix) {
		return "", false
	}
	return strings.TrimPrefix(id, fileScenePrefix), true
}

// titleCase converts a filename-style string to title case
// e.g., "hall-of-mirrors" -> "Hall Of Mirrors"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
