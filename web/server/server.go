package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
}

// NewServer creates a new web server. scenesDir may be empty to use the
// default scene file locations.
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Built-in scene name or "file:<name>"
	Width   int    `json:"width"`   // Image width
	Height  int    `json:"height"`  // Image height
	Threads int    `json:"threads"` // Worker count, 0 for one per CPU
	Seed    int64  `json:"seed"`    // Base sampling seed
}

// ProgressUpdate is sent via SSE after each completed row
type ProgressUpdate struct {
	Row       int   `json:"row"`
	Completed int   `json:"completed"`
	TotalRows int   `json:"totalRows"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels   int     `json:"totalPixels"`
	PrimaryRays   int     `json:"primaryRays"`
	TracedRays    int     `json:"tracedRays"`
	ShadowRays    int     `json:"shadowRays"`
	RaysPerSecond float64 `json:"raysPerSecond"`
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes followed by the scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	scenes, err := scene.ListAllScenes(s.scenesDir, renderer.NewDefaultLogger())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(scenes)
}

// handleRender renders a scene and streams row progress via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan := make(chan ConsoleMessage, 100)
	logger := NewWebLogger(consoleChan, os.Stdout)
	defer func() {
		if dropped := logger.Dropped(); dropped > 0 {
			log.Printf("Render of %s dropped %d console messages", req.Scene, dropped)
		}
	}()

	if req.Width*req.Height > 1000*1000 {
		logger.Printf("Warning: %dx%d image may render slowly\n", req.Width, req.Height)
	}

	sceneObj, err := s.createScene(req.Scene, req.Width, req.Height, logger)
	if err != nil {
		s.drainConsole(w, consoleChan)
		s.sendSSEError(w, err.Error())
		return
	}

	startTime := time.Now()
	config := renderer.RenderConfig{
		NumWorkers: req.Threads,
		Seed:       req.Seed,
		// Render invokes the callback on this goroutine, so writing to w is safe
		RowCallback: func(row int, colors []core.Color, completed int) {
			s.drainConsole(w, consoleChan)
			s.sendSSEUpdate(w, "progress", ProgressUpdate{
				Row:       row,
				Completed: completed,
				TotalRows: req.Height,
				ElapsedMs: time.Since(startTime).Milliseconds(),
			})
		},
	}

	img, stats, err := renderer.Render(sceneObj, config, logger)
	s.drainConsole(w, consoleChan)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
		return
	}

	imageData, err := s.imageToBase64PNG(img.ToRGBA())
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	s.sendSSEUpdate(w, "complete", CompleteUpdate{
		ImageData: imageData,
		Width:     req.Width,
		Height:    req.Height,
		Stats: Stats{
			TotalPixels:   stats.Pixels,
			PrimaryRays:   stats.PrimaryRays,
			TracedRays:    stats.TracedRays,
			ShadowRays:    stats.ShadowRays,
			RaysPerSecond: stats.RaysPerSecond(),
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseSceneParams(r.URL.Query(), req); err != nil {
		return nil, err
	}

	var err error
	if req.Threads, err = parseIntParam(r.URL.Query(), "threads", 0, 0, 256); err != nil {
		return nil, err
	}
	if value := r.URL.Query().Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	} else {
		req.Seed = renderer.DefaultRenderConfig().Seed
	}

	return req, nil
}

// parseSceneParams parses the parameters shared by render and inspect
func (s *Server) parseSceneParams(values url.Values, req *RenderRequest) error {
	req.Scene = values.Get("scene")
	if req.Scene == "" {
		req.Scene = "simple"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 16, 2000); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(values, "height", 400, 16, 2000); err != nil {
		return err
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds a built-in scene or loads a scene file by its "file:" id
func (s *Server) createScene(id string, width, height int, logger core.Logger) (*scene.Scene, error) {
	name, isFile := scene.SceneFileID(id)
	if !isFile {
		return scene.NewBuiltinScene(id, width, height)
	}

	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid scene file name %q", name)
	}
	dir := scene.FindScenesDir(s.scenesDir)
	if dir == "" {
		return nil, fmt.Errorf("no scenes directory found")
	}
	path := filepath.Join(dir, name+".txt")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("unknown scene file %q", name)
	}

	options := loaders.DefaultLoadOptions()
	options.Width = width
	options.Height = height
	options.Logger = logger
	return loaders.LoadScene(path, options)
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// drainConsole forwards any buffered console messages as SSE events
func (s *Server) drainConsole(w http.ResponseWriter, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEUpdate(w, "console", msg)
		default:
			return
		}
	}
}

// sendSSEUpdate sends a JSON payload via SSE
func (s *Server) sendSSEUpdate(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		// Multi-line payloads become one data field per line
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, strings.ReplaceAll(data, "\n", "\ndata: "))
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
