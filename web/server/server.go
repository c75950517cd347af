package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
	"github.com/df07/go-reflective-raytracer/pkg/output"
	"github.com/df07/go-reflective-raytracer/pkg/renderer"
	"github.com/df07/go-reflective-raytracer/pkg/scene"
)

// DefaultRenderTimeout bounds a single render request
const DefaultRenderTimeout = 60 * time.Second

// Server handles web requests for the reflective raytracer
type Server struct {
	port          int
	scenesDir     string
	publisher     output.Publisher
	renderTimeout time.Duration
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{
		port:          port,
		scenesDir:     scene.ResolveScenesDir(),
		renderTimeout: DefaultRenderTimeout,
	}
}

// SetPublisher enables publish=true on render requests
func (s *Server) SetPublisher(publisher output.Publisher) {
	s.publisher = publisher
}

// SetRenderTimeout changes the per-request render deadline
func (s *Server) SetRenderTimeout(timeout time.Duration) {
	s.renderTimeout = timeout
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene                string   // Scene ID as listed by /api/scenes
	Width                int      // Image width
	Height               int      // Image height
	RecursionLimit       *int     // Maximum mirror bounces; nil keeps the scene's value
	BrightnessCorrection *float64 // Light falloff scale; nil keeps the scene's value
	Thumbnail            int      // Thumbnail size in pixels, 0 for full size
	Publish              bool     // Upload the result
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	LitPixels        int     `json:"litPixels"`
	DegeneratePixels int     `json:"degeneratePixels"`
	AverageLuminance float64 `json:"averageLuminance"`
	ElapsedMs        int64   `json:"elapsedMs"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:      stats.TotalPixels,
		LitPixels:        stats.LitPixels,
		DegeneratePixels: stats.DegeneratePixels,
		AverageLuminance: stats.AverageLuminance,
		ElapsedMs:        stats.Elapsed.Milliseconds(),
	}
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render-stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
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

// handleScenes lists built-in and YAML scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleRender renders a scene and responds with the PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	if req.Publish && s.publisher == nil {
		writeJSONError(w, http.StatusBadRequest, "Publishing is not configured")
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.renderTimeout)
	defer cancel()

	raytracer := renderer.NewRaytracer(sceneObj, sceneObj.Camera, renderer.NewDefaultLogger())
	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		writeJSONError(w, status, fmt.Sprintf("Render error: %v", err))
		return
	}

	var final image.Image = img
	if req.Thumbnail > 0 {
		final = output.Thumbnail(img, uint(req.Thumbnail))
	}
	data, err := output.PNGBytes(final)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Publish {
		key := output.RenderPath("renders", req.Scene, time.Now())
		location, err := s.publisher.Publish(ctx, filepath.ToSlash(key), data)
		if err != nil {
			log.Printf("Render upload failed: %v", err)
			writeJSONError(w, http.StatusBadGateway, "Upload failed")
			return
		}
		w.Header().Set("X-Render-Location", location)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Lit-Pixels", strconv.Itoa(stats.LitPixels))
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	query := r.URL.Query()

	if err := s.parseCommonSceneParams(query, req); err != nil {
		return nil, err
	}

	var err error
	if req.Thumbnail, err = parseIntParam(query, "thumbnail", 0, 0, 2000); err != nil {
		return nil, err
	}
	if value := query.Get("publish"); value != "" {
		if req.Publish, err = strconv.ParseBool(value); err != nil {
			return nil, fmt.Errorf("invalid publish: %s", value)
		}
	}

	return req, nil
}

// parseCommonSceneParams parses the parameters shared by render and inspect
func (s *Server) parseCommonSceneParams(query url.Values, req *RenderRequest) error {
	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	} else {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 400, 16, 2000); err != nil {
		return err
	}
	if req.RecursionLimit, err = parseOptionalIntParam(query, "depth", 0, 50); err != nil {
		return err
	}
	if req.BrightnessCorrection, err = parseOptionalFloatParam(query, "brightness", 0, 1000); err != nil {
		return err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.RecursionLimit != nil && *req.RecursionLimit > 20 {
		log.Printf("Render warning: Large image with deep reflections may render slowly")
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

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseOptionalIntParam is parseIntParam for parameters without a default
func parseOptionalIntParam(values url.Values, key string, min, max int) (*int, error) {
	if values.Get(key) == "" {
		return nil, nil
	}
	parsed, err := parseIntParam(values, key, 0, min, max)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseOptionalFloatParam is parseFloatParam for parameters without a default
func parseOptionalFloatParam(values url.Values, key string, min, max float64) (*float64, error) {
	if values.Get(key) == "" {
		return nil, nil
	}
	parsed, err := parseFloatParam(values, key, 0, min, max)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// createScene builds the requested scene at the requested size
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.loadScene(req.Scene, geometry.CameraConfig{Width: req.Width, Height: req.Height})
	if err != nil {
		return nil, err
	}

	// Query parameters override the scene's own shading only when given
	if req.RecursionLimit != nil {
		sceneObj.Shading.RecursionLimit = *req.RecursionLimit
	}
	if req.BrightnessCorrection != nil {
		sceneObj.Shading.BrightnessCorrection = *req.BrightnessCorrection
	}
	return sceneObj, nil
}

// loadScene resolves a scene ID. Scene files are addressed as "yaml:<name>"
// and must live directly inside the scenes directory.
func (s *Server) loadScene(id string, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	name, isYAML := strings.CutPrefix(id, "yaml:")
	if !isYAML {
		if !scene.HasPreset(id) {
			return nil, fmt.Errorf("unknown scene: %s", id)
		}
		return scene.NewPreset(id, cameraOverrides...)
	}

	path, err := scene.SceneFilePath(s.scenesDir, name)
	if err != nil {
		return nil, fmt.Errorf("unknown scene: %s", id)
	}
	sceneObj, err := scene.NewYAMLScene(path, cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", id, err)
	}
	return sceneObj, nil
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default" // Default scene
	}

	sceneObj, err := s.loadScene(sceneName)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	camera := sceneObj.Camera.Config()
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":                camera.Width,
			"height":               camera.Height,
			"recursionLimit":       sceneObj.Shading.RecursionLimit,
			"brightnessCorrection": sceneObj.Shading.BrightnessCorrection,
			"objects":              len(sceneObj.Objects),
			"lights":               len(sceneObj.Lights),
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": 16, "max": 2000},
			"height":     map[string]int{"min": 16, "max": 2000},
			"depth":      map[string]int{"min": 0, "max": 50},
			"brightness": map[string]float64{"min": 0, "max": 1000},
			"thumbnail":  map[string]int{"min": 0, "max": 2000},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func vecToArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
