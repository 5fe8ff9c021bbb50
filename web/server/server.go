// Package server exposes the renderer over HTTP: scene listing, scene
// defaults, streamed renders and ray inspection.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-light2d/pkg/renderer"
	"github.com/df07/go-light2d/pkg/scene"
)

// Request limits
const (
	maxFilmSize = 2000
	maxSamples  = 10000
	maxDepth    = 1000
	maxTiles    = 4096
)

// Server handles web requests for the renderer
type Server struct {
	port      int
	scenesDir string
}

// NewServer creates a new web server. JSON scenes are looked up in scenesDir.
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
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
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and JSON scenes by group
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	groups, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// SceneConfig describes a scene's default render settings
type SceneConfig struct {
	Scene       string            `json:"scene"`
	Description string            `json:"description"`
	Region      [4]float64        `json:"region"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Tiles       int               `json:"tiles"`
	Sampling    SamplingDefaults  `json:"sampling"`
	Entities    int               `json:"entities"`
	Groups      int               `json:"groups"`
	Limits      map[string][2]int `json:"limits"`
}

// SamplingDefaults mirrors integrator.Config for JSON output
type SamplingDefaults struct {
	SamplesPerPixel    int        `json:"samplesPerPixel"`
	MaxDepth           int        `json:"maxDepth"`
	RouletteMinBounces int        `json:"rouletteMinBounces"`
	RouletteQ          float64    `json:"rouletteQ"`
	Background         [3]float64 `json:"background"`
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sc, err := s.openScene(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats := sc.Tree.Stats()
	bg := sc.Sampling.Background
	writeJSON(w, http.StatusOK, SceneConfig{
		Scene:       sc.Name,
		Description: sc.Description,
		Region:      [4]float64{sc.Region.LLx, sc.Region.LLy, sc.Region.URx, sc.Region.URy},
		Width:       sc.Width,
		Height:      sc.Height,
		Tiles:       sc.Tiles,
		Sampling: SamplingDefaults{
			SamplesPerPixel:    sc.Sampling.SamplesPerPixel,
			MaxDepth:           sc.Sampling.MaxDepth,
			RouletteMinBounces: sc.Sampling.RussianRouletteMinBounces,
			RouletteQ:          sc.Sampling.RussianRouletteQ,
			Background:         [3]float64{bg.R, bg.G, bg.B},
		},
		Entities: stats.Leaves,
		Groups:   stats.Composites,
		Limits: map[string][2]int{
			"width":   {1, maxFilmSize},
			"height":  {1, maxFilmSize},
			"samples": {1, maxSamples},
			"depth":   {1, maxDepth},
			"tiles":   {1, maxTiles},
		},
	})
}

// openScene opens the scene named by the "scene" parameter
func (s *Server) openScene(values url.Values) (*scene.Scene, error) {
	name := values.Get("scene")
	if name == "" {
		name = "hello-circle"
	}
	return scene.Open(name, s.scenesDir)
}

// RenderRequest represents a render request from the client. Zero fields
// keep the scene's own settings.
type RenderRequest struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Samples int     `json:"samples"`
	Depth   int     `json:"depth"`
	Tiles   int     `json:"tiles"`
	Seed    uint64  `json:"seed"`
	Gamma   float64 `json:"gamma"`
}

// parseRenderRequest parses request parameters, defaulting to sc's settings
func parseRenderRequest(values url.Values, sc *scene.Scene) (*RenderRequest, error) {
	req := &RenderRequest{}

	var err error
	if req.Width, err = parseIntParam(values, "width", sc.Width, 1, maxFilmSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", sc.Height, 1, maxFilmSize); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", sc.Sampling.SamplesPerPixel, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", sc.Sampling.MaxDepth, 1, maxDepth); err != nil {
		return nil, err
	}
	if req.Tiles, err = parseIntParam(values, "tiles", sc.Tiles, 1, maxTiles); err != nil {
		return nil, err
	}
	if req.Gamma, err = parseFloatParam(values, "gamma", 2.2, 0.1, 10); err != nil {
		return nil, err
	}
	req.Seed = renderer.DefaultOptions().Seed
	if value := values.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseUint(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}

	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return req, nil
}

// apply writes the request's settings into sc
func (req *RenderRequest) apply(sc *scene.Scene) {
	sc.Width = req.Width
	sc.Height = req.Height
	sc.Tiles = req.Tiles
	sc.Sampling.SamplesPerPixel = req.Samples
	sc.Sampling.MaxDepth = req.Depth
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
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
