package server

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-light2d/pkg/scene"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	content := `{
  "name": "bench", "description": "Test bench", "group": "Tests",
  "region": [-1, -1, 1, 1], "width": 16, "height": 16, "tiles": 4,
  "sampling": {"samplesPerPixel": 2},
  "materials": {"light": {"type": "emissive", "color": {"rgb": [1, 1, 1]}}},
  "entities": [{"shape": {"type": "segment", "from": [0.5, -1], "to": [0.5, 1]}, "material": "light"}]
}`
	if err := os.WriteFile(filepath.Join(dir, "bench.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	ts := httptest.NewServer(NewServer(0, dir).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, wantStatus int, out interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]string
	getJSON(t, ts.URL+"/api/health", http.StatusOK, &body)
	if body["status"] != "ok" {
		t.Errorf("status = %q", body["status"])
	}
}

func TestHandleScenes(t *testing.T) {
	ts := newTestServer(t)
	var body struct {
		Groups []scene.SceneGroup `json:"groups"`
	}
	getJSON(t, ts.URL+"/api/scenes", http.StatusOK, &body)

	if len(body.Groups) != 2 {
		t.Fatalf("got %d groups, want built-in and Tests", len(body.Groups))
	}
	if body.Groups[1].Name != "Tests" || body.Groups[1].Scenes[0].Name != "bench" {
		t.Errorf("unexpected JSON group %+v", body.Groups[1])
	}
}

func TestHandleSceneConfig(t *testing.T) {
	ts := newTestServer(t)

	var cfg SceneConfig
	getJSON(t, ts.URL+"/api/scene-config?scene=bench", http.StatusOK, &cfg)
	if cfg.Scene != "bench" || cfg.Width != 16 || cfg.Tiles != 4 || cfg.Entities != 1 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Sampling.SamplesPerPixel != 2 {
		t.Errorf("SamplesPerPixel = %d, want 2", cfg.Sampling.SamplesPerPixel)
	}

	var errBody map[string]string
	getJSON(t, ts.URL+"/api/scene-config?scene=cornell-box", http.StatusBadRequest, &errBody)
	if !strings.Contains(errBody["error"], "cornell-box") {
		t.Errorf("error = %q", errBody["error"])
	}
}

func TestHandleInspect(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		query    string
		hit      bool
		distance float64
	}{
		{"toward the light", "scene=bench&x=0&y=0&angle=0", true, 0.5},
		{"away from the light", "scene=bench&x=0&y=0&angle=180", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp InspectResponse
			getJSON(t, ts.URL+"/api/inspect?"+tt.query, http.StatusOK, &resp)
			if resp.Hit != tt.hit {
				t.Fatalf("Hit = %v, want %v", resp.Hit, tt.hit)
			}
			if !tt.hit {
				return
			}
			if math.Abs(resp.Distance-tt.distance) > 1e-9 {
				t.Errorf("Distance = %g, want %g", resp.Distance, tt.distance)
			}
			if resp.MaterialType != "emissive" || resp.GeometryType != "segment" {
				t.Errorf("types = %s/%s", resp.MaterialType, resp.GeometryType)
			}
		})
	}

	var errBody map[string]string
	getJSON(t, ts.URL+"/api/inspect?scene=bench&x=abc&y=0", http.StatusBadRequest, &errBody)
}

// readEvents collects all SSE events of a response
func readEvents(t *testing.T, url string) map[string][]string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	events := make(map[string][]string)
	var eventType string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 1<<20), 1<<24)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			eventType = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			events[eventType] = append(events[eventType], strings.TrimPrefix(line, "data: "))
		}
	}
	return events
}

func TestHandleRender(t *testing.T) {
	ts := newTestServer(t)
	events := readEvents(t, ts.URL+"/api/render?scene=bench&width=8&height=4&tiles=2&samples=1")

	if len(events["error"]) != 0 {
		t.Fatalf("unexpected errors: %v", events["error"])
	}
	if len(events["complete"]) != 1 {
		t.Fatalf("got %d complete events, want 1", len(events["complete"]))
	}

	var done CompleteUpdate
	if err := json.Unmarshal([]byte(events["complete"][0]), &done); err != nil {
		t.Fatalf("decode complete event: %v", err)
	}
	if done.Width != 8 || done.Height != 4 || done.Tiles != 2 || done.TotalSamples != 32 {
		t.Errorf("unexpected stats %+v", done)
	}

	data, err := base64.StdEncoding.DecodeString(done.ImageData)
	if err != nil {
		t.Fatalf("decode image data: %v", err)
	}
	img, err := png.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("image is %dx%d, want 8x4", b.Dx(), b.Dy())
	}
}

func TestHandleRenderErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"unknown scene", "scene=nope"},
		{"width out of range", "scene=bench&width=0"},
		{"bad seed", "scene=bench&seed=-1"},
		{"more tiles than pixels", "scene=bench&width=1&height=1&tiles=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Rejected before the event stream opens
			var body map[string]string
			getJSON(t, ts.URL+"/api/render?"+tt.query, http.StatusBadRequest, &body)
			if body["error"] == "" {
				t.Errorf("expected an error message, got %v", body)
			}
		})
	}
}

func TestHandleRenderRaggedTiles(t *testing.T) {
	ts := newTestServer(t)
	// No divisor grid of 7 tiles fits 4x4
	events := readEvents(t, ts.URL+"/api/render?scene=bench&width=4&height=4&tiles=7&samples=1")
	if len(events["error"]) != 0 || len(events["complete"]) != 1 {
		t.Fatalf("events = %v, want a single complete event", events)
	}
	var done CompleteUpdate
	if err := json.Unmarshal([]byte(events["complete"][0]), &done); err != nil {
		t.Fatalf("decode complete event: %v", err)
	}
	if done.Tiles != 7 || done.TotalPixels != 16 {
		t.Errorf("unexpected stats %+v", done)
	}
}
