package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/df07/go-light2d/pkg/integrator"
	"github.com/df07/go-light2d/pkg/loaders"
	"github.com/df07/go-light2d/pkg/renderer"
	"github.com/df07/go-light2d/pkg/scene"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "error", "complete"
	Data string `json:"data"` // JSON-encoded data or plain message
}

// CompleteUpdate is sent once the film is finished
type CompleteUpdate struct {
	Scene            string  `json:"scene"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	ImageData        string  `json:"imageData"` // Base64 encoded PNG
	ElapsedMs        int64   `json:"elapsedMs"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	Tiles            int     `json:"tiles"`
	Workers          int     `json:"workers"`
}

// handleRender renders a scene and streams its log lines, then the finished
// image, as Server-Sent Events. Invalid requests are rejected with a plain
// 400 response before the stream opens.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sc, req, err := s.prepareRender(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	integ, err := integrator.NewPathTracer(sc.Sampling)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.setSSEHeaders(w)
	ctx := r.Context()

	// A single writer goroutine owns w until the handler returns
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(ctx, w, sseEventChan)
		close(writerDone)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	consoleDone := make(chan struct{})
	go func() {
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
		close(consoleDone)
	}()

	opts := renderer.DefaultOptions()
	opts.Seed = req.Seed
	opts.Logger = NewWebLogger(renderID, consoleChan)

	startTime := time.Now()
	film, stats, err := renderer.Render(ctx, sc.Tree, integ, sc.Region, image.Pt(sc.Width, sc.Height), sc.Tiles, opts)
	close(consoleChan)
	<-consoleDone
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	imageData, err := filmToBase64PNG(film, req.Gamma)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	data, err := json.Marshal(CompleteUpdate{
		Scene:            sc.Name,
		Width:            sc.Width,
		Height:           sc.Height,
		ImageData:        imageData,
		ElapsedMs:        time.Since(startTime).Milliseconds(),
		TotalPixels:      stats.TotalPixels,
		TotalSamples:     stats.TotalSamples,
		SamplesPerSecond: stats.SamplesPerSecond(),
		Tiles:            stats.Tiles,
		Workers:          stats.Workers,
	})
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode result: %v", err))
		return
	}
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "complete", Data: string(data)})
}

// prepareRender opens the requested scene and applies the request
// parameters, checking everything Render would reject up front
func (s *Server) prepareRender(values url.Values) (*scene.Scene, *RenderRequest, error) {
	sc, err := s.openScene(values)
	if err != nil {
		return nil, nil, err
	}
	req, err := parseRenderRequest(values, sc)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid request: %w", err)
	}
	req.apply(sc)

	if err := sc.Region.Validate(); err != nil {
		return nil, nil, err
	}
	if _, err := renderer.NewTileGrid(sc.Width, sc.Height, sc.Tiles); err != nil {
		return nil, nil, fmt.Errorf("invalid request: %w", err)
	}
	return sc, req, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes events until the channel closes or the client leaves
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards log lines as console events. Lines are
// dropped rather than stalling the render when the client falls behind.
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for msg := range consoleChan {
		data, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}
		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
		}
	}
}

// sendEvent queues an event unless the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: message})
}

// filmToBase64PNG encodes the film as a base64 PNG
func filmToBase64PNG(film *renderer.Film, gamma float64) (string, error) {
	var buf bytes.Buffer
	if err := loaders.EncodePNG(&buf, film, gamma); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
