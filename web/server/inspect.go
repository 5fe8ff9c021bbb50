package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/geometry"
	"github.com/df07/go-light2d/pkg/material"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	EntityID     int                    `json:"entityId"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [2]float64             `json:"point"`
	Normal       [2]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

func spectrumInfo(s core.Spectrum) [3]float64 {
	return [3]float64{s.R, s.G, s.B}
}

func hexColor(s core.Spectrum) string {
	c := s.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.R*255), int(c.G*255), int(c.B*255))
}

// extractColorInfo describes a color source
func extractColorInfo(source material.ColorSource) map[string]interface{} {
	switch c := source.(type) {
	case *material.SolidColor:
		return map[string]interface{}{
			"type":  "solid",
			"rgb":   spectrumInfo(c.Color),
			"color": hexColor(c.Color),
		}
	case *material.LinearGradient:
		return map[string]interface{}{
			"type":      "gradient",
			"from":      [2]float64{c.From.X, c.From.Y},
			"to":        [2]float64{c.To.X, c.To.Y},
			"fromColor": hexColor(c.FromColor),
			"toColor":   hexColor(c.ToColor),
		}
	case *material.ImageColor:
		return map[string]interface{}{
			"type":   "image",
			"width":  c.Width,
			"height": c.Height,
		}
	default:
		return map[string]interface{}{"type": "function"}
	}
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Emissive:
		properties["radiance"] = extractColorInfo(m.Radiance)
		properties["oneSided"] = m.OneSided
		return "emissive", properties

	case *material.Diffuse:
		properties["albedo"] = extractColorInfo(m.Albedo)
		properties["sampling"] = m.Sampling.String()
		return "diffuse", properties

	case *material.Mirror:
		properties["tint"] = spectrumInfo(m.Tint)
		properties["color"] = hexColor(m.Tint)
		return "mirror", properties

	case *material.Transparent:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["absorption"] = spectrumInfo(m.Absorption)
		return "transparent", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch g := shape.(type) {
	case *geometry.Circle:
		properties["center"] = [2]float64{g.Center.X, g.Center.Y}
		properties["radius"] = g.Radius
		return "circle", properties

	case *geometry.Segment:
		properties["a"] = [2]float64{g.A.X, g.A.Y}
		properties["b"] = [2]float64{g.B.X, g.B.Y}
		return "segment", properties

	case *geometry.Polygon:
		vertices := make([][2]float64, len(g.Vertices))
		for i, v := range g.Vertices {
			vertices[i] = [2]float64{v.X, v.Y}
		}
		properties["vertices"] = vertices
		properties["counterClockwise"] = g.IsCounterClockwise()
		return "polygon", properties

	default:
		return "unknown", properties
	}
}

// handleInspect casts a single ray from a world point and reports the
// nearest entity it hits. Parameters: scene, x, y and angle in degrees.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	sc, err := s.openScene(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	x, err := strconv.ParseFloat(values.Get("x"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	y, err := strconv.ParseFloat(values.Get("y"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	angle, err := parseFloatParam(values, "angle", 0, -360, 360)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	origin := core.Vec(x, y)
	if !core.IsFinite(origin) {
		writeError(w, http.StatusBadRequest, "Coordinates must be finite")
		return
	}

	ray := core.NewRay(origin, core.DirectionFromAngle(angle*math.Pi/180))
	hit, ok := sc.Tree.Intersect(ray)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(hit.Material)
	geometryType, geometryProps := extractGeometryInfo(sc.Tree.Shape(hit.ID))

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		EntityID:     int(hit.ID),
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [2]float64{hit.Point.X, hit.Point.Y},
		Normal:       [2]float64{hit.Normal.X, hit.Normal.Y},
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
