package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
	"github.com/df07/go-reflective-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ObjectID     int                    `json:"objectId"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Colour       [3]float64             `json:"colour"`
	Reflection   [3]float64             `json:"reflection"`
	Shaded       [3]float64             `json:"shaded"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit      bool
	ID       scene.ObjectID
	Distance float64
	Ray      core.Ray
}

// inspectPixel casts the primary ray for the pixel and returns the first object hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	ray := sceneObj.Camera.RayForPixel(pixelX, pixelY)
	id, distance, isHit := sceneObj.FirstIntersection(ray, scene.NoObject)
	return InspectResult{
		Hit:      isHit,
		ID:       id,
		Distance: distance,
		Ray:      ray,
	}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["centre"] = vecToArray(geom.Centre)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["centre"] = vecToArray(geom.Centre)
		properties["normal"] = vecToArray(geom.Normal)
		return "plane", properties

	case *geometry.Transformed:
		innerType, innerProps := s.extractGeometryInfo(geom.Shape())
		properties["inner"] = map[string]interface{}{
			"type":       innerType,
			"properties": innerProps,
		}
		properties["transform"] = geom.Transform().String()
		return "transformed", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles object inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	query := r.URL.Query()
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(query, req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil || pixelX < 0 || pixelX >= req.Width {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("x must be an integer in 0..%d", req.Width-1))
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil || pixelY < 0 || pixelY >= req.Height {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("y must be an integer in 0..%d", req.Height-1))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		json.NewEncoder(w).Encode(InspectResponse{Hit: false, ObjectID: int(scene.NoObject)})
		return
	}

	object, _ := sceneObj.Object(result.ID)
	point := result.Ray.At(result.Distance)
	geometryType, properties := s.extractGeometryInfo(object.Shape)

	response := InspectResponse{
		Hit:          true,
		ObjectID:     int(result.ID),
		GeometryType: geometryType,
		Point:        vecToArray(point),
		Normal:       vecToArray(object.Shape.NormalAt(point)),
		Distance:     result.Distance,
		Colour:       vecToArray(object.Colour),
		Reflection:   vecToArray(object.ReflectionColour),
		Properties:   properties,
	}

	// Shading failures still leave the geometric answer useful
	if shaded, err := sceneObj.ColourForRay(result.Ray); err == nil {
		response.Shaded = vecToArray(shaded)
	} else {
		response.Properties["shadingError"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
