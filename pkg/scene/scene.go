package scene

import (
	"fmt"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
)

// ObjectID identifies an object by its position in the scene's object list
type ObjectID int

// NoObject is the ObjectID that matches nothing
const NoObject ObjectID = -1

// Object is a shape with its surface colours
type Object struct {
	Shape            geometry.Shape
	Colour           core.Vec3 // Multiplies the direct lighting
	ReflectionColour core.Vec3 // Multiplies the mirrored contribution; black disables reflection
}

// IsReflective reports whether the object contributes a mirrored ray
func (o *Object) IsReflective() bool {
	return !o.ReflectionColour.IsZero()
}

// Light is a point light. Colour is raw intensity and may exceed 1.
type Light struct {
	Position core.Vec3
	Colour   core.Vec3
}

// ShadingConfig contains the constants of the shading recursion
type ShadingConfig struct {
	RecursionLimit       int     // Maximum number of mirror bounces per primary ray
	BrightnessCorrection float64 // Scales inverse-square light falloff
}

// DefaultShadingConfig returns the calibrated default values
func DefaultShadingConfig() ShadingConfig {
	return ShadingConfig{
		RecursionLimit:       10,
		BrightnessCorrection: 40,
	}
}

// Scene contains all the elements needed for rendering. It must not be
// modified once rendering starts; concurrent ColourForRay calls are safe.
type Scene struct {
	Objects []Object
	Lights  []Light
	Shading ShadingConfig
	Camera  *geometry.Camera
}

// New creates an empty scene with the given shading configuration
func New(shading ShadingConfig) *Scene {
	return &Scene{
		Objects: make([]Object, 0),
		Lights:  make([]Light, 0),
		Shading: shading,
	}
}

// AddObject appends an object and returns its ID
func (s *Scene) AddObject(shape geometry.Shape, colour, reflectionColour core.Vec3) ObjectID {
	s.Objects = append(s.Objects, Object{
		Shape:            shape,
		Colour:           colour,
		ReflectionColour: reflectionColour,
	})
	return ObjectID(len(s.Objects) - 1)
}

// AddLight appends a point light
func (s *Scene) AddLight(position, colour core.Vec3) {
	s.Lights = append(s.Lights, Light{Position: position, Colour: colour})
}

// Object returns the object with the given ID
func (s *Scene) Object(id ObjectID) (*Object, bool) {
	if id < 0 || int(id) >= len(s.Objects) {
		return nil, false
	}
	return &s.Objects[id], true
}

// SetCamera validates config and attaches the resulting camera
func (s *Scene) SetCamera(config geometry.CameraConfig) error {
	camera, err := geometry.NewCamera(config)
	if err != nil {
		return fmt.Errorf("failed to create camera: %w", err)
	}
	s.Camera = camera
	return nil
}

// GetPrimitiveCount returns the total number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}
