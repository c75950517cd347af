package loaders

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
)

// SceneFile contains all parsed data of a YAML scene description
type SceneFile struct {
	Name        string       `yaml:"name"`        // Shown in scene lists; optional
	Description string       `yaml:"description"` // Optional
	Group       string       `yaml:"group"`       // Scene list grouping; optional
	Camera      *CameraSpec  `yaml:"camera"`
	Shading     *ShadingSpec `yaml:"shading"`
	Objects     []ObjectSpec `yaml:"objects"`
	Lights      []LightSpec  `yaml:"lights"`
}

// CameraSpec overrides parts of the default camera. Omitted fields keep
// their defaults.
type CameraSpec struct {
	FocalPoint  []float64 `yaml:"focalPoint"`
	FrameCentre []float64 `yaml:"frameCentre"`
	XDirection  []float64 `yaml:"xDirection"`
	YDirection  []float64 `yaml:"yDirection"`
	Width       int       `yaml:"width"`
	Height      int       `yaml:"height"`
}

// ShadingSpec overrides the shading constants
type ShadingSpec struct {
	RecursionLimit       *int     `yaml:"recursionLimit"`
	BrightnessCorrection *float64 `yaml:"brightnessCorrection"`
}

// ObjectSpec describes one shape with its colours
type ObjectSpec struct {
	Shape      string          `yaml:"shape"` // "sphere" or "plane"
	Centre     []float64       `yaml:"centre"`
	Radius     float64         `yaml:"radius"` // sphere only
	Normal     []float64       `yaml:"normal"` // plane only
	Colour     []float64       `yaml:"colour"`
	Reflection []float64       `yaml:"reflection"` // Optional, defaults to black
	Transform  []TransformStep `yaml:"transform"`  // Applied in listed order
}

// TransformStep is a single entry of an object's transform list. Exactly one
// field must be set.
type TransformStep struct {
	Translate []float64 `yaml:"translate"`
	Scale     []float64 `yaml:"scale"`
	RotateX   *float64  `yaml:"rotateX"`
	RotateY   *float64  `yaml:"rotateY"`
	RotateZ   *float64  `yaml:"rotateZ"`
}

// LightSpec describes a point light
type LightSpec struct {
	Position []float64 `yaml:"position"`
	Colour   []float64 `yaml:"colour"`
}

// ParseSceneYAML parses a YAML scene description from an io.Reader.
// Unknown keys are rejected.
func ParseSceneYAML(reader io.Reader) (*SceneFile, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var file SceneFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scene file is empty")
		}
		return nil, fmt.Errorf("failed to parse scene YAML: %w", err)
	}

	for i, object := range file.Objects {
		switch object.Shape {
		case "sphere", "plane":
		default:
			return nil, fmt.Errorf("object %d: unexpected shape %q", i, object.Shape)
		}
	}

	return &file, nil
}

// LoadSceneFile loads and parses a YAML scene description from disk
func LoadSceneFile(filename string) (*SceneFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	return ParseSceneYAML(file)
}

// Vector converts a three-element list into a Vec3. name is used in the error.
func Vector(name string, values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%s had unexpected length %d", name, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

// optionalVector is like Vector but returns the zero vector for an omitted list
func optionalVector(name string, values []float64) (core.Vec3, error) {
	if values == nil {
		return core.Vec3{}, nil
	}
	return Vector(name, values)
}

// Transformation composes the steps in order: the first step is applied first
func (o ObjectSpec) Transformation() (core.Transform, error) {
	result := core.IdentityTransform()
	for i, step := range o.Transform {
		next, err := step.transform()
		if err != nil {
			return core.Transform{}, fmt.Errorf("transform step %d: %w", i, err)
		}
		result = result.Then(next)
	}
	return result, nil
}

func (s TransformStep) transform() (core.Transform, error) {
	var result core.Transform
	set := 0

	if s.Translate != nil {
		v, err := Vector("translate", s.Translate)
		if err != nil {
			return result, err
		}
		result = core.Translation(v.X, v.Y, v.Z)
		set++
	}
	if s.Scale != nil {
		v, err := Vector("scale", s.Scale)
		if err != nil {
			return result, err
		}
		result = core.Scaling(v.X, v.Y, v.Z)
		set++
	}
	if s.RotateX != nil {
		result = core.RotationX(*s.RotateX)
		set++
	}
	if s.RotateY != nil {
		result = core.RotationY(*s.RotateY)
		set++
	}
	if s.RotateZ != nil {
		result = core.RotationZ(*s.RotateZ)
		set++
	}

	if set != 1 {
		return core.Transform{}, fmt.Errorf("expected exactly one of translate, scale, rotateX, rotateY, rotateZ, got %d", set)
	}
	return result, nil
}

// CameraConfig returns the camera fields set in the file. Omitted fields are
// left zero so geometry.MergeCameraConfig keeps their defaults.
func (c *CameraSpec) CameraConfig() (geometry.CameraConfig, error) {
	config := geometry.CameraConfig{Width: c.Width, Height: c.Height}
	var err error

	if config.FocalPoint, err = optionalVector("camera focalPoint", c.FocalPoint); err != nil {
		return config, err
	}
	if config.FrameCentre, err = optionalVector("camera frameCentre", c.FrameCentre); err != nil {
		return config, err
	}
	if config.XDirection, err = optionalVector("camera xDirection", c.XDirection); err != nil {
		return config, err
	}
	if config.YDirection, err = optionalVector("camera yDirection", c.YDirection); err != nil {
		return config, err
	}
	return config, nil
}
