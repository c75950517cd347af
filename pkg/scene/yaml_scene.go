package scene

import (
	"fmt"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
	"github.com/df07/go-reflective-raytracer/pkg/loaders"
)

// NewYAMLScene loads a YAML scene description from disk and builds a Scene
func NewYAMLScene(filepath string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	file, err := loaders.LoadSceneFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file: %w", err)
	}
	return FromSceneFile(file, cameraOverrides...)
}

// FromSceneFile converts a parsed scene description into a Scene. Camera
// overrides are applied on top of the camera given in the file.
func FromSceneFile(file *loaders.SceneFile, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	s := New(convertShading(file.Shading))

	for i, spec := range file.Objects {
		if err := addObject(s, spec); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}

	for i, spec := range file.Lights {
		position, err := loaders.Vector("light position", spec.Position)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		colour, err := loaders.Vector("light colour", spec.Colour)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		s.AddLight(position, colour)
	}

	cameraConfig := geometry.DefaultCameraConfig()
	if file.Camera != nil {
		fileCamera, err := file.Camera.CameraConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to convert camera: %w", err)
		}
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, fileCamera)
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}
	if err := s.SetCamera(cameraConfig); err != nil {
		return nil, err
	}

	return s, nil
}

func convertShading(spec *loaders.ShadingSpec) ShadingConfig {
	config := DefaultShadingConfig()
	if spec == nil {
		return config
	}
	if spec.RecursionLimit != nil {
		config.RecursionLimit = *spec.RecursionLimit
	}
	if spec.BrightnessCorrection != nil {
		config.BrightnessCorrection = *spec.BrightnessCorrection
	}
	return config
}

func addObject(s *Scene, spec loaders.ObjectSpec) error {
	shape, err := convertShape(spec)
	if err != nil {
		return err
	}

	if len(spec.Transform) > 0 {
		forward, err := spec.Transformation()
		if err != nil {
			return err
		}
		if shape, err = geometry.NewTransformed(shape, forward); err != nil {
			return err
		}
	}

	colour, err := loaders.Vector("colour", spec.Colour)
	if err != nil {
		return err
	}
	reflection := core.Black
	if spec.Reflection != nil {
		if reflection, err = loaders.Vector("reflection", spec.Reflection); err != nil {
			return err
		}
	}

	s.AddObject(shape, colour, reflection)
	return nil
}

func convertShape(spec loaders.ObjectSpec) (geometry.Shape, error) {
	centre, err := loaders.Vector(spec.Shape+" centre", spec.Centre)
	if err != nil {
		return nil, err
	}

	switch spec.Shape {
	case "sphere":
		if spec.Radius <= 0 {
			return nil, fmt.Errorf("invalid sphere radius %f: must be positive", spec.Radius)
		}
		return geometry.NewSphere(centre, spec.Radius), nil
	case "plane":
		normal, err := loaders.Vector("plane normal", spec.Normal)
		if err != nil {
			return nil, err
		}
		plane, err := geometry.NewPlane(centre, normal)
		if err != nil {
			return nil, err
		}
		return plane, nil
	default:
		return nil, fmt.Errorf("unsupported shape type: %s", spec.Shape)
	}
}
