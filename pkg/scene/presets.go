package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
)

// presetFunc builds a built-in scene with an optional camera override
type presetFunc func(cameraOverrides ...geometry.CameraConfig) (*Scene, error)

type preset struct {
	build       presetFunc
	displayName string
	description string
}

var presets = map[string]preset{
	"default": {
		build:       NewDefaultScene,
		displayName: "Default Scene",
		description: "Mirror-tinted sphere lit by a white key light and a dim fill light",
	},
	"mirrors": {
		build:       NewMirrorsScene,
		displayName: "Hall of Mirrors",
		description: "Ellipsoid between two facing mirrors above a reflective floor",
	},
	"single-sphere": {
		build:       NewSingleSphereScene,
		displayName: "Single Sphere",
		description: "Yellow sphere lit by a magenta light at the origin",
	},
}

// PresetNames returns the names of all built-in scenes in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPreset reports whether name is a built-in scene
func HasPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// NewPreset builds the built-in scene with the given name
func NewPreset(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return p.build(cameraOverrides...)
}

// finish attaches the merged camera to a preset scene
func finish(s *Scene, cameraOverrides []geometry.CameraConfig) (*Scene, error) {
	cameraConfig := geometry.DefaultCameraConfig()
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}
	if err := s.SetCamera(cameraConfig); err != nil {
		return nil, err
	}
	return s, nil
}

// NewDefaultScene creates a single reflective sphere with two lights
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	s := New(DefaultShadingConfig())

	s.AddObject(
		geometry.NewSphere(core.NewVec3(-1, -1, 5), 1),
		core.NewVec3(1, 0.9, 0.9),
		core.NewVec3(0.2, 0.2, 0.2),
	)

	s.AddLight(core.NewVec3(0, -5, -5), core.NewVec3(1, 1, 1))
	s.AddLight(core.NewVec3(-1, 0.7, 1), core.NewVec3(0.2, 0.15, 0.2))

	return finish(s, cameraOverrides)
}

// NewMirrorsScene creates an ellipsoid between two parallel mirrors
func NewMirrorsScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	s := New(DefaultShadingConfig())

	floor, err := geometry.NewPlane(core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("floor: %w", err)
	}
	leftMirror, err := geometry.NewPlane(core.NewVec3(-4, 0, 0), core.NewVec3(1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("left mirror: %w", err)
	}
	rightMirror, err := geometry.NewPlane(core.NewVec3(4, 0, 0), core.NewVec3(-1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("right mirror: %w", err)
	}

	// Unit sphere stretched along x, tilted, then pushed into the frame
	ellipsoidTransform := core.Scaling(1.5, 0.75, 0.75).
		Then(core.RotationZ(30)).
		Then(core.Translation(0, 0, 6))
	ellipsoid, err := geometry.NewTransformed(geometry.NewSphere(core.Vec3{}, 1), ellipsoidTransform)
	if err != nil {
		return nil, fmt.Errorf("ellipsoid: %w", err)
	}

	s.AddObject(floor, core.NewVec3(0.4, 0.4, 0.45), core.NewVec3(0.3, 0.3, 0.3))
	s.AddObject(leftMirror, core.NewVec3(0.05, 0.05, 0.05), core.NewVec3(0.85, 0.85, 0.85))
	s.AddObject(rightMirror, core.NewVec3(0.05, 0.05, 0.05), core.NewVec3(0.85, 0.85, 0.85))
	s.AddObject(ellipsoid, core.NewVec3(0.9, 0.3, 0.2), core.NewVec3(0.1, 0.1, 0.1))

	s.AddLight(core.NewVec3(0, 4, 2), core.NewVec3(1, 1, 1))
	s.AddLight(core.NewVec3(2, 1, -3), core.NewVec3(0.3, 0.3, 0.4))

	return finish(s, cameraOverrides)
}

// NewSingleSphereScene creates a yellow sphere lit from the origin by a magenta light
func NewSingleSphereScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	s := New(DefaultShadingConfig())

	s.AddObject(geometry.NewSphere(core.NewVec3(2, 0, 0), 1), core.NewVec3(1, 1, 0), core.Black)
	s.AddLight(core.Vec3{}, core.NewVec3(1, 0, 1))

	return finish(s, cameraOverrides)
}
