package scene

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
	"github.com/df07/go-reflective-raytracer/pkg/loaders"
)

func parseScene(t *testing.T, input string) *loaders.SceneFile {
	t.Helper()
	file, err := loaders.ParseSceneYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSceneYAML failed: %v", err)
	}
	return file
}

func TestFromSceneFile_TransformedSphere(t *testing.T) {
	file := parseScene(t, `
objects:
  - shape: sphere
    centre: [0, 0, 0]
    radius: 1
    colour: [1, 0.5, 0.25]
    transform:
      - translate: [0, 0, 5]
lights:
  - position: [0, 0, 0]
    colour: [1, 1, 1]
`)
	loaded, err := FromSceneFile(file)
	if err != nil {
		t.Fatalf("FromSceneFile failed: %v", err)
	}
	if _, ok := loaded.Objects[0].Shape.(*geometry.Transformed); !ok {
		t.Fatalf("Expected transformed shape, got %T", loaded.Objects[0].Shape)
	}

	direct := New(DefaultShadingConfig())
	direct.AddObject(geometry.NewSphere(core.NewVec3(0, 0, 5), 1), core.NewVec3(1, 0.5, 0.25), core.Black)
	direct.AddLight(core.Vec3{}, core.NewVec3(1, 1, 1))

	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))
	got := mustColour(t, loaded, ray)
	want := mustColour(t, direct, ray)
	if !got.NearlyEqual(want, 1e-6) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if want.IsZero() {
		t.Error("Expected lit sphere")
	}
}

func TestFromSceneFile_Defaults(t *testing.T) {
	file := parseScene(t, `
objects:
  - shape: plane
    centre: [0, 0, 0]
    normal: [0, 2, 0]
    colour: [1, 1, 1]
`)
	s, err := FromSceneFile(file)
	if err != nil {
		t.Fatalf("FromSceneFile failed: %v", err)
	}

	if s.Shading != DefaultShadingConfig() {
		t.Errorf("Expected default shading, got %+v", s.Shading)
	}
	if s.Camera.Config() != geometry.DefaultCameraConfig() {
		t.Errorf("Expected default camera, got %+v", s.Camera.Config())
	}
	if s.Objects[0].IsReflective() {
		t.Error("Expected omitted reflection to be black")
	}
	if normal := s.Objects[0].Shape.NormalAt(core.Vec3{}); normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected normalised plane normal, got %v", normal)
	}
}

func TestFromSceneFile_CameraOverrides(t *testing.T) {
	file := parseScene(t, `
camera:
  width: 64
  height: 48
shading:
  brightnessCorrection: 10
`)
	s, err := FromSceneFile(file, geometry.CameraConfig{Height: 32})
	if err != nil {
		t.Fatalf("FromSceneFile failed: %v", err)
	}

	if s.Camera.Config().Width != 64 || s.Camera.Config().Height != 32 {
		t.Errorf("Expected 64x32, got %dx%d", s.Camera.Config().Width, s.Camera.Config().Height)
	}
	if s.Shading.BrightnessCorrection != 10 || s.Shading.RecursionLimit != 10 {
		t.Errorf("Unexpected shading %+v", s.Shading)
	}
}

func TestFromSceneFile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{
			name:  "short colour",
			input: "objects:\n  - shape: sphere\n    centre: [0, 0, 0]\n    radius: 1\n    colour: [1, 1]\n",
		},
		{
			name:  "missing centre",
			input: "objects:\n  - shape: sphere\n    radius: 1\n    colour: [1, 1, 1]\n",
		},
		{
			name:  "zero radius",
			input: "objects:\n  - shape: sphere\n    centre: [0, 0, 0]\n    colour: [1, 1, 1]\n",
		},
		{
			name:   "zero plane normal",
			input:  "objects:\n  - shape: plane\n    centre: [0, 0, 0]\n    normal: [0, 0, 0]\n    colour: [1, 1, 1]\n",
			target: core.ErrDegenerateGeometry,
		},
		{
			name:   "singular transform",
			input:  "objects:\n  - shape: sphere\n    centre: [0, 0, 0]\n    radius: 1\n    colour: [1, 1, 1]\n    transform:\n      - scale: [1, 0, 1]\n",
			target: core.ErrSingularMatrix,
		},
		{
			name:  "short light position",
			input: "lights:\n  - position: [0, 0]\n    colour: [1, 1, 1]\n",
		},
		{
			name:   "focal point in frame",
			input:  "camera:\n  focalPoint: [0, 0, -2]\n",
			target: core.ErrDegenerateGeometry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSceneFile(parseScene(t, tt.input))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestNewYAMLScene_BundledScenes(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*.yaml"))
	if err != nil {
		t.Fatalf("Failed to glob scenes: %v", err)
	}
	if len(files) == 0 {
		t.Skip("No bundled scenes found")
	}

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := NewYAMLScene(path)
			if err != nil {
				t.Fatalf("NewYAMLScene failed: %v", err)
			}
			if len(s.Objects) == 0 || s.Camera == nil {
				t.Errorf("Expected objects and a camera")
			}
		})
	}

	if _, err := NewYAMLScene("nonexistent.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
