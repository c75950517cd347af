package main

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-reflective-raytracer/pkg/geometry"
	"github.com/df07/go-reflective-raytracer/pkg/output"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"mirrors scene", "mirrors", false},
		{"single-sphere scene", "single-sphere", false},

		// YAML scenes (by name)
		{"mirror-room YAML", "mirror-room", false},
		{"three-spheres YAML", "three-spheres", false},

		// YAML scenes (by path)
		{"direct YAML path", "scenes/mirror-room.yaml", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid YAML path", "scenes/nonexistent.yaml", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := createScene(tt.sceneType)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if scene != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s', got %T", tt.sceneType, scene)
				}
			} else {
				if err != nil {
					t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
				}
				if scene == nil {
					t.Fatalf("Expected scene for valid scene type '%s', got nil", tt.sceneType)
				}

				// Verify scene has required properties
				if scene.Camera == nil {
					t.Error("Scene camera should be set")
				}
				if scene.Camera.Config().Width <= 0 || scene.Camera.Config().Height <= 0 {
					t.Errorf("Scene camera size should be positive, got %dx%d", scene.Camera.Config().Width, scene.Camera.Config().Height)
				}
			}
		})
	}
}

func TestCreateScene_SizeOverride(t *testing.T) {
	for _, sceneType := range []string{"default", "scenes/three-spheres.yaml"} {
		s, err := createScene(sceneType, geometry.CameraConfig{Width: 40, Height: 30})
		if err != nil {
			t.Fatalf("Unexpected error for %s: %v", sceneType, err)
		}
		if s.Camera.Config().Width != 40 || s.Camera.Config().Height != 30 {
			t.Errorf("%s: expected 40x30, got %dx%d", sceneType, s.Camera.Config().Width, s.Camera.Config().Height)
		}
	}
}

func TestTryLoadYAMLScene(t *testing.T) {
	tests := []struct {
		name       string
		sceneType  string
		expectLoad bool
	}{
		{"mirror-room by name", "mirror-room", true},
		{"nonexistent YAML", "nonexistent", false},
		{"built-in scene name", "default", false}, // Built-in scenes have no YAML file
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := tryLoadYAMLScene(tt.sceneType)

			if tt.expectLoad && scene == nil {
				t.Errorf("Expected YAML scene to load for '%s', got nil", tt.sceneType)
			}
			if !tt.expectLoad && scene != nil {
				t.Errorf("Expected YAML scene not to load for '%s', got %T", tt.sceneType, scene)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		width, height int
		valid         bool
	}{
		{0, 0, true},
		{400, 300, true},
		{8192, 8192, true},
		{-1, 100, false},
		{100, 8193, false},
	}

	for _, tt := range tests {
		err := validateSize(tt.width, tt.height)
		if (err == nil) != tt.valid {
			t.Errorf("validateSize(%d, %d) error = %v, want valid=%v", tt.width, tt.height, err, tt.valid)
		}
	}
}

func TestIsYAMLPath(t *testing.T) {
	tests := map[string]bool{
		"scenes/a.yaml": true,
		"b.YML":         true,
		"default":       false,
		"scene.pbrt":    false,
	}
	for name, expected := range tests {
		if got := isYAMLPath(name); got != expected {
			t.Errorf("isYAMLPath(%q) = %v, want %v", name, got, expected)
		}
	}
}

func TestCompareWithReference(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")

	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	if err := output.SavePNG(a, img); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	if err := output.SavePNG(b, img); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	diff, err := compareWithReference(a, b)
	if err != nil {
		t.Fatalf("compareWithReference failed: %v", err)
	}
	if diff != 0 {
		t.Errorf("Expected no difference, got %v", diff)
	}

	if _, err := compareWithReference(filepath.Join(dir, "missing.png"), b); err == nil {
		t.Error("Expected error for missing reference")
	}
}

// memoryPublisher keeps published data in a map
type memoryPublisher struct {
	objects map[string][]byte
}

func (m *memoryPublisher) Publish(ctx context.Context, key string, data []byte) (string, error) {
	m.objects[key] = data
	return "mem://" + key, nil
}

func TestPublishFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default", "render_1.png")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	publisher := &memoryPublisher{objects: map[string][]byte{}}
	location, err := publishFile(context.Background(), publisher, dir, path)
	if err != nil {
		t.Fatalf("publishFile failed: %v", err)
	}

	if location != "mem://default/render_1.png" {
		t.Errorf("Unexpected location %q", location)
	}
	if string(publisher.objects["default/render_1.png"]) != "data" {
		t.Errorf("Expected file contents to be published, got %v", publisher.objects)
	}
}
