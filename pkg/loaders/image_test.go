package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// TestLoadImage creates a test PNG and verifies loading
func TestLoadImage(t *testing.T) {
	// Create a temporary directory for test files
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.png")

	// Create a simple 2x2 test image
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	// Set pixel colors (RGBA with max value 65535 when using RGBA())
	// Top-left: white
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	// Top-right: red
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	// Bottom-left: green
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	// Bottom-right: blue
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	// Save as PNG
	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()

	// Load the image
	imageData, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	// Verify dimensions
	if imageData.Width != 2 || imageData.Height != 2 {
		t.Errorf("Expected 2x2 image, got %dx%d", imageData.Width, imageData.Height)
	}

	// Verify pixel count
	if len(imageData.Pixels) != 4 {
		t.Errorf("Expected 4 pixels, got %d", len(imageData.Pixels))
	}

	// Helper function to check color with tolerance for precision
	checkColor := func(name string, got, expected core.Vec3) {
		const tolerance = 0.01
		if abs(got.X-expected.X) > tolerance ||
			abs(got.Y-expected.Y) > tolerance ||
			abs(got.Z-expected.Z) > tolerance {
			t.Errorf("%s: expected %v, got %v", name, expected, got)
		}
	}

	// Verify colors (row-major order)
	white := core.NewVec3(1.0, 1.0, 1.0)
	red := core.NewVec3(1.0, 0.0, 0.0)
	green := core.NewVec3(0.0, 1.0, 0.0)
	blue := core.NewVec3(0.0, 0.0, 1.0)

	checkColor("Top-left (white)", imageData.Pixels[0], white)
	checkColor("Top-right (red)", imageData.Pixels[1], red)
	checkColor("Bottom-left (green)", imageData.Pixels[2], green)
	checkColor("Bottom-right (blue)", imageData.Pixels[3], blue)
}

// TestLoadImageNotFound verifies error handling for missing files
func TestLoadImageNotFound(t *testing.T) {
	_, err := LoadImage("nonexistent.png")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

// TestFromImageOffsetBounds verifies sub-images are read from their own origin
func TestFromImageOffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 3, color.RGBA{R: 255, A: 255})

	sub := img.SubImage(image.Rect(2, 2, 4, 4))
	data := FromImage(sub)

	if data.Width != 2 || data.Height != 2 {
		t.Fatalf("Expected 2x2 image, got %dx%d", data.Width, data.Height)
	}
	if got := data.At(0, 1); got != core.NewVec3(1, 0, 0) {
		t.Errorf("Expected red at (0,1), got %v", got)
	}
	if got := data.At(1, 1); !got.IsZero() {
		t.Errorf("Expected black at (1,1), got %v", got)
	}
}

func TestDecodeImageInvalid(t *testing.T) {
	if _, err := DecodeImage(strings.NewReader("not an image")); err == nil {
		t.Error("Expected error for invalid image data, got nil")
	}
}

func TestMeanAbsoluteDifference(t *testing.T) {
	black := &ImageData{Width: 2, Height: 1, Pixels: []core.Vec3{{}, {}}}
	white := &ImageData{Width: 2, Height: 1, Pixels: []core.Vec3{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}}}
	half := &ImageData{Width: 2, Height: 1, Pixels: []core.Vec3{{}, {X: 1, Y: 1, Z: 1}}}

	tests := []struct {
		name     string
		a, b     *ImageData
		expected float64
	}{
		{"identical", white, white, 0},
		{"black vs white", black, white, 1},
		{"half the pixels differ", black, half, 0.5},
		{"empty", &ImageData{}, &ImageData{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, err := tt.a.MeanAbsoluteDifference(tt.b)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if abs(diff-tt.expected) > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, diff)
			}
		})
	}

	if _, err := black.MeanAbsoluteDifference(&ImageData{Width: 1, Height: 2}); err == nil {
		t.Error("Expected error for mismatched sizes, got nil")
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
