package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/geometry"
)

// Scene interface to avoid circular imports
type Scene interface {
	ColourForRay(ray core.Ray) (core.Vec3, error)
}

// Raytracer renders a scene through a camera, one pixel at a time
type Raytracer struct {
	scene  Scene
	camera *geometry.Camera
	width  int
	height int
	logger core.Logger
}

// NewRaytracer creates a new raytracer. The image size comes from the camera.
// A nil logger discards progress output.
func NewRaytracer(scene Scene, camera *geometry.Camera, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = discardLogger{}
	}
	config := camera.Config()
	return &Raytracer{
		scene:  scene,
		camera: camera,
		width:  config.Width,
		height: config.Height,
		logger: logger,
	}
}

// Render traces one ray per pixel. The context is checked once per row and
// its error is returned if it is cancelled. Pixels whose shading hits
// degenerate geometry are painted black and counted; any other shading error
// aborts the render.
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	stats := RenderStats{TotalPixels: rt.width * rt.height}
	startTime := time.Now()

	rt.logger.Printf("Rendering %dx%d...\n", rt.width, rt.height)

	for y := 0; y < rt.height; y++ {
		select {
		case <-ctx.Done():
			rt.logger.Printf("Rendering cancelled at row %d\n", y)
			return nil, stats, ctx.Err()
		default:
		}

		for x := 0; x < rt.width; x++ {
			colour, err := rt.scene.ColourForRay(rt.camera.RayForPixel(x, y))
			if err != nil {
				if !errors.Is(err, core.ErrDegenerateGeometry) {
					return nil, stats, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
				}
				stats.DegeneratePixels++
				colour = core.Black
			}
			if !colour.IsZero() {
				stats.LitPixels++
			}
			img.SetRGBA(x, y, Quantise(colour))
		}
	}

	stats.Elapsed = time.Since(startTime)
	stats.AverageLuminance = CalculateAverageLuminance(img)

	if stats.DegeneratePixels > 0 {
		rt.logger.Printf("Warning: %d pixels hit degenerate geometry\n", stats.DegeneratePixels)
	}
	rt.logger.Printf("Render completed in %v\n", stats.Elapsed)

	return img, stats, nil
}

// Quantise converts a colour to 8-bit RGBA. Channels are clamped to [0, 1]
// and then scaled by 255 and floored.
func Quantise(colour core.Vec3) color.RGBA {
	colour = colour.Clamp(0.0, 1.0)

	return color.RGBA{
		R: quantiseChannel(colour.X),
		G: quantiseChannel(colour.Y),
		B: quantiseChannel(colour.Z),
		A: 255,
	}
}

func quantiseChannel(c float64) uint8 {
	if math.IsNaN(c) {
		return 0
	}
	return uint8(math.Floor(c * 255))
}
