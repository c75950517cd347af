package renderer

import (
	"image"
	"time"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	LitPixels        int           // Pixels whose shaded colour was not black
	DegeneratePixels int           // Pixels painted black after a degenerate-geometry error
	AverageLuminance float64       // Mean luminance of the quantised image, in [0, 1]
	Elapsed          time.Duration // Wall time of the pixel loop
}

// CalculateAverageLuminance returns the mean luminance of an image in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	count := bounds.Dx() * bounds.Dy()
	if count == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			).Luminance()
		}
	}

	return total / float64(count)
}
