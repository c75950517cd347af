package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"math"
	"os"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// LoadImage loads a PNG or JPEG image and converts it to Vec3 color array
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return DecodeImage(file)
}

// DecodeImage decodes a PNG or JPEG stream (auto-detected from the header)
func DecodeImage(reader io.Reader) (*ImageData, error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

// FromImage converts any image to a Vec3 color array in [0, 1]
func FromImage(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// At returns the colour of pixel (x, y)
func (d *ImageData) At(x, y int) core.Vec3 {
	return d.Pixels[y*d.Width+x]
}

// MeanAbsoluteDifference averages the per-channel absolute difference of two
// images of the same size. Identical images give 0, black against white gives 1.
func (d *ImageData) MeanAbsoluteDifference(other *ImageData) (float64, error) {
	if d.Width != other.Width || d.Height != other.Height {
		return 0, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", d.Width, d.Height, other.Width, other.Height)
	}
	if len(d.Pixels) == 0 {
		return 0, nil
	}

	total := 0.0
	for i, p := range d.Pixels {
		q := other.Pixels[i]
		total += math.Abs(p.X-q.X) + math.Abs(p.Y-q.Y) + math.Abs(p.Z-q.Z)
	}
	return total / float64(3*len(d.Pixels)), nil
}
