package output

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
)

// EncodePNG writes img to w as PNG
func EncodePNG(w io.Writer, img image.Image) error {
	if err := gg.NewContextForImage(img).EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// PNGBytes encodes img as PNG in memory
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SavePNG writes img to path, creating parent directories as needed
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("failed to save PNG %s: %w", path, err)
	}
	return nil
}

// Thumbnail scales img down to fit within size x size, keeping its aspect
// ratio. Images that already fit are returned unchanged.
func Thumbnail(img image.Image, size uint) image.Image {
	return resize.Thumbnail(size, size, img, resize.Bilinear)
}

// RenderPath returns <baseDir>/<sceneName>/render_<timestamp>.png. Path
// separators in sceneName are flattened so file-based scenes stay in baseDir.
func RenderPath(baseDir, sceneName string, timestamp time.Time) string {
	name := strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	return filepath.Join(baseDir, name, fmt.Sprintf("render_%s.png", timestamp.Format("20060102_150405")))
}

// ThumbnailPath returns the path of the thumbnail stored next to renderPath
func ThumbnailPath(renderPath string) string {
	return strings.TrimSuffix(renderPath, ".png") + "_thumb.png"
}
