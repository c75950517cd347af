package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-reflective-raytracer/pkg/geometry"
	"github.com/df07/go-reflective-raytracer/pkg/loaders"
	"github.com/df07/go-reflective-raytracer/pkg/output"
	"github.com/df07/go-reflective-raytracer/pkg/renderer"
	"github.com/df07/go-reflective-raytracer/pkg/scene"
)

// Helper to get environment variables with a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func main() {
	// Settings from .env are optional; real environment variables win
	_ = godotenv.Load()

	// Parse command line flags
	sceneType := flag.String("scene", "default", "Built-in scene name or path to a .yaml scene file")
	width := flag.Int("width", 0, "Image width in pixels (0 = scene default)")
	height := flag.Int("height", 0, "Image height in pixels (0 = scene default)")
	outputDir := flag.String("output", getEnv("RAYTRACER_OUTPUT_DIR", "output"), "Directory for rendered images")
	thumbnail := flag.Uint("thumbnail", 0, "Also save a thumbnail fitting this many pixels (0 = none)")
	publish := flag.Bool("publish", false, "Upload the render to the S3 bucket configured in the environment")
	reference := flag.String("reference", "", "Compare the render against this PNG and report the difference")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		showHelp()
		return
	}

	if err := validateSize(*width, *height); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Starting Reflective Raytracer...")

	selectedScene, err := createScene(*sceneType, geometry.CameraConfig{Width: *width, Height: *height})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	raytracer := renderer.NewRaytracer(selectedScene, selectedScene.Camera, renderer.NewDefaultLogger())
	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		fmt.Printf("Error rendering: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Objects: %d, lights: %d\n", selectedScene.GetPrimitiveCount(), len(selectedScene.Lights))
	fmt.Printf("Lit pixels: %d/%d, average luminance: %.3f\n", stats.LitPixels, stats.TotalPixels, stats.AverageLuminance)

	filename := output.RenderPath(*outputDir, *sceneType, time.Now())
	if err := output.SavePNG(filename, img); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)

	var thumbFilename string
	if *thumbnail > 0 {
		thumbFilename = output.ThumbnailPath(filename)
		if err := output.SavePNG(thumbFilename, output.Thumbnail(img, *thumbnail)); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Thumbnail saved as %s\n", thumbFilename)
	}

	if *reference != "" {
		diff, err := compareWithReference(*reference, filename)
		if err != nil {
			fmt.Printf("Error comparing with reference: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Mean absolute difference from %s: %.6f\n", *reference, diff)
	}

	if *publish {
		publisher, err := output.NewS3Publisher(output.S3ConfigFromEnv())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		for _, path := range []string{filename, thumbFilename} {
			if path == "" {
				continue
			}
			location, err := publishFile(ctx, publisher, *outputDir, path)
			if err != nil {
				fmt.Printf("Error publishing: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Published %s\n", location)
		}
	}
}

func showHelp() {
	fmt.Println("Reflective Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, name := range scene.PresetNames() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("  <file>.yaml - YAML scene file (files in scenes/ may be given by name)")
	fmt.Println()
	fmt.Println("Output will be saved to <output>/<scene>/render_<timestamp>.png")
}

func validateSize(width, height int) error {
	if width < 0 || width > 8192 {
		return fmt.Errorf("invalid width %d: must be between 0 and 8192", width)
	}
	if height < 0 || height > 8192 {
		return fmt.Errorf("invalid height %d: must be between 0 and 8192", height)
	}
	return nil
}

// createScene resolves a built-in scene name, a YAML path, or the name of a
// file in the scenes directory
func createScene(sceneType string, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("scene name is empty")
	}

	if isYAMLPath(sceneType) {
		return scene.NewYAMLScene(sceneType, cameraOverrides...)
	}

	if scene.HasPreset(sceneType) {
		return scene.NewPreset(sceneType, cameraOverrides...)
	}

	if s := tryLoadYAMLScene(sceneType, cameraOverrides...); s != nil {
		return s, nil
	}

	return nil, fmt.Errorf("unknown scene: %s", sceneType)
}

// tryLoadYAMLScene looks for <name>.yaml or <name>.yml in the scenes directory
func tryLoadYAMLScene(name string, cameraOverrides ...geometry.CameraConfig) *scene.Scene {
	path, err := scene.SceneFilePath(scene.ResolveScenesDir(), name)
	if err != nil {
		return nil
	}
	s, err := scene.NewYAMLScene(path, cameraOverrides...)
	if err != nil {
		fmt.Printf("Warning: failed to load %s: %v\n", path, err)
		return nil
	}
	return s
}

func isYAMLPath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func compareWithReference(referencePath, renderPath string) (float64, error) {
	reference, err := loaders.LoadImage(referencePath)
	if err != nil {
		return 0, err
	}
	rendered, err := loaders.LoadImage(renderPath)
	if err != nil {
		return 0, err
	}
	return rendered.MeanAbsoluteDifference(reference)
}

// publishFile uploads path under its location relative to outputDir
func publishFile(ctx context.Context, publisher output.Publisher, outputDir, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	key, err := filepath.Rel(outputDir, path)
	if err != nil {
		key = filepath.Base(path)
	}
	return publisher.Publish(ctx, filepath.ToSlash(key), data)
}
