package geometry

import (
	"fmt"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera looking through a flat frame
type CameraConfig struct {
	FocalPoint  core.Vec3 // Every ray starts here
	FrameCentre core.Vec3 // Point seen at frame coordinates (0, 0)
	XDirection  core.Vec3 // Frame offset for fx = 1
	YDirection  core.Vec3 // Frame offset for fy = 1
	Width       int       // Image width in pixels
	Height      int       // Image height in pixels
}

// DefaultCameraConfig returns the camera used by the built-in scenes
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		FocalPoint:  core.NewVec3(0, 0, -5),
		FrameCentre: core.NewVec3(0, 0, -2),
		XDirection:  core.NewVec3(1, 0, 0),
		YDirection:  core.NewVec3(0, 1, 0),
		Width:       400,
		Height:      400,
	}
}

// MergeCameraConfig overrides the non-zero fields of overrides onto base
func MergeCameraConfig(base, overrides CameraConfig) CameraConfig {
	result := base
	if !overrides.FocalPoint.IsZero() {
		result.FocalPoint = overrides.FocalPoint
	}
	if !overrides.FrameCentre.IsZero() {
		result.FrameCentre = overrides.FrameCentre
	}
	if !overrides.XDirection.IsZero() {
		result.XDirection = overrides.XDirection
	}
	if !overrides.YDirection.IsZero() {
		result.YDirection = overrides.YDirection
	}
	if overrides.Width > 0 {
		result.Width = overrides.Width
	}
	if overrides.Height > 0 {
		result.Height = overrides.Height
	}
	return result
}

// Camera maps frame coordinates to primary rays
type Camera struct {
	config CameraConfig
}

// NewCamera validates config and creates a camera. The focal point must not
// lie in the frame plane, otherwise some pixels would have no direction.
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("camera size must be positive, got %dx%d", config.Width, config.Height)
	}
	frameNormal := config.XDirection.Cross(config.YDirection)
	if frameNormal.IsZero() {
		return nil, fmt.Errorf("camera frame directions are parallel: %w", core.ErrDegenerateGeometry)
	}
	if frameNormal.Dot(config.FrameCentre.Subtract(config.FocalPoint)) == 0 {
		return nil, fmt.Errorf("camera focal point lies in the frame plane: %w", core.ErrDegenerateGeometry)
	}
	return &Camera{config: config}, nil
}

// Config returns the camera's configuration
func (c *Camera) Config() CameraConfig {
	return c.config
}

// RayForFrame returns the ray from the focal point through
// frameCentre + xDirection*fx + yDirection*fy
func (c *Camera) RayForFrame(fx, fy float64) core.Ray {
	framePoint := c.config.FrameCentre.
		Add(c.config.XDirection.Multiply(fx)).
		Add(c.config.YDirection.Multiply(fy))
	return core.NewRay(c.config.FocalPoint, framePoint.Subtract(c.config.FocalPoint))
}

// RayForPixel maps pixel (x, y) to frame coordinates (2x/width-1, 2y/height-1)
func (c *Camera) RayForPixel(x, y int) core.Ray {
	fx := float64(x)*2.0/float64(c.config.Width) - 1.0
	fy := float64(y)*2.0/float64(c.config.Height) - 1.0
	return c.RayForFrame(fx, fy)
}
