package geometry

import "github.com/df07/go-reflective-raytracer/pkg/core"

// Shape interface for surfaces that can be hit by rays
type Shape interface {
	// Intersect returns the smallest non-negative distance along the ray at
	// which it meets the surface, or false if it never does.
	Intersect(ray core.Ray) (float64, bool)

	// NormalAt returns the outward unit normal at a point on the surface.
	// The result for points off the surface is unspecified.
	NormalAt(point core.Vec3) core.Vec3
}
