package geometry

import (
	"fmt"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Centre core.Vec3 // A point on the plane
	Normal core.Vec3 // Fixed orientation returned by NormalAt
}

// NewPlane creates a new plane. The normal need not be unit length but
// must not be zero.
func NewPlane(centre, normal core.Vec3) (*Plane, error) {
	unit, err := normal.Unit()
	if err != nil {
		return nil, fmt.Errorf("plane normal: %w", err)
	}
	return &Plane{
		Centre: centre,
		Normal: unit, // Ensure normal is normalized
	}, nil
}

// Intersect tests if a ray intersects with the plane
func (p *Plane) Intersect(ray core.Ray) (float64, bool) {
	denominator := p.Normal.Dot(ray.Direction)

	// Exactly parallel rays never meet the plane
	if denominator == 0 {
		return 0, false
	}

	distance := p.Normal.Dot(p.Centre.Subtract(ray.Origin)) / denominator
	if distance < 0 {
		return 0, false
	}
	return distance, true
}

// NormalAt returns the plane's normal regardless of point
func (p *Plane) NormalAt(point core.Vec3) core.Vec3 {
	return p.Normal
}
