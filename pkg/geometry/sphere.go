package geometry

import (
	"math"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Centre core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(centre core.Vec3, radius float64) *Sphere {
	return &Sphere{
		Centre: centre,
		Radius: radius,
	}
}

// Intersect tests the ray against the sphere's near surface only. A ray
// starting inside the sphere has a negative near root and reports no hit.
func (s *Sphere) Intersect(ray core.Ray) (float64, bool) {
	// Vector from sphere centre to ray origin
	v := ray.Origin.Subtract(s.Centre)

	// Direction is unit length, so the quadratic's leading coefficient is 1
	b := ray.Direction.Dot(v)
	discriminant := b*b - v.LengthSquared() + s.Radius*s.Radius
	if discriminant < 0 {
		return 0, false
	}

	distance := -b - math.Sqrt(discriminant)
	if distance < 0 {
		return 0, false
	}
	return distance, true
}

// NormalAt returns the unit vector from the centre through point
func (s *Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Centre).Normalize()
}
