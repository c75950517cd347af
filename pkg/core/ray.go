package core

// Ray represents a ray with an origin and a unit-length direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray, normalizing the direction. A zero direction
// stays zero.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Transform maps the ray through an affine transform. The direction is
// renormalized because a non-uniform scale does not preserve length.
func (r Ray) Transform(t Transform) Ray {
	return NewRay(t.Point(r.Origin), t.LinearTimes(r.Direction))
}
