package geometry

import (
	"fmt"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// Transformed places another shape in the world through an affine
// transform. The inner shape keeps working in its own local space.
type Transformed struct {
	shape   Shape
	forward core.Transform
	inverse core.Transform
}

// NewTransformed wraps shape with the forward transform. It fails with
// core.ErrSingularMatrix when the transform cannot be inverted.
func NewTransformed(shape Shape, forward core.Transform) (*Transformed, error) {
	inverse, err := forward.Inverse()
	if err != nil {
		return nil, fmt.Errorf("transformed shape: %w", err)
	}
	return &Transformed{
		shape:   shape,
		forward: forward,
		inverse: inverse,
	}, nil
}

// Shape returns the wrapped shape
func (t *Transformed) Shape() Shape {
	return t.shape
}

// Transform returns the forward transform
func (t *Transformed) Transform() core.Transform {
	return t.forward
}

// Intersect maps the ray into local space, intersects there, and measures
// the distance in world space from the original origin to the mapped-back
// hit point. Local distances do not scale linearly under non-uniform scale.
func (t *Transformed) Intersect(ray core.Ray) (float64, bool) {
	localRay := ray.Transform(t.inverse)
	localDistance, ok := t.shape.Intersect(localRay)
	if !ok {
		return 0, false
	}

	worldPoint := t.forward.Point(localRay.At(localDistance))
	return worldPoint.Subtract(ray.Origin).Length(), true
}

// NormalAt maps point into local space, asks the inner shape for its
// normal, and maps that back with the forward linear part. This equals the
// inverse-transpose only for rotations and uniform scales.
func (t *Transformed) NormalAt(point core.Vec3) core.Vec3 {
	localNormal := t.shape.NormalAt(t.inverse.Point(point))
	return t.forward.LinearTimes(localNormal).Normalize()
}
