package core

import "math"

// Transform is a 4x4 homogeneous affine transform. The top-left 3x3 block is
// the linear part, the last column is the translation and the bottom row is
// always [0 0 0 1].
type Transform struct {
	m Matrix
}

// IdentityTransform returns the transform that leaves every point unchanged
func IdentityTransform() Transform {
	return Transform{m: Identity(4)}
}

func newTransform(rows [4][4]float64) Transform {
	return Transform{m: MustMatrix([][]float64{rows[0][:], rows[1][:], rows[2][:], rows[3][:]})}
}

// Translation returns a transform that moves points by (x, y, z)
func Translation(x, y, z float64) Transform {
	return newTransform([4][4]float64{
		{1, 0, 0, x},
		{0, 1, 0, y},
		{0, 0, 1, z},
		{0, 0, 0, 1},
	})
}

// Scaling returns a transform that scales about the origin by the given ratios
func Scaling(x, y, z float64) Transform {
	return newTransform([4][4]float64{
		{x, 0, 0, 0},
		{0, y, 0, 0},
		{0, 0, z, 0},
		{0, 0, 0, 1},
	})
}

// RotationX returns a right-handed rotation about the X axis by degrees
func RotationX(degrees float64) Transform {
	sin, cos := math.Sincos(degreesToRadians(degrees))
	return newTransform([4][4]float64{
		{1, 0, 0, 0},
		{0, cos, -sin, 0},
		{0, sin, cos, 0},
		{0, 0, 0, 1},
	})
}

// RotationY returns a right-handed rotation about the Y axis by degrees
func RotationY(degrees float64) Transform {
	sin, cos := math.Sincos(degreesToRadians(degrees))
	return newTransform([4][4]float64{
		{cos, 0, sin, 0},
		{0, 1, 0, 0},
		{-sin, 0, cos, 0},
		{0, 0, 0, 1},
	})
}

// RotationZ returns a right-handed rotation about the Z axis by degrees
func RotationZ(degrees float64) Transform {
	sin, cos := math.Sincos(degreesToRadians(degrees))
	return newTransform([4][4]float64{
		{cos, -sin, 0, 0},
		{sin, cos, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	})
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Times returns t·other, which applies other first and t last
func (t Transform) Times(other Transform) Transform {
	return Transform{m: t.m.Times(other.m)}
}

// Then returns the transform that applies t first and next afterwards
func (t Transform) Then(next Transform) Transform {
	return next.Times(t)
}

// Point transforms a position, applying the translation (implicit w = 1)
func (t Transform) Point(p Vec3) Vec3 {
	return t.LinearTimes(p).Add(Vec3{t.m.At(0, 3), t.m.At(1, 3), t.m.At(2, 3)})
}

// LinearTimes transforms a direction or normal by the 3x3 linear part only
func (t Transform) LinearTimes(v Vec3) Vec3 {
	m := t.m
	return Vec3{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}

// Inverse returns the inverse transform or ErrSingularMatrix
func (t Transform) Inverse() (Transform, error) {
	inverse, err := t.m.Inverse()
	if err != nil {
		return Transform{}, err
	}
	return Transform{m: inverse}, nil
}

// Matrix returns the underlying 4x4 matrix
func (t Transform) Matrix() Matrix {
	return t.m
}

// String formats the underlying matrix
func (t Transform) String() string {
	return t.m.String()
}
