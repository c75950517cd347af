package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

func mustPlane(t *testing.T, centre, normal core.Vec3) *Plane {
	t.Helper()
	plane, err := NewPlane(centre, normal)
	if err != nil {
		t.Fatalf("NewPlane failed: %v", err)
	}
	return plane
}

func TestPlane_Intersect(t *testing.T) {
	plane := mustPlane(t, core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))

	tests := []struct {
		name         string
		rayOrigin    core.Vec3
		rayDirection core.Vec3
		expectHit    bool
		expectedT    float64
	}{
		{
			name:         "perpendicular",
			rayOrigin:    core.NewVec3(0, -5, 0),
			rayDirection: core.NewVec3(0, 1, 0),
			expectHit:    true,
			expectedT:    5.0,
		},
		{
			name:         "from the back side",
			rayOrigin:    core.NewVec3(0, 3, 0),
			rayDirection: core.NewVec3(0, -1, 0),
			expectHit:    true,
			expectedT:    3.0,
		},
		{
			name:         "oblique",
			rayOrigin:    core.NewVec3(0, -1, 0),
			rayDirection: core.NewVec3(1, 1, 0),
			expectHit:    true,
			expectedT:    math.Sqrt2,
		},
		{
			name:         "parallel",
			rayOrigin:    core.NewVec3(1, -1, 2),
			rayDirection: core.NewVec3(1, 0, 0),
			expectHit:    false,
		},
		{
			name:         "pointing away",
			rayOrigin:    core.NewVec3(1, -1, 2),
			rayDirection: core.NewVec3(1, -1, -1),
			expectHit:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distance, isHit := plane.Intersect(core.NewRay(tt.rayOrigin, tt.rayDirection))

			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got hit=%t (t=%f)", tt.expectHit, isHit, distance)
			}
			if tt.expectHit && math.Abs(distance-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, distance)
			}
		})
	}
}

func TestPlane_NormalAtIsFixed(t *testing.T) {
	plane := mustPlane(t, core.NewVec3(0, 1, 0), core.NewVec3(0, 3, 0))

	for _, point := range []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(100, 1, -7),
		core.NewVec3(5, 50, 5), // off the surface
	} {
		if got := plane.NormalAt(point); got != core.NewVec3(0, 1, 0) {
			t.Errorf("Expected (0,1,0) at %v, got %v", point, got)
		}
	}
}

func TestNewPlane_ZeroNormal(t *testing.T) {
	_, err := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0))
	if !errors.Is(err, core.ErrDegenerateGeometry) {
		t.Errorf("Expected ErrDegenerateGeometry, got %v", err)
	}
}
