package scene

import (
	"fmt"

	"github.com/df07/go-reflective-raytracer/pkg/core"
)

// ColourForRay returns the colour seen along ray: direct lighting at the
// nearest hit plus mirrored light, bounded by Shading.RecursionLimit.
// The result is not clamped. It fails with core.ErrDegenerateGeometry when
// a light sits exactly on a shaded point.
func (s *Scene) ColourForRay(ray core.Ray) (core.Vec3, error) {
	return s.colourForRay(ray, s.Shading.RecursionLimit, NoObject)
}

func (s *Scene) colourForRay(ray core.Ray, depth int, ignored ObjectID) (core.Vec3, error) {
	id, distance, isHit := s.FirstIntersection(ray, ignored)
	if !isHit {
		return core.Black, nil
	}
	object := &s.Objects[id]

	point := ray.At(distance)
	normal := object.Shape.NormalAt(point)

	direct, err := s.directLight(id, point, normal)
	if err != nil {
		return core.Black, err
	}

	reflected := core.Black
	if depth > 0 && object.IsReflective() {
		reflected, err = s.colourForRay(reflect(ray.Direction, point, normal), depth-1, id)
		if err != nil {
			return core.Black, err
		}
	}

	return object.Colour.MultiplyVec(direct).Add(object.ReflectionColour.MultiplyVec(reflected)), nil
}

// FirstIntersection returns the nearest object hit by ray, skipping ignored.
// Ties keep the object found first.
func (s *Scene) FirstIntersection(ray core.Ray, ignored ObjectID) (ObjectID, float64, bool) {
	closest := NoObject
	closestDistance := 0.0

	for i := range s.Objects {
		id := ObjectID(i)
		if id == ignored {
			continue
		}
		distance, isHit := s.Objects[i].Shape.Intersect(ray)
		if !isHit {
			continue
		}
		if closest == NoObject || distance < closestDistance {
			closest = id
			closestDistance = distance
		}
	}

	return closest, closestDistance, closest != NoObject
}

// directLight sums the unshadowed contribution of every light facing point
func (s *Scene) directLight(id ObjectID, point, normal core.Vec3) (core.Vec3, error) {
	total := core.Black

	for i, light := range s.Lights {
		toLight := light.Position.Subtract(point)
		lightDistance := toLight.Length()
		unitToLight, err := toLight.Unit()
		if err != nil {
			return core.Black, fmt.Errorf("light %d coincides with a shaded point: %w", i, err)
		}

		cosAngle := normal.Dot(unitToLight)
		if cosAngle <= 0 {
			continue
		}

		// Anything between the point and the light casts a shadow
		if _, blockerDistance, blocked := s.FirstIntersection(core.NewRay(point, unitToLight), id); blocked && blockerDistance <= lightDistance {
			continue
		}

		falloff := cosAngle * s.Shading.BrightnessCorrection / (lightDistance * lightDistance)
		total = total.Add(light.Colour.Multiply(falloff))
	}

	return total, nil
}

// reflect mirrors the incident direction about normal at point
func reflect(incident, point, normal core.Vec3) core.Ray {
	direction := incident.Subtract(normal.Multiply(2 * normal.Dot(incident)))
	return core.NewRay(point, direction)
}
