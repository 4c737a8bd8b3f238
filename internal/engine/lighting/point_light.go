package lighting

import "github.com/Faultbox/geostage/pkg/math"

// MaxPointLights is the maximum number of point lights in a set.
const MaxPointLights = 8

// PointLight is an omni light with linear falloff.
type PointLight struct {
	Position  math.Vec3 // World position
	Range     float32   // Distance at which the light fades out
	Intensity float32   // Light intensity multiplier
}

// Contribution returns the light reaching a surface point with the given
// world-space normal.
func (l PointLight) Contribution(position, normal math.Vec3) float32 {
	toLight := l.Position.Sub(position)
	dist := toLight.Length()
	if dist >= l.Range || dist == 0 {
		return 0
	}
	lambert := normal.Normalize().Dot(toLight.Scale(1 / dist))
	if lambert <= 0 {
		return 0
	}
	return lambert * (1 - dist/l.Range) * l.Intensity
}

// PointLightSet holds up to MaxPointLights lights.
type PointLightSet struct {
	lights []PointLight
}

// Clear removes all lights from the set.
func (s *PointLightSet) Clear() {
	s.lights = s.lights[:0]
}

// Add adds a point light to the set.
// Returns false if the set is full. Non-positive ranges default to 100.
func (s *PointLightSet) Add(light PointLight) bool {
	if len(s.lights) >= MaxPointLights {
		return false
	}
	if light.Range <= 0 {
		light.Range = 100.0
	}
	s.lights = append(s.lights, light)
	return true
}

// Lights returns the lights in the set.
func (s *PointLightSet) Lights() []PointLight {
	return s.lights
}

// Len returns the number of lights.
func (s *PointLightSet) Len() int {
	return len(s.lights)
}
