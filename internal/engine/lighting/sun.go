// Package lighting computes per-vertex light intensities for the geometry stage.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/geostage/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to a light direction vector.
// Longitude is rotation around Y axis (0-360), latitude is elevation from horizon (0-90).
// Returns a normalized direction vector pointing towards the sun.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lonRad := math.Radians(longitude)
	latRad := math.Radians(latitude)

	// Spherical to Cartesian conversion
	return math.Vec3{
		X: math32.Cos(latRad) * math32.Sin(lonRad),
		Y: math32.Sin(latRad),
		Z: math32.Cos(latRad) * math32.Cos(lonRad),
	}
}

// Sun is a directional light.
type Sun struct {
	Direction math.Vec3 // towards the light, normalized
	Diffuse   float32
}

// NewSun creates a sun from longitude/latitude angles in degrees.
func NewSun(longitude, latitude, diffuse float32) Sun {
	return Sun{Direction: SunDirection(longitude, latitude), Diffuse: diffuse}
}

// Contribution returns the Lambert term for a world-space normal.
func (s Sun) Contribution(normal math.Vec3) float32 {
	d := normal.Normalize().Dot(s.Direction)
	if d < 0 {
		return 0
	}
	return d * s.Diffuse
}
