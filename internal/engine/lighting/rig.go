package lighting

import "github.com/Faultbox/geostage/pkg/math"

// Rig is the complete light setup of a scene: ambient term, one sun and
// a set of point lights.
type Rig struct {
	Ambient float32
	Sun     Sun
	Points  PointLightSet
}

// DefaultRig returns a rig lit by a sun high in the south-east.
func DefaultRig() *Rig {
	return &Rig{
		Ambient: 0.25,
		Sun:     NewSun(45, 60, 0.75),
	}
}

// Intensity returns the clamped light intensity at a world-space point.
func (r *Rig) Intensity(position, normal math.Vec3) float32 {
	total := r.Ambient + r.Sun.Contribution(normal)
	for _, l := range r.Points.Lights() {
		total += l.Contribution(position, normal)
	}
	if total < 0 {
		return 0
	}
	if total > 1 {
		return 1
	}
	return total
}

// Intensities writes one intensity per vertex into dst, reallocating it if
// it is too short, and returns it. positions and normals are world space.
func (r *Rig) Intensities(positions, normals []math.Vec4, dst []float32) []float32 {
	if cap(dst) < len(normals) {
		dst = make([]float32, len(normals))
	}
	dst = dst[:len(normals)]
	for i := range normals {
		dst[i] = r.Intensity(positions[i].XYZ(), normals[i].XYZ())
	}
	return dst
}
