package math

// Vec4 is a homogeneous 4-component vector (clip-space point or plane).
type Vec4 struct {
	X, Y, Z, W float32
}

// Add returns v + other.
func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{v.X + other.X, v.Y + other.Y, v.Z + other.Z, v.W + other.W}
}

// Sub returns v - other.
func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{v.X - other.X, v.Y - other.Y, v.Z - other.Z, v.W - other.W}
}

// Scale returns v * scalar.
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Dot returns the 4D dot product.
func (v Vec4) Dot(other Vec4) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z + v.W*other.W
}

// Lerp returns v + t*(other-v).
func (v Vec4) Lerp(other Vec4, t float32) Vec4 {
	return Vec4{
		v.X + t*(other.X-v.X),
		v.Y + t*(other.Y-v.Y),
		v.Z + t*(other.Z-v.Z),
		v.W + t*(other.W-v.W),
	}
}

// PerspectiveDivide returns (x/w, y/w, z/w, 1).
// Callers must not pass w == 0; clipped vertices always have w > 0.
func (v Vec4) PerspectiveDivide() Vec4 {
	inv := 1 / v.W
	return Vec4{v.X * inv, v.Y * inv, v.Z * inv, 1}
}

// XY returns the X and Y components.
func (v Vec4) XY() Vec2 {
	return Vec2{v.X, v.Y}
}

// XYZ returns the X, Y and Z components.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}
