// Package raster defines the pixel-filling capability consumed by the
// geometry stage.
package raster

import "image/color"

// Vertex is a viewport-space vertex: integer pixel coordinates and a
// fixed-point depth (larger is farther).
type Vertex struct {
	X, Y, Z int32
}

// Rasterizer fills convex polygons into a color target with depth testing.
type Rasterizer interface {
	// Clear resets the color target and the depth buffer.
	Clear()
	// SetColor sets the fill color for subsequent polygons.
	SetColor(c color.RGBA)
	// FillConvexPolygonDepth fills the convex polygon formed by
	// vertices[indices[0]], vertices[indices[1]], ... with depth testing.
	FillConvexPolygonDepth(vertices []Vertex, indices []int)
	// Dimensions returns the target size in pixels.
	Dimensions() (width, height int)
}

// ScaleColor multiplies the RGB channels of c by intensity, clamped to [0, 1].
// Alpha is preserved.
func ScaleColor(c color.RGBA, intensity float32) color.RGBA {
	if intensity < 0 {
		intensity = 0
	} else if intensity > 1 {
		intensity = 1
	}
	return color.RGBA{
		R: uint8(float32(c.R)*intensity + 0.5),
		G: uint8(float32(c.G)*intensity + 0.5),
		B: uint8(float32(c.B)*intensity + 0.5),
		A: c.A,
	}
}

// LerpColor interpolates between a and b.
func LerpColor(a, b color.RGBA, t float32) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float32(x) + t*(float32(y)-float32(x)) + 0.5)
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}
