package mesh

import (
	"fmt"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/geostage/internal/engine/raster"
	"github.com/Faultbox/geostage/pkg/math"
)

const (
	// ClipCapacity is the size of the clipping scratch buffers. Each plane
	// adds at most one vertex to a convex polygon, so a triangle clipped by
	// MaxPlanes planes never exceeds 3+MaxPlanes vertices.
	ClipCapacity = 20
	// MaxPlanes is the largest plane set Update accepts.
	MaxPlanes = 6
	// Epsilon is the smallest plane-distance difference along an edge that
	// still produces an intersection vertex.
	Epsilon = 1e-7
)

// Plane is a homogeneous plane a*x + b*y + c*z + d*w = 0. Points with a
// positive distance are inside.
type Plane struct {
	A, B, C, D float32
}

// Distance evaluates the plane equation at p. For points with w == 1 this
// is a*x + b*y + c*z + d.
func (pl Plane) Distance(p math.Vec4) float32 {
	return pl.A*p.X + pl.B*p.Y + pl.C*p.Z + pl.D*p.W
}

// Inside reports whether p lies strictly on the inner side of the plane.
func (pl Plane) Inside(p math.Vec4) bool {
	return pl.Distance(p) > 0
}

// FrustumPlanes returns the six clip-space planes -w < x, y, z < w in
// left, right, bottom, top, near, far order.
func FrustumPlanes() []Plane {
	return []Plane{
		{A: 1, D: 1},
		{A: -1, D: 1},
		{B: 1, D: 1},
		{B: -1, D: 1},
		{C: 1, D: 1},
		{C: -1, D: 1},
	}
}

// ClipVertex is a clip-space position with the color it carries.
type ClipVertex struct {
	Position math.Vec4
	Color    color.RGBA
}

// Clipper clips triangles against plane sets using two fixed scratch
// buffers that are reused between calls.
type Clipper struct {
	buf [2][ClipCapacity]ClipVertex
}

// Clip runs Sutherland-Hodgman clipping of tri against planes in order.
// It stops as soon as fewer than three vertices remain. The returned
// slice aliases the clipper's storage and is valid until the next call.
func (c *Clipper) Clip(tri [3]ClipVertex, planes []Plane) []ClipVertex {
	src, dst := &c.buf[0], &c.buf[1]
	n := copy(src[:], tri[:])

	for _, pl := range planes {
		n = clipPolygon(src[:n], dst, pl)
		src, dst = dst, src
		if n < 3 {
			break
		}
	}
	return src[:n]
}

// ClipTriangle clips tri against planes and returns a copy of the result.
func ClipTriangle(tri [3]ClipVertex, planes []Plane) []ClipVertex {
	var c Clipper
	out := c.Clip(tri, planes)
	return append([]ClipVertex(nil), out...)
}

// clipPolygon clips the closed polygon in against one plane, writing to out.
// Each edge is walked from the previous vertex to the current one:
// out->in emits the intersection then current, in->out emits only the
// intersection, in->in emits current, out->out emits nothing.
func clipPolygon(in []ClipVertex, out *[ClipCapacity]ClipVertex, pl Plane) int {
	n := 0
	emit := func(v ClipVertex) {
		if n == ClipCapacity {
			panic(fmt.Sprintf("mesh: clipped polygon exceeds %d vertices", ClipCapacity))
		}
		out[n] = v
		n++
	}

	prev := in[len(in)-1]
	dPrev := pl.Distance(prev.Position)
	for _, curr := range in {
		dCurr := pl.Distance(curr.Position)
		prevIn, currIn := dPrev > 0, dCurr > 0

		switch {
		case !prevIn && currIn:
			if v, ok := intersect(prev, curr, dPrev, dCurr); ok {
				emit(v)
			}
			emit(curr)
		case prevIn && !currIn:
			if v, ok := intersect(prev, curr, dPrev, dCurr); ok {
				emit(v)
			}
		case prevIn && currIn:
			emit(curr)
		}

		prev, dPrev = curr, dCurr
	}
	return n
}

// intersect returns the point on edge a->b where the plane distance is zero,
// given the distances da and db of the endpoints. Edges nearly parallel to
// the plane yield no vertex.
func intersect(a, b ClipVertex, da, db float32) (ClipVertex, bool) {
	denom := da - db
	if math32.Abs(denom) < Epsilon {
		return ClipVertex{}, false
	}
	t := da / denom
	if math32.IsNaN(t) || math32.IsInf(t, 0) {
		return ClipVertex{}, false
	}
	return ClipVertex{
		Position: a.Position.Lerp(b.Position, t),
		Color:    raster.LerpColor(a.Color, b.Color, t),
	}, true
}

// Triangulate appends the fan (first, first+i, first+i+1), i = 1..n-2, for a
// convex polygon of n vertices stored from index first. Polygons with fewer
// than three vertices add nothing.
func Triangulate(dst []Triangle, first, n int) []Triangle {
	for i := 1; i+1 < n; i++ {
		dst = append(dst, Triangle{first, first + i, first + i + 1})
	}
	return dst
}
