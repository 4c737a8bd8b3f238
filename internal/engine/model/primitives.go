package model

import "github.com/Faultbox/geostage/pkg/math"

// builder accumulates flat-shaded triangles.
type builder struct {
	g Geometry
}

// triangle adds a, b, c with the given outward normal. Front faces wind
// clockwise when seen from outside, so the vertex order is fixed up to
// make cross(b-a, c-a) point inwards. Degenerate triangles are skipped.
func (b *builder) triangle(p0, p1, p2, outward math.Vec3) {
	cross := p1.Sub(p0).Cross(p2.Sub(p0))
	if cross.Length() < 1e-5 {
		return
	}
	if cross.Dot(outward) > 0 {
		p1, p2 = p2, p1
	}
	n := outward.Normalize()
	b.g.Positions = append(b.g.Positions, p0, p1, p2)
	b.g.Normals = append(b.g.Normals, n, n, n)
}

// quad adds the square centered at c spanned by half-axes u and v.
func (b *builder) quad(c, u, v, outward math.Vec3) {
	p0 := c.Sub(u).Sub(v)
	p1 := c.Add(u).Sub(v)
	p2 := c.Add(u).Add(v)
	p3 := c.Sub(u).Add(v)
	b.triangle(p0, p1, p2, outward)
	b.triangle(p0, p2, p3, outward)
}

// Cube returns an axis-aligned cube of the given edge length centered on the origin.
func Cube(size float32) Geometry {
	h := size / 2
	axes := []math.Vec3{{X: 1}, {Y: 1}, {Z: 1}}

	var b builder
	for i, n := range axes {
		u := axes[(i+1)%3].Scale(h)
		v := axes[(i+2)%3].Scale(h)
		b.quad(n.Scale(h), u, v, n)
		b.quad(n.Scale(-h), u, v, n.Scale(-1))
	}
	return b.g
}

// Tetrahedron returns a regular tetrahedron inscribed in a cube of the given edge length.
func Tetrahedron(size float32) Geometry {
	h := size / 2
	p := []math.Vec3{
		{X: h, Y: h, Z: h},
		{X: h, Y: -h, Z: -h},
		{X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h},
	}
	faces := [][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}

	var b builder
	for _, f := range faces {
		a, c, d := p[f[0]], p[f[1]], p[f[2]]
		// The centroid is the origin, so the face center points outwards.
		outward := a.Add(c).Add(d)
		b.triangle(a, c, d, outward)
	}
	return b.g
}

// Plane returns a square on the XZ plane facing +Y.
func Plane(size float32) Geometry {
	h := size / 2
	var b builder
	b.quad(math.Vec3{}, math.Vec3{X: h}, math.Vec3{Z: h}, math.Vec3{Y: 1})
	return b.g
}
