// Package mesh implements the per-mesh geometry pipeline: per-vertex
// lighting, homogeneous clipping, fan triangulation, perspective projection,
// frontface culling and submission to a rasterizer.
package mesh

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/Faultbox/geostage/internal/engine/raster"
	"github.com/Faultbox/geostage/pkg/math"
)

// DepthScale is the fixed-point scale applied to NDC depth when mapping to
// viewport coordinates.
const DepthScale = 100000000

var (
	// ErrBufferMismatch is returned when buffer sizes or ranges disagree.
	ErrBufferMismatch = errors.New("mesh buffer mismatch")
	// ErrTooManyPlanes is returned when a plane set exceeds MaxPlanes.
	ErrTooManyPlanes = errors.New("too many clip planes")
	// ErrViewport is returned for a non-positive viewport.
	ErrViewport = errors.New("invalid viewport")
)

// Triangle holds three indices into a mesh's clipped vertex list.
type Triangle [3]int

// Buffers are the vertex buffers shared by all meshes of one model. The
// model writes Transformed and TransformedNormals every frame; each mesh
// reads only its own range.
type Buffers struct {
	Positions          []math.Vec4
	Normals            []math.Vec4
	Transformed        []math.Vec4 // clip space
	TransformedNormals []math.Vec4 // world space
}

// Stats counts the work done for one mesh in the last frame.
type Stats struct {
	Source  int // source triangles
	Clipped int // source triangles removed entirely by clipping
	Display int // triangles after re-triangulation
	Drawn   int // triangles submitted to the rasterizer
	Culled  int // triangles rejected by the frontface test
}

// Mesh is a view over a contiguous triangle-list range [first, first+count)
// of shared buffers.
type Mesh struct {
	name    string
	buffers *Buffers
	first   int
	count   int
	color   color.RGBA

	colors    []color.RGBA // lit colors, one per vertex in range
	clipped   []ClipVertex // this frame's clipped vertices
	ndc       []math.Vec4  // clipped vertices after perspective divide
	triangles []Triangle
	display   []raster.Vertex
	indices   [3]int

	clipper Clipper
	stats   Stats
}

// New creates a mesh over [first, first+count) of buf. count must be a
// positive multiple of 3 and the range must lie inside every buffer.
func New(name string, buf *Buffers, first, count int, c color.RGBA) (*Mesh, error) {
	if buf == nil {
		return nil, errors.Wrapf(ErrBufferMismatch, "mesh %q: nil buffers", name)
	}
	if count <= 0 || count%3 != 0 {
		return nil, errors.Wrapf(ErrBufferMismatch, "mesh %q: vertex count %d is not a positive multiple of 3", name, count)
	}
	n := len(buf.Positions)
	if len(buf.Normals) != n || len(buf.Transformed) != n || len(buf.TransformedNormals) != n {
		return nil, errors.Wrapf(ErrBufferMismatch,
			"mesh %q: positions %d, normals %d, transformed %d, transformed normals %d",
			name, n, len(buf.Normals), len(buf.Transformed), len(buf.TransformedNormals))
	}
	if first < 0 || first+count > n {
		return nil, errors.Wrapf(ErrBufferMismatch, "mesh %q: range [%d, %d) outside buffer of %d", name, first, first+count, n)
	}

	return &Mesh{
		name:    name,
		buffers: buf,
		first:   first,
		count:   count,
		color:   c,
		colors:  make([]color.RGBA, count),
	}, nil
}

// Name returns the mesh name.
func (m *Mesh) Name() string { return m.name }

// Range returns the first vertex index and the vertex count.
func (m *Mesh) Range() (first, count int) { return m.first, m.count }

// Color returns the base color.
func (m *Mesh) Color() color.RGBA { return m.color }

// SetColor sets the base color used from the next Update.
func (m *Mesh) SetColor(c color.RGBA) { m.color = c }

// Colors returns the lit per-vertex colors computed by the last Update.
func (m *Mesh) Colors() []color.RGBA { return m.colors }

// ClippedVertices returns the clipped vertices of the last Update.
func (m *Mesh) ClippedVertices() []ClipVertex { return m.clipped }

// Triangles returns the display triangles of the last Update.
func (m *Mesh) Triangles() []Triangle { return m.triangles }

// DisplayVertices returns the viewport-space vertices of the last Update,
// indexed like ClippedVertices.
func (m *Mesh) DisplayVertices() []raster.Vertex { return m.display }

// Stats returns the counters of the last Update and Draw.
func (m *Mesh) Stats() Stats { return m.stats }

// Update recomputes every per-frame buffer from the current transformed
// positions. intensities must be aligned with the shared Transformed buffer.
func (m *Mesh) Update(intensities []float32, width, height int, planes []Plane) error {
	if len(planes) > MaxPlanes {
		return errors.Wrapf(ErrTooManyPlanes, "mesh %q: %d planes, max %d", m.name, len(planes), MaxPlanes)
	}
	if len(intensities) != len(m.buffers.Transformed) {
		return errors.Wrapf(ErrBufferMismatch, "mesh %q: %d intensities for %d vertices", m.name, len(intensities), len(m.buffers.Transformed))
	}
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrViewport, "%dx%d", width, height)
	}

	m.stats = Stats{Source: m.count / 3}
	m.clipped = m.clipped[:0]
	m.triangles = m.triangles[:0]

	positions := m.buffers.Transformed[m.first : m.first+m.count]
	lights := intensities[m.first : m.first+m.count]

	for i := 0; i < m.count; i += 3 {
		m.colors[i] = raster.ScaleColor(m.color, lights[i])
		m.colors[i+1] = raster.ScaleColor(m.color, lights[i+1])
		m.colors[i+2] = raster.ScaleColor(m.color, lights[i+2])

		tri := [3]ClipVertex{
			{Position: positions[i], Color: m.colors[i]},
			{Position: positions[i+1], Color: m.colors[i+1]},
			{Position: positions[i+2], Color: m.colors[i+2]},
		}
		poly := m.clipper.Clip(tri, planes)
		if len(poly) < 3 || !projectable(poly) {
			m.stats.Clipped++
			continue
		}

		base := len(m.clipped)
		m.clipped = append(m.clipped, poly...)
		m.triangles = Triangulate(m.triangles, base, len(poly))
	}
	m.stats.Display = len(m.triangles)

	m.project(width, height)
	return nil
}

// projectable reports whether every vertex can be perspective-divided.
// Without a near plane in the set, geometry behind the eye reaches here.
func projectable(poly []ClipVertex) bool {
	for i := range poly {
		if poly[i].Position.W <= Epsilon {
			return false
		}
	}
	return true
}

// project fills ndc and display for every clipped vertex.
func (m *Mesh) project(width, height int) {
	n := len(m.clipped)
	if cap(m.ndc) < n {
		m.ndc = make([]math.Vec4, n)
		m.display = make([]raster.Vertex, n)
	}
	m.ndc = m.ndc[:n]
	m.display = m.display[:n]

	viewport := math.Viewport(width, height, DepthScale)
	for i := range m.clipped {
		m.ndc[i] = m.clipped[i].Position.PerspectiveDivide()
		m.display[i] = toDisplay(viewport.MulVec4(m.ndc[i]))
	}
}

func toDisplay(p math.Vec4) raster.Vertex {
	return raster.Vertex{
		X: int32(math32.Round(p.X)),
		Y: int32(math32.Round(p.Y)),
		Z: int32(math32.Round(p.Z)),
	}
}

// FrontFacing reports whether the triangle a, b, c winds counter-clockwise
// in NDC (y up), which is clockwise once the viewport flips y.
func FrontFacing(a, b, c math.Vec2) bool {
	return b.Sub(a).Cross(c.Sub(a)) > 0
}

// Draw clears r and submits the visible triangles.
func (m *Mesh) Draw(r raster.Rasterizer) {
	r.Clear()
	m.DrawTriangles(r)
}

// DrawTriangles submits every front-facing display triangle to r, flat
// shaded with the color of its first vertex. It does not clear r, so
// several meshes can share one target.
func (m *Mesh) DrawTriangles(r raster.Rasterizer) {
	m.stats.Drawn, m.stats.Culled = 0, 0
	for _, tri := range m.triangles {
		if !FrontFacing(m.ndc[tri[0]].XY(), m.ndc[tri[1]].XY(), m.ndc[tri[2]].XY()) {
			m.stats.Culled++
			continue
		}
		m.indices = tri
		r.SetColor(m.clipped[tri[0]].Color)
		r.FillConvexPolygonDepth(m.display, m.indices[:])
		m.stats.Drawn++
	}
}
