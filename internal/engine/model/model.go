package model

import (
	"image/color"

	"github.com/pkg/errors"

	"github.com/Faultbox/geostage/internal/engine/lighting"
	"github.com/Faultbox/geostage/internal/engine/mesh"
	"github.com/Faultbox/geostage/internal/engine/raster"
	"github.com/Faultbox/geostage/internal/engine/transform"
	"github.com/Faultbox/geostage/pkg/math"
)

// ErrUnknownMesh is returned when a mesh name is not part of the model.
var ErrUnknownMesh = errors.New("unknown mesh")

// DefaultColor is the base color of meshes without an explicit color.
var DefaultColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}

// FrameParams carries everything a model needs from the scene for one frame.
type FrameParams struct {
	ViewProjection math.Mat4
	Lights         *lighting.Rig // required
	Width, Height  int
	Planes         []mesh.Plane
}

// Model owns the vertex buffers shared by its meshes and the transform
// node that places them in the world.
type Model struct {
	name string
	node transform.Handle

	buffers     mesh.Buffers
	world       []math.Vec4 // world-space positions, for lighting
	intensities []float32

	meshes       []*mesh.Mesh
	colored      map[string]bool // meshes with an explicit color
	defaultColor color.RGBA
	bounds       Bounds
}

// New creates an empty model placed by node.
func New(name string, node transform.Handle) *Model {
	return &Model{
		name:         name,
		node:         node,
		colored:      make(map[string]bool),
		defaultColor: DefaultColor,
		bounds:       emptyBounds(),
	}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Node returns the model's transform node.
func (m *Model) Node() transform.Handle { return m.node }

// Bounds returns the object-space bounding box of all meshes.
func (m *Model) Bounds() Bounds { return m.bounds }

// Meshes returns the meshes in creation order.
func (m *Model) Meshes() []*mesh.Mesh { return m.meshes }

// VertexCount returns the size of the shared buffers.
func (m *Model) VertexCount() int { return len(m.buffers.Positions) }

// AddMesh appends g to the shared buffers and creates a mesh over the new
// range. Ranges of different meshes never overlap.
func (m *Model) AddMesh(name string, g Geometry) (*mesh.Mesh, error) {
	if err := g.Validate(); err != nil {
		return nil, errors.Wrapf(err, "model %q mesh %q", m.name, name)
	}
	if m.Mesh(name) != nil {
		return nil, errors.Errorf("model %q: duplicate mesh %q", m.name, name)
	}

	first := len(m.buffers.Positions)
	for i := range g.Positions {
		m.buffers.Positions = append(m.buffers.Positions, g.Positions[i].Point())
		m.buffers.Normals = append(m.buffers.Normals, g.Normals[i].Direction())
		updateBounds(&m.bounds, g.Positions[i])
	}
	n := len(m.buffers.Positions)
	m.buffers.Transformed = growVec4(m.buffers.Transformed, n)
	m.buffers.TransformedNormals = growVec4(m.buffers.TransformedNormals, n)
	m.world = growVec4(m.world, n)

	mm, err := mesh.New(name, &m.buffers, first, g.Len(), m.defaultColor)
	if err != nil {
		return nil, errors.Wrapf(err, "model %q", m.name)
	}
	m.meshes = append(m.meshes, mm)
	return mm, nil
}

func growVec4(s []math.Vec4, n int) []math.Vec4 {
	if cap(s) >= n {
		return s[:n]
	}
	out := make([]math.Vec4, n)
	copy(out, s)
	return out
}

// Mesh returns the named mesh, or nil.
func (m *Model) Mesh(name string) *mesh.Mesh {
	for _, mm := range m.meshes {
		if mm.Name() == name {
			return mm
		}
	}
	return nil
}

// SetDefaultColor sets the color of every mesh without an explicit color.
func (m *Model) SetDefaultColor(c color.RGBA) {
	m.defaultColor = c
	for _, mm := range m.meshes {
		if !m.colored[mm.Name()] {
			mm.SetColor(c)
		}
	}
}

// SetMeshColor sets the color of one mesh.
func (m *Model) SetMeshColor(name string, c color.RGBA) error {
	mm := m.Mesh(name)
	if mm == nil {
		return errors.Wrapf(ErrUnknownMesh, "model %q mesh %q", m.name, name)
	}
	mm.SetColor(c)
	m.colored[name] = true
	return nil
}

// Update writes the transformed buffers from the node's global transform,
// computes light intensities and runs every mesh pipeline.
// The node must have been updated for this frame.
func (m *Model) Update(graph *transform.Graph, p FrameParams) error {
	global := graph.Global(m.node)
	mvp := p.ViewProjection.Mul(global)

	b := &m.buffers
	for i := range b.Positions {
		b.Transformed[i] = mvp.MulVec4(b.Positions[i])
		m.world[i] = global.MulVec4(b.Positions[i])
		b.TransformedNormals[i] = global.TransformDirection(b.Normals[i].XYZ()).Normalize().Direction()
	}

	m.intensities = p.Lights.Intensities(m.world, b.TransformedNormals, m.intensities)

	for _, mm := range m.meshes {
		if err := mm.Update(m.intensities, p.Width, p.Height, p.Planes); err != nil {
			return errors.Wrapf(err, "model %q", m.name)
		}
	}
	return nil
}

// Draw submits every mesh to r without clearing it.
func (m *Model) Draw(r raster.Rasterizer) {
	for _, mm := range m.meshes {
		mm.DrawTriangles(r)
	}
}

// Stats sums the mesh counters of the last frame.
func (m *Model) Stats() mesh.Stats {
	var s mesh.Stats
	for _, mm := range m.meshes {
		ms := mm.Stats()
		s.Source += ms.Source
		s.Clipped += ms.Clipped
		s.Display += ms.Display
		s.Drawn += ms.Drawn
		s.Culled += ms.Culled
	}
	return s
}
