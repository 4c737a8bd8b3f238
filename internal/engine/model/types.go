// Package model provides renderable models: shared vertex buffers, the
// meshes viewing them and the per-frame vertex transform step.
package model

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/geostage/pkg/math"
)

// ErrInvalidGeometry is returned for geometry that is not a triangle list.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry is a triangle list in object space with one normal per vertex.
type Geometry struct {
	Positions []math.Vec3
	Normals   []math.Vec3
}

// Len returns the vertex count.
func (g Geometry) Len() int { return len(g.Positions) }

// Validate checks that g is a non-empty triangle list with matching normals.
func (g Geometry) Validate() error {
	if len(g.Positions) == 0 || len(g.Positions)%3 != 0 {
		return errors.Wrapf(ErrInvalidGeometry, "%d vertices is not a triangle list", len(g.Positions))
	}
	if len(g.Normals) != len(g.Positions) {
		return errors.Wrapf(ErrInvalidGeometry, "%d normals for %d vertices", len(g.Normals), len(g.Positions))
	}
	return nil
}

// Bounds holds the axis-aligned bounding box of the model.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// emptyBounds returns inverted bounds that any point extends.
func emptyBounds() Bounds {
	return Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
}

func updateBounds(b *Bounds, p math.Vec3) {
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Min.Z = min(b.Min.Z, p.Z)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	b.Max.Z = max(b.Max.Z, p.Z)
}

// Center returns the center of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}
