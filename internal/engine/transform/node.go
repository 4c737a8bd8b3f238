// Package transform implements the scene's hierarchical transform graph.
//
// Nodes live in an arena owned by a Graph and are addressed by Handle.
// A node refers to its parent by handle; the parent's global transform is
// resolved on every update, so no node ever owns another.
package transform

import "github.com/Faultbox/geostage/pkg/math"

// Handle identifies a node inside a Graph.
type Handle int

// None is the handle of "no node": a root's parent, or an unbound target.
const None Handle = -1

// Node is a single affine transform (position, rotation, uniform scale)
// with an optional parent.
type Node struct {
	name string

	local  math.Mat4
	global math.Mat4

	position         math.Vec3
	rotation         math.Vec3 // degrees
	constantRotation math.Vec3 // degrees per update
	scale            float32

	gPosition math.Vec3
	gScale    math.Vec3

	parent Handle

	// rawLocal is set by SetLocalTransform; the next update keeps local as is.
	rawLocal bool
	// frame is the last UpdateAll pass that refreshed this node.
	frame uint64
}

func newNode(name string) Node {
	return Node{
		name:   name,
		local:  math.Identity(),
		global: math.Identity(),
		scale:  1,
		gScale: math.Vec3{X: 1, Y: 1, Z: 1},
		parent: None,
	}
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Local returns the local transform.
func (n *Node) Local() math.Mat4 { return n.local }

// Global returns the global transform.
func (n *Node) Global() math.Mat4 { return n.global }

// Position returns the local position.
func (n *Node) Position() math.Vec3 { return n.position }

// Rotation returns the local rotation in degrees.
func (n *Node) Rotation() math.Vec3 { return n.rotation }

// ConstantRotation returns the per-update rotation increment in degrees.
func (n *Node) ConstantRotation() math.Vec3 { return n.constantRotation }

// Scale returns the uniform local scale.
func (n *Node) Scale() float32 { return n.scale }

// GlobalPosition returns the world-space position derived on the last update.
func (n *Node) GlobalPosition() math.Vec3 { return n.gPosition }

// GlobalScale returns the world-space scale derived on the last update.
func (n *Node) GlobalScale() math.Vec3 { return n.gScale }

// Parent returns the parent handle, or None for a root.
func (n *Node) Parent() Handle { return n.parent }

// composeLocal rebuilds local = T * R * S.
func (n *Node) composeLocal() {
	n.local = math.Translate(n.position.X, n.position.Y, n.position.Z).
		Mul(math.RotateEuler(n.rotation)).
		Mul(math.Scale(n.scale, n.scale, n.scale))
}

func (n *Node) updateGlobalAttributes() {
	n.gPosition = n.global.Translation()
	n.gScale = n.global.ScaleFactors()
}
