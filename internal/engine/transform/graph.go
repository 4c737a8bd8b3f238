package transform

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/geostage/pkg/math"
)

// ErrInvalidHandle is returned when a handle does not name a node of the graph.
var ErrInvalidHandle = errors.New("invalid transform handle")

// ErrCycle is returned when a parent assignment would close a loop.
var ErrCycle = errors.New("transform parent cycle")

// Graph is an arena of transform nodes.
// It is not safe for concurrent use; the frame loop owns it.
type Graph struct {
	nodes []Node
	frame uint64
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Add creates a root node with identity transforms and returns its handle.
func (g *Graph) Add(name string) Handle {
	g.nodes = append(g.nodes, newNode(name))
	return Handle(len(g.nodes) - 1)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Valid reports whether h names a node of g.
func (g *Graph) Valid(h Handle) bool {
	return h >= 0 && int(h) < len(g.nodes)
}

// Node returns the node for h. It panics if h is not valid.
func (g *Graph) Node(h Handle) *Node {
	return &g.nodes[h]
}

// Translate adds delta to the node position.
func (g *Graph) Translate(h Handle, delta math.Vec3) {
	n := g.Node(h)
	n.position = n.position.Add(delta)
	n.rawLocal = false
}

// SetPosition sets the node position.
func (g *Graph) SetPosition(h Handle, p math.Vec3) {
	n := g.Node(h)
	n.position = p
	n.rawLocal = false
}

// Rotate adds delta degrees to the node rotation.
func (g *Graph) Rotate(h Handle, delta math.Vec3) {
	n := g.Node(h)
	n.rotation = n.rotation.Add(delta).WrapDegrees()
	n.rawLocal = false
}

// SetRotation sets the node rotation in degrees.
func (g *Graph) SetRotation(h Handle, r math.Vec3) {
	n := g.Node(h)
	n.rotation = r.WrapDegrees()
	n.rawLocal = false
}

// SetConstantRotation sets the rotation added on every UpdateTransform.
func (g *Graph) SetConstantRotation(h Handle, r math.Vec3) {
	g.Node(h).constantRotation = r
}

// SetScale sets the uniform scale.
func (g *Graph) SetScale(h Handle, s float32) {
	n := g.Node(h)
	n.scale = s
	n.rawLocal = false
}

// SetLocalTransform overrides the local matrix. The override holds until
// the next position, rotation or scale mutation.
func (g *Graph) SetLocalTransform(h Handle, m math.Mat4) {
	n := g.Node(h)
	n.local = m
	n.rawLocal = true
}

// SetTransform overrides the global matrix until the next update.
func (g *Graph) SetTransform(h Handle, m math.Mat4) {
	n := g.Node(h)
	n.global = m
	n.updateGlobalAttributes()
}

// SetParent makes parent the parent of h. Passing None detaches h.
func (g *Graph) SetParent(h, parent Handle) error {
	if !g.Valid(h) {
		return errors.Wrapf(ErrInvalidHandle, "node %d", h)
	}
	if parent == None {
		g.nodes[h].parent = None
		return nil
	}
	if !g.Valid(parent) {
		return errors.Wrapf(ErrInvalidHandle, "parent %d", parent)
	}
	for p := parent; p != None; p = g.nodes[p].parent {
		if p == h {
			return errors.Wrapf(ErrCycle, "%q under %q", g.nodes[h].name, g.nodes[parent].name)
		}
	}
	g.nodes[h].parent = parent
	return nil
}

// ClearParent detaches h from its parent.
func (g *Graph) ClearParent(h Handle) {
	g.Node(h).parent = None
}

// UpdateTransform applies the constant rotation, recomposes the local matrix
// and composes the global matrix with the parent's current global matrix.
// The parent itself is not updated; see UpdateAll.
func (g *Graph) UpdateTransform(h Handle) {
	n := g.Node(h)

	if n.constantRotation != (math.Vec3{}) {
		n.rotation = n.rotation.Add(n.constantRotation).WrapDegrees()
		n.rawLocal = false
	}
	if !n.rawLocal {
		n.composeLocal()
	}

	if n.parent == None {
		n.global = n.local
	} else {
		n.global = g.nodes[n.parent].global.Mul(n.local)
	}
	n.updateGlobalAttributes()
}

// UpdateAll updates every node exactly once, parents before children.
func (g *Graph) UpdateAll() {
	g.frame++
	for i := range g.nodes {
		g.updateOrdered(Handle(i))
	}
}

func (g *Graph) updateOrdered(h Handle) {
	n := &g.nodes[h]
	if n.frame == g.frame {
		return
	}
	n.frame = g.frame
	if n.parent != None {
		g.updateOrdered(n.parent)
	}
	g.UpdateTransform(h)
}

// GlobalPosition returns the world position of h from the last update.
func (g *Graph) GlobalPosition(h Handle) math.Vec3 {
	return g.nodes[h].gPosition
}

// Global returns the global matrix of h from the last update.
func (g *Graph) Global(h Handle) math.Mat4 {
	return g.nodes[h].global
}
