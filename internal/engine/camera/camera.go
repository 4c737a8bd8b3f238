// Package camera derives view and projection matrices for the scene camera.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/Faultbox/geostage/internal/engine/transform"
	"github.com/Faultbox/geostage/pkg/math"
)

// ErrInvalidParams is returned by New for unusable projection parameters.
var ErrInvalidParams = errors.New("invalid camera parameters")

// WorldUp is the up direction used to build view matrices.
var WorldUp = math.Vec3{X: 0, Y: 1, Z: 0}

// DefaultViewDirection is used when no target is bound.
var DefaultViewDirection = math.Vec3{X: 0, Y: 0, Z: 1}

// Params holds the construction-time projection settings.
type Params struct {
	Near       float32
	Far        float32
	FOVDegrees float32 // vertical field of view
	Width      int
	Height     int
}

// DefaultParams returns a 60 degree camera for a 1280x720 viewport.
func DefaultParams() Params {
	return Params{
		Near:       0.1,
		Far:        1000,
		FOVDegrees: 60,
		Width:      1280,
		Height:     720,
	}
}

// Camera is the scene viewpoint. Its eye is the global position of a node
// in the transform graph; it can track another node as its view target.
type Camera struct {
	graph *transform.Graph
	node  transform.Handle

	projection math.Mat4
	target     transform.Handle

	defaultViewDirection math.Vec3

	width  int
	height int
}

// New creates a camera whose eye follows node. The projection matrix is
// fixed for the camera's lifetime.
func New(graph *transform.Graph, node transform.Handle, p Params) (*Camera, error) {
	if !graph.Valid(node) {
		return nil, errors.Wrapf(transform.ErrInvalidHandle, "camera node %d", node)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, errors.Wrapf(ErrInvalidParams, "viewport %dx%d", p.Width, p.Height)
	}
	if p.Near <= 0 || p.Far <= p.Near {
		return nil, errors.Wrapf(ErrInvalidParams, "near %v far %v", p.Near, p.Far)
	}
	if p.FOVDegrees <= 0 || p.FOVDegrees >= 180 {
		return nil, errors.Wrapf(ErrInvalidParams, "fov %v", p.FOVDegrees)
	}

	aspect := float32(p.Width) / float32(p.Height)
	return &Camera{
		graph:                graph,
		node:                 node,
		projection:           math.PerspectiveLH(math.Radians(p.FOVDegrees), aspect, p.Near, p.Far),
		target:               transform.None,
		defaultViewDirection: DefaultViewDirection,
		width:                p.Width,
		height:               p.Height,
	}, nil
}

// Node returns the camera's transform node.
func (c *Camera) Node() transform.Handle { return c.node }

// Eye returns the camera's global position.
func (c *Camera) Eye() math.Vec3 {
	return c.graph.GlobalPosition(c.node)
}

// SetTarget binds the view target to the global position of h.
// Passing transform.None reverts to the default view direction.
func (c *Camera) SetTarget(h transform.Handle) {
	c.target = h
}

// ClearTarget reverts to the default view direction.
func (c *Camera) ClearTarget() {
	c.target = transform.None
}

// Target returns the tracked node, or transform.None.
func (c *Camera) Target() transform.Handle { return c.target }

// LookAtPoint returns the view matrix from the eye towards target.
func (c *Camera) LookAtPoint(target math.Vec3) math.Mat4 {
	eye := c.Eye()
	forward := target.Sub(eye).Normalize()

	up := WorldUp
	if math32.Abs(forward.Dot(up)) > 0.9999 {
		// Looking straight up or down: any horizontal axis works as up.
		up = math.Vec3{X: 0, Y: 0, Z: 1}
	}
	return math.LookAtLH(eye, target, up)
}

// LookAt returns the view matrix towards the tracked target's current
// position, or along the default view direction when none is bound.
func (c *Camera) LookAt() math.Mat4 {
	if c.target != transform.None && c.graph.Valid(c.target) {
		return c.LookAtPoint(c.graph.GlobalPosition(c.target))
	}
	return c.LookAtPoint(c.Eye().Add(c.defaultViewDirection))
}

// Projection returns the projection matrix. Callers must not modify it.
func (c *Camera) Projection() *math.Mat4 {
	return &c.projection
}

// ViewProjection returns projection * view for the current target.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.projection.Mul(c.LookAt())
}

// Width returns the viewport width in pixels.
func (c *Camera) Width() int { return c.width }

// Height returns the viewport height in pixels.
func (c *Camera) Height() int { return c.height }
