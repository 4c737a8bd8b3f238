package scene

import (
	"image/color"

	"github.com/Faultbox/geostage/pkg/math"
)

// Property is a build-time setting applied to a named scene object.
// The set of properties is closed; see the types below.
type Property interface {
	isProperty()
}

// Position sets the local translation of an object.
type Position math.Vec3

// Rotation sets the local Euler rotation of an object, in degrees.
type Rotation math.Vec3

// ConstantRotation sets the rotation added on every frame, in degrees.
type ConstantRotation math.Vec3

// Scale sets the uniform local scale of an object.
type Scale float32

// Parent attaches an object to the named object's transform.
type Parent string

// Target makes the camera track the named object.
type Target string

// DefaultColor sets the color of every mesh of a model without its own color.
type DefaultColor color.RGBA

// MeshColor sets the color of one mesh of a model.
type MeshColor struct {
	Mesh  string
	Color color.RGBA
}

func (Position) isProperty() {}
func (Rotation) isProperty() {}
func (ConstantRotation) isProperty() {}
func (Scale) isProperty() {}
func (Parent) isProperty() {}
func (Target) isProperty() {}
func (DefaultColor) isProperty() {}
func (MeshColor) isProperty() {}

func propertyName(p Property) string {
	switch p.(type) {
	case Position:
		return "position"
	case Rotation:
		return "rotation"
	case ConstantRotation:
		return "constant rotation"
	case Scale:
		return "scale"
	case Parent:
		return "parent"
	case Target:
		return "target"
	case DefaultColor:
		return "default color"
	case MeshColor:
		return "mesh color"
	default:
		return "unknown"
	}
}
