package scene

import (
	"image/color"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/geostage/internal/engine/camera"
	"github.com/Faultbox/geostage/internal/engine/lighting"
	"github.com/Faultbox/geostage/internal/engine/mesh"
	"github.com/Faultbox/geostage/internal/engine/model"
	"github.com/Faultbox/geostage/internal/engine/transform"
	"github.com/Faultbox/geostage/internal/logger"
	"github.com/Faultbox/geostage/pkg/math"
)

// CameraName is the object name of the scene camera.
const CameraName = "camera"

var (
	// ErrUnknownObject is returned when a name does not refer to a scene object.
	ErrUnknownObject = errors.New("unknown scene object")
	// ErrDuplicateObject is returned when an object name is already taken.
	ErrDuplicateObject = errors.New("duplicate scene object")
	// ErrUnsupported is returned when a property does not apply to an object kind.
	ErrUnsupported = errors.New("property not supported")
)

type kind int

const (
	kindCamera kind = iota
	kindNode
	kindModel
)

func (k kind) String() string {
	switch k {
	case kindCamera:
		return "camera"
	case kindNode:
		return "node"
	default:
		return "model"
	}
}

type object struct {
	id    uuid.UUID
	name  string
	kind  kind
	node  transform.Handle
	model *model.Model
}

// Builder assembles a scene. Objects and properties can be declared in any
// order; names are resolved by Build.
type Builder struct {
	params camera.Params
	lights *lighting.Rig
	planes []mesh.Plane

	graph   *transform.Graph
	objects map[string]*object
	order   []*object

	parents map[string]string
	target  string

	err error
}

// NewBuilder starts a scene whose camera uses params.
func NewBuilder(params camera.Params) *Builder {
	b := &Builder{
		params:  params,
		lights:  lighting.DefaultRig(),
		planes:  mesh.FrustumPlanes(),
		graph:   transform.NewGraph(),
		objects: make(map[string]*object),
		parents: make(map[string]string),
	}
	_, _ = b.add(CameraName, kindCamera)
	return b
}

func (b *Builder) add(name string, k kind) (*object, error) {
	if name == "" {
		return nil, b.fail(errors.Wrap(ErrUnknownObject, "empty object name"))
	}
	if _, ok := b.objects[name]; ok {
		return nil, b.fail(errors.Wrapf(ErrDuplicateObject, "%q", name))
	}
	o := &object{id: uuid.New(), name: name, kind: k, node: b.graph.Add(name)}
	b.objects[name] = o
	b.order = append(b.order, o)
	return o, nil
}

// fail records the first error; later calls keep it.
func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

// SetLights replaces the default light rig.
func (b *Builder) SetLights(rig *lighting.Rig) {
	b.lights = rig
}

// SetClipPlanes replaces the view frustum as the clip plane set.
func (b *Builder) SetClipPlanes(planes []mesh.Plane) {
	b.planes = planes
}

// AddNode adds a transform-only object, useful as a pivot for others.
func (b *Builder) AddNode(name string) error {
	_, err := b.add(name, kindNode)
	return err
}

// AddModel adds a model with a single mesh of the same name.
func (b *Builder) AddModel(name string, g model.Geometry) error {
	o, err := b.add(name, kindModel)
	if err != nil {
		return err
	}
	o.model = model.New(name, o.node)
	if _, err := o.model.AddMesh(name, g); err != nil {
		return b.fail(err)
	}
	return nil
}

// AddMesh adds another mesh to an existing model.
func (b *Builder) AddMesh(modelName, meshName string, g model.Geometry) error {
	o, err := b.lookup(modelName)
	if err != nil {
		return b.fail(err)
	}
	if o.kind != kindModel {
		return b.fail(errors.Wrapf(ErrUnsupported, "meshes on %s %q", o.kind, modelName))
	}
	if _, err := o.model.AddMesh(meshName, g); err != nil {
		return b.fail(err)
	}
	return nil
}

func (b *Builder) lookup(name string) (*object, error) {
	o, ok := b.objects[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownObject, "%q", name)
	}
	return o, nil
}

// Set applies properties to the named object.
func (b *Builder) Set(name string, props ...Property) error {
	o, err := b.lookup(name)
	if err != nil {
		return b.fail(err)
	}
	for _, p := range props {
		if err := b.apply(o, p); err != nil {
			return b.fail(errors.Wrapf(err, "%s %q", o.kind, name))
		}
	}
	return nil
}

func (b *Builder) apply(o *object, p Property) error {
	if !supports(o.kind, p) {
		return errors.Wrap(ErrUnsupported, propertyName(p))
	}

	switch p := p.(type) {
	case Position:
		b.graph.SetPosition(o.node, math.Vec3(p))
	case Rotation:
		b.graph.SetRotation(o.node, math.Vec3(p))
	case ConstantRotation:
		b.graph.SetConstantRotation(o.node, math.Vec3(p))
	case Scale:
		b.graph.SetScale(o.node, float32(p))
	case Parent:
		b.parents[o.name] = string(p)
	case Target:
		b.target = string(p)
	case DefaultColor:
		o.model.SetDefaultColor(color.RGBA(p))
	case MeshColor:
		return o.model.SetMeshColor(p.Mesh, p.Color)
	}
	return nil
}

// supports reports whether property p applies to objects of kind k.
func supports(k kind, p Property) bool {
	switch p.(type) {
	case Position, Parent:
		return true
	case Rotation, ConstantRotation, Scale:
		return k != kindCamera
	case Target:
		return k == kindCamera
	case DefaultColor, MeshColor:
		return k == kindModel
	default:
		return false
	}
}

// Build resolves object references and returns the scene. It fails with
// the first error recorded while building.
func (b *Builder) Build() (*Scene, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.planes) > mesh.MaxPlanes {
		return nil, errors.Wrapf(mesh.ErrTooManyPlanes, "%d clip planes", len(b.planes))
	}
	if b.lights == nil {
		b.lights = lighting.DefaultRig()
	}

	for _, o := range b.order {
		parentName, ok := b.parents[o.name]
		if !ok {
			continue
		}
		parent, err := b.lookup(parentName)
		if err != nil {
			return nil, errors.Wrapf(err, "parent of %q", o.name)
		}
		if err := b.graph.SetParent(o.node, parent.node); err != nil {
			return nil, errors.Wrapf(err, "parent of %q", o.name)
		}
	}

	camObj := b.objects[CameraName]
	cam, err := camera.New(b.graph, camObj.node, b.params)
	if err != nil {
		return nil, errors.Wrap(err, "camera")
	}
	if b.target != "" {
		t, err := b.lookup(b.target)
		if err != nil {
			return nil, errors.Wrap(err, "camera target")
		}
		cam.SetTarget(t.node)
	}

	s := &Scene{
		graph:   b.graph,
		camera:  cam,
		lights:  b.lights,
		planes:  b.planes,
		objects: b.objects,
		log:     logger.Named("scene"),
	}
	for _, o := range b.order {
		if o.kind == kindModel {
			s.models = append(s.models, o.model)
		}
		s.log.Debug("object",
			zap.String("name", o.name),
			zap.Stringer("id", o.id),
			zap.Stringer("kind", o.kind),
		)
	}
	s.log.Info("scene built",
		zap.Int("objects", len(b.order)),
		zap.Int("models", len(s.models)),
		zap.Int("width", b.params.Width),
		zap.Int("height", b.params.Height),
	)
	return s, nil
}
