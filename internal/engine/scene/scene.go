// Package scene ties the transform graph, camera, lights and models into a
// frame loop: Update recomputes the geometry and Draw submits it.
package scene

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/geostage/internal/engine/camera"
	"github.com/Faultbox/geostage/internal/engine/lighting"
	"github.com/Faultbox/geostage/internal/engine/mesh"
	"github.com/Faultbox/geostage/internal/engine/model"
	"github.com/Faultbox/geostage/internal/engine/raster"
	"github.com/Faultbox/geostage/internal/engine/transform"
)

// Stats describes the last rendered frame.
type Stats struct {
	Frame  int
	Models int
	mesh.Stats
}

// Scene is a built, renderable scene.
type Scene struct {
	graph   *transform.Graph
	camera  *camera.Camera
	lights  *lighting.Rig
	planes  []mesh.Plane
	models  []*model.Model
	objects map[string]*object

	frame int
	stats Stats

	log *zap.Logger
}

// Graph returns the transform graph.
func (s *Scene) Graph() *transform.Graph { return s.graph }

// Camera returns the scene camera.
func (s *Scene) Camera() *camera.Camera { return s.camera }

// Lights returns the light rig. Changes apply from the next Update.
func (s *Scene) Lights() *lighting.Rig { return s.lights }

// Models returns the models in declaration order.
func (s *Scene) Models() []*model.Model { return s.models }

// Model returns the named model, or nil.
func (s *Scene) Model(name string) *model.Model {
	if o, ok := s.objects[name]; ok && o.kind == kindModel {
		return o.model
	}
	return nil
}

// Node returns the transform node of the named object.
func (s *Scene) Node(name string) (transform.Handle, bool) {
	o, ok := s.objects[name]
	if !ok {
		return transform.None, false
	}
	return o.node, true
}

// ID returns the identity assigned to the named object.
func (s *Scene) ID(name string) (uuid.UUID, bool) {
	o, ok := s.objects[name]
	if !ok {
		return uuid.Nil, false
	}
	return o.id, true
}

// Frame returns the number of completed updates.
func (s *Scene) Frame() int { return s.frame }

// Update advances every transform by one frame and recomputes the
// geometry of every model for the current camera.
func (s *Scene) Update() error {
	s.graph.UpdateAll()

	params := model.FrameParams{
		ViewProjection: s.camera.ViewProjection(),
		Lights:         s.lights,
		Width:          s.camera.Width(),
		Height:         s.camera.Height(),
		Planes:         s.planes,
	}
	for _, m := range s.models {
		if err := m.Update(s.graph, params); err != nil {
			return errors.Wrapf(err, "frame %d", s.frame)
		}
	}
	s.frame++
	return nil
}

// Draw clears r once and submits every model.
func (s *Scene) Draw(r raster.Rasterizer) {
	r.Clear()

	st := Stats{Frame: s.frame, Models: len(s.models)}
	for _, m := range s.models {
		m.Draw(r)
		ms := m.Stats()
		st.Source += ms.Source
		st.Clipped += ms.Clipped
		st.Display += ms.Display
		st.Drawn += ms.Drawn
		st.Culled += ms.Culled
	}
	s.stats = st

	s.log.Debug("frame drawn",
		zap.Int("frame", st.Frame),
		zap.Int("source", st.Source),
		zap.Int("clipped", st.Clipped),
		zap.Int("drawn", st.Drawn),
		zap.Int("culled", st.Culled),
	)
}

// Stats returns the counters of the last Draw.
func (s *Scene) Stats() Stats { return s.stats }
