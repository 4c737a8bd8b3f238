package main

import (
	"image/color"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/geostage/internal/config"
	"github.com/Faultbox/geostage/internal/engine/camera"
	"github.com/Faultbox/geostage/internal/engine/debug"
	"github.com/Faultbox/geostage/internal/engine/framebuffer"
	"github.com/Faultbox/geostage/internal/engine/lighting"
	"github.com/Faultbox/geostage/internal/engine/model"
	"github.com/Faultbox/geostage/internal/engine/scene"
	"github.com/Faultbox/geostage/internal/logger"
	"github.com/Faultbox/geostage/pkg/math"
)

// buildDemo builds a cube orbited by a tetrahedron above a floor, watched
// by a camera that tracks the cube.
func buildDemo(cfg *config.Config) (*scene.Scene, error) {
	b := scene.NewBuilder(camera.Params{
		Near:       cfg.Render.Near,
		Far:        cfg.Render.Far,
		FOVDegrees: cfg.Render.FOV,
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
	})

	rig := &lighting.Rig{
		Ambient: cfg.Lighting.Ambient,
		Sun:     lighting.NewSun(cfg.Lighting.SunLongitude, cfg.Lighting.SunLatitude, cfg.Lighting.Diffuse),
	}
	rig.Points.Add(lighting.PointLight{Position: math.Vec3{Y: 2}, Range: 4, Intensity: 0.5})
	b.SetLights(rig)

	steps := []error{
		b.AddModel("floor", model.Plane(8)),
		b.AddModel("cube", model.Cube(1.5)),
		b.AddNode("pivot"),
		b.AddModel("moon", model.Tetrahedron(0.6)),

		b.Set(scene.CameraName, scene.Position{X: 0, Y: 2.5, Z: -6}, scene.Target("cube")),
		b.Set("floor", scene.Position{Y: -1}, scene.DefaultColor(color.RGBA{R: 90, G: 110, B: 90, A: 255})),
		b.Set("cube", scene.Rotation{Y: 30}, scene.ConstantRotation{Y: 3}, scene.DefaultColor(color.RGBA{R: 220, G: 80, B: 60, A: 255})),
		b.Set("pivot", scene.ConstantRotation{Y: 6}),
		b.Set("moon", scene.Parent("pivot"), scene.Position{X: 2.2, Y: 0.5}, scene.ConstantRotation{X: 9}, scene.DefaultColor(color.RGBA{R: 80, G: 140, B: 230, A: 255})),
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// render draws n frames and writes each one as a PNG.
func render(s *scene.Scene, fb *framebuffer.Framebuffer, capture *debug.ScreenshotCapture, n int) ([]string, error) {
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := s.Update(); err != nil {
			return paths, err
		}
		s.Draw(fb)

		path, err := capture.CaptureFrame(fb.Image(), i)
		if err != nil {
			return paths, errors.Wrapf(err, "frame %d", i)
		}
		paths = append(paths, path)

		st := s.Stats()
		logger.Debug("frame written",
			zap.String("path", path),
			zap.Int("drawn", st.Drawn),
			zap.Int("culled", st.Culled),
			zap.Int("clipped", st.Clipped),
			zap.Int("pixels", fb.Filled()),
		)
	}
	return paths, nil
}
