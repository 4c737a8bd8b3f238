package camera

import (
	"errors"
	"testing"

	"github.com/Faultbox/geostage/internal/engine/transform"
	"github.com/Faultbox/geostage/pkg/math"
)

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func near(a, b math.Vec3) bool {
	return abs(a.X-b.X) < 0.001 && abs(a.Y-b.Y) < 0.001 && abs(a.Z-b.Z) < 0.001
}

func newTestCamera(t *testing.T) (*Camera, *transform.Graph) {
	t.Helper()
	g := transform.NewGraph()
	node := g.Add("camera")
	cam, err := New(g, node, Params{Near: 1, Far: 100, FOVDegrees: 90, Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cam, g
}

func TestNewValidatesParams(t *testing.T) {
	g := transform.NewGraph()
	node := g.Add("camera")

	tests := []struct {
		name string
		p    Params
	}{
		{"zero width", Params{Near: 1, Far: 10, FOVDegrees: 60, Width: 0, Height: 10}},
		{"far before near", Params{Near: 10, Far: 1, FOVDegrees: 60, Width: 10, Height: 10}},
		{"zero near", Params{Near: 0, Far: 1, FOVDegrees: 60, Width: 10, Height: 10}},
		{"flat fov", Params{Near: 1, Far: 10, FOVDegrees: 180, Width: 10, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(g, node, tt.p); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("New() error = %v, want ErrInvalidParams", err)
			}
		})
	}

	if _, err := New(g, transform.Handle(9), DefaultParams()); !errors.Is(err, transform.ErrInvalidHandle) {
		t.Errorf("New() with unknown node error = %v, want ErrInvalidHandle", err)
	}
}

func TestLookAtPointPutsTargetAhead(t *testing.T) {
	cam, g := newTestCamera(t)
	g.SetPosition(cam.Node(), math.Vec3{X: 3, Y: 2, Z: -10})
	g.UpdateAll()

	target := math.Vec3{X: 3, Y: 2, Z: 5}
	view := cam.LookAtPoint(target)

	got := view.TransformPoint(target)
	if !near(got, math.Vec3{Z: 15}) {
		t.Errorf("target in view space = %v, want (0, 0, 15)", got)
	}
	if eye := view.TransformPoint(cam.Eye()); !near(eye, math.Vec3{}) {
		t.Errorf("eye in view space = %v, want origin", eye)
	}
}

func TestLookAtPointStraightUp(t *testing.T) {
	cam, g := newTestCamera(t)
	g.UpdateAll()

	view := cam.LookAtPoint(math.Vec3{Y: 10})
	got := view.TransformPoint(math.Vec3{Y: 10})
	if !near(got, math.Vec3{Z: 10}) {
		t.Errorf("target overhead in view space = %v, want (0, 0, 10)", got)
	}
}

func TestLookAtDefaultDirection(t *testing.T) {
	cam, g := newTestCamera(t)
	g.SetPosition(cam.Node(), math.Vec3{X: 5})
	g.UpdateAll()

	view := cam.LookAt()
	got := view.TransformPoint(math.Vec3{X: 5, Z: 7})
	if !near(got, math.Vec3{Z: 7}) {
		t.Errorf("point along default direction = %v, want (0, 0, 7)", got)
	}
}

func TestLookAtFollowsMovingTarget(t *testing.T) {
	cam, g := newTestCamera(t)
	subject := g.Add("subject")
	cam.SetTarget(subject)

	positions := []math.Vec3{{X: 0, Z: 10}, {X: 10, Z: 0}, {X: -4, Y: 3, Z: 8}}
	for _, p := range positions {
		g.SetPosition(subject, p)
		g.UpdateAll()

		got := cam.LookAt().TransformPoint(p)
		if abs(got.X) > 0.001 || abs(got.Y) > 0.001 || got.Z <= 0 {
			t.Errorf("target at %v should be straight ahead, got %v", p, got)
		}
	}

	cam.SetTarget(transform.None)
	if cam.Target() != transform.None {
		t.Error("SetTarget(None) should clear the target")
	}
	if cam.LookAt() != cam.LookAtPoint(cam.Eye().Add(DefaultViewDirection)) {
		t.Error("cleared target should fall back to the default view direction")
	}
}

func TestProjectionIsFixed(t *testing.T) {
	cam, g := newTestCamera(t)
	before := *cam.Projection()

	g.SetPosition(cam.Node(), math.Vec3{X: 100})
	g.UpdateAll()
	cam.SetTarget(g.Add("other"))

	if *cam.Projection() != before {
		t.Error("projection must not change after construction")
	}
	if cam.Width() != 100 || cam.Height() != 100 {
		t.Errorf("viewport = %dx%d, want 100x100", cam.Width(), cam.Height())
	}
}

func TestViewProjectionMapsTargetToCenter(t *testing.T) {
	cam, g := newTestCamera(t)
	g.SetPosition(cam.Node(), math.Vec3{Z: -5})
	g.UpdateAll()

	clip := cam.ViewProjection().MulVec4(math.Vec4{X: 0, Y: 0, Z: 0, W: 1})
	ndc := clip.PerspectiveDivide()
	if abs(ndc.X) > 0.001 || abs(ndc.Y) > 0.001 || ndc.Z < -1 || ndc.Z > 1 {
		t.Errorf("origin should land at NDC center inside depth range, got %v", ndc)
	}
	if abs(clip.W-5) > 0.001 {
		t.Errorf("clip w should equal view depth 5, got %v", clip.W)
	}
}
