package mesh

import (
	"errors"
	"image/color"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/geostage/internal/engine/raster"
	"github.com/Faultbox/geostage/pkg/math"
)

// recorder implements raster.Rasterizer and records every call.
type recorder struct {
	width, height int
	clears        int
	colors        []color.RGBA
	fills         [][]raster.Vertex
}

func (r *recorder) Clear() { r.clears++ }
func (r *recorder) SetColor(c color.RGBA) { r.colors = append(r.colors, c) }
func (r *recorder) Dimensions() (int, int) { return r.width, r.height }
func (r *recorder) FillConvexPolygonDepth(vertices []raster.Vertex, indices []int) {
	poly := make([]raster.Vertex, len(indices))
	for i, idx := range indices {
		poly[i] = vertices[idx]
	}
	r.fills = append(r.fills, poly)
}

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func newBuffers(transformed ...math.Vec4) *Buffers {
	n := len(transformed)
	return &Buffers{
		Positions:          make([]math.Vec4, n),
		Normals:            make([]math.Vec4, n),
		Transformed:        transformed,
		TransformedNormals: make([]math.Vec4, n),
	}
}

func ones(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func vtx(x, y, z, w float32) ClipVertex {
	return ClipVertex{Position: math.Vec4{X: x, Y: y, Z: z, W: w}, Color: white}
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestNewValidatesBuffers(t *testing.T) {
	tri := newBuffers(math.Vec4{W: 1}, math.Vec4{W: 1}, math.Vec4{W: 1})

	tests := []struct {
		name  string
		buf   *Buffers
		first int
		count int
	}{
		{"nil buffers", nil, 0, 3},
		{"count not multiple of 3", tri, 0, 2},
		{"zero count", tri, 0, 0},
		{"range past end", tri, 1, 3},
		{"negative first", tri, -3, 3},
		{"mismatched normals", &Buffers{
			Positions:          make([]math.Vec4, 3),
			Normals:            make([]math.Vec4, 2),
			Transformed:        make([]math.Vec4, 3),
			TransformedNormals: make([]math.Vec4, 3),
		}, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New("bad", tt.buf, tt.first, tt.count, white); !errors.Is(err, ErrBufferMismatch) {
				t.Errorf("New() error = %v, want ErrBufferMismatch", err)
			}
		})
	}

	if _, err := New("ok", tri, 0, 3, white); err != nil {
		t.Errorf("New() on a valid range: %v", err)
	}
}

func TestClipInsideTriangleUnchanged(t *testing.T) {
	tri := [3]ClipVertex{
		vtx(-0.5, -0.5, 0, 1),
		vtx(0.5, -0.5, 0.2, 1),
		vtx(0, 0.5, -0.3, 1),
	}

	for _, planes := range [][]Plane{nil, FrustumPlanes(), {{A: 1, D: 5}}} {
		got := ClipTriangle(tri, planes)
		if len(got) != 3 {
			t.Fatalf("inside triangle with %d planes: got %d vertices, want 3", len(planes), len(got))
		}
		for i := range tri {
			if got[i] != tri[i] {
				t.Errorf("vertex %d changed: got %v, want %v", i, got[i], tri[i])
			}
		}
	}
}

func TestClipOutsideTriangle(t *testing.T) {
	tests := []struct {
		name string
		tri  [3]ClipVertex
	}{
		{"right of frustum", [3]ClipVertex{vtx(2, 0, 0, 1), vtx(3, 0, 0, 1), vtx(2, 1, 0, 1)}},
		{"beyond far plane", [3]ClipVertex{vtx(0, 0, 2, 1), vtx(0.5, 0, 3, 1), vtx(0, 0.5, 2, 1)}},
		{"behind the eye", [3]ClipVertex{vtx(0, 0, -2, -1), vtx(0.1, 0, -2, -1), vtx(0, 0.1, -2, -1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClipTriangle(tt.tri, FrustumPlanes()); len(got) >= 3 {
				t.Errorf("outside triangle kept %d vertices", len(got))
			}
		})
	}
}

func TestClipStraddlingTriangle(t *testing.T) {
	// One vertex past the right plane x = w: the corner is cut off.
	tri := [3]ClipVertex{vtx(0, -0.5, 0, 1), vtx(2, 0, 0, 1), vtx(0, 0.5, 0, 1)}
	got := ClipTriangle(tri, FrustumPlanes())

	if len(got) != 4 {
		t.Fatalf("got %d vertices, want 4", len(got))
	}
	for _, v := range got {
		if v.Position.X > v.Position.W+0.0001 {
			t.Errorf("vertex %v lies outside x <= w", v.Position)
		}
	}
}

func TestClipInterpolatesColor(t *testing.T) {
	a := ClipVertex{Position: math.Vec4{X: -1, W: 1}, Color: color.RGBA{R: 0, A: 255}}
	b := ClipVertex{Position: math.Vec4{X: 1, W: 1}, Color: color.RGBA{R: 200, A: 255}}
	c := ClipVertex{Position: math.Vec4{X: -1, Y: 1, W: 1}, Color: color.RGBA{R: 0, A: 255}}

	// Keep x < 0: the edge a->b is cut halfway.
	got := ClipTriangle([3]ClipVertex{a, b, c}, []Plane{{A: -1}})
	found := false
	for _, v := range got {
		if math32.Abs(v.Position.X) < 0.0001 && math32.Abs(v.Position.Y) < 0.0001 {
			found = true
			if v.Color.R != 100 {
				t.Errorf("midpoint color R = %d, want 100", v.Color.R)
			}
		}
	}
	if !found {
		t.Errorf("no intersection vertex at the edge midpoint in %v", got)
	}
}

func TestClipNearParallelEdgeStaysFinite(t *testing.T) {
	tri := [3]ClipVertex{
		vtx(1e-9, 0, 0, 1),
		vtx(-1e-9, 1, 0, 1),
		vtx(1, 0, 0, 1),
	}
	got := ClipTriangle(tri, []Plane{{A: 1}})

	for _, v := range got {
		p := v.Position
		for _, c := range []float32{p.X, p.Y, p.Z, p.W} {
			if math32.IsNaN(c) || math32.IsInf(c, 0) {
				t.Fatalf("non-finite clipped vertex %v", p)
			}
		}
	}
	if len(got) != 3 {
		t.Errorf("got %d vertices, want 3 (degenerate intersection dropped)", len(got))
	}
}

func TestClipCapacityBoundary(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	coord := func() float32 { return rng.Float32()*8 - 4 }

	var c Clipper
	for i := 0; i < 5000; i++ {
		var tri [3]ClipVertex
		for j := range tri {
			tri[j] = vtx(coord(), coord(), coord(), 0.5+rng.Float32()*2)
		}
		got := c.Clip(tri, FrustumPlanes())
		if len(got) > 3+MaxPlanes {
			t.Fatalf("triangle %v clipped to %d vertices", tri, len(got))
		}
	}
}

func TestTriangulateFan(t *testing.T) {
	for n := 0; n <= 9; n++ {
		got := Triangulate(nil, 10, n)

		want := n - 2
		if want < 0 {
			want = 0
		}
		if len(got) != want {
			t.Errorf("n=%d: got %d triangles, want %d", n, len(got), want)
			continue
		}
		for i, tri := range got {
			if tri != (Triangle{10, 10 + i + 1, 10 + i + 2}) {
				t.Errorf("n=%d triangle %d = %v, want fan anchored at 10", n, i, tri)
			}
		}
	}
}

func TestTriangulateAppends(t *testing.T) {
	dst := []Triangle{{0, 1, 2}}
	dst = Triangulate(dst, 3, 4)
	if len(dst) != 3 || dst[0] != (Triangle{0, 1, 2}) || dst[1] != (Triangle{3, 4, 5}) || dst[2] != (Triangle{3, 5, 6}) {
		t.Errorf("Triangulate appended %v", dst)
	}
}

func TestFrontFacing(t *testing.T) {
	a, b, c := math.Vec2{X: 0, Y: 0}, math.Vec2{X: 1, Y: 0}, math.Vec2{X: 0, Y: 1}
	if !FrontFacing(a, b, c) {
		t.Error("(0,0), (1,0), (0,1) should be front-facing")
	}
	if FrontFacing(a, c, b) {
		t.Error("reversed winding should be back-facing")
	}
	if FrontFacing(a, b, math.Vec2{X: 2, Y: 0}) {
		t.Error("degenerate triangle should not be front-facing")
	}
}

func TestEndToEndSingleTriangle(t *testing.T) {
	for _, planes := range [][]Plane{nil, FrustumPlanes()} {
		buf := newBuffers(
			math.Vec4{X: -0.5, Y: -0.5, Z: 0, W: 1},
			math.Vec4{X: 0.5, Y: -0.5, Z: 0, W: 1},
			math.Vec4{X: 0, Y: 0.5, Z: 0, W: 1},
		)
		m, err := New("tri", buf, 0, 3, white)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		if err := m.Update(ones(3), 100, 100, planes); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if len(m.Triangles()) != 1 {
			t.Fatalf("got %d display triangles, want 1", len(m.Triangles()))
		}

		want := []raster.Vertex{{X: 25, Y: 75}, {X: 75, Y: 75}, {X: 50, Y: 25}}
		tri := m.Triangles()[0]
		for i, idx := range tri {
			got := m.DisplayVertices()[idx]
			if abs32(got.X-want[i].X) > 1 || abs32(got.Y-want[i].Y) > 1 {
				t.Errorf("vertex %d = (%d, %d), want near (%d, %d)", i, got.X, got.Y, want[i].X, want[i].Y)
			}
		}

		r := &recorder{width: 100, height: 100}
		m.Draw(r)
		if r.clears != 1 {
			t.Errorf("Draw cleared %d times, want 1", r.clears)
		}
		if len(r.fills) != 1 {
			t.Fatalf("got %d fill calls, want 1", len(r.fills))
		}
		if len(r.colors) != 1 || r.colors[0] != white {
			t.Errorf("fill colors = %v, want [%v]", r.colors, white)
		}
		if s := m.Stats(); s.Source != 1 || s.Display != 1 || s.Drawn != 1 || s.Culled != 0 {
			t.Errorf("stats = %+v", s)
		}
	}
}

func TestBackFacingTriangleIsCulled(t *testing.T) {
	buf := newBuffers(
		math.Vec4{X: -0.5, Y: -0.5, W: 1},
		math.Vec4{X: 0, Y: 0.5, W: 1},
		math.Vec4{X: 0.5, Y: -0.5, W: 1},
	)
	m, err := New("back", buf, 0, 3, white)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Update(ones(3), 100, 100, FrustumPlanes()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	r := &recorder{width: 100, height: 100}
	m.DrawTriangles(r)
	if len(r.fills) != 0 {
		t.Errorf("back-facing triangle was filled %d times", len(r.fills))
	}
	if m.Stats().Culled != 1 {
		t.Errorf("Culled = %d, want 1", m.Stats().Culled)
	}
	if r.clears != 0 {
		t.Error("DrawTriangles must not clear the target")
	}
}

func TestUpdateAppliesLightIntensities(t *testing.T) {
	base := color.RGBA{R: 200, G: 100, B: 40, A: 255}
	buf := newBuffers(
		// An unrelated mesh owns the first triangle of the shared buffer.
		math.Vec4{W: 1}, math.Vec4{W: 1}, math.Vec4{W: 1},
		math.Vec4{X: -0.5, Y: -0.5, W: 1},
		math.Vec4{X: 0.5, Y: -0.5, W: 1},
		math.Vec4{X: 0, Y: 0.5, W: 1},
	)
	m, err := New("lit", buf, 3, 3, base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	intensities := []float32{0, 0, 0, 0.5, 1, 0.25}
	if err := m.Update(intensities, 100, 100, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := []color.RGBA{
		{R: 100, G: 50, B: 20, A: 255},
		base,
		{R: 50, G: 25, B: 10, A: 255},
	}
	for i, c := range m.Colors() {
		if c != want[i] {
			t.Errorf("color %d = %v, want %v", i, c, want[i])
		}
	}

	// Flat shading takes the first vertex color.
	r := &recorder{width: 100, height: 100}
	m.DrawTriangles(r)
	if len(r.colors) != 1 || r.colors[0] != want[0] {
		t.Errorf("fill color = %v, want %v", r.colors, want[0])
	}
}

func TestUpdateRejectsBadInput(t *testing.T) {
	buf := newBuffers(math.Vec4{W: 1}, math.Vec4{X: 1, W: 1}, math.Vec4{Y: 1, W: 1})
	m, err := New("m", buf, 0, 3, white)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tooMany := append(FrustumPlanes(), Plane{A: 1, D: 1})
	if err := m.Update(ones(3), 10, 10, tooMany); !errors.Is(err, ErrTooManyPlanes) {
		t.Errorf("7 planes: error = %v, want ErrTooManyPlanes", err)
	}
	if err := m.Update(ones(2), 10, 10, nil); !errors.Is(err, ErrBufferMismatch) {
		t.Errorf("short intensities: error = %v, want ErrBufferMismatch", err)
	}
	if err := m.Update(ones(3), 0, 10, nil); !errors.Is(err, ErrViewport) {
		t.Errorf("zero width: error = %v, want ErrViewport", err)
	}
}

func TestUpdateRebuildsEveryFrame(t *testing.T) {
	buf := newBuffers(
		math.Vec4{X: 0, Y: -0.5, W: 1},
		math.Vec4{X: 2, Y: 0, W: 1},
		math.Vec4{X: 0, Y: 0.5, W: 1},
	)
	m, err := New("straddle", buf, 0, 3, white)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for frame := 0; frame < 3; frame++ {
		if err := m.Update(ones(3), 100, 100, FrustumPlanes()); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if len(m.Triangles()) != 2 {
			t.Fatalf("frame %d: got %d triangles, want 2", frame, len(m.Triangles()))
		}
		if len(m.DisplayVertices()) != len(m.ClippedVertices()) {
			t.Fatalf("frame %d: %d display vertices for %d clipped", frame, len(m.DisplayVertices()), len(m.ClippedVertices()))
		}
		for _, v := range m.DisplayVertices() {
			if v.X < 0 || v.X > 100 || v.Y < 0 || v.Y > 100 {
				t.Errorf("frame %d: display vertex %v outside the viewport", frame, v)
			}
		}
	}

	// Moving the geometry away clears the previous frame's output.
	for i := range buf.Transformed {
		buf.Transformed[i].X += 10
	}
	if err := m.Update(ones(3), 100, 100, FrustumPlanes()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(m.Triangles()) != 0 || m.Stats().Clipped != 1 {
		t.Errorf("off-screen frame: %d triangles, stats %+v", len(m.Triangles()), m.Stats())
	}
}

func TestUpdateDropsGeometryBehindEyeWithoutNearPlane(t *testing.T) {
	buf := newBuffers(
		math.Vec4{X: -0.5, Y: -0.5, W: -1},
		math.Vec4{X: 0.5, Y: -0.5, W: -1},
		math.Vec4{X: 0, Y: 0.5, W: -1},
	)
	m, err := New("behind", buf, 0, 3, white)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Update(ones(3), 100, 100, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(m.Triangles()) != 0 {
		t.Errorf("triangle with w < 0 produced %d display triangles", len(m.Triangles()))
	}
}

func TestDepthIsScaled(t *testing.T) {
	buf := newBuffers(
		math.Vec4{X: -0.5, Y: -0.5, Z: 0.5, W: 1},
		math.Vec4{X: 0.5, Y: -0.5, Z: 0.5, W: 1},
		math.Vec4{X: 0, Y: 0.5, Z: 0.5, W: 1},
	)
	m, err := New("depth", buf, 0, 3, white)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Update(ones(3), 100, 100, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
	for _, v := range m.DisplayVertices() {
		if v.Z != DepthScale/2 {
			t.Errorf("display depth = %d, want %d", v.Z, DepthScale/2)
		}
	}
}
