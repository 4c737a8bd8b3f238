// Package framebuffer provides a software render target with a depth buffer.
package framebuffer

import (
	"image"
	"image/color"
	"math"

	"github.com/Faultbox/geostage/internal/engine/raster"
)

// DefaultClearColor is the background of a new framebuffer.
var DefaultClearColor = color.RGBA{R: 16, G: 16, B: 24, A: 255}

// Framebuffer is an RGBA color buffer paired with an int32 depth buffer.
// Smaller depth values are closer to the viewer.
type Framebuffer struct {
	img   *image.RGBA
	depth []int32

	clearColor color.RGBA
	color      color.RGBA

	width  int
	height int

	filled int // pixels written since the last Clear
}

var _ raster.Rasterizer = (*Framebuffer)(nil)

// New creates a framebuffer with the specified dimensions.
func New(width, height int) *Framebuffer {
	fb := &Framebuffer{clearColor: DefaultClearColor}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates the buffers if the dimensions have changed.
// The contents are cleared.
func (fb *Framebuffer) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if fb.img != nil && width == fb.width && height == fb.height {
		return
	}

	fb.width = width
	fb.height = height
	fb.img = image.NewRGBA(image.Rect(0, 0, width, height))
	fb.depth = make([]int32, width*height)
	fb.Clear()
}

// Dimensions returns the framebuffer size in pixels.
func (fb *Framebuffer) Dimensions() (int, int) {
	return fb.width, fb.height
}

// SetClearColor sets the color Clear fills with.
func (fb *Framebuffer) SetClearColor(c color.RGBA) {
	fb.clearColor = c
}

// Clear fills the color buffer with the clear color and resets depth.
func (fb *Framebuffer) Clear() {
	pix := fb.img.Pix
	if len(pix) > 0 {
		pix[0], pix[1], pix[2], pix[3] = fb.clearColor.R, fb.clearColor.G, fb.clearColor.B, fb.clearColor.A
		// Copy-doubling
		for i := 4; i < len(pix); i *= 2 {
			copy(pix[i:], pix[:i])
		}
	}

	if len(fb.depth) > 0 {
		fb.depth[0] = math.MaxInt32
		for i := 1; i < len(fb.depth); i *= 2 {
			copy(fb.depth[i:], fb.depth[:i])
		}
	}
	fb.filled = 0
}

// SetColor sets the fill color for subsequent polygons.
func (fb *Framebuffer) SetColor(c color.RGBA) {
	fb.color = c
}

// FillConvexPolygonDepth fills the convex polygon vertices[indices[0]],
// vertices[indices[1]], ... with the current color. Pixels are written only
// where the interpolated depth is closer than the stored one. Either winding
// is accepted.
func (fb *Framebuffer) FillConvexPolygonDepth(vertices []raster.Vertex, indices []int) {
	if len(indices) < 3 {
		return
	}
	a := vertices[indices[0]]
	for i := 1; i+1 < len(indices); i++ {
		fb.fillTriangle(a, vertices[indices[i]], vertices[indices[i+1]])
	}
}

func (fb *Framebuffer) fillTriangle(v0, v1, v2 raster.Vertex) {
	x0, y0 := float64(v0.X), float64(v0.Y)
	x1, y1 := float64(v1.X), float64(v1.Y)
	x2, y2 := float64(v2.X), float64(v2.Y)

	area := (x1-x0)*(y2-y0) - (y1-y0)*(x2-x0)
	if area == 0 {
		return
	}

	minX := max(0, int(min(x0, x1, x2)))
	maxX := min(fb.width-1, int(max(x0, x1, x2)))
	minY := max(0, int(min(y0, y1, y2)))
	maxY := min(fb.height-1, int(max(y0, y1, y2)))
	if minX > maxX || minY > maxY {
		return
	}

	z0, z1, z2 := float64(v0.Z), float64(v1.Z), float64(v2.Z)
	inv := 1 / area

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		row := y * fb.width
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			// Barycentric weights, normalised by the signed area so the
			// inside test works for both windings.
			w0 := ((x1-px)*(y2-py) - (y1-py)*(x2-px)) * inv
			w1 := ((x2-px)*(y0-py) - (y2-py)*(x0-px)) * inv
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := int32(math.Round(w0*z0 + w1*z1 + w2*z2))
			if z >= fb.depth[row+x] {
				continue
			}
			fb.depth[row+x] = z
			fb.img.SetRGBA(x, y, fb.color)
			fb.filled++
		}
	}
}

// Image returns the color buffer. It is reused across frames.
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.img
}

// At returns the color at (x, y).
func (fb *Framebuffer) At(x, y int) color.RGBA {
	return fb.img.RGBAAt(x, y)
}

// Depth returns the stored depth at (x, y), or math.MaxInt32 outside the buffer.
func (fb *Framebuffer) Depth(x, y int) int32 {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return math.MaxInt32
	}
	return fb.depth[y*fb.width+x]
}

// Filled returns the number of pixel writes since the last Clear.
func (fb *Framebuffer) Filled() int {
	return fb.filled
}
