package particleui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents a linear RGBA color with components nominally in [0, 1].
// Not premultiplied. Values outside [0, 1] are clamped on quantisation.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default particle color when no color attribute is bound.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA8 is an 8-bit per channel color as stored in vertex and instance data.
type RGBA8 struct {
	R, G, B, A uint8
}

// RGBA8White is opaque white.
var RGBA8White = RGBA8{255, 255, 255, 255}

// ToRGBA8 quantises c to 8 bits per channel. When srgb is true the color
// channels are gamma encoded first; alpha is always stored linearly.
func (c Color) ToRGBA8(srgb bool) RGBA8 {
	r := clamp(c.R, 0, 1)
	g := clamp(c.G, 0, 1)
	b := clamp(c.B, 0, 1)
	a := clamp(c.A, 0, 1)
	if srgb {
		r = linearToSRGB(r)
		g = linearToSRGB(g)
		b = linearToSRGB(b)
	}
	return RGBA8{
		R: uint8(math.Floor(r * 255.999)),
		G: uint8(math.Floor(g * 255.999)),
		B: uint8(math.Floor(b * 255.999)),
		A: uint8(math.Floor(a * 255.999)),
	}
}

func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return math.Pow(v, 1.0/2.4)*1.055 - 0.055
}

// floats returns the color as normalised float32 channels, the layout used by
// ebiten.Vertex.
func (c RGBA8) floats() (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

// Vec2 is a 2D vector used for layout-space positions, sizes, and UVs.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// RibbonID identifies the ribbon a particle belongs to when an emitter draws
// several ribbons at once.
type RibbonID uint64

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendNone                      // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// Material is the render resource a batch is drawn with. Identity is the
// pointer: two batches share a brush only if they reference the same Material.
type Material struct {
	Name string
	// Image is the source texture. Nil draws with a 1x1 white pixel.
	Image *ebiten.Image
	Blend BlendMode
}
