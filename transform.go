package particleui

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Affine builds an affine matrix from translation, rotation (radians) and
// non-uniform scale, applied in scale -> rotate -> translate order.
func Affine(tx, ty, rotation, sx, sy float64) [6]float64 {
	sin, cos := math.Sincos(rotation)
	return [6]float64{cos * sx, sin * sx, -sin * sy, cos * sy, tx, ty}
}

// Geometry describes the destination surface for one paint pass: the
// accumulated layout scale of its parent stack, the accumulated render
// transform (local surface pixels to absolute pixels) and its local size.
type Geometry struct {
	LayoutScale     float64
	RenderTransform [6]float64
	Size            Vec2
}

// NewGeometry returns a geometry with unit scale, identity render transform
// and the given size.
func NewGeometry(w, h float64) Geometry {
	return Geometry{LayoutScale: 1, RenderTransform: identityTransform, Size: Vec2{w, h}}
}

// Compose returns g nested inside a parent with the given layout scale and
// render transform.
func (g Geometry) Compose(parentScale float64, parent [6]float64) Geometry {
	return Geometry{
		LayoutScale:     g.LayoutScale * parentScale,
		RenderTransform: multiplyAffine(parent, g.RenderTransform),
		Size:            g.Size,
	}
}

// Rotated returns g with its render transform rotated by rotation radians
// about the surface center.
func (g Geometry) Rotated(rotation float64) Geometry {
	cx, cy := g.Size.X/2, g.Size.Y/2
	about := multiplyAffine(Affine(cx, cy, rotation, 1, 1), Affine(-cx, -cy, 0, 1, 1))
	g.RenderTransform = multiplyAffine(g.RenderTransform, about)
	return g
}

// scale returns the layout scale, treating a zero value as 1.
func (g Geometry) scale() float64 {
	if g.LayoutScale == 0 {
		return 1
	}
	return g.LayoutScale
}

// AbsoluteCenter returns the surface center in absolute pixels.
func (g Geometry) AbsoluteCenter() Vec2 {
	x, y := transformPoint(g.RenderTransform, g.Size.X/2, g.Size.Y/2)
	return Vec2{x, y}
}

// AbsoluteToLocal converts an absolute pixel position to surface-local pixels.
func (g Geometry) AbsoluteToLocal(p Vec2) Vec2 {
	x, y := transformPoint(invertAffine(g.RenderTransform), p.X, p.Y)
	return Vec2{x, y}
}

// SurfaceTransform is the destination surface expressed as a transform in
// simulation space. The 2D surface lies in the XZ plane, with Y as depth and
// screen-down mapped to -Z.
type SurfaceTransform struct {
	Location mgl32.Vec3
	Rotation mgl32.Quat
}

// identitySurface places the surface at the simulation origin.
var identitySurface = SurfaceTransform{Rotation: mgl32.QuatIdent()}

// NewSurfaceTransform embeds g's render transform as a 3D transform. The
// location is the surface center in layout units; the rotation is the render
// transform's rotation about the depth axis. Scale is carried separately by
// the layout scale.
func NewSurfaceTransform(g Geometry) SurfaceTransform {
	center := g.AbsoluteCenter().Scale(1 / g.scale())
	m := g.RenderTransform
	angle := math.Atan2(m[1], m[0])
	return SurfaceTransform{
		Location: mgl32.Vec3{float32(center.X), 0, float32(-center.Y)},
		Rotation: mgl32.QuatRotate(float32(angle), mgl32.Vec3{0, 1, 0}),
	}
}

// RotationDegrees returns the surface rotation in degrees.
func (s SurfaceTransform) RotationDegrees() float64 {
	r := s.Rotation.Normalize()
	angle := 2 * math.Acos(float64(clamp(r.W, -1, 1)))
	if r.V[1] < 0 {
		angle = -angle
	}
	return angle * 180 / math.Pi
}
