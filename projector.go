package particleui

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// defaultFakeDepthDistance is the reference distance used when fake depth
// scaling is enabled without an explicit distance.
const defaultFakeDepthDistance = 1000

// LayoutContext is the per-emitter projection input for one paint call.
// Generators never mutate it.
type LayoutContext struct {
	// Scale is the accumulated layout scale of the destination surface.
	Scale float64
	// Surface is the destination surface's accumulated transform embedded in
	// simulation space.
	Surface SurfaceTransform
	// LocalSpace reports whether particle positions are relative to the
	// emitter's owning component.
	LocalSpace bool
	// FakeDepthScale enables pseudo-perspective sizing from particle depth.
	FakeDepthScale bool
	// FakeDepthDistance is the depth at which a particle renders at its
	// authored size. Smaller values make the effect stronger.
	FakeDepthDistance float64
}

// NewLayoutContext builds the context for one emitter from the surface
// geometry and widget properties.
func NewLayoutContext(g Geometry, props WidgetProperties, localSpace bool) LayoutContext {
	return LayoutContext{
		Scale:             g.scale(),
		Surface:           NewSurfaceTransform(g),
		LocalSpace:        localSpace,
		FakeDepthScale:    props.FakeDepthScale,
		FakeDepthDistance: props.FakeDepthScaleDistance,
	}
}

// projector maps simulation-space vectors into absolute layout space.
type projector struct {
	local     bool
	scale     float32
	loc       mgl32.Vec3
	abs       mgl32.Vec3
	rot       mgl32.Quat
	fakeDepth bool
	fakeDist  float32
}

func newProjector(ctx LayoutContext) projector {
	scale := float32(ctx.Scale)
	if scale == 0 {
		scale = 1
	}
	rot := ctx.Surface.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	dist := float32(ctx.FakeDepthDistance)
	if dist == 0 {
		dist = defaultFakeDepthDistance
	}
	return projector{
		local:     ctx.LocalSpace,
		scale:     scale,
		loc:       ctx.Surface.Location,
		abs:       ctx.Surface.Location.Mul(scale),
		rot:       rot,
		fakeDepth: ctx.FakeDepthScale,
		fakeDist:  dist,
	}
}

// position2D projects a simulation-space position onto the surface. Local
// space positions are rotated by the surface; world space positions are made
// relative to the surface location. Depth (Y) is dropped and Z is flipped to
// screen-down.
func (p projector) position2D(pos mgl32.Vec3) Vec2 {
	var rel mgl32.Vec3
	if p.local {
		rel = p.rot.Rotate(pos)
	} else {
		rel = pos.Sub(p.loc)
	}
	rel = rel.Mul(p.scale)
	return Vec2{
		X: float64(p.abs.X() + rel.X()),
		Y: float64(-p.abs.Z() - rel.Z()),
	}
}

// depth returns the axis dropped by position2D.
func (p projector) depth(pos mgl32.Vec3) float32 {
	return pos.Y()
}

// velocity3D returns v in surface space.
func (p projector) velocity3D(v mgl32.Vec3) mgl32.Vec3 {
	if p.local {
		return p.rot.Rotate(v)
	}
	return v
}

// velocity2D returns the in-plane (X, Z) components of v in surface space.
func (p projector) velocity2D(v mgl32.Vec3) mgl32.Vec2 {
	sv := p.velocity3D(v)
	return mgl32.Vec2{sv.X(), sv.Z()}
}

// depthScale returns the fake-depth size multiplier for a particle at pos,
// or 1 when fake depth scaling is off.
func (p projector) depthScale(pos mgl32.Vec3) float32 {
	if !p.fakeDepth {
		return 1
	}
	return (-p.depth(pos) + p.fakeDist) / p.fakeDist
}

// degrees converts radians to degrees in float32.
func degrees(rad float64) float32 {
	return float32(rad * 180 / math.Pi)
}
