package particleui

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// quadHalfExtent is the half size of the shared sprite quad. The packed
	// instance scale rescales it per particle.
	quadHalfExtent = 10
	// spriteSizeToScale converts a sprite size attribute into instance scale
	// for a quad of quadHalfExtent.
	spriteSizeToScale = 0.05
	// cullMargin is the size multiple a sprite may extend past the surface
	// origin before it is culled.
	cullMargin = 15
)

// unitQuad is the shared sprite geometry: corners, UVs and white color.
var unitQuad = [4]ebiten.Vertex{
	{DstX: -quadHalfExtent, DstY: -quadHalfExtent, SrcX: 0, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	{DstX: quadHalfExtent, DstY: -quadHalfExtent, SrcX: 1, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	{DstX: quadHalfExtent, DstY: quadHalfExtent, SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	{DstX: -quadHalfExtent, DstY: quadHalfExtent, SrcX: 0, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
}

var unitQuadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// AddSpriteBatch appends one instanced quad batch for the particles in data.
// Nothing is appended for an empty or invalid buffer, or when every particle
// is culled.
func AddSpriteBatch(list *BatchList, data *ParticleBuffer, r *SpriteRenderer, ctx LayoutContext) {
	n := data.Len()
	if n == 0 {
		return
	}

	b := list.add(r.Material, len(unitQuad), len(unitQuadIndices), true)
	copy(b.Vertices, unitQuad[:])
	copy(b.Indices, unitQuadIndices[:])
	if cap(b.Instances) < n {
		b.Instances = make([]InstanceRecord, 0, n)
	}

	bind := r.Bindings
	positions := NewReader[mgl32.Vec3](data, bindOr(bind.Position, "Position"))
	colors := NewReader[Color](data, bindOr(bind.Color, "Color"))
	velocities := NewReader[mgl32.Vec3](data, bindOr(bind.Velocity, "Velocity"))
	sizes := NewReader[mgl32.Vec2](data, bindOr(bind.Size, "SpriteSize"))
	rotations := NewReader[float32](data, bindOr(bind.Rotation, "SpriteRotation"))
	subImages := NewReader[float32](data, bindOr(bind.SubImageIndex, "SubImageIndex"))

	proj := newProjector(ctx)
	layoutScale := proj.scale
	cols, rows := gridDims(r.SubImageColumns, r.SubImageRows)
	flipbook := cols*rows > 1

	for i := 0; i < n; i++ {
		pos3 := positions.Get(i, defaultVec3)
		pos := proj.position2D(pos3)
		size := sizes.Get(i, defaultVec2)

		if r.CullOffscreen &&
			(pos.X+float64(size.X())*cullMargin < 0 || pos.Y+float64(size.Y())*cullMargin < 0) {
			continue
		}

		var rot float32
		if r.Alignment == SpriteVelocityAligned {
			v := proj.velocity2D(velocities.Get(i, defaultVec3))
			rot = degrees(math.Atan2(float64(v.X()), float64(v.Y())))
		} else {
			rot = rotations.Get(i, 0)
		}

		var sub float32
		if flipbook {
			sub = subImages.Get(i, 0)
		}

		s := spriteSizeToScale * layoutScale * proj.depthScale(pos3)
		b.Instances = append(b.Instances, PackInstance(InstanceParams{
			Position:        pos,
			Rotation:        rot,
			Color:           colors.Get(i, defaultColor).ToRGBA8(false),
			Scale:           Vec2{float64(size.X() * s), float64(size.Y() * s)},
			SubImage:        sub,
			SubImageColumns: cols,
			SubImageRows:    rows,
		}))
	}

	if len(b.Instances) == 0 {
		list.dropLast()
	}
}

// gridDims returns the flipbook grid to pack. Dimensions below 1 are 1, so
// the default grid packs as a single 1x1 cell.
func gridDims(cols, rows int) (int, int) {
	return max(cols, 1), max(rows, 1)
}
