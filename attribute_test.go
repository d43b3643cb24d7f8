package particleui

import (
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestReaderPresentColumn(t *testing.T) {
	b := NewParticleBuffer(2)
	SetColumn(b, "Position", []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}})

	r := NewReader[mgl32.Vec3](b, "Position")
	assert.True(t, r.Valid())
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, r.Get(1, defaultVec3))
}

func TestReaderMissingColumnReturnsDefault(t *testing.T) {
	b := NewParticleBuffer(3)
	r := NewReader[Color](b, "Color")
	assert.False(t, r.Valid())
	for i := 0; i < 3; i++ {
		assert.Equal(t, ColorWhite, r.Get(i, defaultColor))
	}
}

func TestReaderTypeMismatchIsAbsent(t *testing.T) {
	b := NewParticleBuffer(1)
	SetColumn(b, "SpriteSize", []float32{4})

	r := NewReader[mgl32.Vec2](b, "SpriteSize")
	assert.False(t, r.Valid())
	assert.Equal(t, mgl32.Vec2{}, r.Get(0, defaultVec2))
	assert.True(t, b.Has("SpriteSize"))
}

func TestReaderShortColumn(t *testing.T) {
	b := NewParticleBuffer(4)
	SetColumn(b, "SpriteRotation", []float32{10, 20})

	r := NewReader[float32](b, "SpriteRotation")
	assert.Equal(t, float32(20), r.Get(1, 0))
	assert.Equal(t, float32(-1), r.Get(2, -1))
	assert.Equal(t, float32(-1), r.Get(-1, -1))
}

func TestReadOneOff(t *testing.T) {
	b := NewParticleBuffer(1)
	SetColumn(b, "RibbonID", []RibbonID{42})
	assert.Equal(t, RibbonID(42), Read[RibbonID](b, "RibbonID", 0, 0))
	assert.Equal(t, defaultQuat, Read(b, "MeshOrientation", 0, defaultQuat))
}

func TestReaderNilBufferAndEmptyName(t *testing.T) {
	assert.False(t, NewReader[float32](nil, "x").Valid())
	b := NewParticleBuffer(1)
	SetColumn(b, "", []float32{1})
	assert.False(t, NewReader[float32](b, "").Valid())
}

func TestParticleBufferLen(t *testing.T) {
	var nilBuf *ParticleBuffer
	assert.Equal(t, 0, nilBuf.Len())
	assert.False(t, nilBuf.Valid())

	assert.Equal(t, 0, NewParticleBuffer(-5).Len())

	b := NewParticleBuffer(7)
	assert.Equal(t, 7, b.Len())
	b.Invalidate()
	assert.False(t, b.Valid())
	assert.Equal(t, 0, b.Len())
}

func TestParticleBufferZeroValueSetColumn(t *testing.T) {
	var b ParticleBuffer
	SetColumn(&b, "Color", []Color{ColorWhite})
	assert.True(t, b.Has("Color"))
}

func TestParticleBufferColumns(t *testing.T) {
	b := NewParticleBuffer(1)
	SetColumn(b, "B", []float32{1})
	SetColumn(b, "A", []mgl32.Vec2{{}})
	names := b.Columns()
	sort.Strings(names)
	assert.Equal(t, []string{"A", "B"}, names)
}
