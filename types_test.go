package particleui

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

func TestColorToRGBA8Linear(t *testing.T) {
	assert.Equal(t, RGBA8{255, 0, 0, 255}, Color{1, 0, 0, 1}.ToRGBA8(false))
	assert.Equal(t, RGBA8{127, 127, 127, 127}, Color{0.5, 0.5, 0.5, 0.5}.ToRGBA8(false))
}

func TestColorToRGBA8Clamps(t *testing.T) {
	assert.Equal(t, RGBA8{255, 0, 255, 0}, Color{4, -1, 1.5, -0.2}.ToRGBA8(false))
}

func TestColorToRGBA8SRGB(t *testing.T) {
	c := Color{0.5, 0, 1, 0.5}.ToRGBA8(true)
	assert.Equal(t, uint8(188), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(255), c.B)
	// Alpha is never gamma encoded.
	assert.Equal(t, uint8(127), c.A)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(30, 30))
	assert.False(t, r.Contains(31, 20))
}

func TestVec2Ops(t *testing.T) {
	v := Vec2{3, 4}
	assert.Equal(t, Vec2{4, 6}, v.Add(Vec2{1, 2}))
	assert.Equal(t, Vec2{2, 2}, v.Sub(Vec2{1, 2}))
	assert.Equal(t, Vec2{6, 8}, v.Scale(2))
	assert.InDelta(t, 5, v.Len(), 1e-12)
}

func TestBlendModeEbitenBlend(t *testing.T) {
	assert.Equal(t, ebiten.BlendSourceOver, BlendNormal.EbitenBlend())
	assert.Equal(t, ebiten.BlendLighter, BlendAdd.EbitenBlend())
	assert.Equal(t, ebiten.BlendCopy, BlendNone.EbitenBlend())
	assert.Equal(t, ebiten.BlendSourceOver, BlendMode(99).EbitenBlend())
}
