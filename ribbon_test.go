package particleui

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

// lineBuffer places n particles along +X, spacing apart, all of width w.
func lineBuffer(n int, spacing, w float32) *ParticleBuffer {
	b := NewParticleBuffer(n)
	positions := make([]mgl32.Vec3, n)
	widths := make([]float32, n)
	for i := range positions {
		positions[i] = mgl32.Vec3{float32(i) * spacing, 0, 0}
		widths[i] = w
	}
	SetColumn(b, "Position", positions)
	SetColumn(b, "RibbonWidth", widths)
	return b
}

func TestRibbonStraightLine(t *testing.T) {
	list := NewBatchList(nil)
	AddRibbonBatches(list, lineBuffer(5, 10, 2), &RibbonRenderer{}, worldContext())

	require.Equal(t, 1, list.Len())
	b := list.At(0)
	assert.False(t, b.Instanced())
	require.Len(t, b.Vertices, 8)
	require.Len(t, b.Indices, 18)
	assert.Equal(t, 6, b.Triangles())

	for i := 0; i < len(b.Vertices); i += 2 {
		l, r := b.Vertices[i], b.Vertices[i+1]
		d := math.Hypot(float64(l.DstX-r.DstX), float64(l.DstY-r.DstY))
		assert.InDelta(t, 2, d, 1e-4, "pair %d", i/2)
		assert.InDelta(t, float32(i/2)*10, l.DstX, 1e-4)
		assert.Equal(t, float32(1), l.SrcY)
		assert.Equal(t, float32(0), r.SrcY)
	}
	for _, idx := range b.Indices {
		assert.Less(t, idx, uint32(8))
	}
	assert.Equal(t, []uint32{0, 1, 2, 1, 2, 3}, b.Indices[:6])
}

func TestRibbonTooFewParticles(t *testing.T) {
	list := NewBatchList(nil)
	AddRibbonBatches(list, lineBuffer(2, 10, 2), &RibbonRenderer{}, worldContext())
	assert.Equal(t, 0, list.Len())

	AddRibbonBatches(list, lineBuffer(0, 10, 2), &RibbonRenderer{}, worldContext())
	assert.Equal(t, 0, list.Len())

	data := lineBuffer(4, 10, 2)
	data.Invalidate()
	AddRibbonBatches(list, data, &RibbonRenderer{}, worldContext())
	assert.Equal(t, 0, list.Len())
}

func TestRibbonLinkOrderIsStable(t *testing.T) {
	data := lineBuffer(4, 10, 2)
	SetColumn(data, "RibbonLinkOrder", []float32{1, 0, 1, 0})

	list := NewBatchList(nil)
	AddRibbonBatches(list, data, &RibbonRenderer{}, worldContext())

	require.Equal(t, 1, list.Len())
	v := list.At(0).Vertices
	require.Len(t, v, 6)
	assert.InDelta(t, 10, v[0].DstX, 1e-4)
	assert.InDelta(t, 30, v[2].DstX, 1e-4)
	assert.InDelta(t, 0, v[4].DstX, 1e-4)
}

func TestRibbonMultipleIDs(t *testing.T) {
	data := NewParticleBuffer(6)
	ids := []RibbonID{5, 2, 5, 2, 5, 2}
	positions := make([]mgl32.Vec3, len(ids))
	for i, id := range ids {
		x := float32(i) * 10
		if id == 2 {
			x += 1000
		}
		positions[i] = mgl32.Vec3{x, 0, 0}
	}
	SetColumn(data, "Position", positions)
	SetColumn(data, "RibbonID", ids)
	SetColumn(data, "RibbonWidth", []float32{2, 2, 2, 2, 2, 2})

	list := NewBatchList(nil)
	AddRibbonBatches(list, data, &RibbonRenderer{}, worldContext())

	require.Equal(t, 2, list.Len())
	assert.InDelta(t, 1010, list.At(0).Vertices[0].DstX, 1e-3)
	assert.InDelta(t, 0, list.At(1).Vertices[0].DstX, 1e-4)
	for _, b := range list.Batches() {
		assert.Len(t, b.Vertices, 4)
		assert.Len(t, b.Indices, 6)
	}
}

func TestRibbonScratchForgetsVanishedIDs(t *testing.T) {
	var s ribbonScratch
	list := NewBatchList(nil)

	data := lineBuffer(3, 10, 2)
	SetColumn(data, "RibbonID", []RibbonID{7, 7, 7})
	s.addBatches(list, data, &RibbonRenderer{}, worldContext())
	assert.Len(t, s.groups, 1)

	list.Clear()
	SetColumn(data, "RibbonID", []RibbonID{9, 9, 9})
	s.addBatches(list, data, &RibbonRenderer{}, worldContext())
	assert.Equal(t, 1, list.Len())
	assert.Len(t, s.groups, 1)
	assert.Contains(t, s.groups, RibbonID(9))
}

func TestRibbonSmallIDGroupSkipped(t *testing.T) {
	data := lineBuffer(5, 10, 2)
	SetColumn(data, "RibbonID", []RibbonID{1, 1, 1, 2, 2})

	list := NewBatchList(nil)
	AddRibbonBatches(list, data, &RibbonRenderer{}, worldContext())
	assert.Equal(t, 1, list.Len())
}

func TestRibbonUVModes(t *testing.T) {
	data := lineBuffer(3, 10, 2)

	tiled := &RibbonRenderer{
		UV0: RibbonUVSettings{Mode: RibbonUVTiledOverLength, TilingLength: 10},
		UV1: RibbonUVSettings{Mode: RibbonUVScaledUniformly},
	}
	list := NewBatchList(nil)
	AddRibbonBatches(list, data, tiled, worldContext())

	v := list.At(0).Vertices
	assert.Equal(t, float32(0), v[0].SrcX)
	assert.InDelta(t, 1, v[2].SrcX, 1e-6)
	assert.InDelta(t, 1, v[3].SrcX, 1e-6)
	assert.InDelta(t, 1.0/3, v[2].Custom0, 1e-6)
	assert.Equal(t, float32(1), v[2].Custom1)
	assert.Equal(t, float32(0), v[3].Custom1)
}

func TestRibbonColorIsSRGB(t *testing.T) {
	data := lineBuffer(3, 10, 2)
	SetColumn(data, "Color", []Color{{0.5, 0.5, 0.5, 1}, {0.5, 0.5, 0.5, 1}, {0.5, 0.5, 0.5, 1}})

	list := NewBatchList(nil)
	AddRibbonBatches(list, data, &RibbonRenderer{}, worldContext())

	v := list.At(0).Vertices[0]
	assert.InDelta(t, 188.0/255, v.ColorR, 1e-6)
	assert.Equal(t, float32(1), v.ColorA)
}

func TestRibbonWidthFollowsLayoutScale(t *testing.T) {
	g := NewGeometry(0, 0)
	g.LayoutScale = 3
	list := NewBatchList(nil)
	AddRibbonBatches(list, lineBuffer(3, 10, 2), &RibbonRenderer{}, NewLayoutContext(g, WidgetProperties{}, false))

	l, r := list.At(0).Vertices[0], list.At(0).Vertices[1]
	assert.InDelta(t, 6, math.Abs(float64(l.DstY-r.DstY)), 1e-4)
}

func TestSafeUnit(t *testing.T) {
	assert.Equal(t, r2.Vec{}, safeUnit(r2.Vec{}))
	assert.Equal(t, r2.Vec{}, safeUnit(r2.Vec{X: 1e-9}))
	u := safeUnit(r2.Vec{X: 3, Y: 4})
	assert.InDelta(t, 0.6, u.X, 1e-12)
	assert.InDelta(t, 0.8, u.Y, 1e-12)
	assert.Equal(t, r2.Vec{X: 0, Y: 1}, rot90(r2.Vec{X: 1, Y: 0}))
}
