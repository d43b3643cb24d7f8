package particleui

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spriteEmitter(name string, hint int) *Emitter {
	return &Emitter{
		Name: name,
		Data: spriteBuffer([]mgl32.Vec3{{}, {10, 0, -10}}, 20),
		Renderers: []Renderer{&SpriteRenderer{
			RendererProps: RendererProps{SortOrderHint: hint},
		}},
	}
}

func ribbonEmitter(name string, hint int) *Emitter {
	return &Emitter{
		Name: name,
		Data: lineBuffer(4, 10, 2),
		Renderers: []Renderer{&RibbonRenderer{
			RendererProps: RendererProps{SortOrderHint: hint},
		}},
	}
}

func TestWidgetSortsByHint(t *testing.T) {
	sys := &System{Emitters: []*Emitter{
		spriteEmitter("sprites", 5),
		ribbonEmitter("trail", 1),
	}}
	w := NewWidget(sys, DefaultWidgetProperties(), nil)

	list := w.Paint(NewGeometry(0, 0))

	require.Equal(t, 2, list.Len())
	assert.False(t, list.At(0).Instanced())
	assert.True(t, list.At(1).Instanced())
}

func TestWidgetEqualHintsKeepDeclarationOrder(t *testing.T) {
	a := spriteEmitter("a", 0)
	b := ribbonEmitter("b", 0)
	c := spriteEmitter("c", 0)
	c.Data = spriteBuffer([]mgl32.Vec3{{}}, 20)
	w := NewWidget(&System{Emitters: []*Emitter{a, b, c}}, DefaultWidgetProperties(), nil)

	list := w.Paint(NewGeometry(0, 0))

	require.Equal(t, 3, list.Len())
	assert.Len(t, list.At(0).Instances, 2)
	assert.False(t, list.At(1).Instanced())
	assert.Len(t, list.At(2).Instances, 1)
}

func TestWidgetSkipsGPUEmittersWithOneWarning(t *testing.T) {
	buf := captureLog(t)
	gpu := spriteEmitter("heavy", 0)
	gpu.SimTarget = SimGPU
	sys := &System{Emitters: []*Emitter{gpu, spriteEmitter("light", 0)}}
	w := NewWidget(sys, DefaultWidgetProperties(), nil)

	w.Paint(NewGeometry(0, 0))
	list := w.Paint(NewGeometry(0, 0))

	assert.Equal(t, 1, list.Len())
	assert.Equal(t, 1, strings.Count(buf.String(), `emitter "heavy" simulates on the gpu`))
}

func TestWidgetDisableWarnings(t *testing.T) {
	buf := captureLog(t)
	gpu := spriteEmitter("heavy", 0)
	gpu.SimTarget = SimGPU
	props := DefaultWidgetProperties()
	props.DisableWarnings = true
	w := NewWidget(&System{Emitters: []*Emitter{gpu}}, props, nil)

	w.Paint(NewGeometry(0, 0))

	assert.Empty(t, buf.String())
}

func TestWidgetSkipsDisabledRenderers(t *testing.T) {
	em := spriteEmitter("sparks", 0)
	em.Renderers = append(em.Renderers, &RibbonRenderer{RendererProps: RendererProps{Disabled: true}})
	em.Renderers[0].(*SpriteRenderer).Disabled = true
	w := NewWidget(&System{Emitters: []*Emitter{em}}, DefaultWidgetProperties(), nil)

	assert.Equal(t, 0, w.Paint(NewGeometry(0, 0)).Len())
}

func TestWidgetActivation(t *testing.T) {
	props := DefaultWidgetProperties()
	props.AutoActivate = false
	w := NewWidget(&System{Emitters: []*Emitter{spriteEmitter("sparks", 0)}}, props, nil)

	assert.False(t, w.IsActive())
	assert.Equal(t, 0, w.Paint(NewGeometry(0, 0)).Len())

	w.Activate(false)
	assert.True(t, w.IsActive())
	assert.Equal(t, 1, w.Paint(NewGeometry(0, 0)).Len())

	w.Deactivate()
	assert.False(t, w.IsActive())
	assert.Equal(t, 0, w.Batches().Len())

	w.Activate(true)
	assert.Equal(t, 0, w.Batches().Len())
}

func TestWidgetPaintClearsPreviousBatches(t *testing.T) {
	em := spriteEmitter("sparks", 0)
	w := NewWidget(&System{Emitters: []*Emitter{em}}, DefaultWidgetProperties(), nil)

	assert.Equal(t, 1, w.Paint(NewGeometry(0, 0)).Len())
	em.Data.Invalidate()
	assert.Equal(t, 0, w.Paint(NewGeometry(0, 0)).Len())
}

func TestWidgetBrushLifetime(t *testing.T) {
	cache := NewBrushCache()
	m := &Material{Name: "spark"}
	em := spriteEmitter("sparks", 0)
	em.Renderers[0].(*SpriteRenderer).Material = m
	w := NewWidget(&System{Emitters: []*Emitter{em}}, DefaultWidgetProperties(), cache)

	w.Paint(NewGeometry(0, 0))
	w.Paint(NewGeometry(0, 0))
	b, ok := cache.Lookup(m)
	require.True(t, ok)
	assert.Equal(t, 1, b.Refs())

	w.Close()
	assert.Equal(t, 0, b.Refs())
	assert.False(t, w.IsActive())
}

func TestWidgetMeshRenderer(t *testing.T) {
	r := &MeshRenderer{Mesh: triangleMesh()}
	em := &Emitter{Name: "shards", Data: NewParticleBuffer(3), Renderers: []Renderer{r}}
	w := NewWidget(&System{Emitters: []*Emitter{em}}, DefaultWidgetProperties(), nil)

	assert.Equal(t, 1, w.MeshCache().Len())
	list := w.Paint(NewGeometry(0, 0))
	require.Equal(t, 1, list.Len())
	assert.Len(t, list.At(0).Instances, 3)
}

func TestWidgetDebugMode(t *testing.T) {
	buf := captureLog(t)
	w := NewWidget(&System{Emitters: []*Emitter{spriteEmitter("sparks", 0)}}, DefaultWidgetProperties(), nil)

	w.Paint(NewGeometry(0, 0))
	assert.Empty(t, buf.String())

	w.SetDebugMode(true)
	w.Paint(NewGeometry(0, 0))
	out := buf.String()
	assert.Contains(t, out, "[particleui] sort:")
	assert.Contains(t, out, "[particleui] order: sparks/sprite(0)")
	assert.Contains(t, out, "particles: 2 | batches: 1")
}

func TestWidgetNilSystem(t *testing.T) {
	w := NewWidget(nil, DefaultWidgetProperties(), nil)
	assert.Equal(t, 0, w.Paint(NewGeometry(0, 0)).Len())
}

func TestSystemEmitterLookup(t *testing.T) {
	em := spriteEmitter("sparks", 0)
	sys := &System{Emitters: []*Emitter{nil, em}}
	assert.Same(t, em, sys.Emitter("sparks"))
	assert.Nil(t, sys.Emitter("missing"))
}

// wrappedSprite satisfies Renderer through its embedded sprite but is not one
// of the renderer kinds the widget draws.
type wrappedSprite struct {
	*SpriteRenderer
}

func TestWidgetWarnsOnceForUnsupportedRenderer(t *testing.T) {
	buf := captureLog(t)
	em := spriteEmitter("sparks", 0)
	em.Renderers = []Renderer{wrappedSprite{&SpriteRenderer{}}}
	w := NewWidget(&System{Emitters: []*Emitter{em}}, DefaultWidgetProperties(), nil)

	assert.Equal(t, 0, w.Paint(NewGeometry(0, 0)).Len())
	assert.Equal(t, 0, w.Paint(NewGeometry(0, 0)).Len())
	assert.Equal(t, 1, strings.Count(buf.String(), "unsupported renderer particleui.wrappedSprite"))
}
