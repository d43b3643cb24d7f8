package particleui

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// WidgetProperties configure how a Widget draws its system.
type WidgetProperties struct {
	// AutoActivate starts the widget active.
	AutoActivate bool
	// FakeDepthScale scales particles by their depth, growing those nearer
	// than FakeDepthScaleDistance and shrinking those further away.
	FakeDepthScale bool
	// FakeDepthScaleDistance is the depth drawn at authored size. Zero means
	// 1000.
	FakeDepthScaleDistance float64
	// DisableWarnings silences the widget's warnings.
	DisableWarnings bool
}

// DefaultWidgetProperties returns auto-activating properties with fake depth
// off.
func DefaultWidgetProperties() WidgetProperties {
	return WidgetProperties{
		AutoActivate:           true,
		FakeDepthScaleDistance: defaultFakeDepthDistance,
	}
}

// drawItem is one renderer scheduled for a paint pass.
type drawItem struct {
	emitter  *Emitter
	renderer Renderer
	hint     int
}

// Widget draws a System onto a UI surface. Paint rebuilds its batches from
// the current particle snapshots; Draw submits them.
type Widget struct {
	system  *System
	props   WidgetProperties
	meshes  *MeshCache
	batches *BatchList
	active  bool
	debug   bool

	items      []drawItem
	ribbon     ribbonScratch
	warnedGPU  map[*Emitter]bool
	warnedKind map[Renderer]bool
}

// NewWidget returns a widget drawing sys. Meshes referenced by sys are
// flattened here, once. brushes may be shared between widgets; nil disables
// brush tracking.
func NewWidget(sys *System, props WidgetProperties, brushes *BrushCache) *Widget {
	return &Widget{
		system:     sys,
		props:      props,
		meshes:     PrecomputeMeshes(sys),
		batches:    NewBatchList(brushes),
		active:     props.AutoActivate,
		warnedGPU:  make(map[*Emitter]bool),
		warnedKind: make(map[Renderer]bool),
	}
}

// System returns the drawn system.
func (w *Widget) System() *System { return w.system }

// Properties returns the widget properties.
func (w *Widget) Properties() WidgetProperties { return w.props }

// MeshCache returns the flattened meshes of the system.
func (w *Widget) MeshCache() *MeshCache { return w.meshes }

// Activate starts drawing. With reset, batches from the previous paint are
// discarded immediately.
func (w *Widget) Activate(reset bool) {
	w.active = true
	if reset {
		w.batches.Clear()
	}
}

// Deactivate stops drawing and discards the current batches.
func (w *Widget) Deactivate() {
	w.active = false
	w.batches.Clear()
}

// IsActive reports whether the widget draws.
func (w *Widget) IsActive() bool { return w.active }

// SetDebugMode enables or disables debug mode. When enabled, per-paint
// timing and batch stats are logged and oversized batches are reported.
func (w *Widget) SetDebugMode(enabled bool) {
	w.debug = enabled
}

// Batches returns the batches built by the last Paint.
func (w *Widget) Batches() *BatchList { return w.batches }

// Paint clears the batches and rebuilds them for surface g: renderers are
// visited in SortOrderHint order, equal hints in declaration order. GPU
// emitters and disabled renderers are skipped. An inactive widget produces no
// batches.
func (w *Widget) Paint(g Geometry) *BatchList {
	w.batches.Clear()
	if !w.active || w.system == nil {
		return w.batches
	}

	var stats debugStats
	var t0 time.Time
	if w.debug {
		t0 = time.Now()
	}

	w.collect(&stats)
	w.sortItems()

	if w.debug {
		stats.sortTime = time.Since(t0)
		t0 = time.Now()
	}

	for i := range w.items {
		it := &w.items[i]
		ctx := NewLayoutContext(g, w.props, it.emitter.LocalSpace)
		w.dispatch(it, ctx)
	}

	if w.debug {
		stats.generateTime = time.Since(t0)
		stats.batches = w.batches.Stats()
		w.debugOrder()
		w.debugLog(stats)
		w.debugCheckBatches()
	}
	return w.batches
}

// Draw submits the batches of the last Paint to target.
func (w *Widget) Draw(target *ebiten.Image) {
	w.batches.Draw(target)
}

// Close releases the widget's brush references.
func (w *Widget) Close() {
	w.batches.Clear()
	w.active = false
}

// collect gathers the drawable renderers of every CPU emitter.
func (w *Widget) collect(stats *debugStats) {
	w.items = w.items[:0]
	for _, em := range w.system.Emitters {
		if em == nil {
			continue
		}
		stats.emitterCount++
		if em.SimTarget != SimCPU {
			stats.skippedCount++
			if !w.warnedGPU[em] {
				w.warnedGPU[em] = true
				w.warnf("emitter %q simulates on the %s and is not drawn", em.Name, em.SimTarget)
			}
			continue
		}
		stats.particles += em.Data.Len()
		for _, r := range em.Renderers {
			if r == nil || r.rendererProps().Disabled {
				continue
			}
			w.items = append(w.items, drawItem{
				emitter:  em,
				renderer: r,
				hint:     r.rendererProps().SortOrderHint,
			})
		}
	}
}

// sortItems orders items by hint, keeping declaration order for equal hints.
func (w *Widget) sortItems() {
	for i := 1; i < len(w.items); i++ {
		key := w.items[i]
		j := i - 1
		for j >= 0 && w.items[j].hint > key.hint {
			w.items[j+1] = w.items[j]
			j--
		}
		w.items[j+1] = key
	}
}

func (w *Widget) dispatch(it *drawItem, ctx LayoutContext) {
	data := it.emitter.Data
	switch r := it.renderer.(type) {
	case *SpriteRenderer:
		AddSpriteBatch(w.batches, data, r, ctx)
	case *RibbonRenderer:
		w.ribbon.addBatches(w.batches, data, r, ctx)
	case *MeshRenderer:
		AddMeshBatch(w.batches, data, r, w.meshes, ctx)
	default:
		if !w.warnedKind[it.renderer] {
			w.warnedKind[it.renderer] = true
			w.warnf("emitter %q: unsupported renderer %T is not drawn", it.emitter.Name, it.renderer)
		}
	}
}

func (w *Widget) warnf(format string, args ...any) {
	if w.props.DisableWarnings {
		return
	}
	warnf(format, args...)
}
