package particleui

import (
	"image/color"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// Brush is the renderable handle for a Material, shared by every batch and
// widget drawing that material. It is reference counted by its consumers.
type Brush struct {
	// ID identifies the handle for the lifetime of the cache.
	ID       uuid.UUID
	Material *Material
	image    *ebiten.Image
	refs     int
	cache    *BrushCache
}

// Image returns the texture the brush draws with.
func (b *Brush) Image() *ebiten.Image {
	if b.image == nil {
		return ensureWhitePixel()
	}
	return b.image
}

// Refs returns the number of live consumers.
func (b *Brush) Refs() int {
	return b.refs
}

// Cached reports whether the brush is still held by its cache.
func (b *Brush) Cached() bool {
	return b.cache != nil
}

// Release drops one consumer reference. The brush stays cached until the next
// Sweep finds it unreferenced.
func (b *Brush) Release() {
	if b.refs > 0 {
		b.refs--
	}
}

// BrushCache maps material identity to a lazily created Brush. Owned by the
// rendering subsystem: create it at startup, Close it at shutdown. Not safe
// for concurrent use; all calls must come from the UI thread.
type BrushCache struct {
	brushes map[*Material]*Brush
	closed  bool
}

// NewBrushCache returns an empty cache.
func NewBrushCache() *BrushCache {
	return &BrushCache{brushes: make(map[*Material]*Brush)}
}

// Acquire returns the brush for m, creating it on first use, and adds one
// consumer reference. Returns nil for a nil material or a closed cache.
func (c *BrushCache) Acquire(m *Material) *Brush {
	if c == nil || c.closed || m == nil {
		return nil
	}
	b, ok := c.brushes[m]
	if !ok {
		b = &Brush{
			ID:       uuid.New(),
			Material: m,
			image:    m.Image,
			cache:    c,
		}
		c.brushes[m] = b
	}
	b.refs++
	return b
}

// Lookup returns the cached brush for m without changing its references.
func (c *BrushCache) Lookup(m *Material) (*Brush, bool) {
	if c == nil {
		return nil, false
	}
	b, ok := c.brushes[m]
	return b, ok
}

// Len returns the number of cached brushes.
func (c *BrushCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.brushes)
}

// Sweep evicts every brush without consumers and returns how many were
// removed. It is a maintenance call; the paint path never invokes it.
func (c *BrushCache) Sweep() int {
	if c == nil {
		return 0
	}
	removed := 0
	for m, b := range c.brushes {
		if b.refs <= 0 {
			b.cache = nil
			delete(c.brushes, m)
			removed++
		}
	}
	return removed
}

// Close evicts every brush regardless of references. Acquire returns nil
// afterwards.
func (c *BrushCache) Close() {
	if c == nil {
		return
	}
	for m, b := range c.brushes {
		b.cache = nil
		delete(c.brushes, m)
	}
	c.closed = true
}

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Used by materials without a texture.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
