package particleui

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// RenderBatch is one draw submission: a material, its geometry and, for
// instanced batches, one packed record per particle sharing that geometry.
//
// Vertex layout: DstX/DstY hold the 2D position, SrcX/SrcY hold UV0 in [0, 1]
// texture space, Custom0/Custom1 hold UV1, Color* hold the vertex color.
type RenderBatch struct {
	Material  *Material
	Brush     *Brush
	Vertices  []ebiten.Vertex
	Indices   []uint32
	Instances []InstanceRecord
	instanced bool
}

// Instanced reports whether Vertices are shared geometry drawn once per
// instance record.
func (b *RenderBatch) Instanced() bool {
	return b.instanced
}

// Triangles returns the number of triangles in the batch geometry.
func (b *RenderBatch) Triangles() int {
	return len(b.Indices) / 3
}

// BatchStats summarises a BatchList.
type BatchStats struct {
	Batches   int
	Vertices  int
	Indices   int
	Instances int
}

// BatchList holds the render batches produced by one paint pass. It is
// caller-owned and reused across frames: Clear empties it while keeping every
// backing array at its high-water mark.
type BatchList struct {
	batches []RenderBatch
	n       int
	brushes *BrushCache

	// Scratch buffers for Draw, grown to high-water mark.
	drawVerts []ebiten.Vertex
	drawInds  []uint32
}

// NewBatchList returns an empty list that acquires brushes from cache.
// cache may be nil, in which case batches carry no brush.
func NewBatchList(cache *BrushCache) *BatchList {
	return &BatchList{brushes: cache}
}

// Len returns the number of batches.
func (l *BatchList) Len() int {
	return l.n
}

// At returns batch i.
func (l *BatchList) At(i int) *RenderBatch {
	return &l.batches[i]
}

// Batches returns the current batches. The returned slice MUST NOT be
// retained past the next Clear.
func (l *BatchList) Batches() []RenderBatch {
	return l.batches[:l.n]
}

// Clear removes every batch and releases their brush references.
func (l *BatchList) Clear() {
	for i := 0; i < l.n; i++ {
		l.release(&l.batches[i])
	}
	l.n = 0
}

// Stats totals the geometry and instance counts across all batches.
func (l *BatchList) Stats() BatchStats {
	var s BatchStats
	for i := 0; i < l.n; i++ {
		b := &l.batches[i]
		s.Batches++
		s.Vertices += len(b.Vertices)
		s.Indices += len(b.Indices)
		s.Instances += len(b.Instances)
	}
	return s
}

// add appends a batch with exactly numVerts vertices and numInds indices.
// Returns nil when either count is zero. The returned pointer is valid until
// the next add.
func (l *BatchList) add(m *Material, numVerts, numInds int, instanced bool) *RenderBatch {
	if numVerts < 1 || numInds < 1 {
		return nil
	}
	if l.n == len(l.batches) {
		l.batches = append(l.batches, RenderBatch{})
	}
	b := &l.batches[l.n]
	l.n++

	if cap(b.Vertices) < numVerts {
		b.Vertices = make([]ebiten.Vertex, numVerts)
	}
	b.Vertices = b.Vertices[:numVerts]
	if cap(b.Indices) < numInds {
		b.Indices = make([]uint32, numInds)
	}
	b.Indices = b.Indices[:numInds]
	b.Instances = b.Instances[:0]

	b.Material = m
	b.instanced = instanced
	b.Brush = nil
	if l.brushes != nil && m != nil {
		b.Brush = l.brushes.Acquire(m)
	}
	return b
}

// dropLast removes the most recently added batch.
func (l *BatchList) dropLast() {
	if l.n == 0 {
		return
	}
	l.n--
	l.release(&l.batches[l.n])
}

func (l *BatchList) release(b *RenderBatch) {
	if b.Brush != nil {
		b.Brush.Release()
		b.Brush = nil
	}
}

// --- Submission ---

// Draw submits every batch to target with DrawTriangles32, in list order.
// Instanced batches are expanded on the CPU, one copy of the shared geometry
// per instance record.
func (l *BatchList) Draw(target *ebiten.Image) {
	for i := 0; i < l.n; i++ {
		b := &l.batches[i]
		img := batchImage(b)
		bounds := img.Bounds()

		if b.instanced {
			l.drawVerts, l.drawInds = expandInstances(b, bounds, l.drawVerts[:0], l.drawInds[:0])
		} else {
			l.drawVerts, l.drawInds = expandGeometry(b, bounds, l.drawVerts[:0], l.drawInds[:0])
		}
		if len(l.drawInds) == 0 {
			continue
		}

		var triOp ebiten.DrawTrianglesOptions
		triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
		triOp.Address = ebiten.AddressRepeat
		if b.Material != nil {
			triOp.Blend = b.Material.Blend.EbitenBlend()
		}
		target.DrawTriangles32(l.drawVerts, l.drawInds, img, &triOp)
	}
}

// batchImage resolves the texture a batch draws with.
func batchImage(b *RenderBatch) *ebiten.Image {
	if b.Brush != nil {
		return b.Brush.Image()
	}
	if b.Material != nil && b.Material.Image != nil {
		return b.Material.Image
	}
	return ensureWhitePixel()
}

// expandGeometry converts batch geometry to submission vertices: UVs are
// scaled to the texture's pixel bounds and colors premultiplied.
func expandGeometry(b *RenderBatch, bounds image.Rectangle, verts []ebiten.Vertex, inds []uint32) ([]ebiten.Vertex, []uint32) {
	w := float32(bounds.Dx())
	h := float32(bounds.Dy())
	ox := float32(bounds.Min.X)
	oy := float32(bounds.Min.Y)
	for _, v := range b.Vertices {
		a := v.ColorA
		verts = append(verts, ebiten.Vertex{
			DstX:   v.DstX,
			DstY:   v.DstY,
			SrcX:   ox + v.SrcX*w,
			SrcY:   oy + v.SrcY*h,
			ColorR: v.ColorR * a,
			ColorG: v.ColorG * a,
			ColorB: v.ColorB * a,
			ColorA: a,
		})
	}
	inds = append(inds, b.Indices...)
	return verts, inds
}

// expandInstances places one copy of the batch geometry per instance record:
// scale, then rotate, then translate to the decoded position. Flipbook grids
// remap UVs into the instance's sub-image cell. Vertex color is modulated by
// the instance color.
func expandInstances(b *RenderBatch, bounds image.Rectangle, verts []ebiten.Vertex, inds []uint32) ([]ebiten.Vertex, []uint32) {
	w := float32(bounds.Dx())
	h := float32(bounds.Dy())
	ox := float32(bounds.Min.X)
	oy := float32(bounds.Min.Y)

	for _, rec := range b.Instances {
		d := rec.Decode()
		sin, cos := math.Sincos(float64(d.Rotation) * math.Pi / 180)
		s32, c32 := float32(sin), float32(cos)
		sx, sy := float32(d.Scale.X), float32(d.Scale.Y)
		px, py := float32(d.Position.X), float32(d.Position.Y)
		ir, ig, ib, ia := d.Color.floats()

		col, row := SubImageCell(int(d.SubImage), d.SubImageColumns, d.SubImageRows)
		cols, rows := float32(max(d.SubImageColumns, 1)), float32(max(d.SubImageRows, 1))

		base := uint32(len(verts))
		for _, v := range b.Vertices {
			lx := v.DstX * sx
			ly := v.DstY * sy
			u := (float32(col) + v.SrcX) / cols
			vv := (float32(row) + v.SrcY) / rows
			a := v.ColorA * ia
			verts = append(verts, ebiten.Vertex{
				DstX:   lx*c32 - ly*s32 + px,
				DstY:   lx*s32 + ly*c32 + py,
				SrcX:   ox + u*w,
				SrcY:   oy + vv*h,
				ColorR: v.ColorR * ir * a,
				ColorG: v.ColorG * ig * a,
				ColorB: v.ColorB * ib * a,
				ColorA: a,
			})
		}
		for _, idx := range b.Indices {
			inds = append(inds, base+idx)
		}
	}
	return verts, inds
}

// SubImageCell returns the flipbook cell (column, row) for a sub-image index
// on a cols x rows grid. Grids of 1x1 or smaller always yield (0, 0).
func SubImageCell(index, cols, rows int) (col, row int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols*rows <= 1 || index < 0 {
		return 0, 0
	}
	index %= cols * rows
	return index % cols, index / cols
}
