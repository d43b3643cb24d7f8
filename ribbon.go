package particleui

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"gonum.org/v1/gonum/spatial/r2"
)

// minRibbonParticles is the smallest group that produces geometry.
const minRibbonParticles = 3

// ribbonScratch holds the per-paint buffers of the ribbon generator, reused
// across frames at their high-water mark.
type ribbonScratch struct {
	groups map[RibbonID][]int
	ids    []RibbonID
	all    []int
	points []r2.Vec
}

// AddRibbonBatches appends one strip batch per ribbon in data. With a ribbon
// ID column present each distinct ID is its own ribbon, emitted in ascending
// ID order; otherwise all particles form one ribbon. Ribbons with fewer than
// three particles are skipped.
func AddRibbonBatches(list *BatchList, data *ParticleBuffer, r *RibbonRenderer, ctx LayoutContext) {
	var scratch ribbonScratch
	scratch.addBatches(list, data, r, ctx)
}

func (s *ribbonScratch) addBatches(list *BatchList, data *ParticleBuffer, r *RibbonRenderer, ctx LayoutContext) {
	n := data.Len()
	if n < minRibbonParticles {
		return
	}

	bind := r.Bindings
	positions := NewReader[mgl32.Vec3](data, bindOr(bind.Position, "Position"))
	colors := NewReader[Color](data, bindOr(bind.Color, "Color"))
	widths := NewReader[float32](data, bindOr(bind.Width, "RibbonWidth"))
	order := NewReader[float32](data, bindOr(bind.LinkOrder, "RibbonLinkOrder"))
	ribbonIDs := NewReader[RibbonID](data, bindOr(bind.RibbonID, "RibbonID"))

	strip := ribbonStrip{
		proj:      newProjector(ctx),
		positions: positions,
		colors:    colors,
		widths:    widths,
		uv0:       r.UV0,
		uv1:       r.UV1,
	}

	byOrder := func(a, b int) int {
		ka, kb := order.Get(a, 0), order.Get(b, 0)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	}

	if !ribbonIDs.Valid() {
		s.all = s.all[:0]
		for i := 0; i < n; i++ {
			s.all = append(s.all, i)
		}
		slices.SortStableFunc(s.all, byOrder)
		s.points = strip.emit(list, r.Material, s.all, s.points)
		return
	}

	if s.groups == nil {
		s.groups = make(map[RibbonID][]int)
	}
	for id, rows := range s.groups {
		s.groups[id] = rows[:0]
	}
	s.ids = s.ids[:0]
	for i := 0; i < n; i++ {
		id := ribbonIDs.Get(i, 0)
		rows, seen := s.groups[id]
		if !seen || len(rows) == 0 {
			s.ids = append(s.ids, id)
		}
		s.groups[id] = append(rows, i)
	}
	slices.Sort(s.ids)

	for _, id := range s.ids {
		rows := s.groups[id]
		slices.SortStableFunc(rows, byOrder)
		s.points = strip.emit(list, r.Material, rows, s.points)
	}

	// Forget groups that did not appear this frame so the map stays bounded
	// by the live ribbon count.
	for id, rows := range s.groups {
		if len(rows) == 0 {
			delete(s.groups, id)
		}
	}
}

// ribbonStrip builds the strip geometry for one ordered ribbon.
type ribbonStrip struct {
	proj      projector
	positions Reader[mgl32.Vec3]
	colors    Reader[Color]
	widths    Reader[float32]
	uv0, uv1  RibbonUVSettings
}

// emit appends the batch for the particle rows, already in link order.
// points is scratch space and is returned grown.
//
// A ribbon of N particles has 2(N-1) vertices: a pair at the first particle
// and a pair at each interior particle. The last particle only terminates the
// final segment's direction.
func (st *ribbonStrip) emit(list *BatchList, m *Material, rows []int, points []r2.Vec) []r2.Vec {
	n := len(rows)
	if n < minRibbonParticles {
		return points
	}

	points = points[:0]
	for _, row := range rows {
		p := st.proj.position2D(st.positions.Get(row, defaultVec3))
		points = append(points, r2.Vec{X: p.X, Y: p.Y})
	}

	b := list.add(m, 2*(n-1), 6*(n-2), false)
	scale := float64(st.proj.scale)
	tiling0 := tilingLength(st.uv0)
	tiling1 := tilingLength(st.uv1)
	var u0, u1 float64

	// First pair is perpendicular to the first segment.
	dir := safeUnit(r2.Sub(points[1], points[0]))
	st.writePair(b, 0, rows[0], points[0], dir, scale, 0, 0)

	for i := 1; i < n-1; i++ {
		dirIn := safeUnit(r2.Sub(points[i], points[i-1]))
		dirOut := safeUnit(r2.Sub(points[i+1], points[i]))
		tangent := safeUnit(r2.Add(dirIn, dirOut))
		if tangent == (r2.Vec{}) {
			// Segments fold back on themselves; keep the incoming axis.
			tangent = dirIn
		}

		segLen := r2.Norm(r2.Sub(points[i], points[i-1]))
		u0 = advanceU(st.uv0, u0, segLen, tiling0, i, n)
		u1 = advanceU(st.uv1, u1, segLen, tiling1, i, n)

		v := 2 * i
		st.writePair(b, v, rows[i], points[i], tangent, scale, u0, u1)

		ii := 6 * (i - 1)
		vi := uint32(v)
		b.Indices[ii+0] = vi - 2
		b.Indices[ii+1] = vi - 1
		b.Indices[ii+2] = vi
		b.Indices[ii+3] = vi - 1
		b.Indices[ii+4] = vi
		b.Indices[ii+5] = vi + 1
	}
	return points
}

// writePair writes the left and right edge vertices for a particle at p whose
// ribbon runs along tangent.
func (st *ribbonStrip) writePair(b *RenderBatch, v, row int, p, tangent r2.Vec, scale, u0, u1 float64) {
	halfW := float64(st.widths.Get(row, 0)) * scale / 2
	offset := r2.Scale(halfW, rot90(tangent))
	left := r2.Add(p, offset)
	right := r2.Sub(p, offset)

	cr, cg, cb, ca := st.colors.Get(row, defaultColor).ToRGBA8(true).floats()
	b.Vertices[v] = ebiten.Vertex{
		DstX: float32(left.X), DstY: float32(left.Y),
		SrcX: float32(u0), SrcY: 1,
		Custom0: float32(u1), Custom1: 1,
		ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
	}
	b.Vertices[v+1] = ebiten.Vertex{
		DstX: float32(right.X), DstY: float32(right.Y),
		SrcX: float32(u0), SrcY: 0,
		Custom0: float32(u1), Custom1: 0,
		ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
	}
}

// advanceU returns the U coordinate of the pair at index i of an n-particle
// ribbon, given the previous pair's U and the length of the segment ending at
// particle i.
func advanceU(uv RibbonUVSettings, prev, segLen, tiling float64, i, n int) float64 {
	if uv.Mode == RibbonUVTiledOverLength {
		return prev + segLen/tiling
	}
	return float64(i) / float64(n)
}

func tilingLength(uv RibbonUVSettings) float64 {
	if uv.TilingLength <= 0 {
		return 1
	}
	return uv.TilingLength
}

// rot90 rotates v a quarter turn counter-clockwise.
func rot90(v r2.Vec) r2.Vec {
	return r2.Vec{X: -v.Y, Y: v.X}
}

// safeUnit returns the direction of v, or the zero vector when v is too
// short to have one.
func safeUnit(v r2.Vec) r2.Vec {
	l := r2.Norm(v)
	if l < 1e-8 || math.IsNaN(l) {
		return r2.Vec{}
	}
	return r2.Scale(1/l, v)
}
