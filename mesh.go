package particleui

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// maxMeshUVSets is the number of UV channels a flattened vertex can carry.
const maxMeshUVSets = 6

// MeshSection is a contiguous index range of a StaticMesh drawn with one
// material.
type MeshSection struct {
	FirstIndex   int
	NumTriangles int
}

// StaticMesh is a 3D triangle mesh used as particle geometry. Positions use
// X and Y as the drawing plane and Z as depth.
type StaticMesh struct {
	// ID is the mesh identity used as the MeshCache key.
	ID   uuid.UUID
	Name string

	Positions []mgl32.Vec3
	// Colors is per-vertex and optional; missing colors are white.
	Colors []RGBA8
	// UVs holds one slice per UV set, each per-vertex. Only set 0 is kept.
	UVs [][]Vec2
	// Indices is a triangle list.
	Indices []uint32
	// Sections partitions Indices. Empty means one section covering all.
	Sections []MeshSection
}

// NewStaticMesh returns a mesh with a fresh ID.
func NewStaticMesh(name string, positions []mgl32.Vec3, indices []uint32) *StaticMesh {
	return &StaticMesh{
		ID:        uuid.New(),
		Name:      name,
		Positions: positions,
		Indices:   indices,
	}
}

// FlattenedMesh is a StaticMesh projected onto its drawing plane, with
// triangles ordered back to front. Immutable once built.
type FlattenedMesh struct {
	// Vertices hold the XY position, UV set 0 in SrcX/SrcY and the vertex
	// color.
	Vertices []ebiten.Vertex
	Indices  []uint32
	// Bounds is the XY extent of every vertex.
	Bounds Rect
}

// FlattenMesh projects m onto its XY plane. Only the first section is used;
// a mesh with more logs a warning. Triangles are reordered by the depth of
// their first vertex, ascending, so lower Z draws first. Triangles of equal
// depth keep their input order.
func FlattenMesh(m *StaticMesh) *FlattenedMesh {
	if len(m.Sections) > 1 {
		warnf("mesh %q has %d sections; only the first is rendered", m.Name, len(m.Sections))
	}
	if len(m.UVs) > maxMeshUVSets {
		warnf("mesh %q has %d UV sets; at most %d are supported", m.Name, len(m.UVs), maxMeshUVSets)
	}

	out := &FlattenedMesh{Vertices: make([]ebiten.Vertex, len(m.Positions))}
	for i, p := range m.Positions {
		c := RGBA8White
		if i < len(m.Colors) {
			c = m.Colors[i]
		}
		uv := Vec2{1, 1}
		if len(m.UVs) > 0 && i < len(m.UVs[0]) {
			uv = m.UVs[0][i]
		}
		r, g, b, a := c.floats()
		out.Vertices[i] = ebiten.Vertex{
			DstX: p.X(), DstY: p.Y(),
			SrcX: float32(uv.X), SrcY: float32(uv.Y),
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		}
	}
	out.Bounds = computeMeshAABB(out.Vertices)

	indices := sectionIndices(m)
	out.Indices = make([]uint32, 0, len(indices))
	for _, idx := range indices {
		if int(idx) >= len(m.Positions) {
			warnf("mesh %q index %d out of range; dropping trailing triangles", m.Name, idx)
			break
		}
		out.Indices = append(out.Indices, idx)
	}
	out.Indices = out.Indices[:len(out.Indices)/3*3]
	sortTrianglesByDepth(out.Indices, m.Positions)
	return out
}

// sectionIndices returns the index range of m's first section.
func sectionIndices(m *StaticMesh) []uint32 {
	if len(m.Sections) == 0 {
		return m.Indices
	}
	s := m.Sections[0]
	lo := min(max(s.FirstIndex, 0), len(m.Indices))
	hi := min(lo+s.NumTriangles*3, len(m.Indices))
	return m.Indices[lo:hi]
}

// sortTrianglesByDepth is a stable insertion sort of the triangle list by the
// Z of each triangle's first vertex. Meshes are flattened once, so the
// quadratic worst case is acceptable.
func sortTrianglesByDepth(indices []uint32, positions []mgl32.Vec3) {
	depth := func(t int) float32 { return positions[indices[t*3]].Z() }
	n := len(indices) / 3
	for i := 1; i < n; i++ {
		var tri [3]uint32
		copy(tri[:], indices[i*3:i*3+3])
		key := positions[tri[0]].Z()
		j := i - 1
		for j >= 0 && depth(j) > key {
			copy(indices[(j+1)*3:(j+1)*3+3], indices[j*3:j*3+3])
			j--
		}
		copy(indices[(j+1)*3:(j+1)*3+3], tri[:])
	}
}

// computeMeshAABB scans DstX/DstY of the given vertices and returns
// the axis-aligned bounding box.
func computeMeshAABB(verts []ebiten.Vertex) Rect {
	if len(verts) == 0 {
		return Rect{}
	}
	minX := float64(verts[0].DstX)
	minY := float64(verts[0].DstY)
	maxX := minX
	maxY := minY
	for i := 1; i < len(verts); i++ {
		x := float64(verts[i].DstX)
		y := float64(verts[i].DstY)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MeshCache maps mesh identity to its flattened form. Build it once with
// PrecomputeMeshes; it is read-only afterwards.
type MeshCache struct {
	meshes map[uuid.UUID]*FlattenedMesh
}

// Lookup returns the flattened mesh for id.
func (c *MeshCache) Lookup(id uuid.UUID) (*FlattenedMesh, bool) {
	if c == nil {
		return nil, false
	}
	f, ok := c.meshes[id]
	return f, ok
}

// Len returns the number of cached meshes.
func (c *MeshCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.meshes)
}

// PrecomputeMeshes flattens every mesh referenced by a mesh renderer in sys.
// A mesh shared by several renderers is flattened once.
func PrecomputeMeshes(sys *System) *MeshCache {
	c := &MeshCache{meshes: make(map[uuid.UUID]*FlattenedMesh)}
	if sys == nil {
		return c
	}
	for _, em := range sys.Emitters {
		if em == nil {
			continue
		}
		for _, r := range em.Renderers {
			mr, ok := r.(*MeshRenderer)
			if !ok || mr.Mesh == nil {
				continue
			}
			if _, done := c.meshes[mr.Mesh.ID]; done {
				continue
			}
			c.meshes[mr.Mesh.ID] = FlattenMesh(mr.Mesh)
		}
	}
	return c
}
