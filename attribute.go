package particleui

import "github.com/go-gl/mathgl/mgl32"

// Element is the set of column element types a ParticleBuffer can hold.
type Element interface {
	float32 | mgl32.Vec2 | mgl32.Vec3 | mgl32.Quat | Color | RibbonID
}

// ParticleBuffer is a read-only columnar snapshot of one emitter's particles
// for one frame. Columns are addressed by attribute name. Rows are unordered.
type ParticleBuffer struct {
	count   int
	valid   bool
	columns map[string]any
}

// NewParticleBuffer returns an empty, valid buffer holding count particles.
// Columns are added with SetColumn.
func NewParticleBuffer(count int) *ParticleBuffer {
	if count < 0 {
		count = 0
	}
	return &ParticleBuffer{
		count:   count,
		valid:   true,
		columns: make(map[string]any),
	}
}

// SetColumn stores data under name, replacing any existing column. Columns
// shorter than Len are allowed; rows past their end read as the default.
func SetColumn[T Element](b *ParticleBuffer, name string, data []T) {
	if b.columns == nil {
		b.columns = make(map[string]any)
	}
	b.columns[name] = data
}

// Len returns the number of particles in the snapshot. An invalid buffer has
// no particles.
func (b *ParticleBuffer) Len() int {
	if b == nil || !b.valid {
		return 0
	}
	return b.count
}

// Valid reports whether the buffer holds current simulation data.
func (b *ParticleBuffer) Valid() bool {
	return b != nil && b.valid
}

// Invalidate marks the buffer as stale. Generators treat it as empty.
func (b *ParticleBuffer) Invalidate() {
	b.valid = false
}

// Has reports whether a column named name exists, regardless of type.
func (b *ParticleBuffer) Has(name string) bool {
	if b == nil {
		return false
	}
	_, ok := b.columns[name]
	return ok
}

// Columns returns the attribute names present in the buffer.
func (b *ParticleBuffer) Columns() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.columns))
	for name := range b.columns {
		names = append(names, name)
	}
	return names
}

// Reader is a typed accessor over one column. The zero Reader is valid and
// returns the default for every row.
type Reader[T Element] struct {
	data []T
	ok   bool
}

// NewReader resolves the column name in b. A missing column, or one holding a
// different element type, yields a Reader that always returns the default.
func NewReader[T Element](b *ParticleBuffer, name string) Reader[T] {
	if b == nil || name == "" {
		return Reader[T]{}
	}
	data, ok := b.columns[name].([]T)
	return Reader[T]{data: data, ok: ok}
}

// Valid reports whether the column was present with the requested type.
func (r Reader[T]) Valid() bool {
	return r.ok
}

// Get returns row i, or def when the column is absent or i is out of range.
func (r Reader[T]) Get(i int, def T) T {
	if i < 0 || i >= len(r.data) {
		return def
	}
	return r.data[i]
}

// Read is a one-off lookup of row i of column name, falling back to def.
func Read[T Element](b *ParticleBuffer, name string, i int, def T) T {
	return NewReader[T](b, name).Get(i, def)
}

// Documented defaults for absent attributes.
var (
	defaultVec3  = mgl32.Vec3{}
	defaultVec2  = mgl32.Vec2{}
	defaultQuat  = mgl32.QuatIdent()
	defaultColor = ColorWhite
)
