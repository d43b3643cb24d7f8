package particleui

// SimTarget is where an emitter's simulation runs.
type SimTarget uint8

const (
	// SimCPU emitters expose their particles in a ParticleBuffer.
	SimCPU SimTarget = iota
	// SimGPU emitters keep particles on the GPU and are not drawn.
	SimGPU
)

func (t SimTarget) String() string {
	switch t {
	case SimCPU:
		return "cpu"
	case SimGPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// Emitter is one particle stream of a System together with the renderers
// that draw it.
type Emitter struct {
	Name      string
	SimTarget SimTarget
	// LocalSpace reports whether particle positions are relative to the
	// emitter's owning surface rather than simulation world space.
	LocalSpace bool
	// Data is the current snapshot. The simulation replaces or refills it
	// between paints; the renderers only read it.
	Data      *ParticleBuffer
	Renderers []Renderer
}

// System is a set of emitters drawn together by one Widget.
type System struct {
	Name     string
	Emitters []*Emitter
}

// Emitter returns the emitter with the given name, or nil.
func (s *System) Emitter(name string) *Emitter {
	for _, e := range s.Emitters {
		if e != nil && e.Name == name {
			return e
		}
	}
	return nil
}
