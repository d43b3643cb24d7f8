package particleui

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Errors returned by Config.Build.
var (
	ErrUnknownRenderer = errors.New("unknown renderer type")
	ErrUnknownMaterial = errors.New("unknown material")
	ErrUnknownMesh     = errors.New("unknown mesh")
)

// Config is a YAML description of widget properties, a particle system and
// the meshes its renderers instance.
type Config struct {
	Widget WidgetConfig `yaml:"widget"`
	System SystemConfig `yaml:"system"`
	Meshes []MeshConfig `yaml:"meshes"`
}

// WidgetConfig mirrors WidgetProperties.
type WidgetConfig struct {
	AutoActivate           bool    `yaml:"auto_activate"`
	FakeDepthScale         bool    `yaml:"fake_depth_scale"`
	FakeDepthScaleDistance float64 `yaml:"fake_depth_scale_distance"`
	DisableWarnings        bool    `yaml:"disable_warnings"`
}

// SystemConfig describes a System.
type SystemConfig struct {
	Name     string          `yaml:"name"`
	Emitters []EmitterConfig `yaml:"emitters"`
}

// EmitterConfig describes one Emitter.
type EmitterConfig struct {
	Name       string           `yaml:"name"`
	Sim        string           `yaml:"sim"` // cpu or gpu
	LocalSpace bool             `yaml:"local_space"`
	Renderers  []RendererConfig `yaml:"renderers"`
}

// RendererConfig describes one renderer. Type selects which of the remaining
// fields apply.
type RendererConfig struct {
	Type      string `yaml:"type"` // sprite, ribbon or mesh
	Disabled  bool   `yaml:"disabled"`
	SortOrder int    `yaml:"sort_order"`
	Material  string `yaml:"material"`

	// sprite
	Alignment     string `yaml:"alignment"` // unaligned or velocity
	CullOffscreen bool   `yaml:"cull_offscreen"`

	// sprite and mesh
	SubImageColumns int `yaml:"sub_image_columns"`
	SubImageRows    int `yaml:"sub_image_rows"`

	// ribbon
	UV0 UVConfig `yaml:"uv0"`
	UV1 UVConfig `yaml:"uv1"`

	// mesh
	Mesh   string `yaml:"mesh"`
	Facing string `yaml:"facing"` // default or velocity

	// Bindings override attribute names, keyed by role: position, color,
	// velocity, size, rotation, sub_image, width, link_order, ribbon_id,
	// scale, orientation.
	Bindings map[string]string `yaml:"bindings"`
}

// UVConfig describes one ribbon UV channel.
type UVConfig struct {
	Mode         string  `yaml:"mode"` // scaled or tiled
	TilingLength float64 `yaml:"tiling_length"`
}

// MeshConfig is an inline StaticMesh.
type MeshConfig struct {
	Name      string          `yaml:"name"`
	Positions [][]float32     `yaml:"positions"` // [x, y, z]
	Colors    [][]uint8       `yaml:"colors"`    // [r, g, b, a]
	UVs       [][][]float64   `yaml:"uvs"`       // per set, per vertex [u, v]
	Indices   []uint32        `yaml:"indices"`
	Sections  []SectionConfig `yaml:"sections"`
}

// SectionConfig mirrors MeshSection.
type SectionConfig struct {
	FirstIndex   int `yaml:"first_index"`
	NumTriangles int `yaml:"num_triangles"`
}

// LoadConfig reads a YAML file and merges it over the embedded defaults. An
// empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return ParseConfig(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("particleui: reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig merges YAML data over the embedded defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("particleui: parsing embedded defaults: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("particleui: parsing config: %w", err)
		}
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("particleui: marshaling config: %w", err)
	}
	return data, nil
}

// Properties returns the widget properties.
func (c *Config) Properties() WidgetProperties {
	return WidgetProperties{
		AutoActivate:           c.Widget.AutoActivate,
		FakeDepthScale:         c.Widget.FakeDepthScale,
		FakeDepthScaleDistance: c.Widget.FakeDepthScaleDistance,
		DisableWarnings:        c.Widget.DisableWarnings,
	}
}

// Build resolves the configuration into a System. Material names are looked
// up in materials; an empty name means no material. Every emitter starts
// with an empty particle buffer.
func (c *Config) Build(materials map[string]*Material) (*System, error) {
	meshes := make(map[string]*StaticMesh, len(c.Meshes))
	for i := range c.Meshes {
		m, err := c.Meshes[i].build()
		if err != nil {
			return nil, err
		}
		meshes[m.Name] = m
	}

	sys := &System{Name: c.System.Name}
	for _, ec := range c.System.Emitters {
		em := &Emitter{
			Name:       ec.Name,
			LocalSpace: ec.LocalSpace,
			Data:       NewParticleBuffer(0),
		}
		switch strings.ToLower(ec.Sim) {
		case "", "cpu":
			em.SimTarget = SimCPU
		case "gpu":
			em.SimTarget = SimGPU
		default:
			return nil, fmt.Errorf("particleui: emitter %q: invalid sim target %q", ec.Name, ec.Sim)
		}
		for i, rc := range ec.Renderers {
			r, err := rc.build(materials, meshes)
			if err != nil {
				return nil, fmt.Errorf("particleui: emitter %q renderer %d: %w", ec.Name, i, err)
			}
			em.Renderers = append(em.Renderers, r)
		}
		sys.Emitters = append(sys.Emitters, em)
	}
	return sys, nil
}

func (rc *RendererConfig) build(materials map[string]*Material, meshes map[string]*StaticMesh) (Renderer, error) {
	props := RendererProps{Disabled: rc.Disabled, SortOrderHint: rc.SortOrder}
	if rc.Material != "" {
		m, ok := materials[rc.Material]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownMaterial, rc.Material)
		}
		props.Material = m
	}
	bind := func(role string) string { return rc.Bindings[role] }

	switch strings.ToLower(rc.Type) {
	case "sprite":
		r := &SpriteRenderer{
			RendererProps:   props,
			SubImageColumns: rc.SubImageColumns,
			SubImageRows:    rc.SubImageRows,
			CullOffscreen:   rc.CullOffscreen,
			Bindings: SpriteBindings{
				Position:      bind("position"),
				Color:         bind("color"),
				Velocity:      bind("velocity"),
				Size:          bind("size"),
				Rotation:      bind("rotation"),
				SubImageIndex: bind("sub_image"),
			},
		}
		switch strings.ToLower(rc.Alignment) {
		case "", "unaligned":
			r.Alignment = SpriteUnaligned
		case "velocity":
			r.Alignment = SpriteVelocityAligned
		default:
			return nil, fmt.Errorf("invalid sprite alignment %q", rc.Alignment)
		}
		return r, nil

	case "ribbon":
		uv0, err := rc.UV0.build()
		if err != nil {
			return nil, err
		}
		uv1, err := rc.UV1.build()
		if err != nil {
			return nil, err
		}
		return &RibbonRenderer{
			RendererProps: props,
			UV0:           uv0,
			UV1:           uv1,
			Bindings: RibbonBindings{
				Position:  bind("position"),
				Color:     bind("color"),
				Width:     bind("width"),
				LinkOrder: bind("link_order"),
				RibbonID:  bind("ribbon_id"),
			},
		}, nil

	case "mesh":
		mesh, ok := meshes[rc.Mesh]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownMesh, rc.Mesh)
		}
		r := &MeshRenderer{
			RendererProps:   props,
			Mesh:            mesh,
			SubImageColumns: rc.SubImageColumns,
			SubImageRows:    rc.SubImageRows,
			Bindings: MeshBindings{
				Position:    bind("position"),
				Color:       bind("color"),
				Velocity:    bind("velocity"),
				Scale:       bind("scale"),
				Orientation: bind("orientation"),
			},
		}
		switch strings.ToLower(rc.Facing) {
		case "", "default":
			r.Facing = MeshFacingDefault
		case "velocity":
			r.Facing = MeshFacingVelocity
		default:
			return nil, fmt.Errorf("invalid mesh facing %q", rc.Facing)
		}
		return r, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownRenderer, rc.Type)
}

func (uc UVConfig) build() (RibbonUVSettings, error) {
	s := RibbonUVSettings{TilingLength: uc.TilingLength}
	switch strings.ToLower(uc.Mode) {
	case "", "scaled":
		s.Mode = RibbonUVScaledUniformly
	case "tiled":
		s.Mode = RibbonUVTiledOverLength
	default:
		return s, fmt.Errorf("invalid ribbon uv mode %q", uc.Mode)
	}
	return s, nil
}

func (mc *MeshConfig) build() (*StaticMesh, error) {
	positions := make([]mgl32.Vec3, len(mc.Positions))
	for i, p := range mc.Positions {
		if len(p) != 3 {
			return nil, fmt.Errorf("particleui: mesh %q position %d: want 3 components, got %d", mc.Name, i, len(p))
		}
		positions[i] = mgl32.Vec3{p[0], p[1], p[2]}
	}
	m := NewStaticMesh(mc.Name, positions, mc.Indices)

	for i, c := range mc.Colors {
		if len(c) != 4 {
			return nil, fmt.Errorf("particleui: mesh %q color %d: want 4 components, got %d", mc.Name, i, len(c))
		}
		m.Colors = append(m.Colors, RGBA8{c[0], c[1], c[2], c[3]})
	}
	for set, uvs := range mc.UVs {
		out := make([]Vec2, len(uvs))
		for i, uv := range uvs {
			if len(uv) != 2 {
				return nil, fmt.Errorf("particleui: mesh %q uv set %d vertex %d: want 2 components, got %d", mc.Name, set, i, len(uv))
			}
			out[i] = Vec2{uv[0], uv[1]}
		}
		m.UVs = append(m.UVs, out)
	}
	for _, s := range mc.Sections {
		m.Sections = append(m.Sections, MeshSection{FirstIndex: s.FirstIndex, NumTriangles: s.NumTriangles})
	}
	return m, nil
}
