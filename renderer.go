package particleui

// Renderer is a *SpriteRenderer, *RibbonRenderer or *MeshRenderer. The set is
// closed: embedding RendererProps alone does not implement it.
type Renderer interface {
	rendererProps() *RendererProps
	renderer()
}

// RendererProps are the settings every renderer kind shares.
type RendererProps struct {
	// Disabled renderers are skipped by the paint pass.
	Disabled bool
	// SortOrderHint orders renderers across emitters. Lower draws first;
	// equal hints keep declaration order.
	SortOrderHint int
	// Material is the render resource for the renderer's batches. Nil draws
	// untextured.
	Material *Material
}

func (p *RendererProps) rendererProps() *RendererProps { return p }

// bindOr returns name, or def when name is empty.
func bindOr(name, def string) string {
	if name == "" {
		return def
	}
	return name
}

// --- Sprite ---

// SpriteAlignment selects how sprite rotation is derived.
type SpriteAlignment uint8

const (
	// SpriteUnaligned uses the bound rotation attribute.
	SpriteUnaligned SpriteAlignment = iota
	// SpriteVelocityAligned points the sprite along its in-plane velocity.
	SpriteVelocityAligned
)

// SpriteBindings names the attributes a sprite renderer reads. Empty fields
// use the default names.
type SpriteBindings struct {
	Position      string // Vec3, default "Position"
	Color         string // Color, default "Color"
	Velocity      string // Vec3, default "Velocity"
	Size          string // Vec2, default "SpriteSize"
	Rotation      string // float32 degrees, default "SpriteRotation"
	SubImageIndex string // float32, default "SubImageIndex"
}

// SpriteRenderer draws one textured quad per particle, instanced.
type SpriteRenderer struct {
	RendererProps
	Alignment SpriteAlignment
	// SubImageColumns and SubImageRows describe the flipbook grid of the
	// material texture. Values below 1 are treated as 1.
	SubImageColumns int
	SubImageRows    int
	// CullOffscreen drops particles lying clearly above or left of the
	// destination surface.
	CullOffscreen bool
	Bindings      SpriteBindings
}

// --- Ribbon ---

// RibbonUVMode selects how the U texture coordinate advances along a ribbon.
type RibbonUVMode uint8

const (
	// RibbonUVScaledUniformly spreads U over [0, 1) by particle index.
	RibbonUVScaledUniformly RibbonUVMode = iota
	// RibbonUVTiledOverLength advances U by arc length over TilingLength.
	RibbonUVTiledOverLength
)

// RibbonUVSettings configures one UV channel of a ribbon.
type RibbonUVSettings struct {
	Mode RibbonUVMode
	// TilingLength is the arc length, in layout units, covered by one texture
	// repeat. Values <= 0 are treated as 1.
	TilingLength float64
}

// RibbonBindings names the attributes a ribbon renderer reads.
type RibbonBindings struct {
	Position  string // Vec3, default "Position"
	Color     string // Color, default "Color"
	Width     string // float32, default "RibbonWidth"
	LinkOrder string // float32 sort key, default "RibbonLinkOrder"
	// RibbonID enables multi-ribbon mode when the column is present.
	RibbonID string // RibbonID, default "RibbonID"
}

// RibbonRenderer connects particles into textured strips.
type RibbonRenderer struct {
	RendererProps
	UV0      RibbonUVSettings
	UV1      RibbonUVSettings
	Bindings RibbonBindings
}

// --- Mesh ---

// MeshFacing selects how mesh instance rotation is derived.
type MeshFacing uint8

const (
	// MeshFacingDefault uses the bound orientation quaternion.
	MeshFacingDefault MeshFacing = iota
	// MeshFacingVelocity points the mesh along its velocity.
	MeshFacingVelocity
)

// MeshBindings names the attributes a mesh renderer reads.
type MeshBindings struct {
	Position    string // Vec3, default "Position"
	Color       string // Color, default "Color"
	Velocity    string // Vec3, default "Velocity"
	Scale       string // Vec3, default "Scale"
	Orientation string // Quat, default "MeshOrientation"
}

// MeshRenderer instances a flattened static mesh per particle.
type MeshRenderer struct {
	RendererProps
	// Mesh is the source mesh. Its flattened form must be present in the
	// widget's MeshCache.
	Mesh   *StaticMesh
	Facing MeshFacing
	// SubImageColumns and SubImageRows describe the flipbook grid.
	SubImageColumns int
	SubImageRows    int
	Bindings        MeshBindings
}

func (*SpriteRenderer) renderer() {}
func (*RibbonRenderer) renderer() {}
func (*MeshRenderer) renderer()   {}

// rendererKind names r for logging.
func rendererKind(r Renderer) string {
	switch r.(type) {
	case *SpriteRenderer:
		return "sprite"
	case *RibbonRenderer:
		return "ribbon"
	case *MeshRenderer:
		return "mesh"
	default:
		return "unknown"
	}
}
