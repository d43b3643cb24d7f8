package particleui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotCSV = `Position.X,Position.Y,Position.Z,Color.R,Color.G,Color.B,SpriteSize.X,SpriteSize.Y,RibbonWidth,RibbonID
1,2,3,1,0,0,20,10,4,7
-5,0,8,0.5,0.5,0.5,,,2,8
`

func TestLoadParticleCSV(t *testing.T) {
	buf, err := LoadParticleCSV(strings.NewReader(snapshotCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, buf.Len())

	pos := NewReader[mgl32.Vec3](buf, "Position")
	require.True(t, pos.Valid())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, pos.Get(0, defaultVec3))
	assert.Equal(t, mgl32.Vec3{-5, 0, 8}, pos.Get(1, defaultVec3))

	colors := NewReader[Color](buf, "Color")
	require.True(t, colors.Valid())
	assert.Equal(t, Color{1, 0, 0, 1}, colors.Get(0, defaultColor))
	assert.Equal(t, Color{0.5, 0.5, 0.5, 1}, colors.Get(1, defaultColor))

	sizes := NewReader[mgl32.Vec2](buf, "SpriteSize")
	require.True(t, sizes.Valid())
	assert.Equal(t, mgl32.Vec2{20, 10}, sizes.Get(0, defaultVec2))
	assert.Equal(t, mgl32.Vec2{0, 0}, sizes.Get(1, defaultVec2))

	assert.Equal(t, float32(2), Read[float32](buf, "RibbonWidth", 1, 0))
	assert.Equal(t, RibbonID(8), Read[RibbonID](buf, "RibbonID", 1, 0))
}

func TestLoadParticleCSVQuat(t *testing.T) {
	buf, err := LoadParticleCSV(strings.NewReader("MeshOrientation.X,MeshOrientation.Y,MeshOrientation.Z,MeshOrientation.W\n0,0,0,1\n"))
	require.NoError(t, err)
	assert.Equal(t, mgl32.QuatIdent(), Read(buf, "MeshOrientation", 0, mgl32.Quat{}))
}

func TestLoadParticleCSVBadValue(t *testing.T) {
	_, err := LoadParticleCSV(strings.NewReader("RibbonWidth\nwide\n"))
	assert.ErrorContains(t, err, `row 1 column "RibbonWidth"`)

	_, err = LoadParticleCSV(strings.NewReader("RibbonID\n-3\n"))
	assert.Error(t, err)
}

func TestLoadParticleCSVHeaderOnly(t *testing.T) {
	buf, err := LoadParticleCSV(strings.NewReader("Position.X,Position.Y,Position.Z\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, buf.Len())
	assert.True(t, buf.Valid())
}

func TestWriteInstanceCSV(t *testing.T) {
	data, err := LoadParticleCSV(strings.NewReader(snapshotCSV))
	require.NoError(t, err)

	list := NewBatchList(nil)
	AddSpriteBatch(list, data, &SpriteRenderer{RendererProps: RendererProps{Material: &Material{Name: "spark"}}}, worldContext())

	rows := InstanceRows(list)
	require.Len(t, rows, 2)
	assert.Equal(t, "spark", rows[0].Material)
	assert.Equal(t, 1, rows[1].Instance)
	assert.Equal(t, float64(1), rows[0].X)
	assert.Equal(t, float64(-3), rows[0].Y)
	assert.Equal(t, uint8(255), rows[0].R)

	var out bytes.Buffer
	require.NoError(t, WriteInstanceCSV(&out, list))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "batch,material,instance,x,y,scale_x"), lines[0])
}

func TestWriteInstanceCSVSkipsRibbons(t *testing.T) {
	list := NewBatchList(nil)
	AddRibbonBatches(list, lineBuffer(3, 10, 2), &RibbonRenderer{}, worldContext())
	require.Equal(t, 1, list.Len())
	assert.Empty(t, InstanceRows(list))

	var out bytes.Buffer
	require.NoError(t, WriteInstanceCSV(&out, list))
}
