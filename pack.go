package particleui

import (
	"math"

	"golang.org/x/exp/constraints"
	"honnef.co/go/safeish"
)

// Instance record encoding. Positions are offset by positionOffset and stored
// at positionScale fixed point, covering [positionMin, positionMax].
const (
	positionMin    = -1000
	positionMax    = 15383
	positionOffset = 1000
	positionScale  = 4

	scaleMax       = 127
	scaleFixed     = 128
	rotationFixed  = 32
	instanceTag    = 2
	tagMask        = 0x03
	maxGridDivider = 15
)

// InstanceRecord is one particle's packed per-instance data: four 32-bit
// lanes, little-endian bytes within each lane.
//
//	lane 0: [0:2] X position  [2] X scale high  [3] X scale low6 | tag
//	lane 1: [0:2] Y position  [2] Y scale high  [3] Y scale low6 | tag
//	lane 2: [0] R  [1] G  [2] B  [3] A high6 | tag
//	lane 3: [0] sub-image index  [1] rows*16+cols  [2] rotation high  [3] rotation low6 | tag
type InstanceRecord [4]uint32

// InstanceParams is the unpacked input to PackInstance.
type InstanceParams struct {
	Position Vec2
	// Rotation is in degrees; any value is accepted and normalised.
	Rotation float32
	Color    RGBA8
	Scale    Vec2
	SubImage float32
	// SubImageColumns and SubImageRows describe the flipbook grid. The
	// generators always pass at least 1x1.
	SubImageColumns int
	SubImageRows    int
}

// PackInstance encodes p into an InstanceRecord. It is pure and
// deterministic; out-of-range values are clamped. All four tag fields are
// always set.
func PackInstance(p InstanceParams) InstanceRecord {
	var rec InstanceRecord
	for lane := range rec {
		packByte(&rec, lane, 3, instanceTag)
	}

	px := clamp(float32(p.Position.X), positionMin, positionMax)
	py := clamp(float32(p.Position.Y), positionMin, positionMax)
	packUint16(&rec, 0, 0, uint16((px+positionOffset)*positionScale))
	packUint16(&rec, 1, 0, uint16((py+positionOffset)*positionScale))

	sx := uint16(clamp(float32(p.Scale.X), 0, scaleMax) * scaleFixed)
	sy := uint16(clamp(float32(p.Scale.Y), 0, scaleMax) * scaleFixed)
	packByte(&rec, 0, 2, uint8(sx>>8))
	packByte(&rec, 0, 3, tagged(uint8(sx)))
	packByte(&rec, 1, 2, uint8(sy>>8))
	packByte(&rec, 1, 3, tagged(uint8(sy)))

	packByte(&rec, 2, 0, p.Color.R)
	packByte(&rec, 2, 1, p.Color.G)
	packByte(&rec, 2, 2, p.Color.B)
	packByte(&rec, 2, 3, tagged(p.Color.A))

	rot := uint16(NormalizeRotation(p.Rotation) * rotationFixed)
	packByte(&rec, 3, 2, uint8(rot>>8))
	packByte(&rec, 3, 3, tagged(uint8(rot)))

	cols := clamp(p.SubImageColumns, 0, maxGridDivider)
	rows := clamp(p.SubImageRows, 0, maxGridDivider)
	packByte(&rec, 3, 0, uint8(clamp(p.SubImage, 0, 255)))
	packByte(&rec, 3, 1, uint8(rows*16+cols))

	return rec
}

// NormalizeRotation maps degrees into [0, 360).
func NormalizeRotation(deg float32) float32 {
	if math.IsNaN(float64(deg)) || math.IsInf(float64(deg), 0) {
		return 0
	}
	a := float32(math.Mod(float64(deg), 360))
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// tagged replaces the low two bits of v with the validity tag.
func tagged(v uint8) uint8 {
	return v&^tagMask | instanceTag
}

func packByte(rec *InstanceRecord, lane, index int, v uint8) {
	shift := uint(index * 8)
	rec[lane] = rec[lane]&^(0xFF<<shift) | uint32(v)<<shift
}

func packUint16(rec *InstanceRecord, lane, index int, v uint16) {
	shift := uint(index * 16)
	rec[lane] = rec[lane]&^(0xFFFF<<shift) | uint32(v)<<shift
}

func laneByte(rec InstanceRecord, lane, index int) uint8 {
	return uint8(rec[lane] >> uint(index*8))
}

// Tags returns the four validity tag fields. A packed record always reports
// {2, 2, 2, 2}; a zeroed lane reports 0.
func (r InstanceRecord) Tags() [4]uint8 {
	var tags [4]uint8
	for lane := range r {
		tags[lane] = laneByte(r, lane, 3) & tagMask
	}
	return tags
}

// DecodedInstance is the unpacked content of an InstanceRecord, quantised.
type DecodedInstance struct {
	Position        Vec2
	Scale           Vec2
	Rotation        float32
	Color           RGBA8
	SubImage        uint8
	SubImageColumns int
	SubImageRows    int
}

// Decode reverses PackInstance up to quantisation. Alpha's dropped low bits
// are reconstructed by replicating its top bits, so 0 and 255 round-trip.
func (r InstanceRecord) Decode() DecodedInstance {
	var d DecodedInstance
	d.Position.X = float64(uint16(r[0]))/positionScale - positionOffset
	d.Position.Y = float64(uint16(r[1]))/positionScale - positionOffset

	sx := uint16(laneByte(r, 0, 2))<<8 | uint16(laneByte(r, 0, 3)&^tagMask)
	sy := uint16(laneByte(r, 1, 2))<<8 | uint16(laneByte(r, 1, 3)&^tagMask)
	d.Scale = Vec2{float64(sx) / scaleFixed, float64(sy) / scaleFixed}

	a := laneByte(r, 2, 3) &^ tagMask
	d.Color = RGBA8{
		R: laneByte(r, 2, 0),
		G: laneByte(r, 2, 1),
		B: laneByte(r, 2, 2),
		A: a | a>>6,
	}

	rot := uint16(laneByte(r, 3, 2))<<8 | uint16(laneByte(r, 3, 3)&^tagMask)
	d.Rotation = float32(rot) / rotationFixed

	d.SubImage = laneByte(r, 3, 0)
	grid := laneByte(r, 3, 1)
	d.SubImageColumns = int(grid & 0x0F)
	d.SubImageRows = int(grid >> 4)
	return d
}

// InstanceBytes returns the records as a byte slice sharing their memory,
// ready for upload to a GPU instance buffer.
func InstanceBytes(recs []InstanceRecord) []byte {
	if len(recs) == 0 {
		return nil
	}
	return safeish.SliceCast[[]byte](recs)
}

// clamp limits v to [lo, hi]. NaN maps to lo.
func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
