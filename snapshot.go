package particleui

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gocarina/gocsv"
)

// LoadParticleCSV reads a particle snapshot with one row per particle.
//
// Column names select the attribute type: "Name.X", "Name.Y" (and ".Z",
// ".W") form a Vec2, Vec3 or Quat attribute; "Name.R" ... "Name.A" form a
// Color (missing channels are 1); a plain column ending in "ID" is a
// RibbonID; any other plain column is a float32.
func LoadParticleCSV(r io.Reader) (*ParticleBuffer, error) {
	rows, err := gocsv.CSVToMaps(r)
	if err != nil {
		return nil, fmt.Errorf("particleui: reading particle csv: %w", err)
	}
	buf := NewParticleBuffer(len(rows))
	if len(rows) == 0 {
		return buf, nil
	}

	attrs := make(map[string][]string) // attribute -> components
	var names []string
	for key := range rows[0] {
		base, comp, found := strings.Cut(key, ".")
		if !found {
			comp = ""
		}
		if _, seen := attrs[base]; !seen {
			names = append(names, base)
		}
		attrs[base] = append(attrs[base], comp)
	}
	sort.Strings(names)

	for _, name := range names {
		comps := attrs[name]
		if err := loadColumn(buf, rows, name, comps); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func loadColumn(buf *ParticleBuffer, rows []map[string]string, name string, comps []string) error {
	has := make(map[string]bool, len(comps))
	for _, c := range comps {
		has[strings.ToUpper(c)] = true
	}
	get := func(row int, comp string, def float64) (float64, error) {
		key := name
		if comp != "" {
			key += "." + comp
		}
		s, ok := rows[row][key]
		if !ok || strings.TrimSpace(s) == "" {
			s, ok = rows[row][name+"."+strings.ToLower(comp)]
			if !ok || strings.TrimSpace(s) == "" {
				return def, nil
			}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("particleui: row %d column %q: %w", row+1, key, err)
		}
		return v, nil
	}

	n := len(rows)
	switch {
	case has["R"] || has["G"] || has["B"] || has["A"]:
		col := make([]Color, n)
		for i := range col {
			var ch [4]float64
			for j, c := range [4]string{"R", "G", "B", "A"} {
				v, err := get(i, c, 1)
				if err != nil {
					return err
				}
				ch[j] = v
			}
			col[i] = Color{ch[0], ch[1], ch[2], ch[3]}
		}
		SetColumn(buf, name, col)

	case has["W"]:
		col := make([]mgl32.Quat, n)
		for i := range col {
			v, err := components(get, i, "X", "Y", "Z", "W")
			if err != nil {
				return err
			}
			col[i] = mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
		}
		SetColumn(buf, name, col)

	case has["Z"]:
		col := make([]mgl32.Vec3, n)
		for i := range col {
			v, err := components(get, i, "X", "Y", "Z")
			if err != nil {
				return err
			}
			col[i] = mgl32.Vec3{v[0], v[1], v[2]}
		}
		SetColumn(buf, name, col)

	case has["X"] || has["Y"]:
		col := make([]mgl32.Vec2, n)
		for i := range col {
			v, err := components(get, i, "X", "Y")
			if err != nil {
				return err
			}
			col[i] = mgl32.Vec2{v[0], v[1]}
		}
		SetColumn(buf, name, col)

	case strings.HasSuffix(name, "ID"):
		col := make([]RibbonID, n)
		for i := range col {
			s := strings.TrimSpace(rows[i][name])
			if s == "" {
				continue
			}
			id, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return fmt.Errorf("particleui: row %d column %q: %w", i+1, name, err)
			}
			col[i] = RibbonID(id)
		}
		SetColumn(buf, name, col)

	default:
		col := make([]float32, n)
		for i := range col {
			v, err := get(i, "", 0)
			if err != nil {
				return err
			}
			col[i] = float32(v)
		}
		SetColumn(buf, name, col)
	}
	return nil
}

func components(get func(int, string, float64) (float64, error), row int, comps ...string) ([]float32, error) {
	out := make([]float32, len(comps))
	for i, c := range comps {
		v, err := get(row, c, 0)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

// InstanceRow is one decoded instance record, as written by WriteInstanceCSV.
type InstanceRow struct {
	Batch    int     `csv:"batch"`
	Material string  `csv:"material"`
	Instance int     `csv:"instance"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	ScaleX   float64 `csv:"scale_x"`
	ScaleY   float64 `csv:"scale_y"`
	Rotation float32 `csv:"rotation"`
	R        uint8   `csv:"r"`
	G        uint8   `csv:"g"`
	B        uint8   `csv:"b"`
	A        uint8   `csv:"a"`
	SubImage uint8   `csv:"sub_image"`
	Columns  int     `csv:"columns"`
	Rows     int     `csv:"rows"`
	Raw0     string  `csv:"lane0"`
	Raw1     string  `csv:"lane1"`
	Raw2     string  `csv:"lane2"`
	Raw3     string  `csv:"lane3"`
}

// InstanceRows decodes every instance record of the instanced batches in l.
func InstanceRows(l *BatchList) []InstanceRow {
	var out []InstanceRow
	for bi, b := range l.Batches() {
		for ii, rec := range b.Instances {
			d := rec.Decode()
			out = append(out, InstanceRow{
				Batch:    bi,
				Material: materialName(b.Material),
				Instance: ii,
				X:        d.Position.X,
				Y:        d.Position.Y,
				ScaleX:   d.Scale.X,
				ScaleY:   d.Scale.Y,
				Rotation: d.Rotation,
				R:        d.Color.R,
				G:        d.Color.G,
				B:        d.Color.B,
				A:        d.Color.A,
				SubImage: d.SubImage,
				Columns:  d.SubImageColumns,
				Rows:     d.SubImageRows,
				Raw0:     fmt.Sprintf("%08x", rec[0]),
				Raw1:     fmt.Sprintf("%08x", rec[1]),
				Raw2:     fmt.Sprintf("%08x", rec[2]),
				Raw3:     fmt.Sprintf("%08x", rec[3]),
			})
		}
	}
	return out
}

// WriteInstanceCSV writes InstanceRows(l) as CSV with a header row.
func WriteInstanceCSV(w io.Writer, l *BatchList) error {
	rows := InstanceRows(l)
	if rows == nil {
		rows = []InstanceRow{}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("particleui: writing instance csv: %w", err)
	}
	return nil
}
