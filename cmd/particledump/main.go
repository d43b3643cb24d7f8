// Command particledump runs one paint pass of a particle system described in
// YAML over CSV particle snapshots, and prints the resulting batches.
//
//	particledump -config system.yaml -snapshot sparks=sparks.csv -out instances.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/phanxgames/particleui"
)

// snapshotFlags collects repeated -snapshot emitter=path.csv values.
type snapshotFlags map[string]string

func (s snapshotFlags) String() string {
	parts := make([]string, 0, len(s))
	for k, v := range s {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (s snapshotFlags) Set(v string) error {
	name, path, ok := strings.Cut(v, "=")
	if !ok || name == "" || path == "" {
		return fmt.Errorf("want emitter=path.csv, got %q", v)
	}
	s[name] = path
	return nil
}

// options are the parsed command line flags.
type options struct {
	configPath  string
	snapshots   snapshotFlags
	width       float64
	height      float64
	scale       float64
	rotation    float64
	out         string
	printConfig bool
	debug       bool
}

func main() {
	opts := options{snapshots: snapshotFlags{}}
	flag.StringVar(&opts.configPath, "config", "", "System YAML file (empty = use defaults)")
	flag.Var(opts.snapshots, "snapshot", "Particle CSV for an emitter, as name=path.csv (repeatable)")
	flag.Float64Var(&opts.width, "width", 800, "Surface width in pixels")
	flag.Float64Var(&opts.height, "height", 600, "Surface height in pixels")
	flag.Float64Var(&opts.scale, "scale", 1, "Accumulated layout scale")
	flag.Float64Var(&opts.rotation, "rotation", 0, "Surface rotation in degrees")
	flag.StringVar(&opts.out, "out", "", "Write decoded instance records as CSV to this file (- = stdout)")
	flag.BoolVar(&opts.printConfig, "print-config", false, "Print the merged configuration and exit")
	flag.BoolVar(&opts.debug, "debug", false, "Log paint timing and batch stats")
	flag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run performs one paint pass and reports to stdout. Every resource it opens
// is released before it returns, on success or error.
func run(opts options, stdout io.Writer) error {
	cfg, err := particleui.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.printConfig {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	sys, err := cfg.Build(placeholderMaterials(cfg))
	if err != nil {
		return fmt.Errorf("failed to build system: %w", err)
	}

	for name, path := range opts.snapshots {
		em := sys.Emitter(name)
		if em == nil {
			return fmt.Errorf("snapshot for unknown emitter %q", name)
		}
		buf, err := loadSnapshot(path)
		if err != nil {
			return fmt.Errorf("emitter %q: %w", name, err)
		}
		em.Data = buf
	}

	brushes := particleui.NewBrushCache()
	defer brushes.Close()

	w := particleui.NewWidget(sys, cfg.Properties(), brushes)
	defer w.Close()
	w.SetDebugMode(opts.debug)
	w.Activate(true)

	g := particleui.NewGeometry(opts.width, opts.height)
	g.LayoutScale = opts.scale
	g.RenderTransform = particleui.Affine(0, 0, 0, opts.scale, opts.scale)
	g = g.Rotated(opts.rotation * math.Pi / 180)

	batches := w.Paint(g)

	stats := batches.Stats()
	fmt.Fprintf(stdout, "system %q: %d emitters, %d meshes\n", sys.Name, len(sys.Emitters), w.MeshCache().Len())
	fmt.Fprintf(stdout, "batches: %d | vertices: %d | indices: %d | instances: %d | brushes: %d\n",
		stats.Batches, stats.Vertices, stats.Indices, stats.Instances, brushes.Len())
	for i, b := range batches.Batches() {
		kind := "strip"
		if b.Instanced() {
			kind = "instanced"
		}
		name := "<none>"
		if b.Material != nil {
			name = b.Material.Name
		}
		fmt.Fprintf(stdout, "  [%d] %-9s material=%-12s vertices=%-5d triangles=%-5d instances=%d\n",
			i, kind, name, len(b.Vertices), b.Triangles(), len(b.Instances))
	}

	switch opts.out {
	case "":
		return nil
	case "-":
		return particleui.WriteInstanceCSV(stdout, batches)
	}
	return writeInstances(opts.out, batches)
}

// writeInstances writes the decoded instance CSV to a new file at path. A
// failed close is reported, since it can lose buffered data.
func writeInstances(path string, batches *particleui.BatchList) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()
	return particleui.WriteInstanceCSV(f, batches)
}

func loadSnapshot(path string) (*particleui.ParticleBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return particleui.LoadParticleCSV(f)
}

// placeholderMaterials returns an untextured material for every material
// name the configuration references.
func placeholderMaterials(cfg *particleui.Config) map[string]*particleui.Material {
	mats := make(map[string]*particleui.Material)
	for _, ec := range cfg.System.Emitters {
		for _, rc := range ec.Renderers {
			if rc.Material != "" && mats[rc.Material] == nil {
				mats[rc.Material] = &particleui.Material{Name: rc.Material}
			}
		}
	}
	return mats
}
