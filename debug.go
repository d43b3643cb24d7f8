package particleui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// logWriter receives warnings and debug output.
var logWriter io.Writer = os.Stderr

// SetLogOutput redirects warnings and debug output. Nil restores stderr.
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logWriter = w
}

// warnf prints a prefixed warning line.
func warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(logWriter, "[particleui] warning: "+format+"\n", args...)
}

// debugStats holds per-paint timing and batch metrics.
// Only populated when Widget.debug is true.
type debugStats struct {
	sortTime     time.Duration
	generateTime time.Duration
	emitterCount int
	skippedCount int
	particles    int
	batches      BatchStats
}

// debugLog prints timing and batch stats.
func (w *Widget) debugLog(stats debugStats) {
	if !w.debug {
		return
	}
	total := stats.sortTime + stats.generateTime
	_, _ = fmt.Fprintf(logWriter,
		"[particleui] sort: %v | generate: %v | total: %v\n",
		stats.sortTime, stats.generateTime, total)
	_, _ = fmt.Fprintf(logWriter,
		"[particleui] emitters: %d (skipped %d) | particles: %d | batches: %d | vertices: %d | indices: %d | instances: %d\n",
		stats.emitterCount, stats.skippedCount, stats.particles,
		stats.batches.Batches, stats.batches.Vertices, stats.batches.Indices, stats.batches.Instances)
}

// debugOrder prints the renderer draw order of the current paint.
func (w *Widget) debugOrder() {
	var sb strings.Builder
	for i, it := range w.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s/%s(%d)", it.emitter.Name, rendererKind(it.renderer), it.hint)
	}
	_, _ = fmt.Fprintf(logWriter, "[particleui] order: %s\n", sb.String())
}

// debugMaxInstances is the per-batch instance count above which debug mode
// warns.
const debugMaxInstances = 10000

func (w *Widget) debugCheckBatches() {
	for _, b := range w.batches.Batches() {
		if len(b.Instances) > debugMaxInstances {
			w.warnf("batch for material %q has %d instances (threshold %d)",
				materialName(b.Material), len(b.Instances), debugMaxInstances)
		}
	}
}

func materialName(m *Material) string {
	if m == nil {
		return "<none>"
	}
	return m.Name
}
