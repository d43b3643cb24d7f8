// Package particleui turns CPU particle simulation snapshots into 2D render
// batches for a UI surface drawn with [Ebitengine].
//
// A [System] holds emitters; each [Emitter] exposes its current particles as a
// columnar [ParticleBuffer] and lists the renderers that draw them. A
// [Widget] owns the per-frame output: every call to [Widget.Paint] clears its
// [BatchList] and rebuilds it for the destination [Geometry], and
// [Widget.Draw] submits the batches to an image.
//
//	sys := &particleui.System{Emitters: []*particleui.Emitter{{
//		Name: "sparks",
//		Data: buf,
//		Renderers: []particleui.Renderer{&particleui.SpriteRenderer{
//			RendererProps: particleui.RendererProps{Material: spark},
//			Alignment:     particleui.SpriteVelocityAligned,
//		}},
//	}}}
//	w := particleui.NewWidget(sys, particleui.DefaultWidgetProperties(), brushes)
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.widget.Paint(particleui.NewGeometry(640, 480))
//		g.widget.Draw(screen)
//	}
//
// # Renderers
//
// [SpriteRenderer] draws one instanced quad per particle. [RibbonRenderer]
// joins particles into textured strips, one per ribbon ID. [MeshRenderer]
// instances a [StaticMesh] flattened onto its XY plane; widgets flatten the
// meshes of their system once, at construction.
//
// # Coordinates
//
// Simulation space has X right, Z up and Y as depth. The destination surface
// is embedded in that space at its center, rotated about Y by the surface
// rotation; projected positions drop Y and flip Z to screen-down. Depth can
// optionally scale sprites ([WidgetProperties.FakeDepthScale]).
//
// # Instance records
//
// Sprite and mesh particles are encoded into four-lane [InstanceRecord]
// values by [PackInstance]; [InstanceBytes] views them as bytes for GPU
// upload. [BatchList.Draw] decodes and expands them on the CPU.
//
// Configuration can be loaded from YAML with [LoadConfig], and snapshots
// from CSV with [LoadParticleCSV].
//
// [Ebitengine]: https://ebitengine.org
package particleui
