package particleui

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// meshForward is the mesh axis that orientation rotates to find its heading.
var meshForward = mgl32.Vec3{1, 0, 0}

// AddMeshBatch appends one instanced batch drawing the flattened form of
// r.Mesh once per particle. Nothing is appended when the buffer is empty or
// invalid, or when cache has no entry for the mesh.
func AddMeshBatch(list *BatchList, data *ParticleBuffer, r *MeshRenderer, cache *MeshCache, ctx LayoutContext) {
	n := data.Len()
	if n == 0 || r.Mesh == nil {
		return
	}
	flat, ok := cache.Lookup(r.Mesh.ID)
	if !ok {
		return
	}

	b := list.add(r.Material, len(flat.Vertices), len(flat.Indices), true)
	if b == nil {
		return
	}
	copy(b.Vertices, flat.Vertices)
	copy(b.Indices, flat.Indices)
	if cap(b.Instances) < n {
		b.Instances = make([]InstanceRecord, 0, n)
	}

	bind := r.Bindings
	positions := NewReader[mgl32.Vec3](data, bindOr(bind.Position, "Position"))
	colors := NewReader[Color](data, bindOr(bind.Color, "Color"))
	velocities := NewReader[mgl32.Vec3](data, bindOr(bind.Velocity, "Velocity"))
	scales := NewReader[mgl32.Vec3](data, bindOr(bind.Scale, "Scale"))
	orientations := NewReader[mgl32.Quat](data, bindOr(bind.Orientation, "MeshOrientation"))

	proj := newProjector(ctx)
	cols, rows := gridDims(r.SubImageColumns, r.SubImageRows)

	for i := 0; i < n; i++ {
		var heading mgl32.Vec3
		if r.Facing == MeshFacingVelocity {
			heading = proj.velocity3D(velocities.Get(i, defaultVec3))
		} else {
			heading = orientations.Get(i, defaultQuat).Rotate(meshForward)
		}
		rot := degrees(math.Atan2(float64(-heading.Z()), float64(heading.X())))

		size := scales.Get(i, defaultVec3).Mul(proj.scale)
		b.Instances = append(b.Instances, PackInstance(InstanceParams{
			Position:        proj.position2D(positions.Get(i, defaultVec3)),
			Rotation:        rot,
			Color:           colors.Get(i, defaultColor).ToRGBA8(false),
			Scale:           Vec2{float64(size.X()), float64(size.Z())},
			SubImageColumns: cols,
			SubImageRows:    rows,
		}))
	}
}
