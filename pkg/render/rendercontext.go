package render

import "github.com/taigrr/dotraster/pkg/math3d"

// RenderContext orchestrates one draw call: per spec, it calls Prepare,
// clears the four attribute streams, and for every index triple runs the
// vertex stage three times, perspective-divides x and y by z, and submits
// the triangle to the Rasterizer. The vertex stage itself owns the full
// model/view/projection transform (see the concrete programs in shader.go);
// the Render Context never multiplies by a matrix — it only performs the
// divide the spec assigns to it.
type RenderContext struct {
	Rasterizer *Rasterizer

	// Culler, if set, is consulted once per Draw call before any vertex
	// shading happens; returning false skips the whole draw. This is the
	// mesh-level frustum-rejection optimisation, distinct from the
	// Rasterizer's per-triangle back-face/degenerate/viewport skips, and is
	// entirely optional — a nil Culler draws everything submitted.
	Culler func(worldMin, worldMax math3d.Vec3) bool
}

// NewRenderContext wraps a Rasterizer.
func NewRenderContext(r *Rasterizer) *RenderContext {
	return &RenderContext{Rasterizer: r}
}

// Draw runs one indexed-triangle draw call against vi using program.
// worldMin/worldMax is the mesh's world-space AABB, consulted only by an
// optional Culler.
func (rc *RenderContext) Draw(vi *VertexInput, program *ShaderProgram, worldMin, worldMax math3d.Vec3) error {
	if rc.Culler != nil && !rc.Culler(worldMin, worldMax) {
		return nil
	}

	program.Prepare()
	v1s, v2s, v3s, outs := program.GetPassBuffers()

	triangles := vi.TriangleCount()
	for t := 0; t < triangles; t++ {
		idx := vi.Triangle(t)

		v1s.Clear()
		v2s.Clear()
		v3s.Clear()
		outs.Clear()

		var clipVerts [3]ClipVertex
		streams := [3]*AttributeStream{v1s, v2s, v3s}

		for i, vertIdx := range idx {
			clip := program.ExecuteVertexShader(vi.Data, vi.Stride, vertIdx, streams[i])

			x, y := clip.X, clip.Y
			if clip.Z != 0 {
				x /= clip.Z
				y /= clip.Z
			}
			clipVerts[i] = ClipVertex{X: x, Y: y, Z: clip.Z, W: clip.W}
		}

		if err := rc.Rasterizer.DrawTriangle(clipVerts[0], clipVerts[1], clipVerts[2], program); err != nil {
			return err
		}
	}

	return nil
}
