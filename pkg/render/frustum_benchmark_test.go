package render

import (
	"math"
	"math/rand"
	"testing"

	"github.com/taigrr/dotraster/pkg/math3d"
)

// BenchmarkFrustumExtract benchmarks frustum plane extraction from view-projection matrix.
func BenchmarkFrustumExtract(b *testing.B) {
	fov := math.Pi / 3
	aspect := 16.0 / 9.0
	near := 0.1
	far := 100.0

	proj := math3d.Perspective(fov, aspect, near, far)
	view := math3d.Identity()
	viewProj := proj.Mul(view)

	for b.Loop() {
		_ = ExtractFrustum(viewProj)
	}
}

// BenchmarkAABBIntersection benchmarks AABB vs frustum intersection test.
func BenchmarkAABBIntersection(b *testing.B) {
	fov := math.Pi / 3
	aspect := 16.0 / 9.0
	near := 0.1
	far := 100.0

	proj := math3d.Perspective(fov, aspect, near, far)
	view := math3d.Identity()
	viewProj := proj.Mul(view)
	frustum := ExtractFrustum(viewProj)

	// AABB in front of camera (visible)
	visibleBounds := AABB{
		Min: math3d.V3(-1, -1, -15),
		Max: math3d.V3(1, 1, -5),
	}

	b.Run("visible", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = frustum.IntersectsFrustum(visibleBounds)
		}
	})

	// AABB behind camera (culled quickly)
	culledBounds := AABB{
		Min: math3d.V3(-1, -1, 5),
		Max: math3d.V3(1, 1, 15),
	}

	b.Run("culled", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = frustum.IntersectsFrustum(culledBounds)
		}
	})
}

// BenchmarkTransformAABB benchmarks AABB transformation.
func BenchmarkTransformAABB(b *testing.B) {
	local := AABB{
		Min: math3d.V3(-1, -1, -1),
		Max: math3d.V3(1, 1, 1),
	}
	transform := math3d.Translate(math3d.V3(10, 5, -20)).Mul(math3d.RotateY(0.5)).Mul(math3d.ScaleUniform(2))

	for b.Loop() {
		_ = TransformAABB(local, transform)
	}
}

// BenchmarkCullingScenario simulates culling N objects, some visible, some not.
func BenchmarkCullingScenario(b *testing.B) {
	// Setup camera and frustum
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 10, 20))
	cam.LookAt(math3d.V3(0, 0, 0))

	viewProj := cam.ViewProjectionMatrix()
	frustum := ExtractFrustum(viewProj)

	// Generate random objects: some in view, some out
	rng := rand.New(rand.NewSource(42))
	objectCount := 100

	type object struct {
		bounds    AABB
		transform math3d.Mat4
	}
	objects := make([]object, objectCount)

	for i := range objectCount {
		// Random position: X, Z in [-50, 50], Y in [0, 10]
		x := rng.Float64()*100 - 50
		y := rng.Float64() * 10
		z := rng.Float64()*100 - 50

		objects[i] = object{
			bounds: AABB{
				Min: math3d.V3(-1, -1, -1),
				Max: math3d.V3(1, 1, 1),
			},
			transform: math3d.Translate(math3d.V3(x, y, z)),
		}
	}

	b.Run("with_culling", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			visible := 0
			for _, obj := range objects {
				worldBounds := TransformAABB(obj.bounds, obj.transform)
				if frustum.IntersectsFrustum(worldBounds) {
					visible++
				}
			}
			_ = visible
		}
	})

	b.Run("no_culling", func(b *testing.B) {
		// Simulate just doing work without culling
		for i := 0; i < b.N; i++ {
			visible := 0
			for range objects {
				// Pretend we "render" everything
				visible++
			}
			_ = visible
		}
	})
}

// BenchmarkMeshRenderingComparison compares draw calls gated by a frustum
// Culler against the same calls with no Culler, over a mix of objects in
// front of and behind the camera.
func BenchmarkMeshRenderingComparison(b *testing.B) {
	rast, err := NewRasterizer(160, 120)
	if err != nil {
		b.Fatal(err)
	}
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 10, 20))
	cam.LookAt(math3d.V3(0, 0, 0))

	data, indices := cubeVertexInput()
	vi := NewVertexInput(data, indices, 8)
	localBounds := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}

	lightDir := math3d.V3(0.5, 1, 0.3).Normalize()
	viewProj := cam.ViewProjectionMatrix()

	rng := rand.New(rand.NewSource(42))
	objectCount := 100
	models := make([]math3d.Mat4, objectCount)
	for i := range objectCount {
		var z float64
		if i%2 == 0 {
			z = rng.Float64()*30 - 40
		} else {
			z = rng.Float64()*20 + 25
		}
		x := rng.Float64()*40 - 20
		y := rng.Float64() * 10
		models[i] = math3d.Translate(math3d.V3(x, y, z))
	}

	b.Run("with_culling", func(b *testing.B) {
		rc := NewRenderContext(rast)
		rc.Culler = func(worldMin, worldMax math3d.Vec3) bool {
			frustum := ExtractFrustum(viewProj)
			return frustum.IntersectsFrustum(AABB{Min: worldMin, Max: worldMax})
		}

		for i := 0; i < b.N; i++ {
			rast.ClearDepth()
			rast.ResetCullingStats()

			for _, model := range models {
				program := NewGouraudProgram(model, viewProj, lightDir)
				worldBounds := TransformAABB(localBounds, model)
				_ = rc.Draw(vi, program, worldBounds.Min, worldBounds.Max)
			}
		}
	})

	b.Run("without_culling", func(b *testing.B) {
		rc := NewRenderContext(rast)

		for i := 0; i < b.N; i++ {
			rast.ClearDepth()
			rast.ResetCullingStats()

			for _, model := range models {
				program := NewGouraudProgram(model, viewProj, lightDir)
				_ = rc.Draw(vi, program, localBounds.Min, localBounds.Max)
			}
		}
	})
}

// cubeVertexInput builds an interleaved pos+normal+uv vertex buffer and
// index list for a unit cube, matching Mesh.ToVertexInput's stride.
func cubeVertexInput() (data []float32, indices []int) {
	type cubeVert struct {
		pos, normal math3d.Vec3
	}
	verts := []cubeVert{
		{math3d.V3(-1, -1, 1), math3d.V3(0, 0, 1)},
		{math3d.V3(1, -1, 1), math3d.V3(0, 0, 1)},
		{math3d.V3(1, 1, 1), math3d.V3(0, 0, 1)},
		{math3d.V3(-1, 1, 1), math3d.V3(0, 0, 1)},
		{math3d.V3(-1, -1, -1), math3d.V3(0, 0, -1)},
		{math3d.V3(1, -1, -1), math3d.V3(0, 0, -1)},
		{math3d.V3(1, 1, -1), math3d.V3(0, 0, -1)},
		{math3d.V3(-1, 1, -1), math3d.V3(0, 0, -1)},
	}
	for _, v := range verts {
		data = append(data,
			float32(v.pos.X), float32(v.pos.Y), float32(v.pos.Z),
			float32(v.normal.X), float32(v.normal.Y), float32(v.normal.Z),
			0, 0,
		)
	}
	faces := [][3]int{
		{0, 1, 2}, {0, 2, 3},
		{4, 6, 5}, {4, 7, 6},
		{0, 3, 7}, {0, 7, 4},
		{1, 5, 6}, {1, 6, 2},
		{3, 2, 6}, {3, 6, 7},
		{0, 4, 5}, {0, 5, 1},
	}
	for _, f := range faces {
		indices = append(indices, f[0], f[1], f[2])
	}
	return data, indices
}
