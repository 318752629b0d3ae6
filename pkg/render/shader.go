package render

import (
	"math"

	"github.com/taigrr/dotraster/pkg/math3d"
)

// Uniforms is a fixed-capacity array of scalar uniform values, declared at
// program construction and updated from Prepare.
type Uniforms struct {
	values []float32
}

// NewUniforms allocates a fixed-capacity uniform array.
func NewUniforms(capacity int) *Uniforms {
	return &Uniforms{values: make([]float32, capacity)}
}

// Len returns the uniform array's fixed capacity.
func (u *Uniforms) Len() int { return len(u.values) }

// Get returns uniform i.
func (u *Uniforms) Get(i int) float32 { return u.values[i] }

// Set assigns uniform i.
func (u *Uniforms) Set(i int, v float32) { u.values[i] = v }

// VertexStageFunc reads the vertex at vertexBuffer[index*stride], writes any
// number of attribute locations into out, and returns a clip-space position.
type VertexStageFunc func(vertexBuffer []float32, stride, index int, out *AttributeStream, uniforms *Uniforms) math3d.Vec4

// FragmentStageFunc returns a scalar brightness in [0,1] from the
// interpolated attributes in the OUT stream.
type FragmentStageFunc func(in *AttributeStream, uniforms *Uniforms) float64

// PrepareFunc is invoked once per draw, before the first vertex, to let the
// application update uniforms.
type PrepareFunc func(uniforms *Uniforms)

// ShaderProgram is the programmable pair of stages a draw call binds,
// together with the four attribute streams and the uniform array.
type ShaderProgram struct {
	Vertex   VertexStageFunc
	Fragment FragmentStageFunc
	PrepareFn PrepareFunc
	Uniforms *Uniforms

	v1, v2, v3, out *AttributeStream
}

// NewShaderProgram constructs a program with the given uniform capacity and
// the default stages (vertex passthrough of the first three scalars,
// fragment returning brightness 1.0). Assign the Vertex, Fragment and
// PrepareFn fields to install a real program.
func NewShaderProgram(uniformCapacity int) *ShaderProgram {
	return &ShaderProgram{
		Vertex:   defaultVertexStage,
		Fragment: defaultFragmentStage,
		Uniforms: NewUniforms(uniformCapacity),
		v1:       NewAttributeStream(),
		v2:       NewAttributeStream(),
		v3:       NewAttributeStream(),
		out:      NewAttributeStream(),
	}
}

func defaultVertexStage(vertexBuffer []float32, stride, index int, out *AttributeStream, uniforms *Uniforms) math3d.Vec4 {
	base := index * stride
	x, y, z := float64(0), float64(0), float64(0)
	if stride > 0 {
		x = float64(vertexBuffer[base])
	}
	if stride > 1 {
		y = float64(vertexBuffer[base+1])
	}
	if stride > 2 {
		z = float64(vertexBuffer[base+2])
	}
	return math3d.Vec4{X: x, Y: y, Z: z, W: 1}
}

func defaultFragmentStage(in *AttributeStream, uniforms *Uniforms) float64 {
	return 1.0
}

// Prepare is invoked once per draw call before the first vertex.
func (p *ShaderProgram) Prepare() {
	if p.PrepareFn != nil {
		p.PrepareFn(p.Uniforms)
	}
}

// ExecuteVertexShader runs the vertex stage for vertex index against the
// given output stream, which must already be cleared.
func (p *ShaderProgram) ExecuteVertexShader(vertexBuffer []float32, stride, index int, out *AttributeStream) math3d.Vec4 {
	return p.Vertex(vertexBuffer, stride, index, out, p.Uniforms)
}

// ExecuteFragmentShader runs the fragment stage against the interpolated
// attribute stream.
func (p *ShaderProgram) ExecuteFragmentShader(in *AttributeStream) float64 {
	return p.Fragment(in, p.Uniforms)
}

// GetPassBuffers returns the four parallel streams in the fixed order
// {V1, V2, V3, OUT}.
func (p *ShaderProgram) GetPassBuffers() (v1, v2, v3, out *AttributeStream) {
	return p.v1, p.v2, p.v3, p.out
}

// --- Concrete shader library (application layer) -----------------------
//
// These mirror the teacher's DrawTriangleLit / DrawTriangleGouraud /
// DrawTriangleTexturedGouraud split: a Gouraud program computes brightness
// once per vertex and interpolates the scalar, a Lit program interpolates
// the normal and computes brightness once per fragment (smoother but more
// expensive), and a Textured program additionally samples a Texture inside
// the fragment stage — the rasterizer itself never touches Texture.

// Uniform slot conventions shared by the shaders below. The vertex stage
// owns the full model -> clip transform so its returned Vec4 is already a
// genuine clip-space position; the Render Context never multiplies by a
// matrix itself, it only divides x, y by the returned z per spec.
const (
	uniformModel0       = 0  // model matrix, 16 scalars starting here
	uniformViewProj0    = 16 // view-projection matrix, 16 scalars starting here
	uniformLightDir0    = 32
	gouraudUniformCount = 35
)

func setModelUniform(u *Uniforms, m math3d.Mat4) {
	for i := 0; i < 16; i++ {
		u.Set(uniformModel0+i, float32(m[i]))
	}
}

func setViewProjUniform(u *Uniforms, m math3d.Mat4) {
	for i := 0; i < 16; i++ {
		u.Set(uniformViewProj0+i, float32(m[i]))
	}
}

func setLightDirUniform(u *Uniforms, dir math3d.Vec3) {
	n := dir.Normalize()
	u.Set(uniformLightDir0, float32(n.X))
	u.Set(uniformLightDir0+1, float32(n.Y))
	u.Set(uniformLightDir0+2, float32(n.Z))
}

func modelUniform(u *Uniforms) math3d.Mat4 {
	var m math3d.Mat4
	for i := 0; i < 16; i++ {
		m[i] = float64(u.Get(uniformModel0 + i))
	}
	return m
}

func viewProjUniform(u *Uniforms) math3d.Mat4 {
	var m math3d.Mat4
	for i := 0; i < 16; i++ {
		m[i] = float64(u.Get(uniformViewProj0 + i))
	}
	return m
}

func lightDirUniform(u *Uniforms) math3d.Vec3 {
	return math3d.V3(
		float64(u.Get(uniformLightDir0)),
		float64(u.Get(uniformLightDir0+1)),
		float64(u.Get(uniformLightDir0+2)),
	)
}

// NewGouraudProgram returns a program that computes per-vertex brightness
// from the transformed normal and the light direction, then interpolates
// the scalar brightness across the triangle (classic Gouraud shading).
func NewGouraudProgram(model, viewProj math3d.Mat4, lightDir math3d.Vec3) *ShaderProgram {
	p := NewShaderProgram(gouraudUniformCount)
	setModelUniform(p.Uniforms, model)
	setViewProjUniform(p.Uniforms, viewProj)
	setLightDirUniform(p.Uniforms, lightDir)

	p.Vertex = func(vb []float32, stride, index int, out *AttributeStream, u *Uniforms) math3d.Vec4 {
		base := index * stride
		pos := math3d.V3(float64(vb[base]), float64(vb[base+1]), float64(vb[base+2]))
		normal := math3d.V3(float64(vb[base+3]), float64(vb[base+4]), float64(vb[base+5]))

		m := modelUniform(u)
		worldPos := m.MulVec3(pos)
		worldNormal := m.MulVec3Dir(normal).Normalize()

		brightness := worldNormal.Dot(lightDirUniform(u))
		if brightness < 0 {
			brightness = 0
		}
		out.Bind(1, []float32{float32(brightness)})

		return viewProjUniform(u).MulVec4(math3d.V4FromV3(worldPos, 1))
	}
	p.Fragment = func(in *AttributeStream, u *Uniforms) float64 {
		return float64(in.GetRawValue(0))
	}
	return p
}

// NewLitProgram returns a program that interpolates the world-space normal
// and computes Lambertian brightness once per fragment, giving smoother
// shading across large triangles than NewGouraudProgram at the cost of
// running the dot product per cell instead of per vertex.
func NewLitProgram(model, viewProj math3d.Mat4, lightDir math3d.Vec3) *ShaderProgram {
	p := NewShaderProgram(gouraudUniformCount)
	setModelUniform(p.Uniforms, model)
	setViewProjUniform(p.Uniforms, viewProj)
	setLightDirUniform(p.Uniforms, lightDir)

	p.Vertex = func(vb []float32, stride, index int, out *AttributeStream, u *Uniforms) math3d.Vec4 {
		base := index * stride
		pos := math3d.V3(float64(vb[base]), float64(vb[base+1]), float64(vb[base+2]))
		normal := math3d.V3(float64(vb[base+3]), float64(vb[base+4]), float64(vb[base+5]))

		m := modelUniform(u)
		worldPos := m.MulVec3(pos)
		worldNormal := m.MulVec3Dir(normal).Normalize()

		out.Bind(3, []float32{float32(worldNormal.X), float32(worldNormal.Y), float32(worldNormal.Z)})

		return viewProjUniform(u).MulVec4(math3d.V4FromV3(worldPos, 1))
	}
	p.Fragment = func(in *AttributeStream, u *Uniforms) float64 {
		n := math3d.V3(float64(in.GetRawValue(0)), float64(in.GetRawValue(1)), float64(in.GetRawValue(2))).Normalize()
		b := n.Dot(lightDirUniform(u))
		if b < 0 {
			b = 0
		}
		if b > 1 {
			b = 1
		}
		return b
	}
	return p
}

// NewTexturedProgram returns a program like NewLitProgram, but additionally
// interpolates UV coordinates and modulates the Lambertian brightness by the
// sampled texture's perceived luminance. This is how texture sampling is
// exercised without making it a rasterizer-level feature: the sample call
// lives entirely inside this fragment callable.
func NewTexturedProgram(model, viewProj math3d.Mat4, lightDir math3d.Vec3, tex *Texture) *ShaderProgram {
	p := NewShaderProgram(gouraudUniformCount)
	setModelUniform(p.Uniforms, model)
	setViewProjUniform(p.Uniforms, viewProj)
	setLightDirUniform(p.Uniforms, lightDir)

	p.Vertex = func(vb []float32, stride, index int, out *AttributeStream, u *Uniforms) math3d.Vec4 {
		base := index * stride
		pos := math3d.V3(float64(vb[base]), float64(vb[base+1]), float64(vb[base+2]))
		normal := math3d.V3(float64(vb[base+3]), float64(vb[base+4]), float64(vb[base+5]))
		var uv math3d.Vec2
		if stride >= 8 {
			uv = math3d.V2(float64(vb[base+6]), float64(vb[base+7]))
		}

		m := modelUniform(u)
		worldPos := m.MulVec3(pos)
		worldNormal := m.MulVec3Dir(normal).Normalize()

		out.Bind(3, []float32{float32(worldNormal.X), float32(worldNormal.Y), float32(worldNormal.Z)})
		out.Bind(2, []float32{float32(uv.X), float32(uv.Y)})

		return viewProjUniform(u).MulVec4(math3d.V4FromV3(worldPos, 1))
	}
	p.Fragment = func(in *AttributeStream, u *Uniforms) float64 {
		n := math3d.V3(float64(in.GetRawValue(0)), float64(in.GetRawValue(1)), float64(in.GetRawValue(2))).Normalize()
		lit := n.Dot(lightDirUniform(u))
		if lit < 0 {
			lit = 0
		}
		if lit > 1 {
			lit = 1
		}

		uvU, uvV := float64(in.GetRawValue(3)), float64(in.GetRawValue(4))
		c := tex.Sample(uvU, uvV)
		luminance := (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255.0

		brightness := lit * luminance
		return math.Min(1, math.Max(0, brightness))
	}
	return p
}
