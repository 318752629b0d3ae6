package render

import "math"

// shadingPatterns are the nine preset dot masks selected by brightness
// bucket 0..8; bucket 0 is blank, bucket 8 is fully filled.
var shadingPatterns = [9]uint8{0x00, 0x20, 0x21, 0x2A, 0x6A, 0x6B, 0x7D, 0xFD, 0xFF}

// degenerateTolerance is the minimum |denom| below which a triangle's
// barycentric basis is considered degenerate.
const degenerateTolerance = 1e-9

// coverageTolerance is the symmetric sign tolerance applied to all three
// barycentric coordinates during the coverage test.
const coverageTolerance = -0.001

// ClipVertex is a triangle vertex already divided by z in X, Y (so X, Y are
// ideally in [-1, +1]), retaining the pre-divide Z and W needed for
// perspective-correct interpolation and depth.
type ClipVertex struct {
	X, Y, Z, W float64
}

// CullingStats counts per-triangle skip reasons across a frame, reset with
// ResetCullingStats.
type CullingStats struct {
	Submitted       int
	BackfaceCulled  int
	DegenerateSkips int
	OutOfViewport   int
	SchemaMismatch  int
}

// Rasterizer owns a swapped pair of frame buffers and implements triangle
// setup, coverage, perspective-correct interpolation, and composite
// dispatch. It is oblivious to meshes and shader wiring — that is the
// Render Context's job — and to how the presentable buffer reaches the
// terminal — that is the Present Loop's job.
type Rasterizer struct {
	frames  [2]*FrameBuffer
	current int

	// DisableBackfaceCulling is a debug escape hatch; production draws
	// leave it false.
	DisableBackfaceCulling bool

	CullingStats CullingStats
}

// NewRasterizer allocates both frame buffers at the given cell dimensions.
func NewRasterizer(width, height int) (*Rasterizer, error) {
	r := &Rasterizer{}
	if err := r.Resize(width, height); err != nil {
		return nil, err
	}
	return r, nil
}

// Resize recreates both frame buffers at new dimensions.
func (r *Rasterizer) Resize(width, height int) error {
	for i := range r.frames {
		fb, err := NewFrameBuffer(width, height)
		if err != nil {
			return err
		}
		r.frames[i] = fb
	}
	return nil
}

// Width returns the cell width of the frame buffers.
func (r *Rasterizer) Width() int { return r.frames[0].Width() }

// Height returns the cell height of the frame buffers.
func (r *Rasterizer) Height() int { return r.frames[0].Height() }

// RFrame returns the buffer currently being written into.
func (r *Rasterizer) RFrame() *FrameBuffer { return r.frames[r.current] }

// PFrame returns the buffer currently presentable.
func (r *Rasterizer) PFrame() *FrameBuffer { return r.frames[r.current^1] }

// SwapBuffers exchanges rFrame and pFrame.
func (r *Rasterizer) SwapBuffers() { r.current ^= 1 }

// ClearDepth clears the currently-written buffer to a blank pattern ahead of
// a new frame's draw calls.
func (r *Rasterizer) ClearDepth() { r.RFrame().Clear(0) }

// ResetCullingStats zeroes the per-frame skip counters.
func (r *Rasterizer) ResetCullingStats() { r.CullingStats = CullingStats{} }

func screenPoint(v ClipVertex, hw, hh float64) (x, y float64) {
	return v.X*hw + hw, -v.Y*hh + hh
}

// DrawTriangle submits one triangle to the rasterizer: back-face culling,
// bounding-box traversal, per-sub-dot coverage, perspective-correct
// attribute interpolation (once per covered cell), depth computation, and
// composite. Returns ErrSchemaMismatch if the program's V1/V2/V3 streams
// disagree on schema; all other per-triangle anomalies are silent skips
// recorded in CullingStats.
func (r *Rasterizer) DrawTriangle(v1, v2, v3 ClipVertex, program *ShaderProgram) error {
	r.CullingStats.Submitted++
	fb := r.RFrame()

	hw := float64(fb.Width()) / 2 * 2
	hh := float64(fb.Height()) / 2 * 4

	p1x, p1y := screenPoint(v1, hw, hh)
	p2x, p2y := screenPoint(v2, hw, hh)
	p3x, p3y := screenPoint(v3, hw, hh)

	denom := (p2y-p3y)*(p1x-p3x) + (p3x-p2x)*(p1y-p3y)
	if math.Abs(denom) < degenerateTolerance {
		r.CullingStats.DegenerateSkips++
		return nil
	}

	cross := (p2x-p1x)*(p3y-p2y) - (p2y-p1y)*(p3x-p2x)
	if cross >= 0 {
		r.CullingStats.BackfaceCulled++
		return nil
	}

	minX := math.Min(p1x, math.Min(p2x, p3x))
	maxX := math.Max(p1x, math.Max(p2x, p3x))
	minY := math.Min(p1y, math.Min(p2y, p3y))
	maxY := math.Max(p1y, math.Max(p2y, p3y))

	minCx := int(math.Max(0, math.Floor(minX/2)))
	minCy := int(math.Max(0, math.Floor(minY/4)))
	maxCx := int(math.Min(float64(fb.Width()), math.Floor(maxX/2)+1))
	maxCy := int(math.Min(float64(fb.Height()), math.Floor(maxY/4)+1))

	if minCx >= maxCx || minCy >= maxCy {
		r.CullingStats.OutOfViewport++
		return nil
	}

	v1s, v2s, v3s, outs := program.GetPassBuffers()
	if !v1s.SameSchema(v2s) || !v1s.SameSchema(v3s) {
		r.CullingStats.SchemaMismatch++
		return ErrSchemaMismatch
	}

	for col := minCx; col < maxCx; col++ {
		for row := minCy; row < maxCy; row++ {
			var fill, pattern uint8
			var depth uint16
			shaded := false

			for offY := 0; offY < 4; offY++ {
				for offX := 0; offX < 2; offX++ {
					x := float64(2*col + offX)
					y := float64(4*row + offY)

					b1 := ((p2y-p3y)*(x-p3x) + (p3x-p2x)*(y-p3y)) / denom
					b2 := ((p3y-p1y)*(x-p3x) + (p1x-p3x)*(y-p3y)) / denom
					b3 := 1 - b1 - b2

					in1 := b1 < coverageTolerance
					in2 := b2 < coverageTolerance
					in3 := b3 < coverageTolerance
					if in1 != in2 || in2 != in3 {
						continue
					}

					dot := dotValues[offY][offX]
					fill |= dot

					if shaded {
						continue
					}
					shaded = true

					k := b1/v1.W + b2/v2.W + b3/v3.W
					c1 := (b1 / v1.Z) / k
					c2 := (b2 / v2.Z) / k
					c3 := (b3 / v3.Z) / k
					interpolateAttributes(v1s, v2s, v3s, outs, c1, c2, c3)

					depthF := float64(MaxDepth) * ((v1.Z/v1.W)*b1 + (v2.Z/v2.W)*b2 + (v3.Z/v3.W)*b3)
					depthF = math.Max(0, math.Min(float64(MaxDepth), depthF))
					depth = uint16(math.Round(depthF))

					br := program.ExecuteFragmentShader(outs)
					bucket := int(math.Round(8 * br))
					bucket = clampInt(bucket, 0, 8)
					pattern = shadingPatterns[bucket]
				}
			}

			if fill != 0 {
				fb.SetPattern(col, row, pattern, depth, fill)
			}
		}
	}

	return nil
}

// interpolateAttributes fills out with the perspective-correct weighted
// combination of v1, v2, v3's scalars: OUT[i] = V1[i]*c1 + V2[i]*c2 + V3[i]*c3.
func interpolateAttributes(v1, v2, v3, out *AttributeStream, c1, c2, c3 float64) {
	out.Clear()
	n := v1.GetTotalCount()
	for i := 0; i < n; i++ {
		out.Bind(v1.GetLocationSize(i), nil)
	}
	total := v1.TotalWidth()
	for i := 0; i < total; i++ {
		val := float64(v1.GetRawValue(i))*c1 + float64(v2.GetRawValue(i))*c2 + float64(v3.GetRawValue(i))*c3
		out.SetRawValue(i, float32(val))
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
