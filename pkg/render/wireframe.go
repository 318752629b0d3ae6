package render

import (
	"math"

	"github.com/taigrr/dotraster/pkg/math3d"
)

// Wireframe draws debug line geometry directly into a Frame Buffer's
// sub-dot grid, stamping one dot per traversed pixel with depth 0. The
// first dot stamped into a cell wins the depth composite against deeper
// shaded geometry; later dots in that cell show only on sub-dots that no
// earlier write has filled. It has no notion of color or brightness buckets — every dot it plots is
// fully set.
type Wireframe struct {
	camera *Camera
	fb     *FrameBuffer
}

// NewWireframe creates a new wireframe renderer over fb, projected through
// camera.
func NewWireframe(camera *Camera, fb *FrameBuffer) *Wireframe {
	return &Wireframe{camera: camera, fb: fb}
}

// plotDot sets the single sub-dot at pixel (px, py) with depth 0.
func (w *Wireframe) plotDot(px, py int) {
	if px < 0 || py < 0 {
		return
	}
	col, offX := px/2, px%2
	row, offY := py/4, py%4
	if col >= w.fb.Width() || row >= w.fb.Height() {
		return
	}
	dot := dotValues[offY][offX]
	w.fb.SetPattern(col, row, dot, 0, dot)
}

// plotLine walks a Bresenham line across the sub-dot pixel grid (2x the
// cell width, 4x the cell height) between the two endpoints.
func (w *Wireframe) plotLine(x0, y0, x1, y1 int) {
	dx := int(math.Abs(float64(x1 - x0)))
	dy := -int(math.Abs(float64(y1 - y0)))
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		w.plotDot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawLine3D draws a line in 3D space. color is accepted for API
// compatibility with callers that still think in color terms, but the
// sub-dot grid carries no color channel — every plotted dot is opaque.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	pixelW := w.fb.Width() * 2
	pixelH := w.fb.Height() * 4

	x1, y1, _, vis1 := w.camera.WorldToScreen(p1, pixelW, pixelH)
	x2, y2, _, vis2 := w.camera.WorldToScreen(p2, pixelW, pixelH)
	if !vis1 && !vis2 {
		return
	}

	w.plotLine(int(x1), int(y1), int(x2), int(y2))
}

// DrawCube draws a wireframe cube.
func (w *Wireframe) DrawCube(center math3d.Vec3, size float64, color Color) {
	half := size / 2

	vertices := [8]math3d.Vec3{
		{X: center.X - half, Y: center.Y - half, Z: center.Z - half},
		{X: center.X + half, Y: center.Y - half, Z: center.Z - half},
		{X: center.X + half, Y: center.Y + half, Z: center.Z - half},
		{X: center.X - half, Y: center.Y + half, Z: center.Z - half},
		{X: center.X - half, Y: center.Y - half, Z: center.Z + half},
		{X: center.X + half, Y: center.Y - half, Z: center.Z + half},
		{X: center.X + half, Y: center.Y + half, Z: center.Z + half},
		{X: center.X - half, Y: center.Y + half, Z: center.Z + half},
	}

	for _, edge := range cubeEdges {
		w.DrawLine3D(vertices[edge[0]], vertices[edge[1]], color)
	}
}

// DrawTransformedCube draws a wireframe cube with a transformation matrix.
func (w *Wireframe) DrawTransformedCube(transform math3d.Mat4, size float64, color Color) {
	half := size / 2

	localVerts := [8]math3d.Vec3{
		{X: -half, Y: -half, Z: -half},
		{X: half, Y: -half, Z: -half},
		{X: half, Y: half, Z: -half},
		{X: -half, Y: half, Z: -half},
		{X: -half, Y: -half, Z: half},
		{X: half, Y: -half, Z: half},
		{X: half, Y: half, Z: half},
		{X: -half, Y: half, Z: half},
	}

	var worldVerts [8]math3d.Vec3
	for i, v := range localVerts {
		worldVerts[i] = transform.MulVec3(v)
	}

	for _, edge := range cubeEdges {
		w.DrawLine3D(worldVerts[edge[0]], worldVerts[edge[1]], color)
	}
}

var cubeEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen)
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)
}

// DrawGrid draws a grid on the XZ plane at y=0.
func (w *Wireframe) DrawGrid(size, step float64, color Color) {
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(math3d.V3(x, 0, -half), math3d.V3(x, 0, half), color)
	}
	for z := -half; z <= half; z += step {
		w.DrawLine3D(math3d.V3(-half, 0, z), math3d.V3(half, 0, z), color)
	}
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, color Color) {
	halfSize := size / 2
	w.DrawLine3D(
		math3d.V3(pos.X-halfSize, pos.Y, pos.Z),
		math3d.V3(pos.X+halfSize, pos.Y, pos.Z),
		color,
	)
	w.DrawLine3D(
		math3d.V3(pos.X, pos.Y-halfSize, pos.Z),
		math3d.V3(pos.X, pos.Y+halfSize, pos.Z),
		color,
	)
	w.DrawLine3D(
		math3d.V3(pos.X, pos.Y, pos.Z-halfSize),
		math3d.V3(pos.X, pos.Y, pos.Z+halfSize),
		color,
	)
}
