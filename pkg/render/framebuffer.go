// Package render provides a software Braille-glyph triangle rasterizer for
// Trophy: a programmable vertex/fragment shading pipeline that composites
// into a terminal character grid where every cell is its own 2×4 sub-dot
// bitmap.
package render

import "fmt"

// MaxDepth is the "empty/far" depth sentinel and the maximum representable
// depth value. It is also the all-dots-filled fill/pattern mask is NOT this
// value; MaxDepth applies only to the depth field.
const MaxDepth uint16 = 0xFFFF

// dotValues maps a sub-dot's (offsetY, offsetX) position within a cell's
// 2-wide x 4-tall grid to its bit in the pattern/fill byte, matching the
// Braille dot numbering used to compute U+2800+pattern.
var dotValues = [4][2]uint8{
	{1, 8},
	{2, 16},
	{4, 32},
	{64, 128},
}

// cell holds the three-field composite state of one terminal character
// position: the glyph dot mask, the claimed-dot mask, and the nearest depth
// that has touched any dot in the cell.
type cell struct {
	pattern uint8
	fill    uint8
	depth   uint16
}

// CellWriter is the narrow terminal collaborator the Frame Buffer's Present
// step writes through. It is satisfied by an adapter over the host's
// terminal driver and is the only way core rendering code touches the
// screen.
type CellWriter interface {
	// WriteCell writes the Braille code point for the given dot pattern at
	// terminal column col, row row.
	WriteCell(col, row int, pattern uint8)
}

// FrameBuffer is the per-cell depth/fill/pattern compositing buffer
// described by the rasterizer's data model. It is single-writer: only the
// Rasterizer that owns it calls SetPattern.
type FrameBuffer struct {
	width, height int
	cells         []cell
}

// NewFrameBuffer allocates and clears a Frame Buffer of the given cell
// dimensions.
func NewFrameBuffer(width, height int) (*FrameBuffer, error) {
	fb := &FrameBuffer{}
	if err := fb.Recreate(width, height); err != nil {
		return nil, err
	}
	return fb, nil
}

// Recreate (re)allocates the buffer for new dimensions and clears it to an
// empty pattern. Returns ErrResourceExhaustion if the dimensions cannot be
// represented.
func (fb *FrameBuffer) Recreate(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("recreate %dx%d: %w", width, height, ErrResourceExhaustion)
	}
	count := width * height
	if count < 0 || (width != 0 && count/width != height) {
		return fmt.Errorf("recreate %dx%d: %w", width, height, ErrResourceExhaustion)
	}

	cells := make([]cell, count)
	if cap(cells) < count {
		return fmt.Errorf("recreate %dx%d: %w", width, height, ErrResourceExhaustion)
	}

	fb.width = width
	fb.height = height
	fb.cells = cells
	fb.Clear(0)
	return nil
}

// Width returns the buffer's width in cells.
func (fb *FrameBuffer) Width() int { return fb.width }

// Height returns the buffer's height in cells.
func (fb *FrameBuffer) Height() int { return fb.height }

// Clear resets every cell to pattern = patternFillByte, fill = 0,
// depth = MaxDepth.
func (fb *FrameBuffer) Clear(patternFillByte uint8) {
	for i := range fb.cells {
		fb.cells[i] = cell{pattern: patternFillByte, fill: 0, depth: MaxDepth}
	}
}

func (fb *FrameBuffer) index(x, y int) (int, bool) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return 0, false
	}
	return y*fb.width + x, true
}

// SetPattern composites one triangle's contribution into cell (x, y).
//
// Given existing cell (P, F, D) and incoming (p, d, f):
//  1. If d < D: the incoming triangle is in front overall. D <- d;
//     P <- (f & p) | (~f & P).
//  2. Else if F != 0xFF: the incoming triangle may show through dots the
//     existing coverage hasn't claimed. P <- P | (~F & f & p).
//  3. Always: F <- F | f.
func (fb *FrameBuffer) SetPattern(x, y int, newPattern uint8, newDepth uint16, newFill uint8) {
	idx, ok := fb.index(x, y)
	if !ok {
		return
	}
	c := &fb.cells[idx]

	if newDepth < c.depth {
		c.depth = newDepth
		c.pattern = (newFill & newPattern) | (^newFill & c.pattern)
	} else if c.fill != 0xFF {
		c.pattern |= ^c.fill & newFill & newPattern
	}
	c.fill |= newFill
}

// GetPattern returns the current dot mask of cell (x, y).
func (fb *FrameBuffer) GetPattern(x, y int) uint8 {
	idx, ok := fb.index(x, y)
	if !ok {
		return 0
	}
	return fb.cells[idx].pattern
}

// GetDepth returns the current depth of cell (x, y).
func (fb *FrameBuffer) GetDepth(x, y int) uint16 {
	idx, ok := fb.index(x, y)
	if !ok {
		return MaxDepth
	}
	return fb.cells[idx].depth
}

// GetFill returns the current claimed-dot mask of cell (x, y). Exposed
// alongside the mandated read-only accessors because the occlusion and
// see-through invariants (P2, P3) are naturally tested against it.
func (fb *FrameBuffer) GetFill(x, y int) uint8 {
	idx, ok := fb.index(x, y)
	if !ok {
		return 0
	}
	return fb.cells[idx].fill
}

// Present iterates cells in column-major order (x outer, y inner) and emits
// the Braille glyph for every cell with a non-zero pattern. Cells with
// pattern == 0 are skipped so a terminal driver doing incremental diffing
// need not touch them.
func (fb *FrameBuffer) Present(w CellWriter) {
	for x := 0; x < fb.width; x++ {
		for y := 0; y < fb.height; y++ {
			idx := y*fb.width + x
			p := fb.cells[idx].pattern
			if p == 0 {
				continue
			}
			w.WriteCell(x, y, p)
		}
	}
}
