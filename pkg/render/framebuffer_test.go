package render

import (
	"errors"
	"testing"
)

func TestNewFrameBufferBlank(t *testing.T) {
	fb, err := NewFrameBuffer(4, 3)
	if err != nil {
		t.Fatal(err)
	}
	if fb.Width() != 4 || fb.Height() != 3 {
		t.Fatalf("got %dx%d, want 4x3", fb.Width(), fb.Height())
	}
	for x := 0; x < fb.Width(); x++ {
		for y := 0; y < fb.Height(); y++ {
			if p := fb.GetPattern(x, y); p != 0 {
				t.Fatalf("cell (%d,%d) pattern = %#x, want 0", x, y, p)
			}
			if d := fb.GetDepth(x, y); d != MaxDepth {
				t.Fatalf("cell (%d,%d) depth = %d, want %d", x, y, d, MaxDepth)
			}
		}
	}
}

func TestSetPatternCloserWriteWins(t *testing.T) {
	fb, err := NewFrameBuffer(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	fb.SetPattern(0, 0, 0xFF, 100, 0xFF)
	fb.SetPattern(0, 0, 0x01, 50, 0xFF)

	if got := fb.GetPattern(0, 0); got != 0x01 {
		t.Fatalf("pattern = %#x, want 0x01 (closer write should overwrite)", got)
	}
	if got := fb.GetDepth(0, 0); got != 50 {
		t.Fatalf("depth = %d, want 50", got)
	}
}

func TestSetPatternFartherWriteIgnoredWhereCovered(t *testing.T) {
	fb, err := NewFrameBuffer(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	fb.SetPattern(0, 0, 0xFF, 10, 0xFF)
	fb.SetPattern(0, 0, 0x00, 200, 0xFF)

	if got := fb.GetPattern(0, 0); got != 0xFF {
		t.Fatalf("pattern = %#x, want 0xFF unchanged", got)
	}
	if got := fb.GetDepth(0, 0); got != 10 {
		t.Fatalf("depth = %d, want 10 unchanged", got)
	}
}

func TestSetPatternSeeThroughFillsUncoveredDots(t *testing.T) {
	fb, err := NewFrameBuffer(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	// First write only covers dots 0x0F, leaving 0xF0 unfilled.
	fb.SetPattern(0, 0, 0x0F, 100, 0x0F)
	// Second, farther write covers the remaining dots with 0xF0.
	fb.SetPattern(0, 0, 0xF0, 200, 0xF0)

	if got := fb.GetPattern(0, 0); got != 0xFF {
		t.Fatalf("pattern = %#x, want 0xFF (second write fills the gap)", got)
	}
	if got := fb.GetFill(0, 0); got != 0xFF {
		t.Fatalf("fill = %#x, want 0xFF", got)
	}
	if got := fb.GetDepth(0, 0); got != 100 {
		t.Fatalf("depth = %d, want 100 (nearer depth preserved)", got)
	}
}

func TestSetPatternFullyFilledBlocksFartherWrites(t *testing.T) {
	fb, err := NewFrameBuffer(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	fb.SetPattern(0, 0, 0xFF, 10, 0xFF)
	fb.SetPattern(0, 0, 0x55, 300, 0xFF)

	if got := fb.GetPattern(0, 0); got != 0xFF {
		t.Fatalf("pattern = %#x, want 0xFF unchanged once fully filled", got)
	}
}

func TestSetPatternOrderIndependenceForDisjointCoverage(t *testing.T) {
	fbA, _ := NewFrameBuffer(1, 1)
	fbA.SetPattern(0, 0, 0x0F, 100, 0x0F)
	fbA.SetPattern(0, 0, 0xF0, 200, 0xF0)

	fbB, _ := NewFrameBuffer(1, 1)
	fbB.SetPattern(0, 0, 0xF0, 200, 0xF0)
	fbB.SetPattern(0, 0, 0x0F, 100, 0x0F)

	if fbA.GetPattern(0, 0) != fbB.GetPattern(0, 0) {
		t.Fatalf("submission order changed the composited pattern: %#x vs %#x",
			fbA.GetPattern(0, 0), fbB.GetPattern(0, 0))
	}
	if fbA.GetDepth(0, 0) != fbB.GetDepth(0, 0) {
		t.Fatalf("submission order changed the composited depth")
	}
}

func TestSetPatternOutOfBoundsIsNoOp(t *testing.T) {
	fb, _ := NewFrameBuffer(2, 2)
	fb.SetPattern(-1, 0, 0xFF, 0, 0xFF)
	fb.SetPattern(0, -1, 0xFF, 0, 0xFF)
	fb.SetPattern(2, 0, 0xFF, 0, 0xFF)
	fb.SetPattern(0, 2, 0xFF, 0, 0xFF)
	// Nothing should have panicked, and the in-bounds cells stay blank.
	if fb.GetPattern(0, 0) != 0 || fb.GetPattern(1, 1) != 0 {
		t.Fatal("out-of-bounds writes leaked into the buffer")
	}
}

func TestClearResetsPatternFillAndDepth(t *testing.T) {
	fb, _ := NewFrameBuffer(1, 1)
	fb.SetPattern(0, 0, 0xFF, 10, 0xFF)
	fb.Clear(0x3C)

	if got := fb.GetPattern(0, 0); got != 0x3C {
		t.Fatalf("pattern after Clear = %#x, want 0x3C", got)
	}
	if got := fb.GetFill(0, 0); got != 0 {
		t.Fatalf("fill after Clear = %#x, want 0", got)
	}
	if got := fb.GetDepth(0, 0); got != MaxDepth {
		t.Fatalf("depth after Clear = %d, want %d", got, MaxDepth)
	}
}

type recordingWriter struct {
	cols, rows []int
	patterns   []uint8
}

func (w *recordingWriter) WriteCell(col, row int, pattern uint8) {
	w.cols = append(w.cols, col)
	w.rows = append(w.rows, row)
	w.patterns = append(w.patterns, pattern)
}

func TestPresentSkipsBlankCellsAndOrdersColumnMajor(t *testing.T) {
	fb, _ := NewFrameBuffer(2, 2)
	fb.SetPattern(0, 0, 0x01, 0, 0x01)
	fb.SetPattern(1, 1, 0x02, 0, 0x02)
	// (1,0) and (0,1) stay blank (pattern 0) and must be skipped.

	w := &recordingWriter{}
	fb.Present(w)

	if len(w.cols) != 2 {
		t.Fatalf("Present wrote %d cells, want 2 (blank cells must be skipped)", len(w.cols))
	}
	if w.cols[0] != 0 || w.rows[0] != 0 {
		t.Fatalf("first written cell = (%d,%d), want (0,0) for column-major order", w.cols[0], w.rows[0])
	}
	if w.cols[1] != 1 || w.rows[1] != 1 {
		t.Fatalf("second written cell = (%d,%d), want (1,1)", w.cols[1], w.rows[1])
	}
}

func TestRecreateOverflowIsResourceExhaustion(t *testing.T) {
	fb, _ := NewFrameBuffer(1, 1)
	// width*height overflows int64, which Recreate must detect rather than
	// allocate against a wrapped-around count.
	err := fb.Recreate(1<<40, 1<<40)
	if err == nil {
		t.Fatal("expected an error recreating an overflowing buffer")
	}
	if !errors.Is(err, ErrResourceExhaustion) {
		t.Fatalf("Recreate overflow error = %v, want ErrResourceExhaustion", err)
	}
}
