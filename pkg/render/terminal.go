package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// brailleBase is the first code point of the Braille Patterns block; a
// cell's glyph is brailleBase + pattern.
const brailleBase = 0x2800

// screenCellWriter adapts a uv.Screen into the CellWriter interface
// Present writes through, translating each non-blank cell into its Braille
// glyph. It is constructed fresh for each Draw call since the target area
// can change between frames (terminal resize).
type screenCellWriter struct {
	scr    uv.Screen
	area   uv.Rectangle
	fg, bg color.Color
}

// WriteCell implements CellWriter.
func (w *screenCellWriter) WriteCell(col, row int, pattern uint8) {
	x := w.area.Min.X + col
	y := w.area.Min.Y + row
	if x < 0 || x >= w.area.Max.X || y < 0 || y >= w.area.Max.Y {
		return
	}

	cell := &uv.Cell{
		Content: string(rune(brailleBase + int(pattern))),
		Width:   1,
		Style:   uv.Style{Fg: w.fg, Bg: w.bg},
	}
	w.scr.SetCell(x, y, cell)
}

// Draw renders fb into scr within area, one terminal cell per Frame Buffer
// cell. fg/bg set the glyph's foreground/background; Braille carries no
// color of its own, only which of its eight dots are raised.
func (fb *FrameBuffer) Draw(scr uv.Screen, area uv.Rectangle, fg, bg color.Color) {
	fb.Present(&screenCellWriter{scr: scr, area: area, fg: fg, bg: bg})
}

// TerminalRenderer binds a Frame Buffer's cell dimensions to an ultraviolet
// terminal's character grid — one terminal cell holds one Braille glyph, so
// no half-block doubling is needed the way a color pixel buffer would need.
type TerminalRenderer struct {
	term          *uv.Terminal
	width, height int
	Fg, Bg        color.Color
}

// NewTerminalRenderer sizes a renderer to width x height terminal cells.
func NewTerminalRenderer(term *uv.Terminal, width, height int) *TerminalRenderer {
	return &TerminalRenderer{term: term, width: width, height: height, Fg: ColorWhite, Bg: nil}
}

// FramebufferSize returns the Frame Buffer cell dimensions this renderer
// expects — equal to the terminal's character grid, since each cell is
// already a 2x4 sub-dot Braille glyph.
func (tr *TerminalRenderer) FramebufferSize() (width, height int) {
	return tr.width, tr.height
}

// Render draws fb's current presentable contents into the terminal's
// screen buffer. Call Flush afterward to push the diff to the real
// terminal.
func (tr *TerminalRenderer) Render(fb *FrameBuffer) {
	area := uv.Rect(0, 0, tr.width, tr.height)
	fb.Draw(tr.term, area, tr.Fg, tr.Bg)
}

// Flush pushes the accumulated screen diff to the terminal.
func (tr *TerminalRenderer) Flush() error {
	return tr.term.Render()
}

// Color is an alias for color.RGBA, used by Texture and the named palette
// below.
type Color = color.RGBA

// Named colors for convenience.
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}
	ColorSky     = color.RGBA{135, 206, 235, 255}
	ColorGrass   = color.RGBA{34, 139, 34, 255}
	ColorRoad    = color.RGBA{64, 64, 64, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: a}
}
