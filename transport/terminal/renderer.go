package terminal

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/wandrian/game/engine"
)

// Renderer paints dirty squares onto a tcell screen. The row below the grid
// holds a status line.
type Renderer struct {
	screen tcell.Screen
	height int

	mu      sync.Mutex
	message string
}

// NewRenderer returns a renderer for a world that is height rows tall
func NewRenderer(screen tcell.Screen, height int) *Renderer {
	return &Renderer{screen: screen, height: height}
}

// DrawSquare paints the occupant of a square, or the square itself when empty
func (r *Renderer) DrawSquare(cell engine.Cell) {
	glyph, color := cell.Glyph, cell.Color
	if cell.Occupant != nil {
		glyph, color = cell.Occupant.Glyph, cell.Occupant.Color
	}
	r.screen.SetContent(cell.Position.X, cell.Position.Y, firstRune(glyph), nil, style(color))
}

// Flush writes the status line and presents the frame
func (r *Renderer) Flush(tick uint64) {
	r.mu.Lock()
	line := fmt.Sprintf("tick %d", tick)
	if r.message != "" {
		line += "  " + r.message
	}
	r.mu.Unlock()

	r.drawLine(line)
	r.screen.Show()
}

// SetMessage sets the text shown after the tick counter on the next flush
func (r *Renderer) SetMessage(msg string) {
	r.mu.Lock()
	r.message = msg
	r.mu.Unlock()
}

func (r *Renderer) drawLine(line string) {
	width, _ := r.screen.Size()
	x := 0
	for _, ch := range line {
		if x >= width {
			break
		}
		r.screen.SetContent(x, r.height, ch, nil, tcell.StyleDefault)
		x++
	}
	for ; x < width; x++ {
		r.screen.SetContent(x, r.height, ' ', nil, tcell.StyleDefault)
	}
}

func style(color string) tcell.Style {
	if color == "" {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(tcell.GetColor(color))
}

func firstRune(s string) rune {
	ch, _ := utf8.DecodeRuneInString(s)
	if ch == utf8.RuneError {
		return engine.EmptyGlyph
	}
	return ch
}
