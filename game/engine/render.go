package engine

import "strings"

// Renderer draws a square given its current content. It is called once per
// dirty square per render pass.
type Renderer interface {
	DrawSquare(cell Cell)
}

// Flusher is implemented by renderers that want to know when a render pass
// is complete, e.g. to present a terminal frame or send a network batch.
type Flusher interface {
	Flush(tick uint64)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(cell Cell)

// DrawSquare calls f
func (f RendererFunc) DrawSquare(cell Cell) {
	f(cell)
}

type multiRenderer []Renderer

func (m multiRenderer) DrawSquare(cell Cell) {
	for _, r := range m {
		r.DrawSquare(cell)
	}
}

func (m multiRenderer) Flush(tick uint64) {
	for _, r := range m {
		if f, ok := r.(Flusher); ok {
			f.Flush(tick)
		}
	}
}

// MultiRenderer draws every cell on each non-nil renderer
func MultiRenderer(renderers ...Renderer) Renderer {
	var out multiRenderer
	for _, r := range renderers {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Render hands every dirty square to the renderer and clears its dirty flag.
// Flags are cleared even without a renderer. It returns the number of
// squares drawn.
func (w *World) Render() int {
	n := 0
	for _, sq := range w.squares {
		if !sq.dirty {
			continue
		}
		if w.renderer != nil {
			w.renderer.DrawSquare(sq.cell())
		}
		sq.dirty = false
		n++
	}
	if f, ok := w.renderer.(Flusher); ok && n > 0 {
		f.Flush(w.tick)
	}
	return n
}

// MarkAllDirty forces the next render pass to redraw the whole grid
func (w *World) MarkAllDirty() {
	for _, sq := range w.squares {
		sq.dirty = true
	}
}

// DirtyPositions returns the positions of all dirty squares in grid order
func (w *World) DirtyPositions() []Position {
	var out []Position
	for _, sq := range w.squares {
		if sq.dirty {
			out = append(out, sq.pos)
		}
	}
	return out
}

// Snapshot returns every cell without touching dirty flags
func (w *World) Snapshot() Frame {
	f := Frame{
		Tick:   w.tick,
		Width:  w.sizeX,
		Height: w.sizeY,
		Cells:  make([]Cell, 0, len(w.squares)),
	}
	for _, sq := range w.squares {
		f.Cells = append(f.Cells, sq.cell())
	}
	return f
}

// ASCII renders the grid as text, one row per line
func (w *World) ASCII() string {
	var b strings.Builder
	b.Grow((w.sizeX + 1) * w.sizeY)
	for y := 0; y < w.sizeY; y++ {
		for x := 0; x < w.sizeX; x++ {
			sq := w.squares[w.index(Position{X: x, Y: y})]
			if e := sq.occupant; e != nil {
				b.WriteString(e.occupant().Glyph)
				continue
			}
			b.WriteRune(sq.traits.Glyph)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
