package core

import (
	"strings"
	"unicode/utf8"
)

// Cell is one character position of the screen buffer.
type Cell struct {
	Rune  rune
	Color Color
}

// Screen is a 2D character buffer for rendering the board.
// It decouples drawing from the terminal: games draw runes tagged with a
// color role and the platform turns the buffer into styled output.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  max(width, 0),
		height: max(height, 0),
	}
	s.allocate()
	s.Clear()
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Clear fills the entire screen with uncolored spaces.
func (s *Screen) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// Set places a rune with the default color.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetColored(x, y, r, ColorDefault)
}

// SetColored places a rune with a color role.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) SetColored(x, y int, r rune, c Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = Cell{Rune: r, Color: c}
}

// GetCell returns the cell at the given position, or a blank cell when out of bounds.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return Cell{Rune: ' '}
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y), clipped to the screen.
func (s *Screen) DrawText(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.SetColored(x+i, y, r, c)
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string, c Color) {
	x := (s.width - utf8.RuneCountInString(text)) / 2
	s.DrawText(x, y, text, c)
}

// DrawBox draws a box outline with its top-left corner at (x, y).
func (s *Screen) DrawBox(x, y, w, h int, c Color) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := x+w-1, y+h-1

	s.SetColored(x, y, '┌', c)
	s.SetColored(right, y, '┐', c)
	s.SetColored(x, bottom, '└', c)
	s.SetColored(right, bottom, '┘', c)

	for i := x + 1; i < right; i++ {
		s.SetColored(i, y, '─', c)
		s.SetColored(i, bottom, '─', c)
	}
	for j := y + 1; j < bottom; j++ {
		s.SetColored(x, j, '│', c)
		s.SetColored(right, j, '│', c)
	}
}

// FillRect fills a rectangle with the given rune.
func (s *Screen) FillRect(x, y, w, h int, r rune, c Color) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			s.SetColored(i, j, r, c)
		}
	}
}

// String converts the screen buffer to plain text, rows joined with newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the specified row as plain text.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}
