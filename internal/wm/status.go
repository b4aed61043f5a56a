package wm

import (
	"fmt"
	"strings"

	"github.com/1broseidon/deskcore/internal/geom"
	"github.com/1broseidon/deskcore/internal/palette"
	"github.com/1broseidon/deskcore/internal/surface"
)

// Status is the single line of text below the desktop. It is drawn straight
// onto the screen.
type Status struct {
	m    *Manager
	rect geom.Rect
	font *surface.Font

	text  string
	alert bool

	// cols is the number of glyph cells drawn last time.
	cols  int
	bg    uint8
	bgSet bool
}

func newStatus(m *Manager, r geom.Rect) *Status {
	s := &Status{m: m, rect: r, font: surface.Mono8x16}

	m.beginDraw()
	m.screen.HSeg(r.X, r.Y, r.Width, palette.Border)
	m.markDamage(geom.R(r.X, r.Y, r.Width, 1))
	s.Set("")
	m.endDraw()

	return s
}

// MaxColumns is the number of characters that fit on the line.
func (s *Status) MaxColumns() int {
	return max(s.rect.Width/s.font.Width()-2, 0)
}

// Text returns the text currently shown, after truncation.
func (s *Status) Text() string { return s.text }

// IsAlert reports whether the current text was set with Alert.
func (s *Status) IsAlert() bool { return s.alert }

// Set shows text on the window background colour.
func (s *Status) Set(text string) {
	s.show(text, palette.Window, palette.TextActive, false)
}

// Setf formats according to format and shows the result with Set.
func (s *Status) Setf(format string, args ...any) {
	s.Set(fmt.Sprintf(format, args...))
}

// Alert shows text in white on red.
func (s *Status) Alert(text string) {
	s.show(text, palette.Red, palette.White, true)
}

// Alertf formats according to format and shows the result with Alert.
func (s *Status) Alertf(format string, args ...any) {
	s.Alert(fmt.Sprintf(format, args...))
}

func (s *Status) show(text string, bg, fg uint8, alert bool) {
	s.m.beginDraw()
	defer s.m.endDraw()

	s.setBackground(bg)

	text = surface.TruncateCells(text, s.MaxColumns())
	cols := surface.CellCount(text)

	// Pad with blanks over whatever was left of the previous text.
	padded := text + strings.Repeat(" ", max(s.cols-cols, 0))

	x := s.rect.X + s.font.Width()
	y := s.rect.Y + (s.rect.Height-s.font.Height())/2
	s.m.screen.DrawStringClipped(s.rect, x, y, s.font, padded, fg, s.bg)
	s.m.markDamage(geom.R(x, y, s.font.TextWidth(padded), s.font.Height()).Clip(s.rect))

	s.text = text
	s.alert = alert
	s.cols = cols
}

// setBackground repaints the line below the border when the colour changes.
func (s *Status) setBackground(c uint8) {
	if s.bgSet && s.bg == c {
		return
	}
	r := geom.R(s.rect.X, s.rect.Y+1, s.rect.Width, s.rect.Height-1)
	s.m.screen.FillRect(r, c)
	s.m.markDamage(r)
	s.bg = c
	s.bgSet = true
}
