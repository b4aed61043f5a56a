package tui

import (
	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/deskcore/internal/devices"
	"github.com/1broseidon/deskcore/internal/event"
)

// redrawMsg tells the program the frame changed.
type redrawMsg struct{}

// model is the root bubbletea model. It forwards input to the sink and
// renders the shared frame.
type model struct {
	frame *frame
	push  func(ev event.Event)

	// quit is set when the user asked to leave.
	quit bool

	// Terminal dimensions
	width  int
	height int
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quit = true
			return m, tea.Quit
		}
		for _, ev := range keyEvents(msg) {
			m.push(ev)
		}

	case tea.MouseMsg:
		if ev, ok := m.mouseEvent(msg); ok {
			m.push(ev)
		}

	case redrawMsg:
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	return m.frame.render()
}

// keyEvents maps a terminal key to a press and release pair. Terminals do
// not report releases, so both are sent together.
func keyEvents(msg tea.KeyMsg) []event.Event {
	code, ch, ok := devices.FromName(msg.String())
	if !ok {
		return nil
	}
	return []event.Event{
		event.Key(event.KeyDown, code, ch),
		event.Key(event.KeyUp, code, ch),
	}
}

func (m model) mouseEvent(msg tea.MouseMsg) (event.Event, bool) {
	p := m.frame.pixel(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionMotion:
		return event.Pointer(event.PointerMove, p.X, p.Y), true
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return event.Pointer(event.PointerDown, p.X, p.Y), true
		case tea.MouseButtonRight:
			return event.Pointer(event.PointerAlt, p.X, p.Y), true
		}
	case tea.MouseActionRelease:
		// Many terminals report releases without the button.
		if msg.Button == tea.MouseButtonLeft || msg.Button == tea.MouseButtonNone {
			return event.Pointer(event.PointerUp, p.X, p.Y), true
		}
	}
	return event.Event{}, false
}
