// Package monitor renders the live inspector dashboard in the terminal.
package monitor

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/healthcard/orientation/dashboard"
)

// ViewMsg carries a freshly computed dashboard view into the program.
type ViewMsg struct {
	View dashboard.View
}

// Options configures the dashboard model.
type Options struct {
	// Refresh is invoked when the operator asks for an immediate refresh.
	Refresh        func()
	Title          string
	TwentyFourHour bool
	DarkTheme      bool
	Debug          bool
}

// Model is the bubbletea model of the live dashboard.
type Model struct {
	opts          Options
	styles        styles
	keys          keymap
	help          help.Model
	spinner       spinner.Model
	view          dashboard.View
	width         int
	received      bool
	showAttendees bool
}

// New returns a dashboard model that waits for its first view.
func New(opts Options) *Model {
	if opts.Title == "" {
		opts.Title = "Orientation sessions"
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	st := newStyles(opts.DarkTheme)
	s.Style = st.title

	return &Model{
		opts:    opts,
		styles:  st,
		keys:    defaultKeymap,
		help:    help.New(),
		spinner: s,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Current returns the last view the model received.
func (m *Model) Current() (dashboard.View, bool) {
	return m.view, m.received
}

func (m *Model) loading() bool {
	return !m.received || m.view.Loading
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.opts.Debug {
		slog.Debug(spew.Sdump(msg))
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

		return m, nil
	case ViewMsg:
		// Ticks only grow; an older view can arrive after a newer seed.
		if m.received && msg.View.Tick < m.view.Tick {
			return m, nil
		}

		m.view = msg.View
		m.received = true

		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		if m.opts.Refresh != nil {
			m.opts.Refresh()
		}
	case key.Matches(msg, m.keys.attendees):
		m.showAttendees = !m.showAttendees
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}
