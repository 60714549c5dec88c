package monitor

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/healthcard/orientation/dashboard"
)

// Publisher delivers dashboard views as they are computed.
// *dashboard.Engine satisfies it.
type Publisher interface {
	Subscribe(fn func(dashboard.View))
	Latest() (dashboard.View, bool)
}

// newProgram subscribes to pub and seeds the model with the latest view, so
// a view published before the program started is not lost.
func newProgram(
	ctx context.Context,
	pub Publisher,
	opts Options,
	progOpts ...tea.ProgramOption,
) (*tea.Program, *Model) {
	m := New(opts)

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)...)

	pub.Subscribe(func(v dashboard.View) {
		p.Send(ViewMsg{View: v})
	})

	if v, ok := pub.Latest(); ok {
		m.Update(ViewMsg{View: v})
	}

	return p, m
}

// Run shows the dashboard until the operator quits or ctx is cancelled.
func Run(ctx context.Context, pub Publisher, opts Options) error {
	p, _ := newProgram(ctx, pub, opts, tea.WithAltScreen())

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}
