// Package alert raises operator notifications for dashboard diagnostics and
// runs the user's hook command when the highlighted session changes.
package alert

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"

	"github.com/healthcard/orientation/dashboard"
)

// Alerted diagnostic kinds. Invalid attendee records are only logged.
var notifiable = map[dashboard.DiagnosticKind]string{
	dashboard.DiagOverlappingActive: "Overlapping sessions",
	dashboard.DiagHintDivergence:    "Session data may be stale",
	dashboard.DiagInvalidWindow:     "Invalid session window",
}

type (
	// NotifyFunc shows a desktop notification.
	NotifyFunc func(title, message string) error
	// RunFunc executes a hook command.
	RunFunc func(ctx context.Context, argv []string, env []string) error
)

type key struct {
	kind dashboard.DiagnosticKind
	id   string
}

// DefaultHookTimeout bounds one hook run when Options leaves it unset.
const DefaultHookTimeout = 30 * time.Second

// Options configures an Alerter.
type Options struct {
	Notify      NotifyFunc
	Run         RunFunc
	Cmd         string
	HookTimeout time.Duration
	Enabled     bool
}

// Alerter de-duplicates diagnostics per kind and schedule ID so each
// inconsistency is announced once per process.
type Alerter struct {
	notify  NotifyFunc
	run     RunFunc
	seen    map[key]struct{}
	cmd     string
	current string
	timeout time.Duration
	hooks   sync.WaitGroup
	mu      sync.Mutex
	enabled bool
	started bool
}

// New returns an Alerter. Nil functions fall back to desktop notifications
// and os/exec.
func New(opts Options) *Alerter {
	a := &Alerter{
		notify:  opts.Notify,
		run:     opts.Run,
		cmd:     opts.Cmd,
		enabled: opts.Enabled,
		timeout: opts.HookTimeout,
		seen:    make(map[key]struct{}),
	}

	if a.timeout <= 0 {
		a.timeout = DefaultHookTimeout
	}

	if a.notify == nil {
		a.notify = desktopNotify
	}

	if a.run == nil {
		a.run = execRun
	}

	return a
}

func desktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

func execRun(ctx context.Context, argv, env []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), env...)

	return cmd.Run()
}

// Observe inspects a freshly computed view. It satisfies the engine's
// subscriber signature when bound to a context.
func (a *Alerter) Observe(ctx context.Context, v dashboard.View) {
	if v.Loading {
		return
	}

	a.diagnose(ctx, v.Diagnostics)
	a.track(ctx, v.Current)
}

func (a *Alerter) diagnose(ctx context.Context, diags []dashboard.Diagnostic) {
	for _, d := range diags {
		a.mu.Lock()
		k := key{kind: d.Kind, id: d.ScheduleID}
		_, dup := a.seen[k]
		a.seen[k] = struct{}{}
		a.mu.Unlock()

		if dup {
			continue
		}

		slog.WarnContext(ctx, "session diagnostic",
			slog.String("kind", string(d.Kind)),
			slog.String("schedule_id", d.ScheduleID),
			slog.String("message", d.Message),
		)

		title, ok := notifiable[d.Kind]
		if !ok || !a.enabled {
			continue
		}

		if err := a.notify(title, d.Message); err != nil {
			slog.ErrorContext(ctx, "unable to display notification", slog.Any("error", err))
		}
	}
}

// track starts the hook when the highlighted session changes. The first
// observed view only records the session. Hooks run in the background,
// bounded by the hook timeout.
func (a *Alerter) track(ctx context.Context, current *dashboard.SessionView) {
	var id string
	if current != nil {
		id = current.Session.ScheduleID
	}

	a.mu.Lock()
	changed := a.started && id != a.current
	a.current = id
	a.started = true
	a.mu.Unlock()

	if !changed || a.cmd == "" {
		return
	}

	var snap *dashboard.SessionView
	if current != nil {
		c := *current
		snap = &c
	}

	a.hooks.Add(1)

	go func() {
		defer a.hooks.Done()

		hookCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		if err := a.runHook(hookCtx, snap); err != nil {
			slog.ErrorContext(ctx, "session hook failed",
				slog.String("cmd", a.cmd),
				slog.Any("error", err),
			)
		}
	}()
}

// Wait blocks until every started hook has returned.
func (a *Alerter) Wait() {
	a.hooks.Wait()
}

func (a *Alerter) runHook(ctx context.Context, current *dashboard.SessionView) error {
	argv, err := shellquote.Split(a.cmd)
	if err != nil {
		return errParseCmd.Wrap(err)
	}

	if len(argv) == 0 {
		return nil
	}

	env := []string{"ORIENT_SCHEDULE_ID="}

	if current != nil {
		env = []string{
			"ORIENT_SCHEDULE_ID=" + current.Session.ScheduleID,
			"ORIENT_VENUE=" + current.Session.Venue.Name,
			"ORIENT_STATUS=" + current.Flags.Status().String(),
			"ORIENT_START=" + current.Start().Format(time.RFC3339),
		}
	}

	return a.run(ctx, argv, env)
}
