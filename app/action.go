package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/healthcard/orientation/alert"
	"github.com/healthcard/orientation/clock"
	"github.com/healthcard/orientation/dashboard"
	"github.com/healthcard/orientation/history"
	"github.com/healthcard/orientation/internal/config"
	"github.com/healthcard/orientation/internal/logger"
	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/internal/osutil"
	"github.com/healthcard/orientation/internal/pathutil"
	"github.com/healthcard/orientation/internal/ui"
	"github.com/healthcard/orientation/monitor"
	"github.com/healthcard/orientation/refresh"
	"github.com/healthcard/orientation/report"
	"github.com/healthcard/orientation/store"
)

const (
	envNoColor       = "NO_COLOR"
	envOrientNoColor = "ORIENT_NO_COLOR"

	// resyncEvery is the number of ticks between re-anchoring the clock.
	resyncEvery = 30

	// hookTicks is the number of refresh intervals a hook may run for.
	hookTicks = 3
)

var logCloser io.Closer

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// loadConfig reads the config file, asking for the first-run settings when
// a terminal is attached, and applies the command-line overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := pathutil.ConfigFilePath()

	var opts []config.Option

	if osutil.Interactive() {
		opts = append(opts, config.WithPromptConfig(path))
	}

	opts = append(opts,
		config.WithViperConfig(path),
		config.WithCLIConfig(ctx, time.Now()),
	)

	cfg, err := config.New(opts...)
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	return cfg, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	path := firstNonEmptyString(cfg.Store.Path, pathutil.StoreFilePath(cfg.Store.Driver))

	return store.Open(cfg.Store.Driver, path)
}

// newClock returns the trusted clock and a sync function. Without an
// authority the clock is never anchored and sync does nothing.
func newClock(cfg *config.Config) (*clock.Clock, refresh.Func) {
	clk := clock.New()

	if cfg.Authority.URL == "" {
		return clk, func(context.Context, uint64) error { return nil }
	}

	authority := clock.NewHTTPAuthority(cfg.Authority.URL, cfg.Authority.Timeout)

	return clk, func(ctx context.Context, tick uint64) error {
		if clk.Synced() && tick%resyncEvery != 0 {
			return nil
		}

		return clk.Sync(ctx, authority)
	}
}

// hookTimeout lets a hook run for a few ticks before it is killed.
func hookTimeout(interval time.Duration) time.Duration {
	return max(hookTicks*interval, alert.DefaultHookTimeout)
}

func newEngine(cfg *config.Config, st store.Store, clk *clock.Clock) *dashboard.Engine {
	return dashboard.NewEngine(st, clk,
		dashboard.WithDay(cfg.CLI.Day),
		dashboard.WithUnverified(cfg.Clock.AllowUnverified),
		dashboard.WithOptions(dashboard.Options{
			MaxUpcoming: cfg.Dashboard.MaxUpcoming,
		}),
	)
}

// dashboardAction runs the live dashboard until the operator quits.
func dashboardAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if cfg.Authority.URL == "" && !cfg.Clock.AllowUnverified {
		return errClockUnverified
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer st.Close()

	clk, syncClock := newClock(cfg)
	engine := newEngine(cfg, st, clk)

	alerter := alert.New(alert.Options{
		Cmd:         cfg.Settings.Cmd,
		HookTimeout: hookTimeout(cfg.Refresh.Interval),
		Enabled:     cfg.Notifications.Enabled,
	})

	defer alerter.Wait()

	runCtx, cancel := context.WithCancel(ctx.Context)
	defer cancel()

	engine.Subscribe(func(v dashboard.View) {
		alerter.Observe(runCtx, v)
	})

	sched := refresh.New(cfg.Refresh.Interval)
	sched.Register("clock", syncClock)
	sched.Register("snapshot", engine.Refresh)
	sched.Register("view", engine.Recompute)

	clk.OnSync(func() {
		go sched.Trigger(runCtx)
	})

	if err := sched.Start(runCtx); err != nil {
		return err
	}

	defer sched.Stop()

	go sched.Trigger(runCtx)

	return monitor.Run(runCtx, engine, monitor.Options{
		Refresh: func() {
			go sched.Trigger(runCtx)
		},
		TwentyFourHour: cfg.Display.TwentyFourHour,
		DarkTheme:      cfg.Display.DarkTheme,
		Debug:          cfg.CLI.Debug,
	})
}

// statusAction prints the dashboard of one day once.
func statusAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer st.Close()

	clk, syncClock := newClock(cfg)

	if err := syncClock(ctx.Context, 0); err != nil {
		slog.WarnContext(ctx.Context, "clock sync failed", slog.Any("error", err))
	}

	if !clk.Synced() && !cfg.Clock.AllowUnverified {
		return errClockUnverified
	}

	engine := newEngine(cfg, st, clk)

	if err := engine.Refresh(ctx.Context, 0); err != nil {
		return err
	}

	v := engine.Compute(0)

	if cfg.CLI.JSON {
		return printJSON(config.Stdout, v)
	}

	return printStatus(config.Stdout, &v, cfg.Display.TwentyFourHour)
}

type historyOutput struct {
	Groups  []history.DayGroup   `json:"groups"`
	Summary []history.DaySummary `json:"summary"`
}

// historyAction prints the scan history grouped by reference day.
func historyAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if cfg.CLI.Interactive {
		if !osutil.Interactive() {
			return errNotInteractive
		}

		cfg.CLI.ScanType, err = pickScanType()
		if err != nil {
			return err
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer st.Close()

	filter := history.Filter{
		Start: cfg.CLI.Since,
		End:   cfg.CLI.Until,
		Type:  cfg.CLI.ScanType,
	}

	events, err := st.ScanHistory(ctx.Context, filter.Query(cfg.History.Limit))
	if err != nil {
		return err
	}

	groups := history.Group(events, filter)

	if cfg.CLI.JSON {
		return printJSON(config.Stdout, historyOutput{
			Groups:  groups,
			Summary: history.Summarize(groups),
		})
	}

	clk, syncClock := newClock(cfg)

	if err := syncClock(ctx.Context, 0); err != nil {
		slog.WarnContext(ctx.Context, "clock sync failed", slog.Any("error", err))
	}

	now, _ := clk.Display()

	return printHistory(config.Stdout, groups, now, cfg.Display.TwentyFourHour)
}

// pickScanType asks which scan type to show.
func pickScanType() (models.ScanType, error) {
	var choice string

	err := huh.NewSelect[string]().
		Title("Which scans do you want to see?").
		Options(
			huh.NewOption("All scans", ""),
			huh.NewOption("Check-ins", string(models.CheckIn)),
			huh.NewOption("Check-outs", string(models.CheckOut)),
		).
		Value(&choice).
		Run()
	if err != nil {
		return "", err
	}

	return models.ScanType(choice), nil
}

// importAction loads a JSON fixture into the configured store.
func importAction(ctx *cli.Context) error {
	file := ctx.Args().First()
	if file == "" {
		return errMissingFixture
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return errReadFixture.Fmt(file).Wrap(err)
	}

	defer f.Close()

	fixture, err := decodeFixture(f)
	if err != nil {
		return errReadFixture.Fmt(file).Wrap(err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	defer st.Close()

	sessions, scans, err := store.Import(ctx.Context, st, fixture)
	if err != nil {
		return err
	}

	report.Imported(sessions, scans)

	return nil
}

func decodeFixture(r io.Reader) (*models.Fixture, error) {
	var f models.Fixture

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&f); err != nil {
		return nil, err
	}

	return &f, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// editConfigAction handles the edit-config command which opens the orient
// config file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	if _, exists := os.LookupEnv(envOrientNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	if err := pathutil.Initialize(); err != nil {
		return err
	}

	l, closer := logger.New(logger.Options{
		Path:  pathutil.LogFilePath(),
		Debug: ctx.Bool("debug"),
	})

	logCloser = closer

	slog.SetDefault(l)
	ctx.Context = logger.WithContext(ctx.Context, l)

	slog.InfoContext(ctx.Context, "starting orient",
		slog.String("version", config.Version),
		slog.Any("args", ctx.Args().Slice()),
	)

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting orient")

	if logCloser != nil {
		return logCloser.Close()
	}

	return nil
}

// formatDuration renders d as "1h 05m" or "12m".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)

	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)

	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}

	return fmt.Sprintf("%dh %02dm", h, m)
}
