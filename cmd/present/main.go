package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/kamilov2/presentation/pkg/charts"
	"github.com/kamilov2/presentation/pkg/config"
	"github.com/kamilov2/presentation/pkg/deck"
	"github.com/kamilov2/presentation/pkg/debug"
	"github.com/kamilov2/presentation/pkg/export"
	"github.com/kamilov2/presentation/pkg/metrics"
	"github.com/kamilov2/presentation/pkg/nav"
	"github.com/kamilov2/presentation/pkg/progress"
	"github.com/kamilov2/presentation/pkg/ui"
	"github.com/kamilov2/presentation/pkg/version"
	"github.com/kamilov2/presentation/pkg/watcher"
)

func main() {
	// Subcommands run before flag parsing so they can own their own flags.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "export":
			os.Exit(runExport(os.Args[2:]))
		case "init":
			os.Exit(runInit(os.Args[2:]))
		}
	}

	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	noPersist := flag.Bool("no-persist", false, "Do not save or restore slide position")
	resetProgress := flag.Bool("reset-progress", false, "Forget the saved slide position and start at slide 1")
	noWatch := flag.Bool("no-watch", false, "Disable live reload of the deck file")
	startAt := flag.Int("slide", 0, "Start at slide N (1-based, overrides saved position)")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: present [options] <deck.md>")
		fmt.Println("       present export [options] <deck.md>")
		fmt.Println("       present init [path]")
		fmt.Println("\nA terminal slideshow presenter with embedded charts.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("present %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults.
		cfg = config.DefaultConfig()
	}

	deckPath := flag.Arg(0)
	if deckPath == "" {
		deckPath = cfg.RecentDeck
	}
	if deckPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no deck file given.")
		fmt.Fprintln(os.Stderr, "Run 'present init' to scaffold one, or pass a path: present deck.md")
		os.Exit(2)
	}

	d, err := deck.Load(deckPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading deck: %v\n", err)
		os.Exit(1)
	}
	if d.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Deck has no slides.")
		os.Exit(1)
	}

	// Remember the deck for bare 'present' next time.
	if abs, absErr := filepath.Abs(deckPath); absErr == nil && abs != cfg.RecentDeck {
		cfg.RecentDeck = abs
		_ = config.Save(cfg)
	}

	reg := charts.NewRegistry()
	charts.RegisterBuiltins(reg)

	var store progress.Store
	if !*noPersist {
		store = openStore()
	}
	if store != nil {
		defer store.Close()
	}
	if *resetProgress && store != nil {
		if err := store.Set(progress.ProgressKey, ""); err != nil {
			debug.Warn("resetting progress: %v", err)
		}
	}

	initial := 0
	if store != nil && !*resetProgress {
		initial = progress.Load(store, d.Len())
	}
	if *startAt > 0 && *startAt <= d.Len() {
		initial = *startAt - 1
	}

	timing := nav.Timing{
		CommitDelay: cfg.CommitDelay(),
		SettleDelay: cfg.SettleDelay(),
	}
	ctrl := nav.NewController(d.Len(), initial, timing)

	var w *watcher.Watcher
	if !*noWatch {
		w, err = watcher.New(d.Path, watcher.WithDebounceDuration(watcher.DefaultDebounceDuration))
		if err != nil {
			debug.Warn("deck watcher unavailable: %v", err)
		} else if err := w.Start(); err != nil {
			debug.Warn("starting deck watcher: %v", err)
			w = nil
		}
	}
	if w != nil {
		defer w.Stop()
	}

	theme := ui.DefaultTheme(lipgloss.DefaultRenderer())
	m := ui.NewModel(d, ctrl, reg, store, cfg, theme, w).
		WithInitialSize(terminalSize())

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running presentation: %v\n", err)
		os.Exit(1)
	}
	dumpTimings()
}

// dumpTimings writes the collected timing metrics to the debug log once the
// program is back on the normal screen.
func dumpTimings() {
	if !debug.Enabled() || !metrics.Enabled() {
		return
	}
	for _, tm := range metrics.AllTimingMetrics() {
		if tm.Count() == 0 {
			continue
		}
		name := fmt.Sprintf("%s avg over %d samples (max %v)",
			tm.Name(), tm.Count(), time.Duration(tm.MaxNs()))
		debug.LogTiming(name, time.Duration(tm.AvgNs()))
	}
}

// openStore opens the SQLite progress store under the state directory.
// Failure is non-fatal: the show runs without persistence.
func openStore() progress.Store {
	dir := config.StateDir()
	if dir == "" {
		debug.Warn("no state directory available")
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		debug.Warn("creating state dir: %v", err)
		return nil
	}
	store, err := progress.OpenSQLite(filepath.Join(dir, "progress.db"))
	if err != nil {
		debug.Warn("opening progress store: %v", err)
		return nil
	}
	return store
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM: quit, then kill if the program
	// does not unwind in time. The save happens below on the final model;
	// saving from here would race the event loop and, after a live deck
	// reload, persist against the stale pre-reload controller.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	final, err := p.Run()
	if fm, ok := final.(ui.Model); ok {
		fm.SaveProgress()
	}
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}

// runExport renders every registered chart to standalone image files.
func runExport(args []string) int {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	outDir := fs.String("out", "charts", "Output directory for rendered charts")
	formatFlag := fs.String("format", "svg", "Output format: svg or png")
	timeout := fs.Duration("timeout", 30*time.Second, "Export timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	format, err := export.ParseFormat(*formatFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	reg := charts.NewRegistry()
	n := charts.RegisterBuiltins(reg)
	if n == 0 {
		fmt.Fprintln(os.Stderr, "No charts available to export.")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := export.Charts(ctx, reg, *outDir, format); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		return 1
	}
	fmt.Printf("Exported %d charts to %s/\n", n, *outDir)
	return 0
}

// terminalSize reports the terminal dimensions for scaffolding hints,
// falling back to 80x24 when stdout is not a terminal.
func terminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

func usageError(msg string) int {
	fmt.Fprintln(os.Stderr, "Error: "+strings.TrimSpace(msg))
	return 2
}
