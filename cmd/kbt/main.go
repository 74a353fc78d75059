package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/vanderheijden86/kbtree/internal/datasource"
	"github.com/vanderheijden86/kbtree/pkg/board"
	"github.com/vanderheijden86/kbtree/pkg/config"
	"github.com/vanderheijden86/kbtree/pkg/debug"
	"github.com/vanderheijden86/kbtree/pkg/metrics"
	"github.com/vanderheijden86/kbtree/pkg/outline"
	"github.com/vanderheijden86/kbtree/pkg/ui"
	"github.com/vanderheijden86/kbtree/pkg/version"
	"github.com/vanderheijden86/kbtree/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
)

// overrides are the command-line settings layered over the config file and
// environment.
type overrides struct {
	source    string
	url       string
	project   string
	database  string
	snapshot  string
	closed    bool
	unfoldAll bool
}

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Config file (default ~/.config/kbt/config.yaml)")
	initFlag := flag.Bool("init", false, "Run the interactive setup and save the config")
	printFlag := flag.Bool("print", false, "Print the outline to stdout instead of starting the TUI")
	dumpPath := flag.String("dump", "", "Write the loaded board to a JSON snapshot file and exit")

	var o overrides
	flag.StringVar(&o.source, "source", "", "Data source: rpc, sqlite or file")
	flag.StringVar(&o.url, "url", "", "Kanboard JSON-RPC endpoint")
	flag.StringVar(&o.project, "project", "", "Project name (from config) or numeric id")
	flag.StringVar(&o.database, "database", "", "Kanboard SQLite database (implies --source sqlite)")
	flag.StringVar(&o.snapshot, "snapshot", "", "JSON snapshot file (implies --source file)")
	flag.BoolVar(&o.closed, "closed", false, "Show closed tasks instead of open ones")
	flag.BoolVar(&o.unfoldAll, "unfold-all", false, "Unfold every swimlane on start")
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
		fmt.Println("Usage: kbt [options]")
		fmt.Println("\nA foldable outline of a Kanboard board: swimlanes, columns and tasks.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("kbt %s\n", version.Version)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *initFlag {
		cfg, err = config.RunWizard(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
			os.Exit(1)
		}
		if err := config.SaveTo(cfg, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved configuration to %s\n", path)
		os.Exit(0)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}
	if err := applyOverrides(&cfg, o); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'kbt --init' to create a configuration.")
		os.Exit(1)
	}

	src, err := datasource.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s source: %v\n", cfg.Source, err)
		os.Exit(1)
	}
	debug.Log("source %s (%s)", src.Name(), src.Type())
	defer dumpMetrics()

	if *dumpPath != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		n, err := dumpSnapshot(ctx, src, *dumpPath, cfg.Timeout)
		stop()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d tasks to %s\n", n, *dumpPath)
		return
	}

	if *printFlag || !term.IsTerminal(int(os.Stdout.Fd())) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		err := printOutline(ctx, src, os.Stdout, cfg.UI.UnfoldOnStart)
		stop()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading board: %v\n", err)
			os.Exit(1)
		}
		return
	}

	m := ui.NewModel(src, cfg)
	if w, err := watchSource(src); err != nil {
		// Not fatal: the model falls back to interval refresh.
		debug.Log("watch %s: %v", src.Name(), err)
	} else if w != nil {
		m = m.WithWatcher(w)
	}
	defer m.Stop()

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running kbt: %v\n", err)
		os.Exit(1)
	}
}

// watchSource starts a watcher on the file behind src. Sources without a
// file return a nil watcher.
func watchSource(src datasource.Source) (*watcher.Watcher, error) {
	p := datasource.WatchPath(src)
	if p == "" {
		return nil, nil
	}
	w, err := watcher.NewWatcher(p, datasource.WatchOptions(src)...)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	debug.Log("watching %s", describeWatch(src, w))
	return w, nil
}

// describeWatch summarizes the watched file, its filesystem and how changes
// are detected.
func describeWatch(src datasource.Source, w *watcher.Watcher) string {
	mode := "fsnotify"
	if w.IsPolling() {
		mode = fmt.Sprintf("polling every %s", w.PollInterval())
	}
	info, _, err := datasource.Stat(src)
	if err != nil {
		return fmt.Sprintf("%s on %s, %s: %v", w.Path(), w.FilesystemType(), mode, err)
	}
	return fmt.Sprintf("%s on %s, %s", info, w.FilesystemType(), mode)
}

// applyOverrides layers command-line flags over cfg. A database or snapshot
// path picks its source unless --source names one explicitly.
func applyOverrides(cfg *config.Config, o overrides) error {
	if o.database != "" {
		cfg.Database = o.database
		cfg.Source = config.SourceSQLite
	}
	if o.snapshot != "" {
		cfg.Snapshot = o.snapshot
		cfg.Source = config.SourceFile
	}
	if o.source != "" {
		cfg.Source = config.SourceKind(o.source)
	}
	if o.url != "" {
		cfg.URL = o.url
	}
	if o.project != "" {
		id, err := cfg.ResolveProject(o.project)
		if err != nil {
			return err
		}
		cfg.ProjectID = id
	}
	if o.closed {
		cfg.StatusID = config.StatusClosed
	}
	if o.unfoldAll {
		cfg.UI.UnfoldOnStart = true
	}
	return nil
}

// printOutline loads one snapshot and writes its outline as plain text.
func printOutline(ctx context.Context, src datasource.Source, w io.Writer, unfoldAll bool) error {
	snap, err := src.Load(ctx)
	if err != nil {
		return err
	}
	s := outline.NewSession()
	s.Install(board.Trees(snap))
	if unfoldAll {
		s.ExpandAll()
	}
	_, err = io.WriteString(w, s.Text())
	return err
}

// dumpSnapshot loads src once and saves it for later use with --snapshot.
func dumpSnapshot(ctx context.Context, src datasource.Source, path string, timeout time.Duration) (int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	snap, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := datasource.WriteSnapshot(path, snap); err != nil {
		return 0, err
	}
	return len(snap.Tasks), nil
}

func dumpMetrics() {
	if !debug.Enabled() {
		return
	}
	debug.Section("metrics")
	for _, s := range metrics.AllTimingStats() {
		if s.Count == 0 {
			continue
		}
		debug.Log("%s: n=%d avg=%.2fms max=%.2fms", s.Name, s.Count, s.AvgMs, s.MaxMs)
	}
	for _, c := range metrics.AllCounters() {
		debug.Log("%s: %d", c.Name(), c.Value())
	}
	_ = debug.Close()
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
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

	// Optional auto-quit for scripted runs: set KBT_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("KBT_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				select {
				case <-runDone:
				case <-time.After(time.Duration(ms) * time.Millisecond):
					p.Quit()
				}
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
