package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	sim "github.com/Hayser8/SistosSheduling"
	"github.com/Hayser8/SistosSheduling/config"
	"github.com/Hayser8/SistosSheduling/loader"
	"github.com/Hayser8/SistosSheduling/render"
	"github.com/Hayser8/SistosSheduling/watch"
)

// Command flags
var (
	algFlag     string
	quantumFlag int
	modeFlag    string
	compareAlgs []string

	// generate
	genProcs      int
	genResources  int
	genSeed       uint64
	genOut        string
	genWithConfig bool

	// watch
	watchTarget   string
	watchDebounce time.Duration
)

var schedCmd = &cobra.Command{
	Use:   "sched",
	Short: "Run a scheduling algorithm and replay its timeline",
	Long: `Load the processes, run one scheduling algorithm, print the metrics table and
replay the timeline cycle by cycle.

Examples:
  sistosim sched -a fifo
  sistosim sched -a rr -q 3 --delay 200ms
  sistosim sched -a srt --no-replay`,
	RunE: runSched,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the synchronization simulation under mutex and/or semaphore",
	Long: `Load processes, resources and actions, decide for every action whether it
gets its resource in its cycle, print the access / wait totals and replay them.

Examples:
  sistosim sync
  sistosim sync -m semaphore`,
	RunE: runSync,
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run several scheduling algorithms side by side",
	Long: `Run each algorithm over the same processes, each with its own timeline and
metrics, and print them side by side with a Gantt strip per algorithm.

Examples:
  sistosim compare
  sistosim compare -a fifo,sjf,rr -q 2`,
	RunE: runCompare,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a random workload to the data directory",
	Long: `Generate random but reproducible processes, resources and actions.

Examples:
  sistosim generate -n 10
  sistosim generate -n 25 --resources 4 --seed 7 -o demo --with-config`,
	RunE: runGenerate,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run a simulation whenever an input file changes",
	Long: `Watch the input files of the data directory and re-run sched or sync on every
change. Replays are skipped while watching.

Examples:
  sistosim watch
  sistosim watch --target sync -m mutex`,
	RunE: runWatch,
}

func init() {
	schedCmd.Flags().StringVarP(&algFlag, "alg", "a", "", "Algorithm: fifo, sjf, srt, rr, priority")
	schedCmd.Flags().IntVarP(&quantumFlag, "quantum", "q", 0, "Quantum for Round Robin")

	syncCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Mode: mutex, semaphore or both")

	compareCmd.Flags().StringSliceVarP(&compareAlgs, "algs", "a", nil, "Algorithms to compare (comma separated)")
	compareCmd.Flags().IntVarP(&quantumFlag, "quantum", "q", 0, "Quantum for Round Robin")

	generateCmd.Flags().IntVarP(&genProcs, "procs", "n", 8, "Number of processes")
	generateCmd.Flags().IntVar(&genResources, "resources", 3, "Number of resources")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "Random seed (0 = time based)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Output directory (default the data directory)")
	generateCmd.Flags().BoolVar(&genWithConfig, "with-config", false, "Also write the effective "+config.DEFAULT_FILE+" next to the files")

	watchCmd.Flags().StringVar(&watchTarget, "target", "sched", "What to re-run: sched or sync")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DEFAULT_DEBOUNCE, "Quiet time before re-running")
	watchCmd.Flags().StringVarP(&algFlag, "alg", "a", "", "Algorithm for --target sched")
	watchCmd.Flags().IntVarP(&quantumFlag, "quantum", "q", 0, "Quantum for Round Robin")
	watchCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Mode for --target sync")
}

// flags of the subcommands that shadow config values
func applyCommandFlags(flags *pflag.FlagSet, c *config.Config) {
	if f := flags.Lookup("alg"); f != nil && f.Changed {
		c.Scheduling.Algorithm = algFlag
	}
	if f := flags.Lookup("quantum"); f != nil && f.Changed {
		c.Scheduling.Quantum = quantumFlag
	}
	if f := flags.Lookup("mode"); f != nil && f.Changed {
		c.Sync.Mode = modeFlag
	}
	if f := flags.Lookup("algs"); f != nil && f.Changed {
		c.Scheduling.Compare = compareAlgs
	}
}

// configSections is what cmd reads from the configuration beyond the data and replay settings.
func configSections(cmd *cobra.Command) config.Section {
	switch cmd.Name() {
	case "sched":
		return config.SectionScheduling
	case "sync":
		return config.SectionSync
	case "compare":
		return config.SectionCompare
	case "watch":
		if strings.EqualFold(watchTarget, "sync") {
			return config.SectionSync
		}
		return config.SectionScheduling
	}
	return 0
}

func loadData() (loader.Dataset, error) {
	ds, err := loader.LoadDir(cfg.Data.Dir)
	if err != nil {
		var perr *loader.ParseError
		switch {
		case errors.Is(err, loader.ErrFileNotFound):
			logger.Error("input file missing", slog.String("dir", cfg.Data.Dir), sim.ErrAttr(err))
		case errors.As(err, &perr):
			logger.Error("malformed input", slog.String("file", perr.Path), slog.Int("line", perr.Line), sim.ErrAttr(err))
		}
		return loader.Dataset{}, err
	}
	logger.Debug("input loaded",
		slog.String("dir", cfg.Data.Dir),
		slog.Int("processes", len(ds.Processes)),
		slog.Int("resources", len(ds.Resources)),
		slog.Int("actions", len(ds.Actions)),
	)
	return ds, nil
}

// replay drives the engine built by newEngine until the last cycle, ctrl-c or a pause.
func replay[T sim.Timed](ctx context.Context, title string, maxCycle int, newEngine func(sim.CycleFunc[T]) *sim.Engine[T]) error {
	if cfg.Replay.Skip {
		return nil
	}
	printer.Title("Replay " + title)
	printer.Note(fmt.Sprintf("cycles 0..%d, delay %s", maxCycle, cfg.Replay.Delay))

	onCycle := render.OnCycle[T](printer)
	if cfg.Replay.Progress {
		bar := printer.ReplayBar(maxCycle, title)
		defer bar.Finish()
		onCycle = render.OnCycleProgress[T](bar)
	}
	en := newEngine(onCycle)

	start := time.Now()
	err := en.Run(ctx, cfg.Replay.Delay)
	if errors.Is(err, context.Canceled) {
		printer.Note(fmt.Sprintf("replay interrupted at cycle %d of %d", en.Current(), en.MaxCycle()))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("replay done", slog.String("title", title), slog.Int("cycles", en.MaxCycle()+1), slog.Duration("took", time.Since(start)))
	return nil
}

// ------------------------------------------------------------------------------------------------
// SCHED
// ------------------------------------------------------------------------------------------------

func runSched(cmd *cobra.Command, args []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}
	return schedOnce(cmd.Context(), ds)
}

func schedOnce(ctx context.Context, ds loader.Dataset) error {
	alg, err := sim.ParseAlgorithm(cfg.Scheduling.Algorithm)
	if err != nil {
		return err
	}
	s := sim.NewSchedSim(ds.Processes, logger)
	run, err := s.Configure(alg, cfg.Scheduling.QuantumOpt())
	if err != nil {
		return err
	}
	logger.Info("scheduling run",
		slog.String("run", run.ID),
		slog.String("algorithm", alg.String()),
		slog.Int("events", len(run.Events)),
		slog.Int("max_cycle", run.MaxCycle),
	)

	printer.Title("Loaded")
	for _, p := range ds.Processes {
		printer.Note(p.String())
	}

	printer.Title("Metrics " + alg.String())
	printer.MetricsTable(s.Metrics(), ds.Processes)

	printer.Title("Timeline")
	fmt.Fprintln(printer.Writer(), render.Gantt(printer, s.Events(), s.MaxCycle()))

	return replay(ctx, alg.String(), s.MaxCycle(), s.Engine)
}

// ------------------------------------------------------------------------------------------------
// SYNC
// ------------------------------------------------------------------------------------------------

func runSync(cmd *cobra.Command, args []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}
	return syncOnce(cmd.Context(), ds)
}

func syncOnce(ctx context.Context, ds loader.Dataset) error {
	modes, err := cfg.Sync.Modes()
	if err != nil {
		return err
	}
	s := sim.NewSyncSim(ds.Processes, ds.Resources, ds.Actions, logger)

	printer.Title("Loaded")
	printer.Field("Processes", len(ds.Processes))
	for _, r := range ds.Resources {
		printer.Note(r.String())
	}
	for _, a := range ds.Actions {
		printer.Note(a.String())
	}

	for _, mode := range modes {
		run := s.ConfigureMode(mode)
		logger.Info("synchronization run",
			slog.String("run", run.ID),
			slog.String("mode", mode.String()),
			slog.Int("accessed", run.Summary.Accessed),
			slog.Int("waiting", run.Summary.Waiting),
		)

		printer.Title("Synchronization with " + mode.String())
		printer.Field("Total accesses", run.Summary.Accessed)
		printer.Field("Total waits", run.Summary.Waiting)
		printer.SyncTable(run)

		if err := replay(ctx, mode.String(), s.MaxCycle(), s.Engine); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	return nil
}

// ------------------------------------------------------------------------------------------------
// COMPARE
// ------------------------------------------------------------------------------------------------

func runCompare(cmd *cobra.Command, args []string) error {
	algs, err := sim.ParseAlgorithms(cfg.Scheduling.Compare)
	if err != nil {
		return err
	}
	ds, err := loadData()
	if err != nil {
		return err
	}

	runs, err := sim.Compare(cmd.Context(), ds.Processes, algs, cfg.Scheduling.QuantumOpt())
	if err != nil {
		return err
	}
	for _, r := range runs {
		logger.Info("comparison run", slog.String("run", r.ID), slog.String("algorithm", r.Algorithm.String()))
	}

	printer.Title("Comparison")
	printer.CompareTable(runs)
	for _, r := range runs {
		printer.Title(r.Algorithm.String())
		fmt.Fprintln(printer.Writer(), render.Gantt(printer, r.Events, r.MaxCycle))
	}
	if best := sim.Best(runs); best != nil {
		printer.Field("Lowest average wait", best.Algorithm.String())
	}
	return nil
}

// ------------------------------------------------------------------------------------------------
// GENERATE
// ------------------------------------------------------------------------------------------------

func runGenerate(cmd *cobra.Command, args []string) error {
	if genProcs < 1 || genResources < 0 {
		return fmt.Errorf("need at least one process and a non-negative resource count")
	}
	seed := genSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	out := genOut
	if out == "" {
		out = cfg.Data.Dir
	}

	lg := sim.NewLoadGen(seed)
	procs := lg.GenProcesses(genProcs)
	res := lg.GenResources(genResources)
	ds := loader.Dataset{Processes: procs, Resources: res, Actions: lg.GenActions(procs, res)}
	if err := loader.WriteDir(out, ds); err != nil {
		return err
	}
	logger.Info("workload generated",
		slog.String("dir", out),
		slog.Uint64("seed", seed),
		slog.Int("processes", len(ds.Processes)),
		slog.Int("resources", len(ds.Resources)),
		slog.Int("actions", len(ds.Actions)),
	)

	printer.Title("Generated")
	printer.Field("Directory", out)
	printer.Field("Seed", seed)
	printer.Field("Processes", len(ds.Processes))
	printer.Field("Resources", len(ds.Resources))
	printer.Field("Actions", len(ds.Actions))

	if genWithConfig {
		// the written file is used by every command
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("not writing %s: %w", config.DEFAULT_FILE, err)
		}
		m := config.NewManager(configPath)
		if err := m.Load(); err != nil {
			return err
		}
		m.Override(func(c *config.Config) {
			*c = cfg
			c.Data.Dir = out
		})
		path := filepath.Join(out, config.DEFAULT_FILE)
		if err := m.Save(path); err != nil {
			return err
		}
		printer.Field("Config", path)
	}
	return nil
}

// ------------------------------------------------------------------------------------------------
// WATCH
// ------------------------------------------------------------------------------------------------

// rerun reloads the input and runs once on every change. Changes are reported from timer
// goroutines, so runs is only touched atomically.
func rerun(ctx context.Context, once func(context.Context, loader.Dataset) error, runs *atomic.Int64) func(string) error {
	return func(path string) error {
		n := runs.Add(1)
		logger.Info("input changed", slog.String("file", path), slog.Int64("run", n))
		ds, err := loadData()
		if err != nil {
			return err
		}
		return once(ctx, ds)
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	var once func(context.Context, loader.Dataset) error
	switch strings.ToLower(watchTarget) {
	case "sched":
		once = schedOnce
	case "sync":
		once = syncOnce
	default:
		return fmt.Errorf("unknown watch target %q (must be sched or sync)", watchTarget)
	}
	cfg.Replay.Skip = true

	w, err := watch.NewWatcher(watchDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, name := range []string{loader.PROCESSES_FILE, loader.RESOURCES_FILE, loader.ACTIONS_FILE} {
		if err := w.Watch(filepath.Join(cfg.Data.Dir, name)); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	var runs atomic.Int64
	w.OnChange = rerun(ctx, once, &runs)
	w.OnError = func(path string, err error) {
		logger.Warn("re-run failed", slog.String("file", path), sim.ErrAttr(err))
		printer.Error(err)
	}

	printer.Title("Watching " + cfg.Data.Dir)
	printer.Note("Press Ctrl+C to stop")
	if err := w.OnChange(filepath.Join(cfg.Data.Dir, loader.PROCESSES_FILE)); err != nil {
		w.OnError("", err)
	}

	err = w.Run(ctx)
	printer.Note(fmt.Sprintf("stopped after %d runs", runs.Load()))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
