// sistosim - CPU scheduling and synchronization simulator.
// Loads processes, resources and actions from text files, computes the timeline once and
// replays it cycle by cycle.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	sim "github.com/Hayser8/SistosSheduling"
	"github.com/Hayser8/SistosSheduling/config"
	"github.com/Hayser8/SistosSheduling/render"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// Global flags
var (
	configPath string
	dataDir    string
	delay      time.Duration
	logLevel   string
	logJSON    bool
	noReplay   bool
	progress   bool
)

// set up by PersistentPreRunE, shared by every command
var (
	cfg     config.Config
	logger  *slog.Logger
	printer *render.Printer
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sistosim",
	Short: "sistosim - CPU scheduling and synchronization simulator",
	Long: `sistosim simulates CPU scheduling (FIFO, SJF, SRT, Round Robin, Priority) and
mutex / semaphore synchronization over processes read from text files, then replays
the resulting timeline cycle by cycle.

Input files live in the data directory (default ./datos):
  procesos.txt   pid, burst time, arrival time, priority
  recursos.txt   name, counter
  acciones.txt   pid, READ|WRITE, resource, cycle

Configuration is read from ./sistosim.yaml (or --config), then SISTOSIM_* environment
variables, then flags.`,
	Version:           fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./"+config.DEFAULT_FILE+" if present)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "D", "", "Directory holding the input files")
	rootCmd.PersistentFlags().DurationVarP(&delay, "delay", "d", 0, "Delay between replayed cycles")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log as JSON")
	rootCmd.PersistentFlags().BoolVar(&noReplay, "no-replay", false, "Print results without replaying the timeline")
	rootCmd.PersistentFlags().BoolVar(&progress, "progress", false, "Show a progress bar instead of one line per cycle")

	rootCmd.AddCommand(schedCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
}

// setup layers defaults < file < env < flags and fails on bad configuration before any
// input is read. Only the sections the command uses are validated.
func setup(cmd *cobra.Command, args []string) error {
	m := config.NewManager(configPath)
	if err := m.Load(); err != nil {
		return err
	}

	flags := cmd.Flags()
	m.Override(func(c *config.Config) {
		if flags.Changed("data-dir") {
			c.Data.Dir = dataDir
		}
		if flags.Changed("delay") {
			c.Replay.Delay = delay
		}
		if flags.Changed("log-level") {
			c.Log.Level = logLevel
		}
		if flags.Changed("log-json") {
			c.Log.JSON = logJSON
		}
		if flags.Changed("no-replay") {
			c.Replay.Skip = noReplay
		}
		if flags.Changed("progress") {
			c.Replay.Progress = progress
		}
		applyCommandFlags(flags, c)
	})

	cfg = m.Get()
	logger = sim.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	printer = render.NewPrinter(cmd.OutOrStdout())

	if err := cfg.ValidateFor(configSections(cmd)); err != nil {
		logger.Error("invalid configuration", sim.ErrAttr(err))
		return err
	}
	logger.Debug("configuration loaded",
		slog.String("file", m.LoadedFrom()),
		slog.String("data_dir", cfg.Data.Dir),
		slog.String("algorithm", cfg.Scheduling.Algorithm),
		slog.Int("quantum", cfg.Scheduling.Quantum),
		slog.String("mode", cfg.Sync.Mode),
		slog.Duration("delay", cfg.Replay.Delay),
	)
	return nil
}
