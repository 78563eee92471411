package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"snapfix/internal/check"
	"snapfix/internal/compositor"
	"snapfix/internal/config"
	"snapfix/internal/display"
	"snapfix/internal/logging"
	"snapfix/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag  string
		timeoutFlag int
		fitFlag     string
		colorFlag   string
		noColorFlag bool
		logFlag     string
		dryRunFlag  bool
		verboseFlag bool
		checkFlag   bool
	)

	rootCmd := &cobra.Command{
		Use:           "snapfix [flags] <folder>",
		Short:         "Repair exported memory archives into single timestamped media files",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			cfg.InputDir = config.NormalizeDirArg(args[0])

			// Precedence: defaults, then the folder's snapfix.toml (or an
			// explicit --config file), then flags the user actually set.
			if configFlag != "" {
				if err := config.LoadFile(&cfg, configFlag); err != nil {
					return err
				}
			} else if err := config.LoadFolderFile(&cfg); err != nil {
				return err
			}

			if cmd.Flags().Changed("timeout") {
				cfg.TimeoutSeconds = timeoutFlag
			}
			if cmd.Flags().Changed("fit") {
				cfg.FitMode = config.FitMode(fitFlag)
			}
			if cmd.Flags().Changed("color") {
				cfg.ColorMode = config.ColorMode(colorFlag)
			}
			if noColorFlag {
				cfg.ColorMode = config.ColorNever
			}
			cfg.LogFile = logFlag
			cfg.DryRun = dryRunFlag
			cfg.Verbose = verboseFlag
			cfg.CheckOnly = checkFlag

			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), &cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path (default: <folder>/"+config.ConfigFileName+")")
	flags.IntVarP(&timeoutFlag, "timeout", "t", 60, "Per-item compositor timeout in seconds")
	flags.StringVar(&fitFlag, "fit", "cover", "Overlay fit mode: cover or contain")
	flags.StringVar(&colorFlag, "color", "auto", "Colorize output: auto, always, or never")
	flags.BoolVar(&noColorFlag, "no-color", false, "Disable colored output (same as --color=never)")
	flags.StringVar(&logFlag, "log", "", "Also write log output to this file")
	flags.BoolVarP(&dryRunFlag, "dry-run", "n", false, "Plan every item but write nothing")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&checkFlag, "check", false, "Run ffmpeg/ffprobe diagnostics and exit")

	return rootCmd
}

// run is the phased entrypoint behind flag parsing: logger, banner,
// dependency preflight, signal handling, then the batch.
func run(ctx context.Context, cfg *config.Config) error {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(cfg.InputDir, log) {
			return fmt.Errorf("system check failed")
		}
		return nil
	}

	log.Info("=== snapfix v%s ===", version)
	log.Info("Folder: %s", cfg.InputDir)

	// The external compositor missing at startup is the one fatal,
	// batch-aborting condition.
	tools, err := check.Locate(cfg.InputDir)
	if err != nil {
		return err
	}
	log.Debug(cfg.Verbose, "ffmpeg: %s", tools.FFmpeg)
	log.Debug(cfg.Verbose, "ffprobe: %s", tools.FFprobe)

	// Cancel between items on SIGINT/SIGTERM; the current subprocess is
	// bounded by its own timeout.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current item")
		cancel()
	}()

	engine := compositor.NewFFmpeg(tools, cfg.Timeout())
	runner := pipeline.New(cfg, log, engine)
	runner.ShowProgress = !cfg.Verbose && !cfg.DryRun && isatty.IsTerminal(os.Stderr.Fd())

	records, stats, err := runner.Run(runCtx)
	if err != nil {
		return err
	}
	if runCtx.Err() != nil {
		return context.Canceled
	}
	if len(records) > 0 && stats.Completed == 0 {
		return fmt.Errorf("no items completed (%d skipped)", stats.Skipped)
	}
	return nil
}
