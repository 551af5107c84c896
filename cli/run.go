// Package cli implements the robin command surface.
package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	robin "github.com/ringo380/robin-sub007"
	"github.com/ringo380/robin-sub007/daemon"
)

// NewRunCmd creates the "run" subcommand.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [config]",
		Short: "Run the engine daemon from a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRun,
	}

	cmd.Flags().String("log-level", "info", "Log level: debug | info | warn | error")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	explicit := ""
	if len(args) > 0 {
		explicit = args[0]
	}

	path, found, err := daemon.DiscoverConfigPath(explicit)
	if err != nil {
		return exitError(exitFileNotFound, "%v", err)
	}

	cfg := daemon.ConfigFile{Engine: robin.DefaultConfig()}
	if found {
		cfg, err = daemon.LoadConfigFile(path)
		if err != nil {
			return exitError(exitValidation, "%v", err)
		}
	}

	logger := newLogger(cmd)
	if found {
		logger.Info("loaded config", "path", path)
	} else {
		logger.Info("no config file found, using defaults")
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		return exitError(exitRuntime, "%v", err)
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		return exitError(exitRuntime, "%v", err)
	}
	return nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if s, err := cmd.Flags().GetString("log-level"); err == nil {
		var parsed slog.Level
		if perr := parsed.UnmarshalText([]byte(s)); perr == nil {
			level = parsed
		}
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
}
