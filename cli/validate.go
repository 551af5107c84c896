package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ringo380/robin-sub007/daemon"
)

// NewValidateCmd creates the "validate" subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a daemon config file without running",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	cfg, err := daemon.LoadConfigFile(path)
	if err != nil {
		return exitError(exitValidation, "%v", err)
	}

	fmt.Fprintf(out, "Valid! %d %s, tick rate %.0f Hz\n",
		len(cfg.Schedules), pluralize("schedule", len(cfg.Schedules)),
		cfg.Engine.TickRate)
	return nil
}

// pluralize returns the singular or plural form of a word based on count.
func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
