package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ringo380/robin-sub007/bus"
)

// NewHistoryCmd creates the "history" subcommand for querying persisted
// event history.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <db-path>",
		Short: "List persisted events from an event history database",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}

	cmd.Flags().String("pattern", "*", "Event name glob pattern")
	cmd.Flags().Int("limit", 50, "Maximum number of events to list")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	pattern, _ := cmd.Flags().GetString("pattern")
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	store, err := bus.NewSQLiteEventStore(bus.SQLiteStoreConfig{DSN: args[0]})
	if err != nil {
		return exitError(exitFileNotFound, "%v", err)
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), pattern, limit)
	if err != nil {
		return exitError(exitRuntime, "%v", err)
	}

	total, err := store.Count(cmd.Context())
	if err != nil {
		return exitError(exitRuntime, "%v", err)
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s  %-8s  %-24s  source=%s\n",
			rec.Time.Format("2006-01-02 15:04:05"),
			rec.Priority, rec.Name, rec.Source)
	}
	fmt.Fprintf(out, "\n%d of %d %s\n",
		len(records), total, pluralize("event", total))
	return nil
}
