package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/relaybank/internal/infrastructure/database"
	"github.com/nerrad567/relaybank/internal/journal"
)

// journalOptions holds the flags of the journal command.
type journalOptions struct {
	*rootOptions
	Limit int
}

func newJournalCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &journalOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recent device operations",
		Long: `List recent device operations from the journal database, newest first.

The journal must be enabled in the configuration (database.enabled).

Examples:
  relaybank journal
  relaybank journal --limit 100 --config /etc/relaybank/config.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJournal(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of entries to show")

	return cmd
}

func runJournal(cmd *cobra.Command, opts *journalOptions) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, opts.rootOptions)
	if err != nil {
		return err
	}

	db, err := openJournalDB(ctx, cfg.Database)
	if errors.Is(err, database.ErrDisabled) {
		return fmt.Errorf("journal is disabled; set database.enabled in the configuration")
	}
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // read-only use

	entries, err := journal.NewSQLiteRepository(db.DB).Recent(ctx, opts.Limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No device operations recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tKIND\tPORT\tSLAVE\tRELAYS\tOUTCOME\tDURATION\tERROR")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			e.StartedAt.Local().Format(time.DateTime), e.Kind, e.Port, e.SlaveID,
			dash(e.Relays), e.Outcome, e.Duration, dash(e.Error))
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
