package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/grocktx/grocktx/internal/model"
	"github.com/grocktx/grocktx/internal/store"
)

func newRunsCommand(gf *globalFlags) *cobra.Command {
	var dbPath string

	open := func(cmd *cobra.Command) (*store.DB, error) {
		e, err := gf.load(cmd)
		if err != nil {
			return nil, err
		}
		if dbPath == "" {
			dbPath = e.cfg.Store.DatabasePath
		}
		if dbPath == "" {
			return nil, errors.New("no database configured: pass --db or set store.database_path")
		}
		return store.Open(dbPath)
	}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored batch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			return runRunsList(cmd.Context(), db, cmd.OutOrStdout())
		},
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database (default from config)")

	var showRows bool
	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show channel counts for a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			return runRunsShow(cmd.Context(), db, args[0], showRows, cmd.OutOrStdout())
		},
	}
	show.Flags().BoolVar(&showRows, "rows", false, "also list every stored transaction")
	cmd.AddCommand(show)

	return cmd
}

func runRunsList(ctx context.Context, db *store.DB, w io.Writer) error {
	runs, err := db.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  %s  total=%d unknown=%d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Source, r.Total, r.Unknown)
	}
	return nil
}

func runRunsShow(ctx context.Context, db *store.DB, runID string, showRows bool, w io.Writer) error {
	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	counts, err := db.ChannelCounts(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "Source:   %s\n", run.Source)
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Total:    %d\n", run.Total)
	fmt.Fprintf(w, "Unknown:  %d\n", run.Unknown)
	fmt.Fprintln(w, "Channels:")
	for _, ch := range model.Channels {
		if n := counts[ch]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", ch, n)
		}
	}

	if !showRows {
		return nil
	}
	rows, err := db.Rows(ctx, runID)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Transactions:")
	for _, r := range rows {
		fmt.Fprintf(w, "  %4d  %s  %10s  %-8s %s\n", r.Seq, r.Date, r.Amount, r.Channel, r.Vendor.Description)
	}
	return nil
}
