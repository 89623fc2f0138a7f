package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/perezable/hyper8-FACT-sub000/internal/history"
	"github.com/perezable/hyper8-FACT-sub000/internal/querylog"
	"github.com/spf13/cobra"
)

var errNoPersistentHistory = errors.New("history.db_path is not configured")

func newHistoryCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the persistent query history used for warming",
	}

	var limit int
	exportCmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write recorded queries to a query log, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.openHistory()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			recs, err := store.Records(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := make([]querylog.Record, len(recs))
			for i, r := range recs {
				out[i] = querylog.Record{Query: r.Query, At: r.At}
			}
			if err = querylog.Write(args[0], out); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d queries to %s\n", len(out), args[0])
			return err
		},
	}
	exportCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of queries (0 = all)")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Append the queries of a query log to the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := querylog.Read(args[0])
			if err != nil && !errors.Is(err, querylog.ErrMalformedLine) {
				return err
			}
			store, err := g.openHistory()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := importRecords(cmd.Context(), store, recs, time.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d queries from %s\n", n, args[0])
			return err
		},
	}

	cmd.AddCommand(exportCmd, importCmd)
	return cmd
}

func (g *globalFlags) openHistory() (history.Store, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.IsPersistent() {
		return nil, errNoPersistentHistory
	}
	return history.New(cfg.History)
}

// importRecords keeps log order; records without a timestamp get now.
func importRecords(ctx context.Context, store history.Store, recs []querylog.Record, now time.Time) (int, error) {
	for i, r := range recs {
		at := r.At
		if at.IsZero() {
			at = now
		}
		if err := store.Record(ctx, r.Query, at); err != nil {
			return i, err
		}
	}
	return len(recs), nil
}
