package main

import (
	"context"
	"errors"
	"fmt"

	factcache "github.com/perezable/hyper8-FACT-sub000"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/querylog"
	"github.com/spf13/cobra"
)

type replayStats struct {
	Records  int `json:"records"`
	Hits     int `json:"hits"`
	Misses   int `json:"misses"`
	Stored   int `json:"stored"`
	Rejected int `json:"rejected"`
}

func newReplayCmd(g *globalFlags) *cobra.Command {
	var (
		level  string
		repair bool
	)
	cmd := &cobra.Command{
		Use:   "replay <query-log>",
		Short: "Replay a query log against a fresh cache and print the health report",
		Long: "Every record is looked up; misses that carry a response are stored. " +
			"Text logs hold one query per line, .jsonl/.json logs hold {\"query\",\"response\",\"at\"} records.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			logger, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			records, err := querylog.Read(args[0])
			if err != nil && !errors.Is(err, querylog.ErrMalformedLine) {
				return err
			}
			if err != nil {
				logger.Warn("query log partially read", "err", err)
			}

			c, err := factcache.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			stats := replay(c, records)
			logger.Info("replay finished",
				"records", stats.Records,
				"hits", stats.Hits,
				"misses", stats.Misses,
				"stored", stats.Stored,
				"rejected", stats.Rejected,
			)

			if level != "" {
				if err = validate(cmd.Context(), c, config.ValidationLevel(level), repair); err != nil {
					return err
				}
			}

			raw, err := c.HealthReport().JSON()
			if err != nil {
				return fmt.Errorf("marshal health report: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return err
		},
	}
	cmd.Flags().StringVar(&level, "validate", "", "validate after replay: basic, standard or comprehensive")
	cmd.Flags().BoolVar(&repair, "repair", false, "auto-repair after validation")
	return cmd
}

func replay(c *factcache.Cache, records []querylog.Record) replayStats {
	var s replayStats
	for _, r := range records {
		s.Records++
		if _, ok := c.Lookup(r.Query); ok {
			s.Hits++
			continue
		}
		s.Misses++
		if r.Response == "" {
			continue
		}
		if err := c.Store(r.Query, r.Response); err != nil {
			s.Rejected++
			continue
		}
		s.Stored++
	}
	return s
}

func validate(ctx context.Context, c *factcache.Cache, level config.ValidationLevel, repair bool) error {
	res, err := c.Validate(ctx, level)
	if err != nil {
		return err
	}
	if repair {
		c.AutoRepair(res)
	}
	return nil
}
