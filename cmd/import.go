package main

import (
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/roster-cli/internal/ingest"
	"github.com/sells-group/roster-cli/internal/model"
)

var (
	importSheet     string
	importDelimiter string
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk import player records from a CSV or XLSX roster file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		opts := ingest.Options{SheetName: importSheet}
		if importDelimiter != "" {
			opts.Delimiter = rune(importDelimiter[0])
		}

		header, rows, err := ingest.ReadFile(args[0], opts)
		if err != nil {
			return err
		}
		players := ingest.MapPlayers(header, rows)

		var created, skipped, failed atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Import.Concurrency)
		for _, p := range players {
			g.Go(func() error {
				if p.Email != "" {
					existing, err := e.store.QueryPlayers(gctx, map[string]string{model.FieldEmail: p.Email}, 1)
					if err != nil {
						return err
					}
					if len(existing) > 0 {
						skipped.Add(1)
						zap.L().Debug("skipping duplicate roster row",
							zap.String("email", p.Email),
						)
						return nil
					}
				}
				if err := e.store.CreatePlayer(gctx, &p); err != nil {
					failed.Add(1)
					zap.L().Warn("failed to import roster row",
						zap.String("first_name", p.FirstName),
						zap.String("last_name", p.LastName),
						zap.Error(err),
					)
					return nil
				}
				created.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.String("file", args[0]),
			zap.Int("rows", len(players)),
			zap.Int64("created", created.Load()),
			zap.Int64("skipped", skipped.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", "", "CSV delimiter (default comma)")
	rootCmd.AddCommand(importCmd)
}
