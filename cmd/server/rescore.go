package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Recompute the score of pending matches with the current weights",
	Long: `Loads pending matches whose candidate request and job posting still exist, scores them
again on a bounded worker pool and stores the new score. Matches that left the pending state
while the batch ran are skipped. Cached ranking pages are dropped afterwards.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, c, cleanup, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		report, err := c.Rescore.Run(ctx)
		if err != nil {
			return err
		}
		c.Logger.Info("rescore finished",
			zap.Int("scanned", report.Scanned),
			zap.Int("updated", report.Updated),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed),
			zap.Duration("took", report.Took),
		)

		if report.Updated > 0 {
			if err := c.InvalidateRankings(ctx); err != nil {
				c.Logger.Warn("ranking cache invalidation failed", zap.Error(err))
			}
		}
		return nil
	},
}
