package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, c, cleanup, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := c.Migrate(ctx); err != nil {
			return err
		}
		c.Logger.Info("migrations applied")
		return nil
	},
}
