package main

import (
	"jobmatch/internal/database/seeder"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo accounts, job postings and candidate requests",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, c, cleanup, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := c.Migrate(ctx); err != nil {
			return err
		}
		r := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger.Named("seeder")}
		return r.Run(ctx, c.DB)
	},
}
