package cli

import (
	"fmt"

	"github.com/erpdesk/erpdesk-api/internal/infrastructure/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.loadConfig()
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date: %s\n", cfg.Database.Path)
			return nil
		},
	}
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	var sample bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the first admin account and optionally sample records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.loadConfig()
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := database.SeedDefaultData(a.db, &cfg.Admin); err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			if sample {
				if err := database.SeedSampleData(a.db); err != nil {
					return fmt.Errorf("seed sample data: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Sample data loaded")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seeding complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&sample, "sample", false, "also load sample suppliers, customers, items and transactions")
	return cmd
}
