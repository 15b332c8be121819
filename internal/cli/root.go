// Package cli holds the erpdesk command line: the API server plus the
// maintenance commands an operator runs against the same database file.
package cli

import (
	"time"

	"github.com/erpdesk/erpdesk-api/internal/config"
	"github.com/spf13/cobra"
)

const jobTimeout = 10 * time.Minute

type rootOptions struct {
	dbPath string
}

// loadConfig reads config and applies flag overrides
func (o *rootOptions) loadConfig() *config.Config {
	cfg := config.Load()
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	return cfg
}

// NewRootCommand builds the erpdesk command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "erpdesk",
		Short:         "Small-business ERP: suppliers, customers, items, purchases, sales and reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database file (overrides DB_PATH)")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newBackupCommand(opts),
		newJobsCommand(opts),
		newReportCommand(opts),
	)

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
