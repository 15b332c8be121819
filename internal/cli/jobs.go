package cli

import (
	"fmt"
	"strings"

	"github.com/erpdesk/erpdesk-api/internal/scheduler"
	"github.com/spf13/cobra"
)

func newBackupCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a database backup now",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.loadConfig())
			if err != nil {
				return err
			}
			defer a.Close()

			file, err := a.backupService.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s (%d bytes)\n", file.Path, file.Size)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored backups, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.loadConfig())
			if err != nil {
				return err
			}
			defer a.Close()

			files, err := a.backupService.List()
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", f.Name, f.Size, f.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	})

	return cmd
}

func newJobsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect or run scheduled jobs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List scheduled jobs and their schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.loadConfig()
			schedules := map[string]string{
				scheduler.JobBackup:             cfg.Backup.Schedule,
				scheduler.JobIdempotencyCleanup: cfg.Jobs.IdempotencyCleanupSchedule,
				scheduler.JobLowStockReport:     cfg.Jobs.LowStockReportSchedule,
			}
			for _, name := range []string{scheduler.JobBackup, scheduler.JobIdempotencyCleanup, scheduler.JobLowStockReport} {
				schedule := schedules[name]
				if schedule == "" {
					schedule = "(manual)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", name, schedule)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "run <job>",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.loadConfig())
			if err != nil {
				return err
			}
			defer a.Close()

			jobs, err := a.newScheduler()
			if err != nil {
				return err
			}
			name := strings.ToLower(args[0])
			if err := jobs.Run(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s finished\n", name)
			return nil
		},
	})

	return cmd
}
