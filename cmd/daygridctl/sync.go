package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Replay the pending queue and pull fresh state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			res, err := s.Sync(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "replayed %d change(s); pulled %d habit(s), %d log(s)\n",
				res.Replayed, len(res.Habits), len(res.Logs))
			return nil
		},
	}
	rootCmd.AddCommand(syncCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show how many local changes await sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			_, _ = fmt.Fprintf(os.Stdout, "%d pending change(s)\n", s.PendingCount())
			return nil
		},
	}
	rootCmd.AddCommand(statusCmd)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bulk-upload all locally cached data to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			res, err := s.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "uploaded %d habit(s) and %d log(s)\n", res.Habits, res.Logs)
			return nil
		},
	}
	rootCmd.AddCommand(migrateCmd)
}
