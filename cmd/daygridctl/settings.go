package main

import (
	"github.com/spf13/cobra"

	daygrid "github.com/daygrid/daygrid-go"
)

func init() {
	settingsCmd := &cobra.Command{Use: "settings", Short: "Settings operations"}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show settings merged over defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			settings, err := s.Settings()
			if err != nil {
				return err
			}
			return printJSON(settings)
		},
	}
	settingsCmd.AddCommand(getCmd)

	setCmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set one settings key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			settings, err := s.SaveSettings(daygrid.Settings{args[0]: args[1]})
			if err != nil {
				return err
			}
			return printJSON(settings)
		},
	}
	settingsCmd.AddCommand(setCmd)

	rootCmd.AddCommand(settingsCmd)
}
