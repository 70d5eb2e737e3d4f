package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	habitsCmd := &cobra.Command{Use: "habits", Short: "Habit operations"}

	var color, icon string
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			h, err := s.AddHabit(args[0], color, icon)
			if err != nil {
				return err
			}
			return printJSON(h)
		},
	}
	addCmd.Flags().StringVarP(&color, "color", "c", "", "Habit color")
	addCmd.Flags().StringVarP(&icon, "icon", "i", "", "Habit icon")
	habitsCmd.AddCommand(addCmd)

	rmCmd := &cobra.Command{
		Use:   "rm HABIT_ID",
		Short: "Delete a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			if err := s.DeleteHabit(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted (queued for sync)")
			return nil
		},
	}
	habitsCmd.AddCommand(rmCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List locally cached habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore()
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			habits, err := s.Habits()
			if err != nil {
				return err
			}
			return printJSON(habits)
		},
	}
	habitsCmd.AddCommand(listCmd)

	rootCmd.AddCommand(habitsCmd)
}
