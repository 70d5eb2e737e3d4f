package main

import (
	"time"

	"github.com/spf13/cobra"

	daygrid "github.com/daygrid/daygrid-go"
)

func init() {
	logsCmd := &cobra.Command{Use: "log", Short: "Daily log operations"}

	var date string
	logsCmd.PersistentFlags().StringVar(&date, "date", daygrid.FormatDate(time.Now()), "Log date (YYYY-MM-DD)")

	withStore := func(fn func(s *daygrid.Store) error) error {
		s, err := newStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		return fn(s)
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle HABIT_ID",
		Short: "Toggle a habit's completion for the date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *daygrid.Store) error {
				l, err := s.ToggleHabitCompletion(date, args[0])
				if err != nil {
					return err
				}
				return printJSON(l)
			})
		},
	}
	logsCmd.AddCommand(toggleCmd)

	var hours float64
	sleepCmd := &cobra.Command{
		Use:   "sleep",
		Short: "Record sleep hours for the date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *daygrid.Store) error {
				l, err := s.SetSleepHours(date, hours)
				if err != nil {
					return err
				}
				return printJSON(l)
			})
		},
	}
	sleepCmd.Flags().Float64Var(&hours, "hours", 0, "Hours slept (0-24)")
	_ = sleepCmd.MarkFlagRequired("hours")
	logsCmd.AddCommand(sleepCmd)

	var screenHours float64
	screenCmd := &cobra.Command{
		Use:   "screen",
		Short: "Record screen time hours for the date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *daygrid.Store) error {
				l, err := s.SetScreenTimeHours(date, screenHours)
				if err != nil {
					return err
				}
				return printJSON(l)
			})
		},
	}
	screenCmd.Flags().Float64Var(&screenHours, "hours", 0, "Hours of screen time (0-24)")
	_ = screenCmd.MarkFlagRequired("hours")
	logsCmd.AddCommand(screenCmd)

	journalCmd := &cobra.Command{
		Use:   "journal TEXT",
		Short: "Set the journal entry for the date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *daygrid.Store) error {
				l, err := s.SetJournalText(date, args[0])
				if err != nil {
					return err
				}
				return printJSON(l)
			})
		},
	}
	logsCmd.AddCommand(journalCmd)

	var amount float64
	var category string
	expenseCmd := &cobra.Command{
		Use:   "expense ITEM",
		Short: "Add an expense to the date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *daygrid.Store) error {
				l, err := s.AddExpense(date, args[0], amount, category)
				if err != nil {
					return err
				}
				return printJSON(l)
			})
		},
	}
	expenseCmd.Flags().Float64Var(&amount, "amount", 0, "Expense amount (must be > 0)")
	expenseCmd.Flags().StringVar(&category, "category", "", "Category (unknown values fall back to General)")
	_ = expenseCmd.MarkFlagRequired("amount")
	logsCmd.AddCommand(expenseCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the locally cached log for the date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *daygrid.Store) error {
				l, ok, err := s.Log(date)
				if err != nil {
					return err
				}
				if !ok {
					return printJSON(map[string]string{"date": date, "status": "no entry"})
				}
				return printJSON(l)
			})
		},
	}
	logsCmd.AddCommand(showCmd)

	rootCmd.AddCommand(logsCmd)
}
