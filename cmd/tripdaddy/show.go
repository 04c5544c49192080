package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/paywall"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/store"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

var showCmd = &cobra.Command{
	Use:   "show [plan-id]",
	Short: "Print a saved plan without opening the wizard",
	Long: `Show prints a saved plan to stdout. Without an argument it lists
the most recent plans instead. Locked plans are shown truncated, the
same way the wizard shows them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(cfg.Store.Path, cfg.Paywall.FreeDays, slog.Default())
		if err != nil {
			return err
		}
		defer db.Close()

		if len(args) == 0 {
			return listSessions(cmd, db)
		}
		return showSession(cmd, db, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func listSessions(cmd *cobra.Command, db *store.SQLiteStore) error {
	summaries, err := db.ListRecent(cmd.Context(), 20)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		cmd.Println("No saved plans yet. Run tripdaddy to start one.")
		return nil
	}

	for _, s := range summaries {
		status := "locked"
		if s.Unlocked {
			status = "unlocked"
		}
		cmd.Printf("%s  %-30s %2d days  %-8s %s\n",
			s.ID, s.Destination, s.TotalDays, status,
			s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func showSession(cmd *cobra.Command, db *store.SQLiteStore, locator string) error {
	id, err := types.ParseID(locator)
	if err != nil {
		return fmt.Errorf("%q is not a valid plan id", locator)
	}

	session, err := db.LoadByID(cmd.Context(), id)
	if err != nil {
		return err
	}
	if session.Plan == nil {
		return fmt.Errorf("plan %s has no itinerary to show", locator)
	}
	acct := paywall.Account(session, cfg.Paywall.FreeDays)

	cmd.Printf("%s (%d days)\n", session.Plan.Destination, acct.TotalDays)
	for _, day := range session.Plan.Days {
		cmd.Printf("\nDay %d · %s", day.DayNumber, day.Date)
		if day.Title != "" {
			cmd.Printf(" · %s", day.Title)
		}
		cmd.Println()
		if img, ok := session.Images[day.DayNumber]; ok {
			cmd.Printf("  image: %s\n", img.URL)
		}
		if day.Highlight != nil {
			cmd.Printf("  ★ %s\n", day.Highlight.Name)
		}
		for _, p := range trip.Periods() {
			for _, act := range day.Activities(p) {
				cmd.Printf("    %s %s\n", act.Emoji, act.Name)
			}
		}
	}

	if acct.ShowUnlock {
		cmd.Printf("\n🔒 %d more day(s) locked. Open the plan in the wizard to unlock.\n",
			acct.LockedDaysCount)
	}
	return nil
}
