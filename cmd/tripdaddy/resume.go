package main

import (
	"github.com/spf13/cobra"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/paywall"
)

var (
	paymentSuccess bool
	checkoutRef    string
)

var resumeCmd = &cobra.Command{
	Use:   "resume <plan-id>",
	Short: "Reopen a saved plan by its share link id",
	Long: `Resume reopens a previously generated plan. Pass the id from the
share link. When returning from a checkout page, add --payment-success
and --checkout-ref so the purchase can be confirmed before the plan is
shown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard(cmd.Context(), paywall.EntryContext{
			Locator:           args[0],
			PaymentSuccess:    paymentSuccess,
			PaymentSessionRef: checkoutRef,
		})
	},
}

func init() {
	resumeCmd.Flags().BoolVar(&paymentSuccess, "payment-success", false, "returning from a successful checkout")
	resumeCmd.Flags().StringVar(&checkoutRef, "checkout-ref", "", "checkout session reference to verify")
	rootCmd.AddCommand(resumeCmd)
}
