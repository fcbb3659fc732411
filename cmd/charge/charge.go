// Package charge handles the payment-link creation command
package charge

import (
	"context"
	"fmt"
	"time"

	"fbarbosa/cobrador/cmd/root"
	"fbarbosa/cobrador/internal/classifier"
	"fbarbosa/cobrador/internal/dateutils"

	"github.com/spf13/cobra"
)

// Cmd represents the charge command
var Cmd = &cobra.Command{
	Use:   "charge",
	Short: "Create a payment link for a friend's classified debts",
	Long: `Classify a friend's recent expenses, add the gateway tax, create a hosted
checkout preference with a versioned external reference and record it in the
payment journal.`,
	Run: chargeFunc,
}

func init() {
	Cmd.Flags().Int64VarP(&root.FriendID, "friend", "f", 0, "Ledger friend id (required)")
	Cmd.Flags().IntVarP(&root.Limit, "limit", "l", 20, "Maximum number of expenses to scan")
	if err := Cmd.MarkFlagRequired("friend"); err != nil {
		root.Log.Warnf("Failed to mark friend flag required: %v", err)
	}
}

func chargeFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Charge command called")
	root.Log.Infof("Friend id: %d", root.FriendID)

	c := root.Bootstrap()
	ctx := context.Background()

	expenses, err := c.Ledger().RecentExpenses(ctx, root.Limit)
	if err != nil {
		root.Log.Fatalf("Error fetching expenses: %v", err)
	}

	lines, err := classifier.Classify(root.FriendID, expenses, c.Catalog())
	if err != nil {
		root.Log.Fatalf("Error classifying debts: %v", err)
	}

	month := dateutils.CurrentMonth(time.Now())
	request, err := c.Builder().Build(ctx, root.FriendID, lines, month)
	if err != nil {
		root.Log.Fatalf("Error creating payment request: %v", err)
	}

	fmt.Printf("Reference: %s\n", request.ExternalReference)
	fmt.Printf("Total:     %s\n", request.TotalAmount.StringFixed(2))
	fmt.Printf("Link:      %s\n", request.Link)
	fmt.Printf("Valid to:  %s\n", request.ValidUntil.Format("2006-01-02"))
	root.Log.Info("Payment link created")
}
