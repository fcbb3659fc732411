// Package debts handles the debt-classification command
package debts

import (
	"context"
	"fmt"

	"fbarbosa/cobrador/cmd/root"
	"fbarbosa/cobrador/internal/classifier"
	"fbarbosa/cobrador/internal/notify"

	"github.com/spf13/cobra"
)

// Cmd represents the debts command
var Cmd = &cobra.Command{
	Use:   "debts",
	Short: "Classify a friend's recent expenses against the catalog",
	Long: `Scan a friend's recent ledger expenses, most recent first, and reduce them
to one debt line per recurring category. Fails when the scan bound is reached
before every category has been seen.`,
	Run: debtsFunc,
}

func init() {
	Cmd.Flags().Int64VarP(&root.FriendID, "friend", "f", 0, "Ledger friend id (required)")
	Cmd.Flags().IntVarP(&root.Limit, "limit", "l", 20, "Maximum number of expenses to scan")
	if err := Cmd.MarkFlagRequired("friend"); err != nil {
		root.Log.Warnf("Failed to mark friend flag required: %v", err)
	}
}

func debtsFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Debts command called")
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

	for _, line := range lines {
		fmt.Printf("%-20s %s\n", line.CategoryHint, notify.FormatAmount(line.Amount))
	}
	root.Log.Info("Classification complete")
}
