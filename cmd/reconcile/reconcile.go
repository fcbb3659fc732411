// Package reconcile handles the settlement-reconciliation command
package reconcile

import (
	"context"
	"fmt"
	"time"

	"fbarbosa/cobrador/cmd/root"
	"fbarbosa/cobrador/internal/dateutils"

	"github.com/spf13/cobra"
)

// Cmd represents the reconcile command
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Settle friends whose payments the gateway reports as approved",
	Long: `Search the payment gateway for this month's approved payments and create a
ledger settlement entry for each paying friend. Friends are processed in
isolation: one failure never aborts the rest.`,
	Run: reconcileFunc,
}

func reconcileFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Reconcile command called")

	c := root.Bootstrap()
	month := dateutils.CurrentMonth(time.Now())

	results, err := c.Reconciler().Reconcile(context.Background(), month)
	if err != nil {
		root.Log.Fatalf("Error reconciling payments: %v", err)
	}

	if len(results) == 0 {
		fmt.Printf("No approved payments for %s\n", month.Display())
		return
	}

	for _, r := range results {
		status := "OK"
		if !r.Success {
			status = "FAILED"
		}
		fmt.Printf("%d\t%s\t%s\t%s\n", r.FriendID, r.Amount.StringFixed(2), status, r.Note)
	}
	root.Log.Infof("Reconciliation finished for %s", month.Display())
}
