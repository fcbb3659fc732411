// Package ingest handles the debts-CSV ingestion command
package ingest

import (
	"context"

	"fbarbosa/cobrador/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Record a CSV of new debts as ledger expenses",
	Long: `Read a CSV file (columns: user_id, description, value) and create one
ledger expense per row, owed in full by the listed friend.`,
	Run: ingestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.File, "file", "i", "", "Input debts CSV file (required)")
	if err := Cmd.MarkFlagRequired("file"); err != nil {
		root.Log.Warnf("Failed to mark file flag required: %v", err)
	}
}

func ingestFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Ingest command called")
	root.Log.Infof("Input file: %s", root.File)

	c := root.Bootstrap()
	count, err := c.Ingester().Run(context.Background(), root.File)
	if err != nil {
		root.Log.Fatalf("Error ingesting debts (created %d before failure): %v", count, err)
	}
	root.Log.Infof("Recorded %d debts in the ledger", count)
}
