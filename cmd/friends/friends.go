// Package friends handles the friend-listing command
package friends

import (
	"context"
	"fmt"

	"fbarbosa/cobrador/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the friends command
var Cmd = &cobra.Command{
	Use:   "friends",
	Short: "List the ledger friends",
	Long:  `List every friend known to the ledger service with their user id.`,
	Run:   friendsFunc,
}

func friendsFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Friends command called")

	c := root.Bootstrap()
	friends, err := c.Ledger().Friends(context.Background())
	if err != nil {
		root.Log.Fatalf("Error listing friends: %v", err)
	}

	for _, f := range friends {
		fmt.Printf("%d\t%s %s\n", f.ID, f.FirstName, f.LastName)
	}
	root.Log.Infof("Listed %d friends", len(friends))
}
