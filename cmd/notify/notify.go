// Package notify handles the debtor-notification command
package notify

import (
	"context"
	"time"

	"fbarbosa/cobrador/cmd/root"
	"fbarbosa/cobrador/internal/billing"
	"fbarbosa/cobrador/internal/classifier"
	"fbarbosa/cobrador/internal/dateutils"
	"fbarbosa/cobrador/internal/messaging"
	"fbarbosa/cobrador/internal/models"
	"fbarbosa/cobrador/internal/notify"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Cmd represents the notify command
var Cmd = &cobra.Command{
	Use:   "notify",
	Short: "Send the monthly summary message to a friend",
	Long: `Format a friend's classified debts into the monthly summary template and
deliver it over the messaging channel, with the payment link from the most
recent journal entry as the button target.`,
	Run: notifyFunc,
}

func init() {
	Cmd.Flags().Int64VarP(&root.FriendID, "friend", "f", 0, "Ledger friend id (required)")
	Cmd.Flags().IntVarP(&root.Limit, "limit", "l", 20, "Maximum number of expenses to scan")
	if err := Cmd.MarkFlagRequired("friend"); err != nil {
		root.Log.Warnf("Failed to mark friend flag required: %v", err)
	}
}

func notifyFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Notify command called")
	root.Log.Infof("Friend id: %d", root.FriendID)

	c := root.Bootstrap()
	ctx := context.Background()

	// The notification always points at an already-journaled payment link;
	// run the charge command first.
	entry, ok := latestEntry(c.Journal().All())
	if !ok {
		root.Log.Fatalf("No payment link recorded for friend %d; run 'cobrador charge' first", root.FriendID)
	}

	book, err := c.Contacts()
	if err != nil {
		root.Log.Fatalf("Error loading contacts: %v", err)
	}
	contact, err := book.Lookup(root.FriendID)
	if err != nil {
		root.Log.Fatalf("Error resolving contact: %v", err)
	}

	expenses, err := c.Ledger().RecentExpenses(ctx, root.Limit)
	if err != nil {
		root.Log.Fatalf("Error fetching expenses: %v", err)
	}
	lines, err := classifier.Classify(root.FriendID, expenses, c.Catalog())
	if err != nil {
		root.Log.Fatalf("Error classifying debts: %v", err)
	}

	taxRate := decimal.NewFromFloat(c.Config().Billing.TaxRate)
	items, _ := billing.ItemsWithTax(lines, taxRate)
	params := notify.TemplateParams(items, c.Catalog())

	month := dateutils.CurrentMonth(time.Now())
	body := notify.BodyParams(contact.Name, month, params)
	button := messaging.PreferenceIDFromLink(entry.Link)

	if err := c.Messenger().SendTemplate(ctx, contact.PhoneNumber, body, button); err != nil {
		root.Log.Fatalf("Error sending notification: %v", err)
	}
	root.Log.Infof("Summary sent to %s (%s)", contact.Name, contact.PhoneNumber)
}

// latestEntry returns the most recent journal entry for the selected friend.
func latestEntry(entries []models.JournalEntry, err error) (models.JournalEntry, bool) {
	if err != nil {
		root.Log.Fatalf("Error reading payment journal: %v", err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].FriendID == root.FriendID {
			return entries[i], true
		}
	}
	return models.JournalEntry{}, false
}
