// Package classifier scans a friend's recent ledger expenses and reduces them
// to one debt line per catalog category.
package classifier

import (
	"errors"
	"fmt"
	"strings"

	"fbarbosa/cobrador/internal/catalog"
	"fbarbosa/cobrador/internal/config"
	"fbarbosa/cobrador/internal/models"

	"github.com/sirupsen/logrus"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// ErrIncompleteClassification is returned when the expense stream, within its
// scan bound, does not cover every catalog category exactly once. Recoverable
// by the caller (widen the window), never silently treated as complete.
var ErrIncompleteClassification = errors.New("classification incomplete")

// Classify walks the expense stream, most recent first, and extracts the
// friend's debt per catalog category.
//
// Settlement records (payment-flagged expenses) are skipped: they represent
// past reconciliations, not new debt. Expenses the friend did not take part
// in are skipped as well, so only the friend's own balances can fill catalog
// slots. Scanning stops as soon as one line per catalog slot has been
// collected or the stream is exhausted.
//
// The collected lines are verified against the catalog before being returned;
// on any shortfall (including a duplicated category crowding out a missing
// one) the result is ErrIncompleteClassification.
func Classify(friendID int64, expenses []models.Expense, cat catalog.Catalog) ([]models.DebtLine, error) {
	lines := make([]models.DebtLine, 0, cat.Size())

	for _, expense := range expenses {
		if len(lines) == cat.Size() {
			break
		}
		if expense.Payment {
			log.WithFields(logrus.Fields{
				"expense_id": expense.ID,
				"friend_id":  friendID,
			}).Debug("Skipping settlement record")
			continue
		}

		share, ok := expense.ShareFor(friendID)
		if !ok || share.NetBalance.IsZero() {
			continue
		}

		lines = append(lines, models.DebtLine{
			CategoryHint: expense.Description,
			Amount:       share.NetBalance.Abs(),
		})
	}

	if !VerifyComplete(lines, cat) {
		log.WithFields(logrus.Fields{
			"friend_id": friendID,
			"lines":     len(lines),
			"catalog":   cat.Size(),
		}).Warn("Classification did not cover the catalog")
		return nil, fmt.Errorf("friend %d: %d of %d categories matched within scan bound: %w",
			friendID, matchedCount(lines, cat), cat.Size(), ErrIncompleteClassification)
	}

	return lines, nil
}

// VerifyComplete reports whether the lines cover every catalog category
// exactly once. Each line consumes at most one catalog slot (first match
// only), so a second expense for an already-filled category cannot stand in
// for a missing one.
func VerifyComplete(lines []models.DebtLine, cat catalog.Catalog) bool {
	remaining := pendingNames(cat)

	for _, line := range lines {
		hint := catalog.NormalizeHint(line.CategoryHint)
		for i, name := range remaining {
			if name == hint {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}

	return len(remaining) == 0
}

// matchedCount counts how many catalog slots the lines fill, with the same
// first-match-only rule as VerifyComplete.
func matchedCount(lines []models.DebtLine, cat catalog.Catalog) int {
	remaining := pendingNames(cat)
	total := len(remaining)

	for _, line := range lines {
		hint := catalog.NormalizeHint(line.CategoryHint)
		for i, name := range remaining {
			if name == hint {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}

	return total - len(remaining)
}

func pendingNames(cat catalog.Catalog) []string {
	names := make([]string, 0, cat.Size())
	for _, c := range cat.Categories() {
		names = append(names, strings.ToLower(c.Name))
	}
	return names
}
