// Package contacts resolves ledger user ids to messaging recipients via the
// contacts CSV file.
package contacts

import (
	"errors"
	"fmt"

	"fbarbosa/cobrador/internal/common"
	"fbarbosa/cobrador/internal/models"
)

// ErrContactMissing is returned when no CSV row exists for a friend id. It is
// fatal for notification delivery only; payment-request creation does not
// depend on contacts.
var ErrContactMissing = errors.New("contact not found")

// Book is the loaded contacts file.
type Book struct {
	byUserID map[int64]models.Contact
}

// Load reads the contacts CSV (columns: user_id, name, phone_number).
func Load(path string) (*Book, error) {
	rows, err := common.ReadCSVFile[models.Contact](path)
	if err != nil {
		return nil, fmt.Errorf("loading contacts from %s: %w", path, err)
	}

	book := &Book{byUserID: make(map[int64]models.Contact, len(rows))}
	for _, row := range rows {
		book.byUserID[row.UserID] = row
	}
	return book, nil
}

// Lookup returns the contact for the given ledger user id.
func (b *Book) Lookup(userID int64) (models.Contact, error) {
	contact, ok := b.byUserID[userID]
	if !ok {
		return models.Contact{}, fmt.Errorf("user %d: %w", userID, ErrContactMissing)
	}
	return contact, nil
}
