// Package billing turns a verified set of classified debts into a
// tax-adjusted, versioned, time-bounded payment request.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fbarbosa/cobrador/internal/catalog"
	"fbarbosa/cobrador/internal/classifier"
	"fbarbosa/cobrador/internal/config"
	"fbarbosa/cobrador/internal/dateutils"
	"fbarbosa/cobrador/internal/journal"
	"fbarbosa/cobrador/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

// ErrGatewayRejected is returned when the payment gateway refuses to create
// the checkout preference. No journal entry is written in that case, so a
// rejected request leaves no trace that a payment link exists.
var ErrGatewayRejected = errors.New("payment gateway rejected the request")

// TaxLineTitle is the title of the synthetic line added for the gateway fee.
const TaxLineTitle = "Tax"

// Preference is the gateway's answer to a create-preference call.
type Preference struct {
	ID   string
	Link string
}

// PreferenceRequest describes the checkout preference to create.
type PreferenceRequest struct {
	Items             []models.PaymentItem
	ExternalReference string
	ValidFrom         time.Time
	ValidUntil        time.Time
}

// Gateway creates hosted checkout preferences.
type Gateway interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (Preference, error)
}

// Builder assembles payment requests. The tax rate and validity window are
// fixed per process; the clock is injectable for tests.
type Builder struct {
	gateway  Gateway
	journal  journal.Journal
	catalog  catalog.Catalog
	taxRate  decimal.Decimal
	validity time.Duration
	now      func() time.Time
}

// NewBuilder creates a Builder with the given collaborators.
func NewBuilder(gw Gateway, j journal.Journal, cat catalog.Catalog, taxRate decimal.Decimal, validity time.Duration) *Builder {
	return &Builder{
		gateway:  gw,
		journal:  j,
		catalog:  cat,
		taxRate:  taxRate,
		validity: validity,
		now:      time.Now,
	}
}

// WithClock overrides the builder's clock. Intended for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// ItemsWithTax converts debt lines into payment items with the synthetic tax
// line appended, and returns the resulting total (debts sum plus tax). The
// total is invariant to the input line ordering.
func ItemsWithTax(lines []models.DebtLine, taxRate decimal.Decimal) ([]models.PaymentItem, decimal.Decimal) {
	debtsSum := decimal.Zero
	items := make([]models.PaymentItem, 0, len(lines)+1)
	for _, line := range lines {
		debtsSum = debtsSum.Add(line.Amount.Abs())
		items = append(items, models.PaymentItem{
			Title:  line.CategoryHint,
			Amount: line.Amount.Abs().Round(2),
		})
	}

	tax := debtsSum.Mul(taxRate).Round(2)
	items = append(items, models.PaymentItem{Title: TaxLineTitle, Amount: tax})
	return items, debtsSum.Add(tax)
}

// Build creates a payment request for a complete classified debt set.
//
// The synthetic tax line participates in the total but is appended after
// verification, so it is exempt from the one-line-per-category rule. The
// journal entry is persisted before the request is returned: a later rebuild
// for the same friend and month always sees the prior versions and picks the
// next one.
func (b *Builder) Build(ctx context.Context, friendID int64, lines []models.DebtLine, month dateutils.BillingMonth) (models.PaymentRequest, error) {
	if !classifier.VerifyComplete(lines, b.catalog) {
		return models.PaymentRequest{}, fmt.Errorf("friend %d: debt set does not cover the catalog: %w",
			friendID, classifier.ErrIncompleteClassification)
	}

	items, total := ItemsWithTax(lines, b.taxRate)

	ref, err := b.nextReference(friendID, month)
	if err != nil {
		return models.PaymentRequest{}, err
	}

	validFrom := b.now()
	validUntil := validFrom.Add(b.validity)

	pref, err := b.gateway.CreatePreference(ctx, PreferenceRequest{
		Items:             items,
		ExternalReference: ref,
		ValidFrom:         validFrom,
		ValidUntil:        validUntil,
	})
	if err != nil {
		log.WithError(err).WithField("external_reference", ref).Error("Preference creation failed")
		return models.PaymentRequest{}, err
	}

	entry := models.JournalEntry{
		ID:                uuid.NewString(),
		FriendID:          friendID,
		ExternalReference: ref,
		Link:              pref.Link,
		TotalAmount:       total,
		Expiration:        validUntil,
		CreatedAt:         validFrom,
	}
	if err := b.journal.Append(entry); err != nil {
		return models.PaymentRequest{}, fmt.Errorf("recording payment request %s: %w", ref, err)
	}

	log.WithFields(logrus.Fields{
		"friend_id":          friendID,
		"external_reference": ref,
		"total":              total.StringFixed(2),
	}).Info("Payment request created")

	return models.PaymentRequest{
		ExternalReference: ref,
		Items:             items,
		TotalAmount:       total,
		ValidFrom:         validFrom,
		ValidUntil:        validUntil,
		Link:              pref.Link,
	}, nil
}

// nextReference derives {friend}_{MM}_{YY}_V{n}, incrementing n past every
// version the journal has recorded for the same friend and month.
func (b *Builder) nextReference(friendID int64, month dateutils.BillingMonth) (string, error) {
	prefix := fmt.Sprintf("%d_%s", friendID, month.RefKey())
	versions, err := b.journal.VersionsFor(prefix)
	if err != nil {
		return "", fmt.Errorf("reading prior versions for %s: %w", prefix, err)
	}

	next := 1
	for _, v := range versions {
		if v >= next {
			next = v + 1
		}
	}
	return fmt.Sprintf("%s_V%d", prefix, next), nil
}
