// Package models defines the domain types shared across the application.
// Payloads coming back from the ledger, gateway and messaging services are
// converted into these types at the client boundary; raw maps never cross
// into the core packages.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is one of the recurring expense kinds the catalog expects to see
// once per billing period.
type Category struct {
	Name string `json:"name" yaml:"name"`
}

// Friend is a member of the shared ledger who may owe money to the current user.
type Friend struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ExpenseShare is one participant's slice of a ledger expense.
// NetBalance is positive when the participant is owed money and negative
// when they owe.
type ExpenseShare struct {
	UserID     int64           `json:"user_id"`
	NetBalance decimal.Decimal `json:"net_balance"`
	PaidShare  decimal.Decimal `json:"paid_share"`
	OwedShare  decimal.Decimal `json:"owed_share"`
}

// Expense is a single ledger record. Payment marks settlement records, which
// the classifier skips: they describe money already repaid, not new debt.
type Expense struct {
	ID          int64          `json:"id"`
	Description string         `json:"description"`
	Payment     bool           `json:"payment"`
	CreatedAt   time.Time      `json:"created_at"`
	Shares      []ExpenseShare `json:"users"`
}

// ShareFor returns the share belonging to the given user, if any.
func (e Expense) ShareFor(userID int64) (ExpenseShare, bool) {
	for _, s := range e.Shares {
		if s.UserID == userID {
			return s, true
		}
	}
	return ExpenseShare{}, false
}

// DebtLine is one categorized debt owed by a friend. CategoryHint is the raw
// ledger description; the catalog reduces it to a category by taking its
// first token. Amount is always a non-negative magnitude.
type DebtLine struct {
	CategoryHint string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
}

// PaymentItem is a single line of a gateway payment request.
type PaymentItem struct {
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
}

// PaymentRequest is the finalized, gateway-confirmed request for one friend
// and billing month. Immutable once created.
type PaymentRequest struct {
	ExternalReference string          `json:"external_reference"`
	Items             []PaymentItem   `json:"items"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	ValidFrom         time.Time       `json:"valid_from"`
	ValidUntil        time.Time       `json:"valid_until"`
	Link              string          `json:"link"`
}

// JournalEntry is the durable record of one created payment request.
type JournalEntry struct {
	ID                string          `json:"id"`
	FriendID          int64           `json:"friend_id"`
	ExternalReference string          `json:"external_reference"`
	Link              string          `json:"payment_link"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Expiration        time.Time       `json:"expiration"`
	CreatedAt         time.Time       `json:"created_at"`
}

// GatewayPayment is one payment reported by the gateway's search endpoint.
type GatewayPayment struct {
	ExternalReference string    `json:"external_reference"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"date_created"`
}

// PaymentStatusApproved is the gateway status for a completed payment.
const PaymentStatusApproved = "approved"

// SettlementResult reports the outcome of one friend's reconciliation within
// a single pass. Ephemeral.
type SettlementResult struct {
	FriendID int64
	Amount   decimal.Decimal
	Success  bool
	Note     string
}

// Contact is a messaging recipient loaded from the contacts CSV.
type Contact struct {
	UserID      int64  `csv:"user_id"`
	Name        string `csv:"name"`
	PhoneNumber string `csv:"phone_number"`
}
