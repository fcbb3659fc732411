// Package reconciler drives approved gateway payments back into ledger
// settlement entries at the end of a billing month.
package reconciler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"fbarbosa/cobrador/internal/config"
	"fbarbosa/cobrador/internal/dateutils"
	"fbarbosa/cobrador/internal/models"

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

// PaymentSearcher reports the gateway's payments.
type PaymentSearcher interface {
	SearchPayments(ctx context.Context) ([]models.GatewayPayment, error)
}

// Ledger is the slice of the ledger client the reconciler needs.
type Ledger interface {
	FriendBalance(ctx context.Context, friendID int64) (decimal.Decimal, error)
	CreateSettlement(ctx context.Context, friendID, currentUserID int64, amount decimal.Decimal, description string) error
}

// Reconciler queries the gateway for this month's approved payments and
// settles the corresponding friends in the ledger.
type Reconciler struct {
	gateway       PaymentSearcher
	ledger        Ledger
	currentUserID int64
}

// New creates a Reconciler.
func New(gateway PaymentSearcher, ledger Ledger, currentUserID int64) *Reconciler {
	return &Reconciler{gateway: gateway, ledger: ledger, currentUserID: currentUserID}
}

// Reconcile settles every friend with an approved payment created in the
// given billing month. Each friend is handled in isolation: a ledger failure
// for one is recorded in that friend's result and the pass moves on. A friend
// whose balance is already zero (or negative) yields a successful no-op
// result, which makes the pass idempotent per billing month.
func (r *Reconciler) Reconcile(ctx context.Context, month dateutils.BillingMonth) ([]models.SettlementResult, error) {
	payments, err := r.gateway.SearchPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching gateway payments: %w", err)
	}

	friendIDs := r.paidFriends(payments, month)
	log.WithFields(logrus.Fields{
		"month":   month.Display(),
		"friends": len(friendIDs),
	}).Info("Reconciling approved payments")

	results := make([]models.SettlementResult, 0, len(friendIDs))
	for _, friendID := range friendIDs {
		results = append(results, r.settleFriend(ctx, friendID, month))
	}
	return results, nil
}

// paidFriends extracts the distinct friend ids behind this month's approved
// payments, preserving first-seen order.
func (r *Reconciler) paidFriends(payments []models.GatewayPayment, month dateutils.BillingMonth) []int64 {
	seen := make(map[int64]bool)
	var friendIDs []int64

	for _, p := range payments {
		if p.Status != models.PaymentStatusApproved || p.ExternalReference == "" {
			continue
		}
		if !month.Contains(p.CreatedAt) {
			continue
		}

		// The friend id is the token before the first underscore of the
		// external reference ({friend}_{MM}_{YY}_V{n}).
		token, _, _ := strings.Cut(p.ExternalReference, "_")
		friendID, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			log.WithField("external_reference", p.ExternalReference).
				Warn("Skipping payment with unparsable external reference")
			continue
		}
		if !seen[friendID] {
			seen[friendID] = true
			friendIDs = append(friendIDs, friendID)
		}
	}
	return friendIDs
}

func (r *Reconciler) settleFriend(ctx context.Context, friendID int64, month dateutils.BillingMonth) models.SettlementResult {
	balance, err := r.ledger.FriendBalance(ctx, friendID)
	if err != nil {
		log.WithError(err).WithField("friend_id", friendID).Error("Balance lookup failed")
		return models.SettlementResult{FriendID: friendID, Success: false, Note: err.Error()}
	}

	if !balance.IsPositive() {
		log.WithField("friend_id", friendID).Debug("Friend already settled")
		return models.SettlementResult{FriendID: friendID, Amount: decimal.Zero, Success: true, Note: "already settled"}
	}

	description := fmt.Sprintf("Settlement %s", month.Display())
	if err := r.ledger.CreateSettlement(ctx, friendID, r.currentUserID, balance, description); err != nil {
		log.WithError(err).WithField("friend_id", friendID).Error("Settlement creation failed")
		return models.SettlementResult{FriendID: friendID, Amount: balance, Success: false, Note: err.Error()}
	}

	log.WithFields(logrus.Fields{
		"friend_id": friendID,
		"amount":    balance.StringFixed(2),
	}).Info("Friend settled")
	return models.SettlementResult{FriendID: friendID, Amount: balance, Success: true, Note: "settled"}
}
