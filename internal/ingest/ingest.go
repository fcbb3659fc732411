// Package ingest loads a CSV of new debts and records them as ledger
// expenses, one per row.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"fbarbosa/cobrador/internal/common"
	"fbarbosa/cobrador/internal/config"
	"fbarbosa/cobrador/internal/ledger"
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

// DebtRow is one row of the debts CSV. Value tolerates a currency prefix and
// a comma decimal separator ("R$ 12,50").
type DebtRow struct {
	UserID      int64  `csv:"user_id"`
	Description string `csv:"description"`
	Value       string `csv:"value"`
}

// Amount parses the row's value into a decimal.
func (r DebtRow) Amount() (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(r.Value)
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "R$"))
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid value %q: %w", r.Value, err)
	}
	return amount, nil
}

// ExpenseCreator is the slice of the ledger client the ingester needs.
type ExpenseCreator interface {
	CreateExpense(ctx context.Context, req ledger.CreateExpenseRequest) (int64, error)
}

// Ingester records CSV debts in the ledger on behalf of the current user.
type Ingester struct {
	ledger        ExpenseCreator
	currentUserID int64
}

// New creates an Ingester.
func New(l ExpenseCreator, currentUserID int64) *Ingester {
	return &Ingester{ledger: l, currentUserID: currentUserID}
}

// Rows reads and filters the debts CSV. Rows for the current user or with a
// blank user id are skipped; rows with an unparsable value abort the load so
// a typo never silently drops a debt.
func (i *Ingester) Rows(path string) ([]DebtRow, error) {
	raw, err := common.ReadCSVFile[DebtRow](path)
	if err != nil {
		return nil, fmt.Errorf("loading debts from %s: %w", path, err)
	}

	rows := make([]DebtRow, 0, len(raw))
	for _, row := range raw {
		if row.UserID == 0 || row.UserID == i.currentUserID {
			log.WithField("user_id", row.UserID).Debug("Skipping row for current user")
			continue
		}
		if _, err := row.Amount(); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Run creates one ledger expense per row: the current user paid, the friend
// owes the full amount. Returns the number of expenses created.
func (i *Ingester) Run(ctx context.Context, path string) (int, error) {
	rows, err := i.Rows(path)
	if err != nil {
		return 0, err
	}

	for n, row := range rows {
		amount, err := row.Amount()
		if err != nil {
			return n, err
		}

		req := ledger.CreateExpenseRequest{
			Cost:        amount.Round(2),
			Description: row.Description,
			Payment:     false,
			Users: []models.ExpenseShare{
				{UserID: i.currentUserID, PaidShare: amount.Round(2), OwedShare: decimal.Zero},
				{UserID: row.UserID, PaidShare: decimal.Zero, OwedShare: amount.Round(2)},
			},
		}
		if _, err := i.ledger.CreateExpense(ctx, req); err != nil {
			return n, fmt.Errorf("row %d (user %d): %w", n+1, row.UserID, err)
		}

		log.WithFields(logrus.Fields{
			"user_id":     row.UserID,
			"description": row.Description,
			"amount":      amount.StringFixed(2),
		}).Info("Debt recorded in ledger")
	}
	return len(rows), nil
}
