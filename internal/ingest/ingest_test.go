package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fbarbosa/cobrador/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentUserID int64 = 1

type fakeLedger struct {
	requests []ledger.CreateExpenseRequest
	err      error
}

func (l *fakeLedger) CreateExpense(_ context.Context, req ledger.CreateExpenseRequest) (int64, error) {
	if l.err != nil {
		return 0, l.err
	}
	l.requests = append(l.requests, req)
	return int64(len(l.requests)), nil
}

func writeDebts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "debts.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDebtRowAmount(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
		wantErr  bool
	}{
		{"Plain decimal", "50.00", "50.00", false},
		{"Comma separator", "50,00", "50.00", false},
		{"Currency prefix", "R$ 120,50", "120.50", false},
		{"Currency no space", "R$99,90", "99.90", false},
		{"Garbage", "abc", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := DebtRow{Value: tc.value}.Amount()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, amount.Equal(decimal.RequireFromString(tc.expected)))
		})
	}
}

func TestRowsSkipsCurrentUserAndBlankIDs(t *testing.T) {
	path := writeDebts(t, "user_id,description,value\n42,Fee Aug,200.00\n1,Fee Aug,200.00\n0,Fee Aug,10.00\n7,Lunch Aug,\"50,00\"\n")

	rows, err := New(&fakeLedger{}, currentUserID).Rows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(42), rows[0].UserID)
	assert.Equal(t, int64(7), rows[1].UserID)
}

func TestRowsRejectsUnparsableValue(t *testing.T) {
	path := writeDebts(t, "user_id,description,value\n42,Fee Aug,not-a-number\n")

	_, err := New(&fakeLedger{}, currentUserID).Rows(path)
	assert.Error(t, err)
}

func TestRunCreatesLedgerExpenses(t *testing.T) {
	path := writeDebts(t, "user_id,description,value\n42,Fee Aug,\"R$ 200,00\"\n7,Lunch Aug,50.00\n")
	l := &fakeLedger{}

	count, err := New(l, currentUserID).Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, l.requests, 2)

	first := l.requests[0]
	assert.Equal(t, "Fee Aug", first.Description)
	assert.False(t, first.Payment)
	assert.True(t, first.Cost.Equal(decimal.RequireFromString("200.00")))
	require.Len(t, first.Users, 2)
	assert.Equal(t, currentUserID, first.Users[0].UserID)
	assert.True(t, first.Users[0].PaidShare.Equal(decimal.RequireFromString("200.00")))
	assert.Equal(t, int64(42), first.Users[1].UserID)
	assert.True(t, first.Users[1].OwedShare.Equal(decimal.RequireFromString("200.00")))
}

func TestRunStopsOnLedgerError(t *testing.T) {
	path := writeDebts(t, "user_id,description,value\n42,Fee Aug,200.00\n")
	l := &fakeLedger{err: errors.New("ledger unavailable")}

	count, err := New(l, currentUserID).Run(context.Background(), path)
	assert.Error(t, err)
	assert.Equal(t, 0, count)
}
