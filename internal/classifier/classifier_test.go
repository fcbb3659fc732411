package classifier

import (
	"testing"

	"fbarbosa/cobrador/internal/catalog"
	"fbarbosa/cobrador/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const friendID int64 = 42

func testCatalog() catalog.Catalog {
	return catalog.New("Fee", "Lunch", "Fridge")
}

func expense(id int64, description string, balance string) models.Expense {
	return models.Expense{
		ID:          id,
		Description: description,
		Shares: []models.ExpenseShare{
			{UserID: friendID, NetBalance: decimal.RequireFromString(balance)},
		},
	}
}

func TestClassifyCompleteStream(t *testing.T) {
	expenses := []models.Expense{
		expense(1, "Lunch Aug", "-50"),
		expense(2, "Fee Aug", "-200"),
		expense(3, "Fridge Aug", "-30"),
	}

	lines, err := Classify(friendID, expenses, testCatalog())
	require.NoError(t, err)
	require.Len(t, lines, 3)

	// Amounts are stored as non-negative magnitudes in stream order
	assert.Equal(t, "Lunch Aug", lines[0].CategoryHint)
	assert.True(t, lines[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.True(t, lines[1].Amount.Equal(decimal.NewFromInt(200)))
	assert.True(t, lines[2].Amount.Equal(decimal.NewFromInt(30)))
}

func TestClassifyEmptyStreamIsIncomplete(t *testing.T) {
	_, err := Classify(friendID, nil, testCatalog())
	assert.ErrorIs(t, err, ErrIncompleteClassification)
}

func TestClassifyDuplicateCategoryIsIncomplete(t *testing.T) {
	// Two Lunch expenses and no Fridge within the bound: the duplicate must
	// not stand in for the missing category.
	expenses := []models.Expense{
		expense(1, "Lunch Aug", "-50"),
		expense(2, "Lunch extra", "-10"),
		expense(3, "Fee Aug", "-200"),
	}

	_, err := Classify(friendID, expenses, testCatalog())
	assert.ErrorIs(t, err, ErrIncompleteClassification)
}

func TestClassifySkipsSettlementRecords(t *testing.T) {
	settlement := expense(1, "Fee payment", "200")
	settlement.Payment = true

	expenses := []models.Expense{
		settlement,
		expense(2, "Fee Aug", "-200"),
		expense(3, "Lunch Aug", "-50"),
		expense(4, "Fridge Aug", "-30"),
	}

	lines, err := Classify(friendID, expenses, testCatalog())
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "Fee Aug", lines[0].CategoryHint)
}

func TestClassifySkipsExpensesWithoutTheFriend(t *testing.T) {
	unrelated := models.Expense{
		ID:          1,
		Description: "Fee Aug",
		Shares: []models.ExpenseShare{
			{UserID: 99, NetBalance: decimal.NewFromInt(-100)},
		},
	}

	expenses := []models.Expense{
		unrelated,
		expense(2, "Fee Aug", "-200"),
		expense(3, "Lunch Aug", "-50"),
		expense(4, "Fridge Aug", "-30"),
	}

	lines, err := Classify(friendID, expenses, testCatalog())
	require.NoError(t, err)
	require.Len(t, lines, 3)
	// The unrelated expense contributed nothing, not a zero-amount line
	assert.True(t, lines[0].Amount.Equal(decimal.NewFromInt(200)))
}

func TestClassifySkipsZeroBalanceShares(t *testing.T) {
	zero := expense(1, "Fee Aug", "0")

	_, err := Classify(friendID, []models.Expense{zero}, testCatalog())
	assert.ErrorIs(t, err, ErrIncompleteClassification)
}

func TestClassifyStopsAtCatalogSize(t *testing.T) {
	expenses := []models.Expense{
		expense(1, "Fee Aug", "-200"),
		expense(2, "Lunch Aug", "-50"),
		expense(3, "Fridge Aug", "-30"),
		expense(4, "Fee July", "-180"), // beyond the stopping rule, ignored
	}

	lines, err := Classify(friendID, expenses, testCatalog())
	require.NoError(t, err)
	assert.Len(t, lines, 3)
}

func TestVerifyComplete(t *testing.T) {
	cat := testCatalog()

	line := func(hint string) models.DebtLine {
		return models.DebtLine{CategoryHint: hint, Amount: decimal.NewFromInt(1)}
	}

	tests := []struct {
		name     string
		lines    []models.DebtLine
		complete bool
	}{
		{"All categories once", []models.DebtLine{line("Fee Aug"), line("Lunch Aug"), line("Fridge Aug")}, true},
		{"Order does not matter", []models.DebtLine{line("fridge"), line("fee"), line("lunch")}, true},
		{"Missing category", []models.DebtLine{line("Fee Aug"), line("Lunch Aug")}, false},
		{"Duplicate never double-counts", []models.DebtLine{line("Lunch Aug"), line("Lunch extra"), line("Fee Aug")}, false},
		{"Extra unmatched line is harmless", []models.DebtLine{line("Fee"), line("Lunch"), line("Fridge"), line("Cinema")}, true},
		{"Empty set", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.complete, VerifyComplete(tc.lines, cat))
		})
	}
}
