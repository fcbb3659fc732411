package billing

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fbarbosa/cobrador/internal/catalog"
	"fbarbosa/cobrador/internal/classifier"
	"fbarbosa/cobrador/internal/dateutils"
	"fbarbosa/cobrador/internal/journal"
	"fbarbosa/cobrador/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	requests []PreferenceRequest
	err      error
}

func (g *fakeGateway) CreatePreference(_ context.Context, req PreferenceRequest) (Preference, error) {
	if g.err != nil {
		return Preference{}, g.err
	}
	g.requests = append(g.requests, req)
	return Preference{
		ID:   "pref-" + req.ExternalReference,
		Link: "https://pay.example/checkout?pref_id=pref-" + req.ExternalReference,
	}, nil
}

func completeLines() []models.DebtLine {
	return []models.DebtLine{
		{CategoryHint: "Lunch Aug", Amount: decimal.NewFromInt(50)},
		{CategoryHint: "Fee Aug", Amount: decimal.NewFromInt(200)},
		{CategoryHint: "Fridge Aug", Amount: decimal.NewFromInt(30)},
	}
}

func newTestBuilder(t *testing.T, gw Gateway) *Builder {
	t.Helper()
	j := journal.New(filepath.Join(t.TempDir(), "journal.json"))
	cat := catalog.New("Fee", "Lunch", "Fridge")
	b := NewBuilder(gw, j, cat, decimal.RequireFromString("0.0099"), 20*24*time.Hour)
	return b.WithClock(func() time.Time {
		return time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	})
}

func august25() dateutils.BillingMonth {
	return dateutils.BillingMonth{Year: 2025, Month: time.August}
}

func TestBuildFirstRequestOfTheMonth(t *testing.T) {
	gw := &fakeGateway{}
	b := newTestBuilder(t, gw)

	request, err := b.Build(context.Background(), 42, completeLines(), august25())
	require.NoError(t, err)

	assert.Equal(t, "42_08_25_V1", request.ExternalReference)
	assert.True(t, request.TotalAmount.Equal(decimal.RequireFromString("282.77")),
		"expected 282.77, got %s", request.TotalAmount)
	assert.Equal(t, "https://pay.example/checkout?pref_id=pref-42_08_25_V1", request.Link)
	assert.Equal(t, 20*24*time.Hour, request.ValidUntil.Sub(request.ValidFrom))

	// Tax line is appended as the last item
	require.Len(t, request.Items, 4)
	assert.Equal(t, TaxLineTitle, request.Items[3].Title)
	assert.True(t, request.Items[3].Amount.Equal(decimal.RequireFromString("2.77")))
}

func TestBuildIncrementsVersionPerInvocation(t *testing.T) {
	gw := &fakeGateway{}
	b := newTestBuilder(t, gw)

	first, err := b.Build(context.Background(), 42, completeLines(), august25())
	require.NoError(t, err)
	second, err := b.Build(context.Background(), 42, completeLines(), august25())
	require.NoError(t, err)

	assert.Equal(t, "42_08_25_V1", first.ExternalReference)
	assert.Equal(t, "42_08_25_V2", second.ExternalReference)
}

func TestBuildRecordsJournalEntry(t *testing.T) {
	gw := &fakeGateway{}
	j := journal.New(filepath.Join(t.TempDir(), "journal.json"))
	cat := catalog.New("Fee", "Lunch", "Fridge")
	b := NewBuilder(gw, j, cat, decimal.RequireFromString("0.0099"), 20*24*time.Hour)

	request, err := b.Build(context.Background(), 42, completeLines(), august25())
	require.NoError(t, err)

	entries, err := j.All()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(42), entries[0].FriendID)
	assert.Equal(t, request.ExternalReference, entries[0].ExternalReference)
	assert.Equal(t, request.Link, entries[0].Link)
	assert.True(t, entries[0].TotalAmount.Equal(request.TotalAmount))
	assert.NotEmpty(t, entries[0].ID)
}

func TestBuildRejectedByGatewayWritesNoJournalEntry(t *testing.T) {
	gw := &fakeGateway{err: ErrGatewayRejected}
	j := journal.New(filepath.Join(t.TempDir(), "journal.json"))
	cat := catalog.New("Fee", "Lunch", "Fridge")
	b := NewBuilder(gw, j, cat, decimal.RequireFromString("0.0099"), 20*24*time.Hour)

	_, err := b.Build(context.Background(), 42, completeLines(), august25())
	assert.ErrorIs(t, err, ErrGatewayRejected)

	entries, readErr := j.All()
	require.NoError(t, readErr)
	assert.Empty(t, entries)

	// The rejected attempt must not burn a version number either
	versions, readErr := j.VersionsFor("42_08_25")
	require.NoError(t, readErr)
	assert.Empty(t, versions)
}

func TestBuildRefusesIncompleteSet(t *testing.T) {
	gw := &fakeGateway{}
	b := newTestBuilder(t, gw)

	incomplete := completeLines()[:2]
	_, err := b.Build(context.Background(), 42, incomplete, august25())
	assert.ErrorIs(t, err, classifier.ErrIncompleteClassification)
	assert.Empty(t, gw.requests)
}

func TestItemsWithTaxTotalIsOrderInvariant(t *testing.T) {
	rate := decimal.RequireFromString("0.0099")
	lines := completeLines()
	reversed := []models.DebtLine{lines[2], lines[1], lines[0]}

	_, total := ItemsWithTax(lines, rate)
	_, totalReversed := ItemsWithTax(reversed, rate)

	assert.True(t, total.Equal(totalReversed))
	assert.True(t, total.Equal(decimal.RequireFromString("282.77")))
}

func TestItemsWithTaxUsesAbsoluteMagnitudes(t *testing.T) {
	rate := decimal.RequireFromString("0.0099")
	lines := []models.DebtLine{
		{CategoryHint: "Fee", Amount: decimal.NewFromInt(-200)},
		{CategoryHint: "Lunch", Amount: decimal.NewFromInt(50)},
		{CategoryHint: "Fridge", Amount: decimal.NewFromInt(30)},
	}

	items, total := ItemsWithTax(lines, rate)
	for _, item := range items {
		assert.False(t, item.Amount.IsNegative(), "item %s is negative", item.Title)
	}
	assert.True(t, total.Equal(decimal.RequireFromString("282.77")))
}
