// Package ledger is the client for the shared-expense tracking backend. It
// exposes the narrow surface the core needs: friends, recent expenses, the
// outstanding balance per friend, and settlement-expense creation.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fbarbosa/cobrador/internal/config"
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

// Client talks to the ledger service over HTTP with bearer-token auth.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a ledger client for the given base URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// wire shapes; converted to models at this boundary and never passed through.

type friendsResponse struct {
	Friends []wireFriend `json:"friends"`
}

type wireFriend struct {
	ID        int64         `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Balance   []wireBalance `json:"balance"`
}

type wireBalance struct {
	CurrencyCode string          `json:"currency_code"`
	Amount       decimal.Decimal `json:"amount"`
}

type expensesResponse struct {
	Expenses []models.Expense `json:"expenses"`
}

type createExpenseResponse struct {
	Expenses []struct {
		ID int64 `json:"id"`
	} `json:"expenses"`
}

// Friends lists the current user's friends.
func (c *Client) Friends(ctx context.Context) ([]models.Friend, error) {
	var resp friendsResponse
	if err := c.get(ctx, "/get_friends", &resp); err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}

	friends := make([]models.Friend, 0, len(resp.Friends))
	for _, f := range resp.Friends {
		friends = append(friends, models.Friend{
			ID:        f.ID,
			FirstName: f.FirstName,
			LastName:  f.LastName,
		})
	}
	return friends, nil
}

// FriendBalance returns the friend's outstanding balance towards the current
// user. Positive means the friend owes money.
func (c *Client) FriendBalance(ctx context.Context, friendID int64) (decimal.Decimal, error) {
	var resp friendsResponse
	if err := c.get(ctx, "/get_friends", &resp); err != nil {
		return decimal.Zero, fmt.Errorf("fetching balance for friend %d: %w", friendID, err)
	}

	for _, f := range resp.Friends {
		if f.ID != friendID {
			continue
		}
		total := decimal.Zero
		for _, b := range f.Balance {
			total = total.Add(b.Amount)
		}
		return total, nil
	}
	return decimal.Zero, fmt.Errorf("friend %d not found in ledger", friendID)
}

// RecentExpenses returns up to limit expenses, most recent first.
func (c *Client) RecentExpenses(ctx context.Context, limit int) ([]models.Expense, error) {
	var resp expensesResponse
	if err := c.get(ctx, fmt.Sprintf("/get_expenses?limit=%d", limit), &resp); err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	return resp.Expenses, nil
}

// CreateExpenseRequest describes a ledger expense to create. Payment marks
// settlement records.
type CreateExpenseRequest struct {
	Cost        decimal.Decimal       `json:"cost"`
	Description string                `json:"description"`
	Payment     bool                  `json:"payment"`
	Users       []models.ExpenseShare `json:"users"`
}

// CreateExpense records a new expense in the ledger and returns its id.
func (c *Client) CreateExpense(ctx context.Context, req CreateExpenseRequest) (int64, error) {
	var resp createExpenseResponse
	if err := c.post(ctx, "/create_expense", req, &resp); err != nil {
		return 0, fmt.Errorf("creating expense %q: %w", req.Description, err)
	}
	if len(resp.Expenses) == 0 {
		return 0, fmt.Errorf("creating expense %q: ledger returned no expense", req.Description)
	}
	return resp.Expenses[0].ID, nil
}

// CreateSettlement records a payment-flagged expense: the friend pays the
// given amount, the current user receives it, zeroing out the balance.
func (c *Client) CreateSettlement(ctx context.Context, friendID, currentUserID int64, amount decimal.Decimal, description string) error {
	req := CreateExpenseRequest{
		Cost:        amount.Round(2),
		Description: description,
		Payment:     true,
		Users: []models.ExpenseShare{
			{UserID: friendID, PaidShare: amount.Round(2), OwedShare: decimal.Zero},
			{UserID: currentUserID, PaidShare: decimal.Zero, OwedShare: amount.Round(2)},
		},
	}
	_, err := c.CreateExpense(ctx, req)
	return err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("ledger returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
