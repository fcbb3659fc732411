// Package container provides dependency injection for the application. It
// centralizes the creation and wiring of all collaborators so that clients
// and credentials are acquired once per process and passed by reference into
// the core.
package container

import (
	"fmt"
	"time"

	"fbarbosa/cobrador/internal/billing"
	"fbarbosa/cobrador/internal/catalog"
	"fbarbosa/cobrador/internal/config"
	"fbarbosa/cobrador/internal/contacts"
	"fbarbosa/cobrador/internal/gateway"
	"fbarbosa/cobrador/internal/ingest"
	"fbarbosa/cobrador/internal/journal"
	"fbarbosa/cobrador/internal/ledger"
	"fbarbosa/cobrador/internal/messaging"
	"fbarbosa/cobrador/internal/reconciler"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies. Immutable after creation:
// fields are private and reachable only through getters.
type Container struct {
	cfg       *config.Config
	catalog   catalog.Catalog
	journal   *journal.FileJournal
	ledger    *ledger.Client
	gateway   *gateway.Client
	messenger *messaging.Client
}

// New creates and wires all application dependencies from the configuration.
func New(cfg *config.Config) (*Container, error) {
	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	return &Container{
		cfg:     cfg,
		catalog: cat,
		journal: journal.New(cfg.Journal.File),
		ledger:  ledger.NewClient(cfg.Ledger.BaseURL, cfg.Ledger.APIKey),
		gateway: gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.AccessToken, cfg.Billing.CurrencyID),
		messenger: messaging.NewClient(
			cfg.Messaging.BaseURL,
			cfg.Messaging.PhoneNumberID,
			cfg.Messaging.AccessToken,
			cfg.Messaging.Template,
			cfg.Messaging.Locale,
		),
	}, nil
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.cfg
}

// Catalog returns the recurring-expense catalog.
func (c *Container) Catalog() catalog.Catalog {
	return c.catalog
}

// Journal returns the payment journal.
func (c *Container) Journal() *journal.FileJournal {
	return c.journal
}

// Ledger returns the ledger client.
func (c *Container) Ledger() *ledger.Client {
	return c.ledger
}

// Gateway returns the payment-gateway client.
func (c *Container) Gateway() *gateway.Client {
	return c.gateway
}

// Messenger returns the messaging client.
func (c *Container) Messenger() *messaging.Client {
	return c.messenger
}

// Builder returns a payment-request builder wired with the gateway, journal
// and billing configuration.
func (c *Container) Builder() *billing.Builder {
	return billing.NewBuilder(
		c.gateway,
		c.journal,
		c.catalog,
		decimal.NewFromFloat(c.cfg.Billing.TaxRate),
		time.Duration(c.cfg.Billing.ValidityDays)*24*time.Hour,
	)
}

// Reconciler returns a settlement reconciler.
func (c *Container) Reconciler() *reconciler.Reconciler {
	return reconciler.New(c.gateway, c.ledger, c.cfg.Ledger.CurrentUserID)
}

// Ingester returns a debts-CSV ingester.
func (c *Container) Ingester() *ingest.Ingester {
	return ingest.New(c.ledger, c.cfg.Ledger.CurrentUserID)
}

// Contacts loads the contacts book. Loaded on demand: only the notify
// command needs it and the file may legitimately be absent elsewhere.
func (c *Container) Contacts() (*contacts.Book, error) {
	return contacts.Load(c.cfg.Contacts.File)
}
