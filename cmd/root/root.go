// Package root contains the root command for the application
package root

import (
	"fbarbosa/cobrador/internal/billing"
	"fbarbosa/cobrador/internal/catalog"
	"fbarbosa/cobrador/internal/classifier"
	"fbarbosa/cobrador/internal/common"
	"fbarbosa/cobrador/internal/config"
	"fbarbosa/cobrador/internal/container"
	"fbarbosa/cobrador/internal/gateway"
	"fbarbosa/cobrador/internal/ingest"
	"fbarbosa/cobrador/internal/journal"
	"fbarbosa/cobrador/internal/ledger"
	"fbarbosa/cobrador/internal/messaging"
	"fbarbosa/cobrador/internal/reconciler"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "cobrador",
		Short: "A CLI tool to bill recurring shared expenses and reconcile payments.",
		Long: `cobrador classifies a friend's shared-expense ledger history against the
recurring catalog, creates versioned payment links, notifies the debtor and
reconciles completed payments back into the ledger.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to cobrador!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize and configure logging
			config.LoadEnv()
			Log = config.ConfigureLogging()

			// Set the configured logger for all packages
			catalog.SetLogger(Log)
			classifier.SetLogger(Log)
			journal.SetLogger(Log)
			billing.SetLogger(Log)
			ledger.SetLogger(Log)
			gateway.SetLogger(Log)
			messaging.SetLogger(Log)
			reconciler.SetLogger(Log)
			ingest.SetLogger(Log)
			common.SetLogger(Log)
		},
	}

	// Specific command flags shared by the subcommand packages
	FriendID int64
	Limit    int
	File     string
)

// Bootstrap builds the dependency container from the resolved configuration.
// Commands call it once at the top of their Run function.
func Bootstrap() *container.Container {
	cfg, err := config.InitializeConfig()
	if err != nil {
		Log.Fatalf("Failed to initialize configuration: %v", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		Log.Fatalf("Failed to wire dependencies: %v", err)
	}
	return c
}
