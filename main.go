package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fbarbosa/cobrador/cmd/charge"
	"fbarbosa/cobrador/cmd/debts"
	"fbarbosa/cobrador/cmd/friends"
	"fbarbosa/cobrador/cmd/ingest"
	"fbarbosa/cobrador/cmd/notify"
	"fbarbosa/cobrador/cmd/reconcile"
	"fbarbosa/cobrador/cmd/root"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Configure global log level before any logging happens
	configureLogLevelDirectly()

	// 3. Add all subcommands
	root.Cmd.AddCommand(friends.Cmd)
	root.Cmd.AddCommand(debts.Cmd)
	root.Cmd.AddCommand(charge.Cmd)
	root.Cmd.AddCommand(notify.Cmd)
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(reconcile.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try to find .env in parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global log level for all logrus instances
func configureLogLevelDirectly() {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
