package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/JB-QBA/bank-recon-agent/cmd/invoices"
	"github.com/JB-QBA/bank-recon-agent/cmd/match"
	"github.com/JB-QBA/bank-recon-agent/cmd/post"
	"github.com/JB-QBA/bank-recon-agent/cmd/preview"
	"github.com/JB-QBA/bank-recon-agent/cmd/receipts"
	"github.com/JB-QBA/bank-recon-agent/cmd/root"

	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables silently first, then set the global log
	// level before any logger is created.
	loadEnvSilently()
	configureLogLevelDirectly()

	root.Init()

	root.Cmd.AddCommand(match.Cmd)
	root.Cmd.AddCommand(preview.Cmd)
	root.Cmd.AddCommand(post.Cmd)
	root.Cmd.AddCommand(receipts.Cmd)
	root.Cmd.AddCommand(invoices.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
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
