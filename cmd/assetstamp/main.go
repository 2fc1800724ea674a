// Package main is the entry point for the assetstamp CLI application.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/lan-dot-party/assetstamp/cmd/assetstamp/cmd"
	"github.com/lan-dot-party/assetstamp/internal/logger"
)

func main() {
	// Optional env files; values already in the environment win
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	// Initialize default logger (will be reconfigured after config is loaded)
	logger.InitDefault()
	defer logger.Sync()

	if err := cmd.Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
}
