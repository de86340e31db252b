// Command clarion is the entry point for the Clarion voice assistant.
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/clarionvoice/clarion/internal/cli"
)

func main() {
	// A local .env is optional; it carries API keys during development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env file", "err", err)
	}
	os.Exit(cli.Execute())
}
