package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rmaloney/backoffice/internal/client"
	"github.com/rmaloney/backoffice/internal/console"
	"github.com/rmaloney/backoffice/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (ignore error in production)
	_ = godotenv.Load()

	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	sessionPath := os.Getenv("SESSION_FILE")
	if sessionPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("failed to locate config directory: %w", err)
		}
		sessionPath = filepath.Join(configDir, "backoffice", "session.json")
	}

	sess, err := session.NewStore(sessionPath)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	api := client.New(baseURL, sess)
	app := console.NewApp(api, sess, os.Stdin, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}
