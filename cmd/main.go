package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"favtrax/internal/search"
	"favtrax/internal/shared"
	"favtrax/internal/worker"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	// Optional .env, mirrors the scheme arriving via environment in deployments.
	godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("ignoring unreadable config.toml", "err", err)
		}
	}

	scheme, err := config.ActiveScheme()
	if err != nil {
		logger.Fatalf("no usable proxy scheme: %v", err)
	}

	session := worker.NewSession(worker.SessionOpts{
		Scheme:      scheme,
		NewSearcher: newSearcherFactory(config, logger),
		RateLimit:   config.Worker.RateLimit,
		Logger:      logger,
	})
	defer session.Release()

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Session: session,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "favtrax",
		Usage:    "Resolve a CSV of favorite videos into normalized song records",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// newSearcherFactory wires configured scraper headers into the searcher. A nil
// return keeps the session's default factory.
func newSearcherFactory(config *shared.Config, logger *log.Logger) worker.SearcherFactory {
	if config.Worker.HeadersPath == "" {
		return nil
	}

	return func(client *http.Client) (search.Searcher, error) {
		headers, err := shared.ParseCurlFile(config.Worker.HeadersPath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse headers file: %w", err)
		}
		return search.NewClient(search.ClientOpts{
			HTTPClient: client,
			Headers:    headers,
			Logger:     logger,
		}), nil
	}
}
