// fetch henter rå repositories for én enkelt dato og skriver dem som
// JSON til stdout. Nyttig for å inspisere hva search-API-et faktisk gir
// oss, uten å røre databasen.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jonmartinstorm/reposamler/internal/config"
	"github.com/jonmartinstorm/reposamler/internal/fetcher"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: false,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := godotenv.Load(); err != nil {
		slog.Debug("Fant ingen .env-fil", "error", err)
	}

	date := os.Getenv("FETCH_DATE")
	if date == "" {
		slog.Error("Du må angi dato via FETCH_DATE=YYYY-MM-DD")
		os.Exit(1)
	}
	if _, err := time.Parse(config.DateFormat, date); err != nil {
		slog.Error("Ugyldig FETCH_DATE", "dato", date, "error", err)
		os.Exit(1)
	}

	cfg := config.LoadConfigWithEnv(os.Getenv)
	if cfg.Token == "" {
		slog.Warn("GITHUB_TOKEN er ikke satt – kaller API-et uautentisert")
	}

	start := time.Now()
	items, err := fetcher.NewGitHubAPI(cfg).FetchDay(ctx, date)
	if err != nil {
		slog.Error("Henting feilet", "dato", date, "error", err)
		os.Exit(1)
	}
	slog.Info("Henting ferdig", "dato", date, "antall", len(items), "varighet", time.Since(start).String())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		slog.Error("Klarte ikke å skrive JSON", "error", err)
		os.Exit(1)
	}
}
