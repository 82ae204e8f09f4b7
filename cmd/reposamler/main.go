package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/jonmartinstorm/reposamler/internal/bqwriter"
	"github.com/jonmartinstorm/reposamler/internal/config"
	"github.com/jonmartinstorm/reposamler/internal/dbwriter"
	"github.com/jonmartinstorm/reposamler/internal/fetcher"
	"github.com/jonmartinstorm/reposamler/internal/logger"
	"github.com/jonmartinstorm/reposamler/internal/runner"
)

func main() {
	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	go func() {
		<-ctx.Done()
		slog.Info("SIGTERM mottatt – rydder opp...")
	}()

	// .env er valgfri – miljøet vinner uansett
	if err := godotenv.Load(); err != nil {
		slog.Debug("Fant ingen .env-fil", "error", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		slog.Error("Ugyldig konfigurasjon", "error", err)
		os.Exit(1)
	}

	if err := logger.SetupLogger(cfg.LogDir); err != nil {
		slog.Error("Klarte ikke å sette opp logging", "error", err)
		os.Exit(1)
	}
	logger.SetDebug(cfg.Debug)
	slog.Info("Logging initiert")

	if cfg.Token == "" {
		slog.Warn("GITHUB_TOKEN er ikke satt – kaller API-et uautentisert med strengere rate limits")
	}

	var writer runner.Writer
	switch cfg.Storage {
	case config.StoragePostgres:
		if err := runner.CheckDatabaseConnection(ctx, cfg.PostgresDSN); err != nil {
			slog.Error("Klarte ikke å nå databasen", "error", err)
			os.Exit(1)
		}
		pg, err := dbwriter.NewPostgresWriter(cfg.PostgresDSN)
		if err != nil {
			slog.Error("Klarte ikke å opprette PostgreSQL-writer", "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := pg.Close(); cerr != nil {
				slog.Warn("Klarte ikke å lukke databaseforbindelsen", "error", cerr)
			}
		}()
		writer = pg
	case config.StorageBigQuery:
		bq, err := bqwriter.NewBigQueryWriter(ctx, cfg)
		if err != nil {
			slog.Error("Klarte ikke å opprette BigQuery-writer", "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := bq.Close(); cerr != nil {
				slog.Warn("Klarte ikke å lukke BigQuery-klienten", "error", cerr)
			}
		}()
		writer = bq
	}

	if err := runner.RunApp(ctx, cfg, writer, fetcher.NewGitHubAPI(cfg)); err != nil {
		slog.Error("ETL-kjøringen feilet", "error", err)
		os.Exit(1)
	}
}
