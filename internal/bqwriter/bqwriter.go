package bqwriter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jonmartinstorm/reposamler/internal/config"
	"github.com/jonmartinstorm/reposamler/internal/models"
)

const insertBatchSize = 500

type BigQueryWriter struct {
	Client  *bigquery.Client
	Dataset string
	Table   string
}

func NewBigQueryWriter(ctx context.Context, cfg config.Config) (*BigQueryWriter, error) {
	var opts []option.ClientOption
	if cfg.BQCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.BQCredentials))
	}

	client, err := bigquery.NewClient(ctx, cfg.BQProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("kan ikke opprette BigQuery-klient: %w", err)
	}

	return &BigQueryWriter{
		Client:  client,
		Dataset: cfg.BQDataset,
		Table:   cfg.BQTable,
	}, nil
}

func (w *BigQueryWriter) Close() error {
	return w.Client.Close()
}

// Load erstatter hele tabellen: slett, opprett på nytt fra skjemaet,
// sett inn radene i bolker. Tom input er en no-op.
func (w *BigQueryWriter) Load(ctx context.Context, rows []models.CleanRepo) error {
	if len(rows) == 0 {
		slog.Warn("Ingen rader å laste – hopper over")
		return nil
	}

	slog.Info("Starter lasting til BigQuery", "antall_rader", len(rows), "tabell", w.Table)

	tbl := w.Client.Dataset(w.Dataset).Table(w.Table)
	if err := tbl.Delete(ctx); err != nil {
		if gErr, ok := err.(*googleapi.Error); !ok || gErr.Code != 404 {
			return fmt.Errorf("kunne ikke slette tabell %s: %w", w.Table, err)
		}
	}
	if err := ensureTableExists(ctx, w.Client, w.Dataset, w.Table, BQRepoRow{}); err != nil {
		return fmt.Errorf("kunne ikke sikre tabell %s: %w", w.Table, err)
	}

	converted := ConvertRows(rows)
	inserter := tbl.Inserter()
	for start := 0; start < len(converted); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(converted) {
			end = len(converted)
		}
		if err := inserter.Put(ctx, converted[start:end]); err != nil {
			slog.Error("BigQuery-insert feilet", "fra", start, "til", end, "error", err)
			return fmt.Errorf("insert i %s feilet: %w", w.Table, err)
		}
	}

	slog.Info("Lasting til BigQuery ferdig", "antall_rader", len(rows))
	return nil
}

func ensureTableExists(ctx context.Context, client *bigquery.Client, dataset, table string, exampleStruct any) error {
	tbl := client.Dataset(dataset).Table(table)
	_, err := tbl.Metadata(ctx)
	if err == nil {
		return nil // tabellen finnes
	}

	if gErr, ok := err.(*googleapi.Error); !ok || gErr.Code != 404 {
		return fmt.Errorf("feil ved henting av tabell-metadata: %w", err)
	}

	schema, err := bigquery.InferSchema(exampleStruct)
	if err != nil {
		return fmt.Errorf("klarte ikke å generere schema for %s: %w", table, err)
	}

	if err := tbl.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		return fmt.Errorf("klarte ikke å opprette tabell %s: %w", table, err)
	}
	return nil
}

// ==== Data-strukturer ====

type BQRepoRow struct {
	ID              int64     `bigquery:"id"`
	Name            string    `bigquery:"name"`
	Description     string    `bigquery:"description"`
	CreatedAt       time.Time `bigquery:"created_at"`
	UpdatedAt       time.Time `bigquery:"updated_at"`
	PushedAt        time.Time `bigquery:"pushed_at"`
	Size            float64   `bigquery:"size"`
	StargazersCount int64     `bigquery:"stargazers_count"`
	WatchersCount   int64     `bigquery:"watchers_count"`
	Language        string    `bigquery:"language"`
	Forks           int64     `bigquery:"forks"`
	Watchers        int64     `bigquery:"watchers"`
	Score           float64   `bigquery:"score"`
	User            string    `bigquery:"user"`
	UserType        string    `bigquery:"user_type"`
	UserID          int64     `bigquery:"user_id"`
}

// ==== Mapping-funksjoner ====

func ConvertRow(r models.CleanRepo) BQRepoRow {
	return BQRepoRow{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		PushedAt:        r.PushedAt,
		Size:            r.Size,
		StargazersCount: r.StargazersCount,
		WatchersCount:   r.WatchersCount,
		Language:        r.Language,
		Forks:           r.Forks,
		Watchers:        r.Watchers,
		Score:           r.Score,
		User:            r.User,
		UserType:        r.UserType,
		UserID:          r.UserID,
	}
}

func ConvertRows(rows []models.CleanRepo) []BQRepoRow {
	result := make([]BQRepoRow, 0, len(rows))
	for _, r := range rows {
		result = append(result, ConvertRow(r))
	}
	return result
}
