package dbwriter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/jonmartinstorm/reposamler/internal/models"
)

const TableName = "repositories"

// Columns er kolonnene i repositories-tabellen, i COPY-rekkefølge.
var Columns = []string{
	"id", "name", "description", "created_at", "updated_at", "pushed_at",
	"size", "stargazers_count", "watchers_count", "language",
	"forks", "watchers", "score", "user", "user_type", "user_id",
}

const createTableSQL = `CREATE TABLE ` + TableName + ` (
	id BIGINT PRIMARY KEY,
	name TEXT,
	description TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ,
	pushed_at TIMESTAMPTZ,
	size DOUBLE PRECISION NOT NULL,
	stargazers_count BIGINT,
	watchers_count BIGINT,
	language TEXT NOT NULL,
	forks BIGINT,
	watchers BIGINT,
	score DOUBLE PRECISION,
	"user" TEXT,
	user_type TEXT NOT NULL,
	user_id BIGINT NOT NULL
)`

type PostgresWriter struct {
	DB *sql.DB
}

func NewPostgresWriter(postgresdsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", postgresdsn)
	if err != nil {
		slog.Error("Kunne ikke åpne PostgreSQL-database", "error", err)
		return nil, fmt.Errorf("kunne ikke åpne PostgreSQL-database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &PostgresWriter{DB: db}, nil
}

func (p *PostgresWriter) Close() error {
	return p.DB.Close()
}

// Load erstatter hele innholdet i repositories-tabellen med radene,
// i én transaksjon: dropp, opprett, bulk-COPY. Tom input er en no-op.
func (p *PostgresWriter) Load(ctx context.Context, rows []models.CleanRepo) error {
	if len(rows) == 0 {
		slog.Warn("Ingen rader å laste – hopper over")
		return nil
	}

	slog.Info("Starter lasting til PostgreSQL", "antall_rader", len(rows), "tabell", TableName)

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start tx: %w", err)
	}

	if err := p.loadInTx(ctx, tx, rows); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("Lasting feilet og rollback feilet", "error", err, "rollback_error", rbErr)
			return fmt.Errorf("lasting feilet: %v (rollback feilet: %w)", err, rbErr)
		}
		slog.Error("Lasting til PostgreSQL feilet – rullet tilbake", "error", err)
		return fmt.Errorf("lasting feilet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("Commit-feil", "error", err)
		return fmt.Errorf("commit feilet: %w", err)
	}

	slog.Info("Lasting til PostgreSQL ferdig", "antall_rader", len(rows))
	return nil
}

func (p *PostgresWriter) loadInTx(ctx context.Context, tx *sql.Tx, rows []models.CleanRepo) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+TableName); err != nil {
		return fmt.Errorf("dropp av tabell: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("opprettelse av tabell: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(TableName, Columns...))
	if err != nil {
		return fmt.Errorf("COPY-prepare: %w", err)
	}

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			r.ID, r.Name, r.Description, r.CreatedAt, r.UpdatedAt, r.PushedAt,
			r.Size, r.StargazersCount, r.WatchersCount, r.Language,
			r.Forks, r.Watchers, r.Score, r.User, r.UserType, r.UserID,
		)
		if err != nil {
			_ = stmt.Close()
			return fmt.Errorf("COPY av rad %d: %w", r.ID, err)
		}
	}

	// Tom Exec flusher COPY-bufferen.
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("COPY-flush: %w", err)
	}
	return stmt.Close()
}
