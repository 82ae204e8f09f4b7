package runner

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/jonmartinstorm/reposamler/internal/config"
)

var OpenSQL = sql.Open

// RunApp kjører appen og logger varighet og minnebruk til slutt.
func RunApp(ctx context.Context, cfg config.Config, writer Writer, fetcher Fetcher) error {
	start := time.Now()

	app := NewApp(cfg, writer, fetcher)
	if err := app.Run(ctx); err != nil {
		slog.Debug("Runner feilet", "error", err)
		return err
	}

	LogMemoryStats()
	slog.Info("Ferdig!", "varighet", time.Since(start).String())
	return nil
}

// DateRange lister alle datoene fra start til end, begge inklusive,
// på formen YYYY-MM-DD.
func DateRange(start, end string) ([]string, error) {
	from, err := time.Parse(config.DateFormat, start)
	if err != nil {
		return nil, fmt.Errorf("ugyldig startdato %q: %w", start, err)
	}
	to, err := time.Parse(config.DateFormat, end)
	if err != nil {
		return nil, fmt.Errorf("ugyldig sluttdato %q: %w", end, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("sluttdato %s er før startdato %s", end, start)
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(config.DateFormat))
	}
	return dates, nil
}

func LogMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	slog.Debug("Minnebruk",
		"alloc", ByteSize(m.Alloc),
		"totalAlloc", ByteSize(m.TotalAlloc),
		"sys", ByteSize(m.Sys),
		"numGC", m.NumGC)
}

func ByteSize(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := unit, 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func CheckDatabaseConnection(ctx context.Context, dsn string) error {
	db, err := OpenSQL("postgres", dsn)
	if err != nil {
		slog.Debug("Klarte ikke å åpne databaseforbindelse", "error", err)
		return fmt.Errorf("DB open-feil: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			slog.Warn("Klarte ikke å lukke testDB", "error", cerr)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		slog.Debug("Ping mot database feilet", "error", err)
		return fmt.Errorf("DB ping-feil: %w", err)
	}

	slog.Info("DB-tilkobling OK")
	return nil
}
