package runner

import (
	"context"
	"log/slog"

	"github.com/jonmartinstorm/reposamler/internal/config"
	"github.com/jonmartinstorm/reposamler/internal/models"
	"github.com/jonmartinstorm/reposamler/internal/transformer"
)

type App struct {
	Cfg     config.Config
	Writer  Writer
	Fetcher Fetcher
}

func NewApp(cfg config.Config, writer Writer, fetcher Fetcher) *App {
	return &App{
		Cfg:     cfg,
		Writer:  writer,
		Fetcher: fetcher,
	}
}

// Run kjører hele ETL-løpet: én dato av gangen gjennom uthenting og
// vasking, så nøyaktig én lasting av den samlede tabellen til slutt.
// Feil fra uthentingen (oppbrukte forsøk) stopper hele kjøringen –
// operatøren leser loggen og kjører på nytt.
func (a *App) Run(ctx context.Context) error {
	dates, err := DateRange(a.Cfg.StartDate, a.Cfg.EndDate)
	if err != nil {
		return err
	}

	slog.Info("🔁 Starter ETL over datoperiode",
		"fra", a.Cfg.StartDate, "til", a.Cfg.EndDate, "antall_dager", len(dates))

	var all []models.CleanRepo
	for _, date := range dates {
		slog.Info("--- Behandler dato ---", "dato", date)

		batch, err := a.Fetcher.FetchDay(ctx, date)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			slog.Warn("Ingen repositories for datoen – hopper over", "dato", date)
			continue
		}

		rows := transformer.Transform(batch)
		if len(rows) == 0 {
			slog.Warn("Ingen gyldige rader etter vasking", "dato", date)
			continue
		}

		all = append(all, rows...)

		if a.Cfg.Debug {
			break // for å ikke gå gjennom hele perioden i test
		}
	}

	if len(all) == 0 {
		slog.Warn("Ingen data samlet i hele perioden – avslutter uten lasting")
		return nil
	}

	slog.Info("📝 Laster samlet tabell", "antall_rader", len(all))
	if err := a.Writer.Load(ctx, all); err != nil {
		return err
	}

	slog.Info("✅ Ferdig med hele ETL-løpet")
	return nil
}
