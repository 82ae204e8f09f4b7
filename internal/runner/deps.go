package runner

import (
	"context"

	"github.com/jonmartinstorm/reposamler/internal/models"
)

// Fetcher henter alle rå repositories for én dato.
type Fetcher interface {
	FetchDay(ctx context.Context, date string) ([]models.RawRepo, error)
}

// Writer laster den ferdige tabellen til et lagringsmål. Implementasjonen
// skal erstatte hele tabellinnholdet og være en no-op på tom input.
type Writer interface {
	Load(ctx context.Context, rows []models.CleanRepo) error
}
