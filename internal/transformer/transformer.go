// Pakken transformer vasker et dagsparti med rå repositories til rader
// som er klare for lasting: filtrering, utflating av owner, deduplisering,
// utfylling av manglende verdier og datoparsing.
package transformer

import (
	"log/slog"
	"time"

	"github.com/jonmartinstorm/reposamler/internal/models"
)

// FilterActive fjerner arkiverte, deaktiverte og template-repositories.
// Rekkefølgen bevares. Å kjøre funksjonen på sitt eget resultat gir
// samme radsett.
func FilterActive(batch []models.RawRepo) []models.RawRepo {
	var kept []models.RawRepo
	for _, r := range batch {
		if r.Archived || r.Disabled || r.IsTemplate {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// dropIncomplete fjerner rader som mangler påkrevde felter: id,
// created_at og eier med id og type.
func dropIncomplete(batch []models.RawRepo) []models.RawRepo {
	var kept []models.RawRepo
	for _, r := range batch {
		if r.ID == nil || r.CreatedAt == "" {
			continue
		}
		if r.Owner == nil || r.Owner.ID == nil || r.Owner.Type == "" {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// dedupe beholder første forekomst per id.
func dedupe(batch []models.RawRepo) []models.RawRepo {
	seen := make(map[int64]bool, len(batch))
	var kept []models.RawRepo
	for _, r := range batch {
		if r.ID != nil {
			if seen[*r.ID] {
				continue
			}
			seen[*r.ID] = true
		}
		kept = append(kept, r)
	}
	return kept
}

// backfillSize fyller manglende size med snittet av eierens øvrige
// repositories. Har eieren ingen, brukes snittet over alle rader.
// Finnes ingen size i det hele tatt, settes 0 slik at kolonnen aldri
// blir null.
func backfillSize(batch []models.RawRepo) map[int64]float64 {
	userSum := map[int64]float64{}
	userCount := map[int64]int{}
	var totalSum float64
	var totalCount int

	for _, r := range batch {
		if r.Size == nil {
			continue
		}
		uid := *r.Owner.ID
		userSum[uid] += *r.Size
		userCount[uid]++
		totalSum += *r.Size
		totalCount++
	}

	globalMean := 0.0
	if totalCount > 0 {
		globalMean = totalSum / float64(totalCount)
	}

	sizes := make(map[int64]float64, len(batch))
	for _, r := range batch {
		if r.Size != nil {
			sizes[*r.ID] = *r.Size
			continue
		}
		uid := *r.Owner.ID
		if userCount[uid] > 0 {
			sizes[*r.ID] = userSum[uid] / float64(userCount[uid])
		} else {
			sizes[*r.ID] = globalMean
		}
	}
	return sizes
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Transform vasker ett dagsparti til ferdige rader. Tomt resultat er
// ikke en feil – kalleren hopper bare over datoen.
func Transform(batch []models.RawRepo) []models.CleanRepo {
	slog.Info("Starter vasking av dagsparti", "antall_raa", len(batch))

	active := FilterActive(batch)
	slog.Info("Filtrert på archived/disabled/template",
		"foer", len(batch), "etter", len(active), "fjernet", len(batch)-len(active))

	deduped := dedupe(active)
	complete := dropIncomplete(deduped)
	slog.Info("Deduplisert og fjernet ufullstendige rader",
		"duplikater", len(active)-len(deduped), "ufullstendige", len(deduped)-len(complete))

	if len(complete) == 0 {
		slog.Warn("Ingen rader igjen etter filtrering")
		return nil
	}

	sizes := backfillSize(complete)

	rows := make([]models.CleanRepo, 0, len(complete))
	for _, r := range complete {
		created := parseTime(r.CreatedAt)
		if created.IsZero() {
			slog.Warn("Ugyldig created_at – dropper raden", "id", *r.ID, "created_at", r.CreatedAt)
			continue
		}

		language := "Unknown"
		if r.Language != nil && *r.Language != "" {
			language = *r.Language
		}

		rows = append(rows, models.CleanRepo{
			ID:              *r.ID,
			Name:            r.Name,
			Description:     r.Description,
			CreatedAt:       created,
			UpdatedAt:       parseTime(r.UpdatedAt),
			PushedAt:        parseTime(r.PushedAt),
			Size:            sizes[*r.ID],
			StargazersCount: r.StargazersCount,
			WatchersCount:   r.WatchersCount,
			Language:        language,
			Forks:           r.Forks,
			Watchers:        r.Watchers,
			Score:           r.Score,
			User:            r.Owner.Login,
			UserType:        r.Owner.Type,
			UserID:          *r.Owner.ID,
		})
	}

	slog.Info("Vasking ferdig", "antall_rader", len(rows))
	return rows
}
