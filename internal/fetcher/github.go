package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jonmartinstorm/reposamler/internal/config"
	"github.com/jonmartinstorm/reposamler/internal/models"
)

// Injecter en klient (for testbarhet)
var HttpClient = &http.Client{Timeout: 10 * time.Second}

// Injiserbare knotter for retry og pacing, slik at testene slipper å vente.
var (
	MaxRetries   = 3
	RetryBackoff = 3 * time.Second
	PageDelay    = 2100 * time.Millisecond
	Sleep        = time.Sleep
)

type GitHubAPI struct {
	Cfg config.Config
}

func NewGitHubAPI(cfg config.Config) *GitHubAPI {
	return &GitHubAPI{Cfg: cfg}
}

// pageStatus klassifiserer ett forsøk eksplisitt, i stedet for å la
// retry-logikken tolke et feilhierarki.
type pageStatus int

const (
	pageOK pageStatus = iota
	pageEnd
	pageTransient
	pageFatal
)

type pageResult struct {
	status pageStatus
	items  []models.RawRepo
	total  int
	err    error
}

func (g *GitHubAPI) fetchOnce(ctx context.Context, url string) pageResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return pageResult{status: pageFatal, err: err}
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if g.Cfg.Token != "" {
		req.Header.Set("Authorization", "token "+g.Cfg.Token)
	}

	resp, err := HttpClient.Do(req)
	if err != nil {
		return pageResult{status: pageTransient, err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("Klarte ikke å lukke body", "error", cerr)
		}
	}()

	// 422 er search-API-ets signal om at resultatvinduet er brukt opp.
	// Ikke en feil – bare slutten på pagineringen for denne datoen.
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return pageResult{status: pageEnd}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return pageResult{
			status: pageTransient,
			err:    fmt.Errorf("GitHub API-feil: status %d – %s", resp.StatusCode, string(body)),
		}
	}

	var payload models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return pageResult{status: pageFatal, err: fmt.Errorf("ugyldig payload: %w", err)}
	}
	if payload.Items == nil {
		return pageResult{status: pageFatal, err: errors.New("uventet payload – 'items' mangler")}
	}

	return pageResult{status: pageOK, items: payload.Items, total: payload.TotalCount}
}

// FetchPage henter én side med inntil MaxRetries forsøk og eksponentiell
// backoff mellom dem. 422 og ødelagte payloads gir tom side uten feil;
// bare oppbrukte forsøk propagerer en feil til kalleren.
func (g *GitHubAPI) FetchPage(ctx context.Context, url, date string, page int) ([]models.RawRepo, error) {
	var items []models.RawRepo
	attempt := 0

	op := func() error {
		attempt++
		res := g.fetchOnce(ctx, url)
		switch res.status {
		case pageEnd:
			slog.Warn("Fikk HTTP 422 – antar slutt på resultater", "dato", date, "side", page)
			items = nil
			return nil
		case pageFatal:
			slog.Error("Uventet feil ved henting – hopper over siden", "dato", date, "side", page, "error", res.err)
			items = nil
			return nil
		case pageTransient:
			slog.Warn("Forsøk feilet", "forsøk", attempt, "dato", date, "side", page, "error", res.err)
			return res.err
		default:
			slog.Info("Hentet side", "total_count", res.total, "antall", len(res.items), "dato", date, "side", page)
			items = res.items
			return nil
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = RetryBackoff
	bo.Multiplier = 3
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(MaxRetries-1)), ctx))
	if err != nil {
		slog.Error("Maks antall forsøk brukt opp", "dato", date, "side", page, "error", err)
		return nil, fmt.Errorf("henting feilet for dato %s, side %d: %w", date, page, err)
	}
	return items, nil
}

// FetchDay henter alle sidene for én dato, i rekkefølge. Standardfiltrene
// kopieres og spesialiseres med created:<dato>; parametrene bygges ferske
// per side. Mellom sidene venter vi et fast intervall av hensyn til
// rate limits.
func (g *GitHubAPI) FetchDay(ctx context.Context, date string) ([]models.RawRepo, error) {
	filters := append(DefaultFilters(), QueryFilter{Key: "created", Values: []string{date}})

	var items []models.RawRepo
	page := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		params := DefaultParams()
		params.Page = page

		url := BuildSearchURL(BaseURL, filters, params)
		pageItems, err := g.FetchPage(ctx, url, date, page)
		if err != nil {
			return nil, err
		}
		if len(pageItems) == 0 {
			break
		}

		items = append(items, pageItems...)
		page++
		Sleep(PageDelay)
	}

	return items, nil
}
