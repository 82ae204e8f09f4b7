package config

import (
	"errors"
	"os"
	"time"
)

type StorageType string

const (
	StoragePostgres StorageType = "postgres"
	StorageBigQuery StorageType = "bigquery"
)

// DateFormat er datoformatet search-API-et bruker i created-filteret.
const DateFormat = "2006-01-02"

type Config struct {
	Token         string // GitHub-token, valgfritt – uten token gjelder strengere rate limits
	Debug         bool
	Storage       StorageType
	PostgresDSN   string
	BQProjectID   string
	BQDataset     string
	BQTable       string
	BQCredentials string // Valgfritt hvis GCP-auth skjer automatisk
	StartDate     string // YYYY-MM-DD, inklusiv
	EndDate       string // YYYY-MM-DD, inklusiv
	LogDir        string // Valgfritt – logg skrives også til fil her
}

// LoadConfigWithEnv leser konfigurasjon via en injisert getenv, slik at
// testene kan gi et falskt miljø.
func LoadConfigWithEnv(getenv func(string) string) Config {
	start := getenv("FETCH_START")
	if start == "" {
		start = "2025-01-01"
	}
	end := getenv("FETCH_END")
	if end == "" {
		end = "2025-12-31"
	}

	return Config{
		Token:         getenv("GITHUB_TOKEN"),
		Debug:         getenv("REPOSAMLERDEBUG") == "true",
		Storage:       StorageType(getenv("REPO_STORAGE")),
		PostgresDSN:   getenv("POSTGRES_DSN"),
		BQProjectID:   getenv("BQ_PROJECT_ID"),
		BQDataset:     getenv("BQ_DATASET"),
		BQTable:       getenv("BQ_TABLE"),
		BQCredentials: getenv("BQ_CREDENTIALS"),
		StartDate:     start,
		EndDate:       end,
		LogDir:        getenv("LOG_DIR"),
	}
}

// ValidateConfig feiler raskt ved oppstart hvis påkrevde variabler mangler.
// Token er bevisst ikke påkrevd – da kaller vi API-et uautentisert.
func ValidateConfig(cfg Config) error {
	if cfg.Storage == "" {
		return errors.New("REPO_STORAGE må være satt til 'postgres' eller 'bigquery'")
	}

	switch cfg.Storage {
	case StoragePostgres:
		if cfg.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN må være satt for postgres-lagring")
		}
	case StorageBigQuery:
		if cfg.BQProjectID == "" || cfg.BQDataset == "" || cfg.BQTable == "" {
			return errors.New("BQ_PROJECT_ID, BQ_DATASET og BQ_TABLE må være satt for bigquery-lagring")
		}
	default:
		return errors.New("ugyldig verdi for REPO_STORAGE – må være 'postgres' eller 'bigquery'")
	}

	start, err := time.Parse(DateFormat, cfg.StartDate)
	if err != nil {
		return errors.New("FETCH_START må være en gyldig dato på formen YYYY-MM-DD")
	}
	end, err := time.Parse(DateFormat, cfg.EndDate)
	if err != nil {
		return errors.New("FETCH_END må være en gyldig dato på formen YYYY-MM-DD")
	}
	if end.Before(start) {
		return errors.New("FETCH_END kan ikke være før FETCH_START")
	}

	return nil
}

// NewConfig leser og validerer konfigurasjon fra prosessens miljø.
func NewConfig() (Config, error) {
	cfg := LoadConfigWithEnv(os.Getenv)
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
