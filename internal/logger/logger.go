package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var ProgramLevel = new(slog.LevelVar)

// SetupLogger initialiserer loggeren med JSON-format og standard nivå.
// Hvis logDir er satt skrives loggen også til etl.log i den katalogen.
func SetupLogger(logDir string) error {
	ProgramLevel.Set(slog.LevelInfo)

	var w io.Writer = os.Stdout
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("kunne ikke opprette loggkatalog: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(logDir, "etl.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("kunne ikke åpne loggfil: %w", err)
		}
		w = io.MultiWriter(os.Stdout, f)
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     ProgramLevel,
		AddSource: false,
	}))
	slog.SetDefault(logger)
	return nil
}

// SetDebug setter loggnivået til Debug hvis debug er true.
func SetDebug(debug bool) {
	if debug {
		ProgramLevel.Set(slog.LevelDebug)
	}
}
