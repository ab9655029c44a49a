package logging

import (
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Setup installs a JSON logger on stdout as the process default and returns
// its handler so later sinks can be chained behind it.
func Setup() slog.Handler {
	handler := NewContextHandler(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slog.New(handler))
	return handler
}

// AttachDatabase adds the system_logs sink next to stdout. The caller must
// Stop the returned handler on shutdown to flush pending records.
func AttachDatabase(stdout slog.Handler, db *gorm.DB) *PGHandler {
	pg := NewPGHandler(db)
	slog.SetDefault(slog.New(NewMultiHandler(stdout, NewContextHandler(pg))))
	return pg
}
