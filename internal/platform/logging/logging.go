package logging

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/httplog/v3"

	"backoffice/internal/platform/config"
)

// New builds the JSON application logger using ECS attribute names.
func New(cfg config.Config) *slog.Logger {
	return newWithWriter(os.Stdout, cfg)
}

func newWithWriter(w io.Writer, cfg config.Config) *slog.Logger {
	level := slog.LevelDebug
	if cfg.Environment == "production" {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: httplog.SchemaECS.Concise(cfg.Environment != "production").ReplaceAttr,
	})
	return slog.New(handler).With(slog.String("app", "backoffice"), slog.String("env", cfg.Environment))
}

// RequestLogger is the chi middleware emitting one access log line per request.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	})
}
