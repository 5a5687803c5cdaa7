package logger

import (
	"io"
	"log/slog"
	"os"
)

func New(env, format string) *slog.Logger {
	return NewWithWriter(os.Stdout, env, format)
}

func NewWithWriter(w io.Writer, env, format string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if format == "text" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("app", "order-bot")
}
