package config

import (
	"io"
	"log/slog"
)

// NewLogger builds the process logger for cfg. Level changes go through lv
// so a config reload can adjust verbosity of a running logger.
func NewLogger(w io.Writer, cfg LogConfig, lv *slog.LevelVar) *slog.Logger {
	lv.Set(ParseLevel(cfg.Level))
	opts := &slog.HandlerOptions{Level: lv}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
