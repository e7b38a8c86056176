package service

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog logger writing one object per line to w (stdout when nil).
func NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
