package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewStdoutHandler is the JSON handler every process logs through.
func NewStdoutHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// Setup installs the stdout JSON logger as the slog default.
func Setup(debug bool) {
	slog.SetDefault(slog.New(NewStdoutHandler(os.Stdout, debug)))
}
