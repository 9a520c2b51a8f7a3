package cli

import (
	"io"
	"log/slog"
	"os"
)

// enableDebugLogging configures the global slog logger to emit debug logs to stderr.
//
// It is a no-op unless the user passes --debug; otherwise only warnings from
// the pipeline and session reach stderr.
func enableDebugLogging() {
	enableLoggingTo(os.Stderr, slog.LevelDebug)
}

func enableLoggingTo(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
