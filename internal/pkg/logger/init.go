package logger

import (
	log "log/slog"
	"os"
)

// InitLogger installs the process-wide JSON logger wrapped in the trace-id
// context handler.
func InitLogger() {
	hStdout := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: log.LevelInfo})

	logger := log.New(&ContextHandler{hStdout})
	log.SetDefault(logger)
}
