package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/config"
)

// keys whose values never reach the log output
var redactedKeys = map[string]struct{}{
	"password":      {},
	"authorization": {},
	"accesstoken":   {},
	"refreshtoken":  {},
	"token":         {},
}

// NewLogger builds the process logger. Output goes to stdout and, when
// LOG_DIR is set, to LOG_DIR/app.log too. The returned func closes the file.
func NewLogger(cfg config.Config) (*slog.Logger, func() error, error) {
	var w io.Writer = os.Stdout
	closeFn := func() error { return nil }

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}

		f, err := os.OpenFile(filepath.Join(cfg.LogDir, "app.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}

		w = io.MultiWriter(os.Stdout, f)
		closeFn = f.Close
	}

	handler := newHandler(w, cfg.LogFormat, parseLevel(cfg.LogLevel, cfg.Env))

	logger := slog.New(NewTraceHandler(handler)).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.AppVersion),
		slog.String("env", cfg.Env),
	)

	return logger, closeFn, nil
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	}

	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func parseLevel(s, env string) slog.Level {
	var level slog.Level

	if err := level.UnmarshalText([]byte(s)); err != nil {
		if env == "dev" {
			return slog.LevelDebug
		}
		return slog.LevelInfo
	}

	return level
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if _, ok := redactedKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, "[REDACTED]")
	}
	return a
}
