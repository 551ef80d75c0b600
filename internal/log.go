package internal

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/wot-oss/resx/internal/config"
)

const logLevelOff = "off"

type DefaultLogHandler struct {
	*slog.TextHandler
}

type DiscardLogHandler struct {
	*slog.TextHandler
}

func newDefaultLogHandler(opts *slog.HandlerOptions) slog.Handler {
	return &DefaultLogHandler{
		TextHandler: slog.NewTextHandler(os.Stderr, opts),
	}
}

func newDiscardLogHandler(opts *slog.HandlerOptions) slog.Handler {
	return &DiscardLogHandler{
		TextHandler: slog.NewTextHandler(io.Discard, opts),
	}
}

// InitLogging sets the default logger. Logging is off unless a log level other than "off" is configured,
// or logging is switched on without a level, which logs at info level.
func InitLogging() {
	logLevel := strings.TrimSpace(viper.GetString(config.KeyLogLevel))
	if logLevel == "" && viper.GetBool(config.KeyLog) {
		logLevel = slog.LevelInfo.String()
	}

	var level slog.Level
	err := level.UnmarshalText([]byte(logLevel))
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if logLevel == "" || strings.EqualFold(logLevel, logLevelOff) {
		handler = newDiscardLogHandler(opts)
	} else {
		handler = newDefaultLogHandler(opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
}
