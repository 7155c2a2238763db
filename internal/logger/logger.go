package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/halfmoonpt/trackarr/internal/config"
)

var (
	once     sync.Once
	instance zerolog.Logger
)

// New returns a named logger writing to the console and, when the config
// directory is available, to logs/<name>.log.
func New(name string) zerolog.Logger {
	level := zerolog.InfoLevel
	var logPath string
	if config.ConfigPath() != "" {
		cfg := config.Get()
		level = parseLevel(cfg.LogLevel)
		logPath = cfg.Path
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	writers := []io.Writer{console}
	if logPath != "" {
		logDir := filepath.Join(logPath, "logs")
		if err := os.MkdirAll(logDir, 0755); err == nil {
			logFile, err := os.OpenFile(filepath.Join(logDir, name+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				writers = append(writers, logFile)
			}
		}
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("component", name).
		Logger()
}

func Default() zerolog.Logger {
	once.Do(func() {
		instance = New("trackarr")
	})
	return instance
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
