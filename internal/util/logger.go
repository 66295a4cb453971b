// Package util provides utility functions used throughout the Frontline application.
package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogConfig holds configuration for the logging system.
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Directory  string `envconfig:"LOG_DIR"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
	Console    bool   `envconfig:"LOG_CONSOLE" default:"true"`
	JSON       bool   `envconfig:"LOG_JSON" default:"false"`
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		MaxBackups: 5,
		Console:    true,
	}
}

// InitLogger initializes the zerolog global logger. Console output goes to
// stderr; when Directory is set a dated JSON log file is written as well.
func InitLogger(cfg LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var writers []io.Writer
	logFilePath := ""

	if cfg.Directory != "" {
		if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", cfg.Directory, err)
		}

		logFilePath = filepath.Join(cfg.Directory, fmt.Sprintf("frontline_%s.log", time.Now().Format("2006-01-02")))
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", logFilePath, err)
		}
		writers = append(writers, logFile)
	}

	if cfg.Console || len(writers) == 0 {
		if cfg.JSON {
			writers = append(writers, os.Stderr)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "15:04:05",
			})
		}
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("app", "frontline").
		Logger()

	log.Debug().
		Str("level", level.String()).
		Str("log_file", logFilePath).
		Msg("logger initialized")

	if cfg.Directory != "" {
		go cleanOldLogs(cfg.Directory, cfg.MaxBackups)
	}
	return nil
}

// cleanOldLogs keeps the newest maxBackups dated log files.
func cleanOldLogs(directory string, maxBackups int) {
	if maxBackups <= 0 {
		return
	}
	entries, err := os.ReadDir(directory)
	if err != nil {
		return
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "frontline_") && filepath.Ext(entry.Name()) == ".log" {
			names = append(names, entry.Name())
		}
	}
	if len(names) <= maxBackups {
		return
	}

	// Dated names sort oldest first.
	sort.Strings(names)
	for _, name := range names[:len(names)-maxBackups] {
		path := filepath.Join(directory, name)
		if err := os.Remove(path); err == nil {
			log.Debug().Str("file", path).Msg("removed old log file")
		}
	}
}

// ComponentLogger creates a logger with a component name field.
func ComponentLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
