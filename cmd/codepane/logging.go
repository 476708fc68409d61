package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig controls the rotating log file.
type LogConfig struct {
	LogFile    string // "" logs to stdout only
	MaxSize    int    // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// DefaultLogConfig rotates logFile at 100 MB, keeping three compressed
// backups for 30 days.
func DefaultLogConfig(logFile string) LogConfig {
	return LogConfig{
		LogFile:    logFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}
}

// SetupLogging sends the standard logger to stdout and, when configured, the
// rotating log file. The returned closer flushes the file.
func SetupLogging(config LogConfig) (io.Closer, error) {
	if config.LogFile == "" {
		log.SetOutput(os.Stdout)
		return noopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(config.LogFile), 0755); err != nil {
		return nil, err
	}

	logger := &lumberjack.Logger{
		Filename:   config.LogFile,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}

	log.SetOutput(io.MultiWriter(os.Stdout, logger))
	return logger, nil
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }
