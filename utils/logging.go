package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultLogPath returns pdfkit.log in the user cache dir, or the temp dir
// when no cache dir is known
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pdfkit", "pdfkit.log")
}

// NewLogger builds a production zap logger writing to path. The terminal
// belongs to the UI, so logs never go to stdout or stderr unless path is "-".
func NewLogger(level, path string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()

	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case "warn", "warning":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	switch path {
	case "-":
		cfg.OutputPaths = []string{"stderr"}
	case "":
		path = DefaultLogPath()
		fallthrough
	default:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{path}
	}
	cfg.ErrorOutputPaths = cfg.OutputPaths

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}
