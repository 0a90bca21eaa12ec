package types

import (
	"time"

	"go.uber.org/zap"

	"github.com/lepinkainen/pdfkit/prefs"
)

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version  string
	Server   string
	Timeout  time.Duration
	Timeline string
	Logger   *zap.SugaredLogger
	Prefs    *prefs.Store
}

// VersionOrDefault returns the version, tolerating a nil context
func (a *AppContext) VersionOrDefault() string {
	if a == nil || a.Version == "" {
		return DefaultVersion
	}
	return a.Version
}

// Log returns the logger, or a no-op logger when none is configured
func (a *AppContext) Log() *zap.SugaredLogger {
	if a == nil || a.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return a.Logger
}
