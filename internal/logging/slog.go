package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// SlogManager owns the application's slog logger.
type SlogManager struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// ParseLevel converts a string log level to slog.Level. Unknown levels are
// info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds text handlers for console and file (either may be nil) and
// fans them out. provider, when set, adds attributes such as the beat to
// every record.
func (m *SlogManager) Setup(console, file io.Writer, level string, provider ContextProvider) {
	m.level = ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: m.level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	if console != nil {
		handlers = append(handlers, slog.NewTextHandler(console, opts))
	}
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, opts))
	}

	var h slog.Handler = NewMultiHandler(handlers...)
	if provider != nil {
		h = NewContextHandler(h, provider)
	}
	m.logger = slog.New(h)
	m.logger.Debug("Logging initialized", "level", level)
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Level returns the minimum level set by Setup.
func (m *SlogManager) Level() slog.Level { return m.level }

// LogFilePath builds a per-session log file path.
func LogFilePath(logsDir, program string, sessionStart time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.log", program, sessionStart.Format("20060102_150405")))
}
