package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// NewZerolog builds a timestamped zerolog logger at level. Unknown levels
// are info.
func NewZerolog(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// CoreLogger adapts zerolog to the simulation's Logger interface. Key/value
// pairs become event fields.
type CoreLogger struct {
	log zerolog.Logger
}

// NewCoreLogger wraps l, tagging every event with component=sim.
func NewCoreLogger(l zerolog.Logger) *CoreLogger {
	return &CoreLogger{log: l.With().Str("component", "sim").Logger()}
}

func (c *CoreLogger) Debug(msg string, keysAndValues ...any) {
	emit(c.log.Debug(), msg, keysAndValues)
}

func (c *CoreLogger) Info(msg string, keysAndValues ...any) {
	emit(c.log.Info(), msg, keysAndValues)
}

func (c *CoreLogger) Error(msg string, keysAndValues ...any) {
	emit(c.log.Error(), msg, keysAndValues)
}

// emit writes msg with the pairs as fields. A trailing key without a value
// is logged under "!BADKEY".
func emit(ev *zerolog.Event, msg string, kv []any) {
	if ev == nil {
		return
	}
	if len(kv)%2 == 1 {
		kv = append(kv[:len(kv)-1:len(kv)-1], "!BADKEY", kv[len(kv)-1])
	}
	ev.Fields(kv).Msg(msg)
}
