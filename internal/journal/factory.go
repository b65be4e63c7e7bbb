package journal

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Garsondee/hex-cadence/internal/config"
)

// NewBackend creates and initialises the configured backend. A Postgres
// journal that cannot be reached falls back to SQLite at cfg.SQLitePath.
func NewBackend(cfg config.JournalConfig, log zerolog.Logger) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Type {
	case "", "memory":
		b = NewMemoryBackend()
	case "sqlite":
		b, err = OpenSQLite(cfg.SQLitePath, log)
	case "postgres":
		b, err = OpenPostgres(cfg.DB.DSN(), log)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to Postgres, trying SQLite")
			b, err = OpenSQLite(cfg.SQLitePath, log)
		}
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	if err := b.Init(); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}
