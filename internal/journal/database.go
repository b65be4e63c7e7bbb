package journal

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormBackend stores matches in a SQL database through GORM. Both SQLite and
// Postgres use it.
type GormBackend struct {
	db  *gorm.DB
	log zerolog.Logger
}

// OpenSQLite opens (or creates) a SQLite journal at path. An empty path uses
// a shared in-memory database.
func OpenSQLite(path string, log zerolog.Logger) (*GormBackend, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite journal: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	if path == "" {
		log.Info().Msg("Using in-memory SQLite journal")
	} else {
		log.Info().Str("path", path).Msg("Using SQLite journal")
	}
	return &GormBackend{db: db, log: log}, nil
}

// OpenPostgres connects to Postgres and checks the connection.
func OpenPostgres(dsn string, log zerolog.Logger) (*GormBackend, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        1000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres journal: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres journal: %w", err)
	}
	sqlDB.SetMaxOpenConns(4)
	log.Info().Msg("Connected to Postgres journal")
	return &GormBackend{db: db, log: log}, nil
}

// Init migrates the schema.
func (b *GormBackend) Init() error {
	b.log.Debug().Str("dialect", b.db.Dialector.Name()).Msg("Migrating journal schema")
	if err := b.db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (b *GormBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (b *GormBackend) StartMatch(m *Match) error {
	if err := b.db.Create(m).Error; err != nil {
		return fmt.Errorf("creating match: %w", err)
	}
	return nil
}

func (b *GormBackend) RecordEvents(matchID uint, recs []EventRecord) error {
	if len(recs) == 0 {
		return nil
	}
	rows := make([]EventRecord, len(recs))
	for i, r := range recs {
		r.MatchID = matchID
		rows[i] = r
	}
	if err := b.db.CreateInBatches(rows, 500).Error; err != nil {
		return fmt.Errorf("writing %d events: %w", len(rows), err)
	}
	return nil
}

func (b *GormBackend) EndMatch(m *Match) error {
	if m.ID == 0 {
		return fmt.Errorf("%w: %d", ErrUnknownMatch, m.ID)
	}
	if err := b.db.Save(m).Error; err != nil {
		return fmt.Errorf("closing match %d: %w", m.ID, err)
	}
	return nil
}

func (b *GormBackend) Matches() ([]Match, error) {
	var out []Match
	if err := b.db.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (b *GormBackend) Events(matchID uint) ([]EventRecord, error) {
	var out []EventRecord
	if err := b.db.Where("match_id = ?", matchID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
