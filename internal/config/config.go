package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/Garsondee/hex-cadence/internal/game"
)

// FileName is the config file searched for by Load.
const FileName = "hexcadence.cfg.json"

// JournalConfig selects and configures the match journal backend.
type JournalConfig struct {
	Type       string // memory, sqlite, postgres
	SQLitePath string
	DB         DBConfig
}

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// DSN renders the Postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.Username, c.Password, c.Database)
}

// TelemetryConfig controls the OTel meter.
type TelemetryConfig struct {
	Enabled     bool
	ServiceName string
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("logToFile", false)

	viper.SetDefault("rhythm.bpm", game.DefaultBPM)

	viper.SetDefault("sim.seed", 42)
	viper.SetDefault("sim.stuckThreshold", 3)
	viper.SetDefault("sim.strictInvariants", false)
	viper.SetDefault("sim.moveDuration", 0.45)
	viper.SetDefault("sim.attackDuration", 0.5)
	viper.SetDefault("sim.spawnRadius", 4)

	viper.SetDefault("capture.beatsToCapture", 12)

	viper.SetDefault("boss.hitsToStun", 10)
	viper.SetDefault("boss.stunBeats", 8)

	viper.SetDefault("buff.defaultMultiplier", 1.2)
	viper.SetDefault("buff.defaultDuration", 10.0)

	viper.SetDefault("archetypesFile", "")
	viper.SetDefault("scenario", "skirmish")

	viper.SetDefault("journal.type", "memory")
	viper.SetDefault("journal.sqlite.path", "./hexcadence.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "hexcadence")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.serviceName", "hex-cadence")
}

// Load sets defaults and reads hexcadence.cfg.json from configDir or the
// working directory. A missing file leaves the defaults in place.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// SimConfig maps the sim, rhythm, capture, boss and buff keys onto the
// simulation tuning.
func SimConfig() game.SimConfig {
	cfg := game.DefaultSimConfig()
	cfg.Seed = viper.GetInt64("sim.seed")
	cfg.BPM = viper.GetFloat64("rhythm.bpm")
	cfg.StuckThreshold = viper.GetInt("sim.stuckThreshold")
	cfg.StrictInvariants = viper.GetBool("sim.strictInvariants")
	cfg.MoveDuration = viper.GetFloat64("sim.moveDuration")
	cfg.AttackDuration = viper.GetFloat64("sim.attackDuration")
	cfg.SpawnRadius = viper.GetInt("sim.spawnRadius")
	cfg.BeatsToCapture = viper.GetInt("capture.beatsToCapture")
	cfg.HitsToStun = viper.GetInt("boss.hitsToStun")
	cfg.StunBeats = viper.GetInt("boss.stunBeats")
	cfg.BuffMultiplier = viper.GetFloat64("buff.defaultMultiplier")
	cfg.BuffDuration = viper.GetFloat64("buff.defaultDuration")
	return cfg
}

// GetJournalConfig returns the journal backend settings.
func GetJournalConfig() JournalConfig {
	return JournalConfig{
		Type:       viper.GetString("journal.type"),
		SQLitePath: viper.GetString("journal.sqlite.path"),
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}

// GetTelemetryConfig returns the metrics settings.
func GetTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:     viper.GetBool("telemetry.enabled"),
		ServiceName: viper.GetString("telemetry.serviceName"),
	}
}
