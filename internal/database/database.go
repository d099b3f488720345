package database

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campus-portal/campus-api/internal/models"
)

// Options tunes the database connection.
type Options struct {
	MaxOpenConns int
	Debug        bool
}

// Connect opens the store named by url. A "sqlite:" or "file:" prefix selects
// SQLite; anything else is treated as a PostgreSQL DSN.
func Connect(url string, opts Options) (*gorm.DB, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("database url must not be empty")
	}

	dialector, sqliteStore := dialectorFor(url)

	logLevel := logger.Warn
	if opts.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database pool: %w", err)
	}
	maxConns := opts.MaxOpenConns
	if sqliteStore {
		// SQLite allows one writer; a single connection serialises transactions.
		maxConns = 1
	}
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
	}

	return db, nil
}

func dialectorFor(url string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(url, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite:")), true
	case strings.HasPrefix(url, "file:"):
		return sqlite.Open(url), true
	default:
		return postgres.Open(url), false
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB, log zerolog.Logger) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info().Int("models", len(models.All())).Msg("schema migrated")
	return nil
}
