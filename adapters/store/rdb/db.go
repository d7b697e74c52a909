package rdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaegashi/octops/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultDSN = "./octops.db"

// OpenFromURL opens a GORM DB based on a simple db-url string.
// Supported:
//   - sqlite:<dsn>   e.g., sqlite:./octops.db or sqlite::memory:
//   - sqlite3:<dsn>  alias of sqlite
//
// An in-memory DSN is limited to one connection since every SQLite
// connection would otherwise open its own empty database.
func OpenFromURL(dbURL string) (*gorm.DB, error) {
	var dsn string
	switch {
	case strings.HasPrefix(dbURL, "sqlite:"):
		dsn = strings.TrimPrefix(dbURL, "sqlite:")
	case strings.HasPrefix(dbURL, "sqlite3:"):
		dsn = strings.TrimPrefix(dbURL, "sqlite3:")
	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if isMemoryDSN(dsn) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// AutoMigrate applies schema migrations for all RDB models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&HostRecord{}, &ActiveVMRecord{})
}

// Store is a GORM-backed implementation of domain.Store.
type Store struct {
	db *gorm.DB
}

// Open opens the database at dbURL and migrates the schema.
func Open(dbURL string) (*Store, error) {
	db, err := OpenFromURL(dbURL)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", dbURL, err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already migrated DB.
func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Do runs fn in a single transaction.
func (s *Store) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&domain.Repositories{
			Host:     &HostRepository{db: tx},
			ActiveVM: &ActiveVMRepository{db: tx},
		})
	})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ domain.Store = (*Store)(nil)
