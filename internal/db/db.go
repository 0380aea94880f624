package db

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stillpoint/studio/internal/models"
)

// Open opens (or creates) the sqlite database at path and migrates the
// schema. The returned handle is passed to whoever needs it; there is no
// package-level connection.
func Open(path string) (*gorm.DB, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Class{},
		&models.Registration{},
		&models.Waiver{},
	); err != nil {
		return nil, err
	}

	// Indexes GORM doesn't auto-create from struct tags. The unique pair
	// index is the authoritative guard against double registration; the
	// pre-check in booking is only a fast path.
	conn.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_reg_class_user ON registrations(class_id, user_id)")
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_reg_user          ON registrations(user_id)")
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_classes_start     ON classes(start_time)")

	log.Println("database ready (sqlite)")
	return conn, nil
}
