package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/stillpoint/studio/internal/models"
)

// WAL is the key SQLite setting for concurrent reads with single-writer
// throughput; make sure the DSN parameters actually enable it.
func TestOpenWALMode(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "wal_test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var mode string
	conn.Raw("PRAGMA journal_mode").Scan(&mode)
	if mode != "wal" {
		t.Errorf("expected journal_mode=wal, got %q", mode)
	}
}

func TestOpenCreatesIndexes(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "idx_test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}

	found := indexNames(t, sqlDB, "registrations")
	for _, want := range []string{"idx_reg_class_user", "idx_reg_user"} {
		if !found[want] {
			t.Errorf("index %q missing from registrations; found: %v", want, found)
		}
	}
}

// The unique (class_id, user_id) index is the authoritative guard
// against double registration; the insert must fail as a duplicate key,
// not slip through.
func TestDuplicateRegistrationRejected(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "uniq_test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	user := models.User{Email: "jo@example.com"}
	conn.Create(&user)
	class := models.Class{Name: "Flow", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)}
	conn.Create(&class)

	first := models.Registration{ClassID: class.ID, UserID: user.ID, PaymentStatus: "completed"}
	if err := conn.Create(&first).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	second := models.Registration{ClassID: class.ID, UserID: user.ID, PaymentStatus: "completed"}
	err = conn.Create(&second).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("second insert: got %v, want gorm.ErrDuplicatedKey", err)
	}
}

func indexNames(t *testing.T, sqlDB *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := sqlDB.Query("PRAGMA index_list(" + table + ")")
	if err != nil {
		t.Fatalf("PRAGMA index_list: %v", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var seq int
		var name string
		var unique bool
		var origin, partial string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			t.Fatalf("scan: %v", err)
		}
		out[name] = true
	}
	return out
}
