package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		user_id INTEGER PRIMARY KEY,
		username TEXT,
		status TEXT NOT NULL DEFAULT 'guest',
		name TEXT,
		age INTEGER,
		document_photo TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createVerificationTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE verifications (
		user_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		document_photo TEXT,
		activity TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createOrderTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE orders (
		order_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		item TEXT NOT NULL,
		price REAL NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		drop_id INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createAllTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	createUserTable(t, db)
	createVerificationTable(t, db)
	createOrderTable(t, db)
}
