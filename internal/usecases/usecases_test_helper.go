package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dropmarket.backend/internal/domain/repositories"
	infrarepos "dropmarket.backend/internal/infrastructure/repositories"
)

const testAuditChatID int64 = -1000

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")

	require.NoError(t, db.Exec(`CREATE TABLE users (
		user_id INTEGER PRIMARY KEY,
		username TEXT,
		status TEXT NOT NULL DEFAULT 'guest',
		name TEXT,
		age INTEGER,
		document_photo TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE verifications (
		user_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		document_photo TEXT,
		activity TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME,
		updated_at DATETIME
	);`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE orders (
		order_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		item TEXT NOT NULL,
		price REAL NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		drop_id INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	);`).Error)
	return db
}

// fakeSender records deliveries and optionally fails for chosen recipients.
type fakeSender struct {
	mu       sync.Mutex
	messages map[int64][]string
	photos   map[int64][]string
	failFor  map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		messages: make(map[int64][]string),
		photos:   make(map[int64][]string),
		failFor:  make(map[int64]bool),
	}
}

func (s *fakeSender) SendMessage(_ context.Context, recipientID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[recipientID] {
		return errors.New("delivery refused")
	}
	s.messages[recipientID] = append(s.messages[recipientID], text)
	return nil
}

func (s *fakeSender) SendPhoto(_ context.Context, recipientID int64, photoID, caption string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[recipientID] {
		return errors.New("delivery refused")
	}
	s.photos[recipientID] = append(s.photos[recipientID], photoID)
	s.messages[recipientID] = append(s.messages[recipientID], caption)
	return nil
}

func (s *fakeSender) sentTo(recipientID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages[recipientID]
}

func (s *fakeSender) photosTo(recipientID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photos[recipientID]
}

type testEnv struct {
	db       *gorm.DB
	users    repositories.UserRepository
	sender   *fakeSender
	notifier *Notifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	users := infrarepos.NewUserRepository(db)
	sender := newFakeSender()
	return &testEnv{
		db:       db,
		users:    users,
		sender:   sender,
		notifier: NewNotifier(sender, users, testAuditChatID, time.Second),
	}
}

func seedUser(t *testing.T, db *gorm.DB, id int64, status string) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO users (user_id, status, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, status, time.Now(), time.Now(),
	).Error)
}
