// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/ku-polls/auth"
	"github.com/danielhkuo/ku-polls/cliparse"
	"github.com/danielhkuo/ku-polls/db"
	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/store"
)

// TestPassword is the password every CreateTestUser account gets
const TestPassword = "FatChance!"

// SetupTestDB creates a fresh test database with the full schema.
// SQLite in a temp dir by default; set TEST_DATABASE_URL to run against Postgres.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	var conn *sql.DB
	var err error
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		conn, err = db.Open(db.TypePostgres, url)
		if err == nil {
			// Clean up tables before each test
			err = db.DropSchema(conn)
		}
	} else {
		conn, err = db.Open(db.TypeSQLite, "file:"+filepath.Join(t.TempDir(), "test.db"))
	}
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              8000,
		DatabaseType:      db.TypeSQLite,
		SessionSecret:     "test-session-secret",
		SessionTTL:        time.Hour,
		AdminKey:          "test-admin-key",
		LoginURL:          "/login/",
		LoginRedirectURL:  "/polls/",
		LogoutRedirectURL: "/login/",
	}
}

// CreateTestQuestion inserts a question with the given choices
func CreateTestQuestion(t *testing.T, st *store.Store, text string, pubDate time.Time, endDate *time.Time, choices ...string) (models.Question, []models.Choice) {
	t.Helper()

	q, created, err := st.CreateQuestion(context.Background(), models.Question{
		Text:    text,
		PubDate: pubDate,
		EndDate: endDate,
	}, choices)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return q, created
}

// CreateTestUser registers an account with TestPassword
func CreateTestUser(t *testing.T, st *store.Store, username string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	u, err := st.CreateUser(context.Background(), username, hash)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return u
}

// SessionCookie returns a valid session cookie for userID
func SessionCookie(t *testing.T, cfg cliparse.Config, userID string) *http.Cookie {
	t.Helper()

	token, err := auth.IssueSessionToken(userID, cfg.SessionSecret, cfg.SessionTTL, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue session token: %v", err)
	}

	return &http.Cookie{Name: "sessionid", Value: token}
}

// Ptr returns a pointer to t
func Ptr(t time.Time) *time.Time {
	return &t
}

// RecordingRenderer captures what a handler asked to render instead of
// executing templates
type RecordingRenderer struct {
	mu     sync.Mutex
	Name   string
	Status int
	Data   map[string]any
}

func (r *RecordingRenderer) Render(w io.Writer, status int, name string, data map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Name = name
	r.Status = status
	r.Data = data

	if rw, ok := w.(http.ResponseWriter); ok {
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		rw.WriteHeader(status)
	}
	_, err := io.WriteString(w, name)
	return err
}
