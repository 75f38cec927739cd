// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Store is the repository over questions, choices, votes and accounts.
// Every method takes a context and is safe for concurrent use.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks and tests
func (s *Store) DB() *sql.DB {
	return s.db
}

func newID() string {
	return uuid.NewString()
}

// utc normalises timestamps before they hit the database so both drivers
// store and compare the same wall clock
func utc(t time.Time) time.Time {
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
