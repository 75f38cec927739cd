// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and manages the schema.

# Drivers

Open selects a driver by type:

	conn, err := db.Open(db.TypeSQLite, "file:polls.db")     // modernc.org/sqlite
	conn, err := db.Open(db.TypePostgres, "postgres://...")   // github.com/lib/pq

SQLite connections get foreign keys and a busy timeout via DSN pragmas and
are capped at one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - account: users (username unique, bcrypt hash)
  - question: prompt text, pub_date, optional end_date
  - choice: answers per question
  - vote: one row per (user, question)

# Relationships

	question 1──* choice
	choice   1──* vote   (via (choice_id, question_id))
	account  1──* vote

All foreign keys use ON DELETE CASCADE. UNIQUE (user_id, question_id) on
vote is what makes the one-vote-per-question rule hold under concurrent
submissions.

# Constraint Errors

	if db.IsUniqueViolation(err) { ... }

recognises SQLSTATE 23505 from Postgres and SQLITE_CONSTRAINT_UNIQUE /
SQLITE_CONSTRAINT_PRIMARYKEY from SQLite.
*/
package db
