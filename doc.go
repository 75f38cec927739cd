// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the KU Polls server.

KU Polls is a small online polling site. Visitors browse recently published
questions and their results; registered users cast one vote per question and
may change it while the question is open.

# Starting the Server

SQLite is the default store and needs only a session secret:

	SESSION_SECRET=change-me go run .

PostgreSQL:

	go run . -t postgres -d "postgres://..." --session-secret change-me

# Configuration

Required settings:

  - SESSION_SECRET (--session-secret): Signs session cookies

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string (default: file:polls.db for sqlite)
  - SESSION_TTL (--session-ttl): Session lifetime (default: 336h)
  - ADMIN_KEY (--admin-key): Enables the question management API
  - LOGIN_URL, LOGIN_REDIRECT_URL, LOGOUT_REDIRECT_URL: Account redirects

A .env file in the working directory is loaded first; real environment
variables take precedence.

# Architecture

  - handlers: HTTP request handlers (polls, accounts, admin API)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Sessions, flash messages, CORS, logging, JSON helpers
  - render: Embedded HTML templates
  - store: Questions, choices, votes and users over database/sql
  - models: Domain types and request/response types
  - auth: Password hashing, session tokens, admin key checks
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
