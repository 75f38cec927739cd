// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first when present. Values
already set in the process environment are not overwritten by it.

# Config Fields

  - Port: Server listen port (default: 8000)
  - DatabaseURL: connection string (default for sqlite: file:polls.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSecret: HS256 key for session cookies (required)
  - SessionTTL: session lifetime (default: 14 days)
  - AdminKey: X-Admin-Key for the admin API (empty disables it)
  - LoginURL: where anonymous voters are sent (default: /login/)
  - LoginRedirectURL: after login without next (default: /polls/)
  - LogoutRedirectURL: after logout (default: /login/)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--session-secret  Session signing secret
	--session-ttl     Session lifetime
	--admin-key       Admin API key

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	SESSION_SECRET → --session-secret
	SESSION_TTL    → --session-ttl
	ADMIN_KEY      → --admin-key

LOGIN_URL, LOGIN_REDIRECT_URL and LOGOUT_REDIRECT_URL are env-only.
CLI flags take precedence over environment variables.
*/
package cliparse
