// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session tokens and admin key checks.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err := auth.CheckPassword(hash, password) // ErrWrongPassword on mismatch

# Session Tokens

Sessions are HS256-signed JWTs with the user ID as subject:

	token, err := auth.IssueSessionToken(userID, secret, ttl, time.Now())
	userID, err := auth.ParseSessionToken(token, secret)

ParseSessionToken returns ErrInvalidToken for a bad signature, an expired
token, a foreign issuer or an empty subject. Nothing is stored server-side;
logout clears the cookie.

# Admin Keys

The admin API compares the X-Admin-Key header against the configured key in
constant time:

	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey)

An empty configured key disables the admin API.

# IP Hashing

For privacy-preserving logging of failed logins:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
