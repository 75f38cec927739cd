// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidChoice          = errors.New("choice does not belong to question")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrNotEligible            = errors.New("question is not open for voting")
	ErrInvalidDates           = errors.New("end_date must not be before pub_date")
	ErrUsernameTaken          = errors.New("username already taken")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)
