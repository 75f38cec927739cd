// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request, and response types for the polls site.

# Domain Types

  - Question: prompt text with a publish date and optional end date
  - Choice: one answer belonging to a question; Votes is a derived count
  - Vote: a user's current selection for a question
  - User: an account able to vote

# Eligibility

Question carries the voting-window predicates. Each takes the current moment
explicitly so callers (and tests) control the clock:

	q.IsPublished(now)          // now >= pub_date
	q.WasPublishedRecently(now) // now-1d <= pub_date <= now
	q.CanVote(now)              // pub_date <= now <= end_date (end optional)
	q.State(now)                // StateNotPublished, StateOpen or StateClosed

A question moves not_published → open → closed purely as time advances.

# Errors

Sentinel errors shared by the store and the handlers:

	ErrNotFound               // question/choice/vote does not resolve
	ErrInvalidChoice          // choice missing or belongs to another question
	ErrAuthenticationRequired // anonymous user tried to vote
	ErrNotEligible            // question not yet published or already closed
	ErrInvalidDates           // end_date before pub_date
	ErrUsernameTaken
	ErrInvalidCredentials

# API Types

JSON types for the admin and results endpoints:

  - CreateQuestionRequest / CreateQuestionResponse
  - AddChoiceRequest / AddChoiceResponse
  - UpdateDatesRequest
  - ResultsResponse
  - ErrorResponse
*/
package models
