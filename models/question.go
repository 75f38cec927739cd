// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// RecentWindow is how far back a question still counts as recently published
const RecentWindow = 24 * time.Hour

// IsPublished reports whether the question is visible at now
func (q Question) IsPublished(now time.Time) bool {
	return !now.Before(q.PubDate)
}

// WasPublishedRecently reports whether now-1d <= pub_date <= now
func (q Question) WasPublishedRecently(now time.Time) bool {
	return !q.PubDate.Before(now.Add(-RecentWindow)) && !q.PubDate.After(now)
}

// CanVote reports whether now falls inside the voting window.
// Both ends are inclusive: voting is allowed at the exact closing instant.
func (q Question) CanVote(now time.Time) bool {
	if q.EndDate == nil {
		return !now.Before(q.PubDate)
	}
	return !now.Before(q.PubDate) && !now.After(*q.EndDate)
}

// State maps the question onto not_published → open → closed
func (q Question) State(now time.Time) string {
	switch {
	case !q.IsPublished(now):
		return StateNotPublished
	case q.CanVote(now):
		return StateOpen
	default:
		return StateClosed
	}
}

// ValidateDates rejects an end date earlier than the publish date
func (q Question) ValidateDates() error {
	if q.EndDate != nil && q.EndDate.Before(q.PubDate) {
		return ErrInvalidDates
	}
	return nil
}
