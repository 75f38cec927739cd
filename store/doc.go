// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists questions, choices, votes and users over database/sql.

The same queries run on SQLite and PostgreSQL. Timestamps are written in UTC.

# Votes

Vote counts are never stored; Choices derives them with a LEFT JOIN.
UpsertVote relies on the UNIQUE (user_id, question_id) constraint:

	vote, created, err := st.UpsertVote(ctx, userID, questionID, choiceID, now)

A choice that does not belong to the question fails with
models.ErrInvalidChoice and leaves any existing vote untouched.
*/
package store
