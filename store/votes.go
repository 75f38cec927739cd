// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/ku-polls/models"
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UpsertVote records userID's selection for questionID.
//
// The choice must belong to the question, else models.ErrInvalidChoice and
// nothing is written. Otherwise a single INSERT ... ON CONFLICT keyed on
// UNIQUE (user_id, question_id) either creates the vote or repoints the
// existing one, so concurrent submissions from the same user can never
// leave two rows behind. created reports whether a new row was inserted.
func (s *Store) UpsertVote(ctx context.Context, userID, questionID, choiceID string, now time.Time) (vote models.Vote, created bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Vote{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var belongs bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM choice
			WHERE id = $1 AND question_id = $2
		)
	`, choiceID, questionID).Scan(&belongs)
	if err != nil {
		return models.Vote{}, false, fmt.Errorf("failed to verify choice: %w", err)
	}
	if !belongs {
		return models.Vote{}, false, models.ErrInvalidChoice
	}

	newVoteID := newID()
	now = utc(now)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (id, user_id, question_id, choice_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, question_id) DO UPDATE
		SET choice_id = excluded.choice_id, updated_at = excluded.updated_at
	`, newVoteID, userID, questionID, choiceID, now)
	if err != nil {
		return models.Vote{}, false, fmt.Errorf("failed to upsert vote: %w", err)
	}

	vote, err = voteFor(ctx, tx, userID, questionID)
	if err != nil {
		return models.Vote{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return models.Vote{}, false, fmt.Errorf("failed to commit vote: %w", err)
	}

	return vote, vote.ID == newVoteID, nil
}

// VoteFor returns the user's current vote on a question or models.ErrNotFound
func (s *Store) VoteFor(ctx context.Context, userID, questionID string) (models.Vote, error) {
	return voteFor(ctx, s.db, userID, questionID)
}

func voteFor(ctx context.Context, q querier, userID, questionID string) (models.Vote, error) {
	var v models.Vote
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, question_id, choice_id, created_at, updated_at
		FROM vote
		WHERE user_id = $1 AND question_id = $2
	`, userID, questionID).Scan(&v.ID, &v.UserID, &v.QuestionID, &v.ChoiceID, &v.CreatedAt, &v.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, models.ErrNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to query vote: %w", err)
	}

	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return v, nil
}

// CountVotes returns how many vote rows exist for a (user, question) pair.
// The schema keeps this at most one; it exists to let tests check that.
func (s *Store) CountVotes(ctx context.Context, userID, questionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE user_id = $1 AND question_id = $2
	`, userID, questionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return n, nil
}
