// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/danielhkuo/ku-polls/models"
)

// CreateQuestion inserts a question and its initial choices in one transaction
func (s *Store) CreateQuestion(ctx context.Context, q models.Question, choices []string) (models.Question, []models.Choice, error) {
	q.Text = strings.TrimSpace(q.Text)
	q.PubDate = utc(q.PubDate)
	q.EndDate = utcPtr(q.EndDate)
	if err := q.ValidateDates(); err != nil {
		return models.Question{}, nil, err
	}
	q.ID = newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Question{}, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO question (id, question_text, pub_date, end_date)
		VALUES ($1, $2, $3, $4)
	`, q.ID, q.Text, q.PubDate, q.EndDate)
	if err != nil {
		return models.Question{}, nil, fmt.Errorf("failed to insert question: %w", err)
	}

	created := make([]models.Choice, 0, len(choices))
	for i, text := range choices {
		c := models.Choice{ID: newID(), QuestionID: q.ID, Text: strings.TrimSpace(text)}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO choice (id, question_id, choice_text, position)
			VALUES ($1, $2, $3, $4)
		`, c.ID, c.QuestionID, c.Text, i)
		if err != nil {
			return models.Question{}, nil, fmt.Errorf("failed to insert choice: %w", err)
		}
		created = append(created, c)
	}

	if err := tx.Commit(); err != nil {
		return models.Question{}, nil, fmt.Errorf("failed to commit question: %w", err)
	}

	return q, created, nil
}

// GetQuestion returns models.ErrNotFound when the id does not resolve
func (s *Store) GetQuestion(ctx context.Context, id string) (models.Question, error) {
	var q models.Question
	var endDate sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question_text, pub_date, end_date
		FROM question
		WHERE id = $1
	`, id).Scan(&q.ID, &q.Text, &q.PubDate, &endDate)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, models.ErrNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question: %w", err)
	}

	q.PubDate = q.PubDate.UTC()
	q.EndDate = nullTimePtr(endDate)
	return q, nil
}

// ListPublished returns up to limit questions with pub_date <= now, newest
// first. Questions whose voting window has closed are still listed.
// Filtering and ordering happen in Go on the same predicates the views use,
// so SQLite's text timestamps never get compared in SQL.
func (s *Store) ListPublished(ctx context.Context, now time.Time, limit int) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question_text, pub_date, end_date
		FROM question
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		var endDate sql.NullTime
		if err := rows.Scan(&q.ID, &q.Text, &q.PubDate, &endDate); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q.PubDate = q.PubDate.UTC()
		q.EndDate = nullTimePtr(endDate)

		if q.IsPublished(now) {
			questions = append(questions, q)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}

	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].PubDate.After(questions[j].PubDate)
	})

	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

// UpdateQuestionDates changes the publish window; text is immutable
func (s *Store) UpdateQuestionDates(ctx context.Context, id string, pubDate time.Time, endDate *time.Time) (models.Question, error) {
	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return models.Question{}, err
	}

	q.PubDate = utc(pubDate)
	q.EndDate = utcPtr(endDate)
	if err := q.ValidateDates(); err != nil {
		return models.Question{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE question
		SET pub_date = $1, end_date = $2
		WHERE id = $3
	`, q.PubDate, q.EndDate, id)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to update question dates: %w", err)
	}

	return q, nil
}

// DeleteQuestion removes a question; choices and votes go with it
func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM question WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
