// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/ku-polls/models"
)

// Choices returns a question's choices in display order with vote counts
// derived from the vote table
func (s *Store) Choices(ctx context.Context, questionID string) ([]models.Choice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.question_id, c.choice_text, COUNT(v.id)
		FROM choice c
		LEFT JOIN vote v ON v.choice_id = c.id
		WHERE c.question_id = $1
		GROUP BY c.id, c.question_id, c.choice_text, c.position
		ORDER BY c.position, c.id
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query choices: %w", err)
	}
	defer rows.Close()

	choices := []models.Choice{}
	for rows.Next() {
		var c models.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate choices: %w", err)
	}

	return choices, nil
}

// ChoiceForQuestion returns models.ErrNotFound unless choiceID belongs to questionID
func (s *Store) ChoiceForQuestion(ctx context.Context, questionID, choiceID string) (models.Choice, error) {
	var c models.Choice
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.question_id, c.choice_text,
		       (SELECT COUNT(*) FROM vote v WHERE v.choice_id = c.id)
		FROM choice c
		WHERE c.id = $1 AND c.question_id = $2
	`, choiceID, questionID).Scan(&c.ID, &c.QuestionID, &c.Text, &c.Votes)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Choice{}, models.ErrNotFound
	}
	if err != nil {
		return models.Choice{}, fmt.Errorf("failed to query choice: %w", err)
	}
	return c, nil
}

// AddChoice appends a choice to an existing question
func (s *Store) AddChoice(ctx context.Context, questionID, text string) (models.Choice, error) {
	if _, err := s.GetQuestion(ctx, questionID); err != nil {
		return models.Choice{}, err
	}

	c := models.Choice{ID: newID(), QuestionID: questionID, Text: strings.TrimSpace(text)}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO choice (id, question_id, choice_text, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), -1) + 1 FROM choice WHERE question_id = $2))
	`, c.ID, c.QuestionID, c.Text)
	if err != nil {
		return models.Choice{}, fmt.Errorf("failed to insert choice: %w", err)
	}

	return c, nil
}
