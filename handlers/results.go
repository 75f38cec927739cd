// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ku-polls/middleware"
	"github.com/danielhkuo/ku-polls/models"
)

// Results handles GET /polls/{id}/results/
// Closed questions keep their results page; unpublished ones do not exist yet.
func (h *PollsHandler) Results(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	q, ok := h.publishedQuestion(w, r, r.PathValue("id"), now)
	if !ok {
		return
	}

	choices, err := h.store.Choices(r.Context(), q.ID)
	if err != nil {
		slog.Error("failed to query choices", "question_id", q.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userChoice, err := h.userChoice(r, q.ID, choices)
	if err != nil {
		slog.Error("failed to query vote", "question_id", q.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	data := pageData(w, r, now)
	data["question"] = q
	data["state"] = q.State(now)
	data["choices"] = choices
	data["total_votes"] = totalVotes(choices)
	data["user_choice"] = userChoice
	h.render(w, http.StatusOK, resultsTemplate, data)
}

// ResultsJSON handles GET /api/polls/{id}/results
func (h *PollsHandler) ResultsJSON(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	now := h.now()
	q, err := h.store.GetQuestion(r.Context(), id)
	if err == nil && !q.IsPublished(now) {
		err = models.ErrNotFound
	}
	if errors.Is(err, models.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "question_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	choices, err := h.store.Choices(r.Context(), q.ID)
	if err != nil {
		slog.Error("failed to query choices", "question_id", q.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Question:   q,
		State:      q.State(now),
		Choices:    choices,
		TotalVotes: totalVotes(choices),
	})
}

func totalVotes(choices []models.Choice) int {
	total := 0
	for _, c := range choices {
		total += c.Votes
	}
	return total
}
