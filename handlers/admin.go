// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/ku-polls/auth"
	"github.com/danielhkuo/ku-polls/cliparse"
	"github.com/danielhkuo/ku-polls/middleware"
	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/store"
)

// AdminHandler manages questions over JSON. Every request carries the
// configured key in X-Admin-Key; with no key configured the API is off.
type AdminHandler struct {
	store *store.Store
	cfg   cliparse.Config
	now   func() time.Time
}

func NewAdminHandler(st *store.Store, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{store: st, cfg: cfg, now: time.Now}
}

// CreateQuestion handles POST /admin/api/questions
func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}
	for _, c := range req.Choices {
		if strings.TrimSpace(c) == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "choices must not be blank")
			return
		}
	}

	q := models.Question{Text: req.Text, PubDate: h.now(), EndDate: req.EndDate}
	if req.PubDate != nil {
		q.PubDate = *req.PubDate
	}

	q, choices, err := h.store.CreateQuestion(r.Context(), q, req.Choices)
	if errors.Is(err, models.ErrInvalidDates) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to create question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	choiceIDs := make([]string, 0, len(choices))
	for _, c := range choices {
		choiceIDs = append(choiceIDs, c.ID)
	}

	slog.Info("question created", "question_id", q.ID, "choices", len(choiceIDs))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateQuestionResponse{
		QuestionID: q.ID,
		ChoiceIDs:  choiceIDs,
	})
}

// GetQuestion handles GET /admin/api/questions/{id}
// Unlike the public pages this also shows unpublished questions.
func (h *AdminHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	id := r.PathValue("id")
	q, err := h.store.GetQuestion(r.Context(), id)
	if !h.checkLookup(w, id, err) {
		return
	}

	choices, err := h.store.Choices(r.Context(), q.ID)
	if err != nil {
		slog.Error("failed to query choices", "question_id", q.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.QuestionWithChoices{
		Question: q,
		State:    q.State(h.now()),
		Choices:  choices,
	})
}

// AddChoice handles POST /admin/api/questions/{id}/choices
func (h *AdminHandler) AddChoice(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	id := r.PathValue("id")

	var req models.AddChoiceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	choice, err := h.store.AddChoice(r.Context(), id, req.Text)
	if !h.checkLookup(w, id, err) {
		return
	}

	slog.Info("choice added", "question_id", id, "choice_id", choice.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddChoiceResponse{
		ChoiceID: choice.ID,
	})
}

// UpdateDates handles PUT /admin/api/questions/{id}/dates
// Dates are the only part of a question that changes after creation.
func (h *AdminHandler) UpdateDates(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	id := r.PathValue("id")

	var req models.UpdateDatesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PubDate.IsZero() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pub_date is required")
		return
	}

	q, err := h.store.UpdateQuestionDates(r.Context(), id, req.PubDate, req.EndDate)
	if errors.Is(err, models.ErrInvalidDates) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.checkLookup(w, id, err) {
		return
	}

	slog.Info("question dates updated", "question_id", q.ID)

	middleware.JSONResponse(w, http.StatusOK, q)
}

// DeleteQuestion handles DELETE /admin/api/questions/{id}
// Choices and votes go with it.
func (h *AdminHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	id := r.PathValue("id")
	if !h.checkLookup(w, id, h.store.DeleteQuestion(r.Context(), id)) {
		return
	}

	slog.Info("question deleted", "question_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if h.cfg.AdminKey == "" {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin API is disabled")
		return false
	}
	if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// checkLookup maps a store error to a response; true means carry on
func (h *AdminHandler) checkLookup(w http.ResponseWriter, id string, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, models.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return false
	}
	slog.Error("question lookup failed", "question_id", id, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	return false
}
