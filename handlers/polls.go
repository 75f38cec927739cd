// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ku-polls/cliparse"
	"github.com/danielhkuo/ku-polls/middleware"
	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/render"
	"github.com/danielhkuo/ku-polls/store"
)

// LatestLimit is how many questions the index lists
const LatestLimit = 5

// User-visible notices
const (
	msgPollMissing   = "This poll does not exist."
	msgVotingClosed  = "Voting on this poll is not allowed."
	msgInvalidChoice = "You didn't select a valid choice."
	msgVoteRecorded  = "Your vote for %s has been recorded."
)

const (
	indexPath       = "/polls/"
	indexTemplate   = "polls/index.html"
	detailTemplate  = "polls/detail.html"
	resultsTemplate = "polls/results.html"
)

type PollsHandler struct {
	store    *store.Store
	renderer render.Renderer
	cfg      cliparse.Config
	now      func() time.Time
}

func NewPollsHandler(st *store.Store, renderer render.Renderer, cfg cliparse.Config) *PollsHandler {
	return &PollsHandler{store: st, renderer: renderer, cfg: cfg, now: time.Now}
}

// Index handles GET /polls/
// Lists the newest published questions, closed ones included
func (h *PollsHandler) Index(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	questions, err := h.store.ListPublished(r.Context(), now, LatestLimit)
	if err != nil {
		slog.Error("failed to list questions", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	latest := make([]models.QuestionWithChoices, 0, len(questions))
	for _, q := range questions {
		latest = append(latest, models.QuestionWithChoices{Question: q, State: q.State(now)})
	}

	data := pageData(w, r, now)
	data["latest_question_list"] = latest
	h.render(w, http.StatusOK, indexTemplate, data)
}

// Detail handles GET /polls/{id}/
func (h *PollsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	q, ok := h.votableQuestion(w, r, r.PathValue("id"), now)
	if !ok {
		return
	}

	data := pageData(w, r, now)
	if next := middleware.SafeNext(r.URL.Query().Get("next"), ""); next != "" {
		data["next"] = next
	}
	if err := h.renderDetail(w, r, q, data, http.StatusOK); err != nil {
		slog.Error("failed to load question detail", "question_id", q.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Vote handles POST /polls/{id}/vote/
// Anonymous users never get here; the route is wrapped in RequireLogin.
func (h *PollsHandler) Vote(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	user, ok := middleware.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, middleware.LoginRedirect(h.cfg.LoginURL, r.URL.RequestURI()), http.StatusFound)
		return
	}

	q, ok := h.votableQuestion(w, r, r.PathValue("id"), now)
	if !ok {
		return
	}

	choiceID := r.PostFormValue("choice")
	if choiceID == "" {
		h.rejectChoice(w, r, q, now)
		return
	}

	choice, err := h.store.ChoiceForQuestion(r.Context(), q.ID, choiceID)
	if errors.Is(err, models.ErrNotFound) {
		h.rejectChoice(w, r, q, now)
		return
	}
	if err != nil {
		slog.Error("failed to query choice", "question_id", q.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	vote, created, err := h.store.UpsertVote(r.Context(), user.ID, q.ID, choice.ID, now)
	if errors.Is(err, models.ErrInvalidChoice) {
		h.rejectChoice(w, r, q, now)
		return
	}
	if err != nil {
		slog.Error("failed to record vote", "question_id", q.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slog.Info("vote recorded",
		"vote_id", vote.ID,
		"question_id", q.ID,
		"choice_id", choice.ID,
		"user_id", user.ID,
		"created", created,
	)

	middleware.AddMessage(w, r, models.LevelInfo, fmt.Sprintf(msgVoteRecorded, choice.Text))
	http.Redirect(w, r, middleware.SafeNext(r.PostFormValue("next"), resultsPath(q.ID)), http.StatusFound)
}

// VoteRedirect handles GET /polls/{id}/vote/
// Reached after a login round-trip; the vote form lives on the detail page.
func (h *PollsHandler) VoteRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, detailPath(r.PathValue("id")), http.StatusFound)
}

// votableQuestion loads a question that is open for voting right now.
// Missing and unpublished questions are reported identically; on failure the
// response has already been written.
func (h *PollsHandler) votableQuestion(w http.ResponseWriter, r *http.Request, id string, now time.Time) (models.Question, bool) {
	q, ok := h.publishedQuestion(w, r, id, now)
	if !ok {
		return models.Question{}, false
	}

	if !q.CanVote(now) {
		slog.Info("question not open for voting", "question_id", id, "error", models.ErrNotEligible)
		middleware.AddMessage(w, r, models.LevelDanger, msgVotingClosed)
		http.Redirect(w, r, indexPath, http.StatusFound)
		return models.Question{}, false
	}

	return q, true
}

// publishedQuestion loads a question whose pub_date has passed
func (h *PollsHandler) publishedQuestion(w http.ResponseWriter, r *http.Request, id string, now time.Time) (models.Question, bool) {
	q, err := h.store.GetQuestion(r.Context(), id)
	if err == nil && !q.IsPublished(now) {
		err = models.ErrNotFound
	}
	if errors.Is(err, models.ErrNotFound) {
		middleware.AddMessage(w, r, models.LevelDanger, msgPollMissing)
		http.Redirect(w, r, indexPath, http.StatusFound)
		return models.Question{}, false
	}
	if err != nil {
		slog.Error("failed to query question", "question_id", id, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return models.Question{}, false
	}
	return q, true
}

// rejectChoice re-renders the form with an inline notice; nothing is written
func (h *PollsHandler) rejectChoice(w http.ResponseWriter, r *http.Request, q models.Question, now time.Time) {
	slog.Info("invalid choice submitted", "question_id", q.ID, "error", models.ErrInvalidChoice)

	data := pageData(w, r, now)
	data["error_message"] = msgInvalidChoice
	if next := middleware.SafeNext(r.PostFormValue("next"), ""); next != "" {
		data["next"] = next
	}
	if err := h.renderDetail(w, r, q, data, http.StatusOK); err != nil {
		slog.Error("failed to load question detail", "question_id", q.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *PollsHandler) renderDetail(w http.ResponseWriter, r *http.Request, q models.Question, data map[string]any, status int) error {
	choices, err := h.store.Choices(r.Context(), q.ID)
	if err != nil {
		return err
	}

	selected, err := h.userChoice(r, q.ID, choices)
	if err != nil {
		return err
	}

	data["question"] = q
	data["choices"] = choices
	data["selected_choice"] = selected
	h.render(w, status, detailTemplate, data)
	return nil
}

// userChoice returns the current user's chosen choice, or nil when anonymous
// or not yet voted
func (h *PollsHandler) userChoice(r *http.Request, questionID string, choices []models.Choice) (*models.Choice, error) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		return nil, nil
	}

	vote, err := h.store.VoteFor(r.Context(), user.ID, questionID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for i := range choices {
		if choices[i].ID == vote.ChoiceID {
			return &choices[i], nil
		}
	}
	return nil, nil
}

func (h *PollsHandler) render(w http.ResponseWriter, status int, name string, data map[string]any) {
	if err := h.renderer.Render(w, status, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// pageData seeds a template context with what every page shows
func pageData(w http.ResponseWriter, r *http.Request, now time.Time) map[string]any {
	data := map[string]any{
		"now":      now,
		"messages": middleware.PopMessages(w, r),
	}
	if user, ok := middleware.CurrentUser(r); ok {
		data["user"] = &user
	}
	return data
}

func detailPath(id string) string {
	return indexPath + id + "/"
}

func resultsPath(id string) string {
	return indexPath + id + "/results/"
}
