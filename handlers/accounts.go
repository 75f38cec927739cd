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
	"github.com/danielhkuo/ku-polls/render"
	"github.com/danielhkuo/ku-polls/store"
)

const (
	loginTemplate  = "registration/login.html"
	signupTemplate = "registration/signup.html"

	msgBadLogin         = "Please enter a correct username and password."
	msgPasswordMismatch = "The two password fields didn't match."
	msgUsernameTaken    = "A user with that username already exists."
	msgLoggedOut        = "You have been logged out."
)

type AccountHandler struct {
	store    *store.Store
	renderer render.Renderer
	cfg      cliparse.Config
	now      func() time.Time
}

func NewAccountHandler(st *store.Store, renderer render.Renderer, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{store: st, renderer: renderer, cfg: cfg, now: time.Now}
}

// LoginForm handles GET /login/
func (h *AccountHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	data := pageData(w, r, h.now())
	if next := middleware.SafeNext(r.URL.Query().Get("next"), ""); next != "" {
		data["next"] = next
	}
	h.render(w, http.StatusOK, loginTemplate, data)
}

// Login handles POST /login/
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := middleware.SafeNext(r.PostFormValue("next"), "")

	user, err := h.authenticate(r, username, password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		slog.Warn("failed login",
			"username", username,
			"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret),
		)
		data := pageData(w, r, now)
		data["error_message"] = msgBadLogin
		data["username"] = username
		if next != "" {
			data["next"] = next
		}
		h.render(w, http.StatusOK, loginTemplate, data)
		return
	}
	if err != nil {
		slog.Error("failed to authenticate", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if !h.startSession(w, user, now) {
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, middleware.SafeNext(next, h.cfg.LoginRedirectURL), http.StatusFound)
}

// Logout handles POST /accounts/logout/
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.CurrentUser(r); ok {
		slog.Info("user logged out", "user_id", user.ID)
		middleware.AddMessage(w, r, models.LevelInfo, msgLoggedOut)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, h.cfg.LogoutRedirectURL, http.StatusFound)
}

// SignupForm handles GET /signup/
func (h *AccountHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, signupTemplate, pageData(w, r, h.now()))
}

// Signup handles POST /signup/
// A new account is logged in straight away.
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password1")

	fail := func(msg string) {
		data := pageData(w, r, now)
		data["error_message"] = msg
		data["username"] = username
		h.render(w, http.StatusOK, signupTemplate, data)
	}

	if password != r.PostFormValue("password2") {
		fail(msgPasswordMismatch)
		return
	}
	if err := auth.ValidateCredentials(username, password); err != nil {
		fail(capitalize(err.Error()) + ".")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	user, err := h.store.CreateUser(r.Context(), username, hash)
	if errors.Is(err, models.ErrUsernameTaken) {
		fail(msgUsernameTaken)
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if !h.startSession(w, user, now) {
		return
	}

	slog.Info("user signed up", "user_id", user.ID, "username", user.Username)
	http.Redirect(w, r, h.cfg.LoginRedirectURL, http.StatusFound)
}

// authenticate returns models.ErrInvalidCredentials for an unknown user or a
// wrong password alike
func (h *AccountHandler) authenticate(r *http.Request, username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, models.ErrInvalidCredentials
	}

	user, err := h.store.UserByUsername(r.Context(), username)
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return models.User{}, models.ErrInvalidCredentials
	}
	return user, nil
}

func (h *AccountHandler) startSession(w http.ResponseWriter, user models.User, now time.Time) bool {
	token, err := auth.IssueSessionToken(user.ID, h.cfg.SessionSecret, h.cfg.SessionTTL, now)
	if err != nil {
		slog.Error("failed to issue session token", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	middleware.SetSessionCookie(w, token, h.cfg.SessionTTL)
	return true
}

func (h *AccountHandler) render(w http.ResponseWriter, status int, name string, data map[string]any) {
	if err := h.renderer.Render(w, status, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
