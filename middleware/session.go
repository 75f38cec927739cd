// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/ku-polls/auth"
	"github.com/danielhkuo/ku-polls/models"
)

// SessionCookieName holds the signed session token
const SessionCookieName = "sessionid"

type userKey struct{}

// UserLoader resolves a session's user ID into an account
type UserLoader interface {
	UserByID(ctx context.Context, id string) (models.User, error)
}

// Session resolves the session cookie into the current user. Requests with
// a missing, invalid or expired cookie continue as anonymous.
func Session(users UserLoader, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := auth.ParseSessionToken(c.Value, secret)
			if err != nil {
				ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.UserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					// Account deleted since login
					ClearSessionCookie(w)
				} else {
					slog.Error("failed to load session user", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, WithUser(r, user))
		})
	}
}

// WithUser returns a copy of r carrying user as the current user
func WithUser(r *http.Request, user models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey{}, user))
}

// CurrentUser returns the authenticated user, if any
func CurrentUser(r *http.Request) (models.User, bool) {
	user, ok := r.Context().Value(userKey{}).(models.User)
	return user, ok
}

// RequireLogin sends anonymous users to loginURL?next=<original request URI>
func RequireLogin(loginURL string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			slog.Info("login required", "path", r.URL.Path, "error", models.ErrAuthenticationRequired)
			http.Redirect(w, r, LoginRedirect(loginURL, r.URL.RequestURI()), http.StatusFound)
			return
		}
		next(w, r)
	}
}

// LoginRedirect builds loginURL?next=path, leaving slashes readable
func LoginRedirect(loginURL, next string) string {
	return loginURL + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// SafeNext returns next if it is a local absolute path, else fallback.
// Scheme-relative ("//host") and absolute URLs are rejected.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}

// SetSessionCookie stores a session token for ttl
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
