// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Sessions

Session resolves the "sessionid" cookie (an HS256 token issued by the auth
package) into the current user:

	server := http.Server{
		Handler: middleware.Session(st, cfg.SessionSecret)(mux),
	}

	user, ok := middleware.CurrentUser(r)

RequireLogin sends anonymous users to the login page with the original path
in next:

	mux.HandleFunc("POST /polls/{id}/vote/{$}",
		middleware.RequireLogin(cfg.LoginURL, h.Vote))

SafeNext accepts only local paths as redirect targets.

# Flash Messages

One-shot notices survive a redirect in the "messages" cookie:

	middleware.AddMessage(w, r, models.LevelDanger, "This poll does not exist.")
	msgs := middleware.PopMessages(w, r)

# CORS Middleware

Enable cross-origin requests for the JSON API:

	mux.Handle("/api/", middleware.CORS(api))

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Admin-Key.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Failed logins record a salted hash of it, never the raw address.
*/
package middleware
