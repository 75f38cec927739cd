// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/ku-polls/cliparse"
	"github.com/danielhkuo/ku-polls/handlers"
	"github.com/danielhkuo/ku-polls/middleware"
	"github.com/danielhkuo/ku-polls/render"
	"github.com/danielhkuo/ku-polls/store"
)

// NewRouter wires every route and wraps the mux in the session middleware
func NewRouter(st *store.Store, renderer render.Renderer, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	pollsHandler := handlers.NewPollsHandler(st, renderer, cfg)
	accountHandler := handlers.NewAccountHandler(st, renderer, cfg)
	adminHandler := handlers.NewAdminHandler(st, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root sends visitors to the poll list
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/polls/", http.StatusFound)
	})

	// Polls (HTML)
	mux.HandleFunc("GET /polls/{$}", middleware.WithLogging(pollsHandler.Index))
	mux.HandleFunc("GET /polls/{id}/{$}", middleware.WithLogging(pollsHandler.Detail))
	mux.HandleFunc("GET /polls/{id}/results/{$}", middleware.WithLogging(pollsHandler.Results))
	mux.HandleFunc("POST /polls/{id}/vote/{$}", middleware.WithLogging(middleware.RequireLogin(cfg.LoginURL, pollsHandler.Vote)))
	mux.HandleFunc("GET /polls/{id}/vote/{$}", middleware.WithLogging(pollsHandler.VoteRedirect))

	// Accounts
	mux.HandleFunc("GET /login/{$}", middleware.WithLogging(accountHandler.LoginForm))
	mux.HandleFunc("POST /login/{$}", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("POST /accounts/logout/{$}", middleware.WithLogging(accountHandler.Logout))
	mux.HandleFunc("GET /signup/{$}", middleware.WithLogging(accountHandler.SignupForm))
	mux.HandleFunc("POST /signup/{$}", middleware.WithLogging(accountHandler.Signup))

	// Public JSON API (cross-origin readable)
	results := middleware.CORS(middleware.WithLogging(pollsHandler.ResultsJSON))
	mux.Handle("GET /api/polls/{id}/results", results)
	mux.Handle("OPTIONS /api/polls/{id}/results", results)

	// Question management (requires X-Admin-Key)
	mux.HandleFunc("POST /admin/api/questions", middleware.WithLogging(adminHandler.CreateQuestion))
	mux.HandleFunc("GET /admin/api/questions/{id}", middleware.WithLogging(adminHandler.GetQuestion))
	mux.HandleFunc("POST /admin/api/questions/{id}/choices", middleware.WithLogging(adminHandler.AddChoice))
	mux.HandleFunc("PUT /admin/api/questions/{id}/dates", middleware.WithLogging(adminHandler.UpdateDates))
	mux.HandleFunc("DELETE /admin/api/questions/{id}", middleware.WithLogging(adminHandler.DeleteQuestion))

	return middleware.Session(st, cfg.SessionSecret)(mux)
}
