// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for KU Polls.

# Route Registration

NewRouter returns the mux wrapped in the session middleware, so every
handler can read the current user:

	h := router.NewRouter(store.New(conn), renderer, cfg)

# Endpoints

Health:

	GET /health

Pages:

	GET  /                      - Redirect to /polls/
	GET  /polls/                - Latest published questions
	GET  /polls/{id}/           - Voting form
	GET  /polls/{id}/results/   - Results
	POST /polls/{id}/vote/      - Cast or change a vote (login required)
	GET  /polls/{id}/vote/      - Redirect to the voting form

Accounts:

	GET|POST /login/
	POST     /accounts/logout/
	GET|POST /signup/

Public API (CORS enabled):

	GET /api/polls/{id}/results

Question management (requires X-Admin-Key):

	POST   /admin/api/questions
	GET    /admin/api/questions/{id}
	POST   /admin/api/questions/{id}/choices
	PUT    /admin/api/questions/{id}/dates
	DELETE /admin/api/questions/{id}
*/
package router
