// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for KU Polls.

# Handler Types

Each handler is a struct holding the store, a renderer and the config:

  - PollsHandler: Listing, voting form, vote submission, results
  - AccountHandler: Login, logout, signup
  - AdminHandler: JSON question management behind X-Admin-Key

# Question States

A question is not yet published before its pub_date, open until its
end_date (or forever without one), and closed afterwards. Only open
questions accept votes. Unpublished questions look missing to visitors.

# Voting Flow

	POST /polls/{id}/vote/ → Vote

Anonymous visitors are sent to the login page with the vote path in next.
A user holds at most one vote per question; voting again moves it to the
new choice. Rejections redirect to the poll list with a flash message,
except a missing or foreign choice, which re-renders the form.
*/
package handlers
