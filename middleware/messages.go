// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
)

// MessagesCookieName carries flash notices across a redirect
const MessagesCookieName = "messages"

// Message is a one-shot notice shown on the next rendered page
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// AddMessage queues a notice for the next page. Notices already pending on
// the request are kept.
func AddMessage(w http.ResponseWriter, r *http.Request, level, text string) {
	msgs := append(readMessages(r), Message{Level: level, Text: text})

	raw, err := json.Marshal(msgs)
	if err != nil {
		slog.Error("failed to encode messages", "error", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     MessagesCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopMessages returns pending notices and clears them
func PopMessages(w http.ResponseWriter, r *http.Request) []Message {
	msgs := readMessages(r)
	if len(msgs) == 0 {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     MessagesCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return msgs
}

func readMessages(r *http.Request) []Message {
	c, err := r.Cookie(MessagesCookieName)
	if err != nil || c.Value == "" {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}

	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}
