// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package render executes the embedded HTML templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

//go:embed templates
var templateFS embed.FS

const baseTemplate = "templates/base.html"

// Renderer writes a named page with its context
type Renderer interface {
	Render(w io.Writer, status int, name string, data map[string]any) error
}

// HTMLRenderer executes embedded html/template pages over a shared layout
type HTMLRenderer struct {
	pages map[string]*template.Template
}

// Funcs are available to every page
var Funcs = template.FuncMap{
	"naturaltime": naturalTime,
	"intcomma":    intComma,
	"percent":     percent,
	"pluralize":   pluralize,
}

// NewHTMLRenderer parses every page under templates/ against the base layout.
// Pages are keyed by their path relative to templates/, e.g. "polls/detail.html".
func NewHTMLRenderer() (*HTMLRenderer, error) {
	r := &HTMLRenderer{pages: make(map[string]*template.Template)}

	err := fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == baseTemplate || !strings.HasSuffix(path, ".html") {
			return nil
		}

		t, err := template.New("base.html").Funcs(Funcs).ParseFS(templateFS, baseTemplate, path)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		r.pages[strings.TrimPrefix(path, "templates/")] = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written response
func (r *HTMLRenderer) Render(w io.Writer, status int, name string, data map[string]any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	if rw, ok := w.(http.ResponseWriter); ok {
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		rw.WriteHeader(status)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Pages lists the parsed page names
func (r *HTMLRenderer) Pages() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	return names
}

func naturalTime(t time.Time) string {
	return humanize.Time(t)
}

func intComma(n int) string {
	return humanize.Comma(int64(n))
}

func percent(part, total int) string {
	if total == 0 {
		return "0"
	}
	return humanize.FtoaWithDigits(float64(part)*100/float64(total), 1)
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
