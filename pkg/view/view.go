// Package view renders the server-side HTML pages from embedded
// html/template files. Every page shares layout.html, which draws the
// header, the Logout button and any flash messages left in the session.
//
//	v := view.MustNew()
//	v.Render(w, r, http.StatusOK, "home", view.Page{Title: "Sale Orders", LoggedIn: true, Data: rows})
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/session"
)

//go:embed templates/*.html
var files embed.FS

// Flash keys shared with the controllers.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Page is what every template receives.
type Page struct {
	Title    string
	LoggedIn bool
	Flashes  []Flash
	Data     interface{}
}

type Flash struct {
	Kind    string
	Message string
}

// View holds one parsed template set per page.
type View struct {
	pages map[string]*template.Template
}

// New parses layout.html together with each page template.
func New() (*View, error) {
	layout, err := files.ReadFile("templates/layout.html")
	if err != nil {
		return nil, err
	}

	entries, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	v := &View{pages: map[string]*template.Template{}}
	for _, path := range entries {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		if name == "layout" {
			continue
		}
		body, err := files.ReadFile(path)
		if err != nil {
			return nil, err
		}
		t, err := template.New("layout").Funcs(funcs).Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("view: layout: %w", err)
		}
		if _, err := t.Parse(string(body)); err != nil {
			return nil, fmt.Errorf("view: %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

func MustNew() *View {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response. Pending flashes are consumed and the session is
// saved before the status line goes out.
func (v *View) Render(w http.ResponseWriter, r *http.Request, status int, page string, data Page) {
	t, ok := v.pages[page]
	if !ok {
		logger.WithCtx(r.Context()).Error("view: unknown page", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sess := session.FromCtx(r)
	for _, kind := range []string{FlashSuccess, FlashError} {
		if msg, ok := sess.GetFlash(kind); ok {
			data.Flashes = append(data.Flashes, Flash{Kind: kind, Message: msg})
		}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.WithCtx(r.Context()).Error("view: render failed", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("view: session save failed", "error", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the generic error page.
func (v *View) Error(w http.ResponseWriter, r *http.Request, status int, message string, loggedIn bool) {
	v.Render(w, r, status, "error", Page{
		Title:    http.StatusText(status),
		LoggedIn: loggedIn,
		Data:     ErrorPage{Status: status, Message: message},
	})
}

type ErrorPage struct {
	Status  int
	Message string
}

// ─── Template funcs ───────────────────────────────────────────────────────────

var funcs = template.FuncMap{
	"money": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("02 Jan 2006, 15:04")
	},
	"field": func(errs map[string]string, key string) string { return errs[key] },
	"inc":   func(i int) int { return i + 1 },
}
