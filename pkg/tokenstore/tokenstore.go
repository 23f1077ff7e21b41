// Package tokenstore keeps the login token between requests. It is the
// server-side stand-in for browser storage: one Store per request, created
// by a Factory that is injected into the guards and controllers.
//
// Two backings are available, selected by TOKEN_STORE:
//
//	cookie   the token lives in an AES-GCM encrypted, persistent cookie
//	session  the token lives in the server-side session (cache.Store)
//
// Usage:
//
//	tokens := tokenstore.New(box)          // Factory
//	store := tokens(w, r)
//	if tok, ok := store.Get(); ok { ... }
//	store.Set(tok)
//	store.Clear()
package tokenstore

import (
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/orderdesk/config"
	"github.com/shashiranjanraj/orderdesk/pkg/crypt"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/session"
)

// Store is a get/set/clear handle on the current client's token.
type Store interface {
	Get() (string, bool)
	Set(token string)
	Clear()
}

// Factory binds a Store to one request/response pair.
type Factory func(w http.ResponseWriter, r *http.Request) Store

// New returns the Factory selected by config.TokenStore.
func New(box *crypt.Box) Factory {
	if config.TokenStore() == "session" {
		return Session()
	}
	return Cookie(box, DefaultCookieOptions())
}

// ─── Cookie ───────────────────────────────────────────────────────────────────

type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func DefaultCookieOptions() CookieOptions {
	return CookieOptions{
		Name:   "orderdesk_token",
		TTL:    config.TokenTTL(),
		Secure: config.IsProduction(),
	}
}

// Cookie stores the token encrypted with box. A cookie that fails
// authentication is reported as present with an empty token, which never
// validates, so the guards clear it.
func Cookie(box *crypt.Box, opts CookieOptions) Factory {
	return func(w http.ResponseWriter, r *http.Request) Store {
		return &cookieStore{w: w, r: r, box: box, opts: opts}
	}
}

type cookieStore struct {
	w    http.ResponseWriter
	r    *http.Request
	box  *crypt.Box
	opts CookieOptions

	// pending reflects a Set/Clear made earlier in the same request.
	pending *string
}

func (c *cookieStore) Get() (string, bool) {
	if c.pending != nil {
		return *c.pending, *c.pending != ""
	}

	cookie, err := c.r.Cookie(c.opts.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	tok, err := c.box.Decrypt(cookie.Value)
	if err != nil {
		logger.WithCtx(c.r.Context()).Warn("tokenstore: unreadable token cookie", "error", err)
		return "", true
	}
	return tok, true
}

func (c *cookieStore) Set(token string) {
	enc, err := c.box.Encrypt(token)
	if err != nil {
		logger.WithCtx(c.r.Context()).Error("tokenstore: encrypt token", "error", err)
		return
	}
	c.pending = &token
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.opts.Name,
		Value:    enc,
		Path:     "/",
		MaxAge:   int(c.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *cookieStore) Clear() {
	empty := ""
	c.pending = &empty
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.opts.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ─── Session ──────────────────────────────────────────────────────────────────

const sessionKey = "token"

// Session stores the token in the request's session. Requires
// session.Middleware upstream.
func Session() Factory {
	return func(w http.ResponseWriter, r *http.Request) Store {
		return &sessionStore{w: w, r: r}
	}
}

type sessionStore struct {
	w http.ResponseWriter
	r *http.Request
}

func (s *sessionStore) Get() (string, bool) {
	tok, ok := session.FromCtx(s.r).GetString(sessionKey)
	return tok, ok && tok != ""
}

func (s *sessionStore) Set(token string) {
	sess := session.FromCtx(s.r)
	sess.Set(sessionKey, token)
	s.save(sess)
}

func (s *sessionStore) Clear() {
	sess := session.FromCtx(s.r)
	sess.Delete(sessionKey)
	s.save(sess)
}

func (s *sessionStore) save(sess *session.Session) {
	if err := sess.Save(s.w); err != nil {
		logger.WithCtx(s.r.Context()).Error("tokenstore: save session", "error", err)
	}
}

// ─── Memory ───────────────────────────────────────────────────────────────────

// Memory is a process-wide single-token Store, handy for tests and the CLI.
type Memory struct {
	mu  sync.Mutex
	tok string
	set bool
}

func NewMemory(token string) *Memory {
	return &Memory{tok: token, set: token != ""}
}

func (m *Memory) Get() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok, m.set
}

func (m *Memory) Set(token string) {
	m.mu.Lock()
	m.tok, m.set = token, true
	m.mu.Unlock()
}

func (m *Memory) Clear() {
	m.mu.Lock()
	m.tok, m.set = "", false
	m.mu.Unlock()
}

// Factory returns a Factory that always hands out m.
func (m *Memory) Factory() Factory {
	return func(http.ResponseWriter, *http.Request) Store { return m }
}
