// Package session provides HTTP session management backed by a cache.Store
// (memory or Redis).
//
// Usage (middleware):
//
//	r.Use(session.Middleware(store, session.DefaultOptions()))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Flash("success", "Sale Order Created.")
//	_ = sess.Save(w)
//
//	msg, _ := session.FromCtx(r).GetFlash("success")
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/orderdesk/config"
	"github.com/shashiranjanraj/orderdesk/pkg/cache"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

// ------------------- Options -------------------

type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions reads SESSION_TTL and marks the cookie Secure in production.
func DefaultOptions() Options {
	return Options{
		CookieName: "orderdesk_session",
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.IsProduction(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// ------------------- Session -------------------

type ctxKey struct{}

// Session is an in-request session handle.
type Session struct {
	id      string
	data    map[string]interface{}
	opts    Options
	store   cache.Store
	ctx     context.Context
	changed bool
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func storeKey(id string) string { return "orderdesk:session:" + id }

func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString is a typed convenience getter.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.data[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.changed = true
}

// Flash stores a message that is removed by the next GetFlash.
func (s *Session) Flash(key, message string) {
	s.Set("_flash_"+key, message)
}

// GetFlash retrieves and removes a flash message.
func (s *Session) GetFlash(key string) (string, bool) {
	v, ok := s.GetString("_flash_" + key)
	if ok {
		s.Delete("_flash_" + key)
	}
	return v, ok
}

// Invalidate empties the session and rotates its ID (logout).
func (s *Session) Invalidate() {
	if s.store != nil {
		_ = s.store.Del(s.ctx, storeKey(s.id))
	}
	if id, err := newID(); err == nil {
		s.id = id
	}
	s.data = map[string]interface{}{}
	s.changed = true
}

func (s *Session) ID() string { return s.id }

// Save persists the session and writes the cookie. It is a no-op when nothing
// changed, so handlers may call it unconditionally before responding.
func (s *Session) Save(w http.ResponseWriter) error {
	if !s.changed || s.store == nil {
		return nil
	}

	if err := s.store.Set(s.ctx, storeKey(s.id), s.data, s.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    s.id,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.changed = false
	return nil
}

// ------------------- Middleware -------------------

// Middleware loads (or creates) the session for every request and injects it
// into the request context.
func Middleware(store cache.Store, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess := &Session{opts: opts, store: store, ctx: ctx, data: map[string]interface{}{}}

			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				sess.id = cookie.Value
				hit, err := store.Get(ctx, storeKey(sess.id), &sess.data)
				if err != nil {
					logger.WithCtx(ctx).Warn("session: load failed", "error", err)
				}
				if !hit || sess.data == nil {
					sess.data = map[string]interface{}{}
				}
			} else {
				sess.id, _ = newID()
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxKey{}, sess)))
		})
	}
}

// FromCtx retrieves the session from the request context.
// Returns an empty, unsaveable session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	id, _ := newID()
	return &Session{id: id, data: map[string]interface{}{}, opts: DefaultOptions(), ctx: r.Context()}
}
