// Package guards gates pages on the login token.
//
// Each request runs a tiny state machine (qmuntal/stateless) that starts in
// checking and fires exactly one trigger derived from the token check.
//
//	AuthGuard    private pages: only a valid token reaches the handler
//	UnAuthGuard  the login pages: a valid token is sent on to /home
//
// Usage:
//
//	auth := guards.Auth(authService, tokens)
//	r.Get("/home", "home", orders.Home, auth.Middleware)
package guards

import (
	"context"
	"errors"
	"net/http"

	"github.com/qmuntal/stateless"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
	"github.com/shashiranjanraj/orderdesk/pkg/tokenstore"
)

type State string

const (
	Checking State = "checking"
	Granted  State = "granted"
	Denied   State = "denied"
)

type trigger string

const (
	noToken      trigger = "no_token"
	tokenValid   trigger = "token_valid"
	tokenInvalid trigger = "token_invalid"
	malformed    trigger = "token_malformed"
	checkFailed  trigger = "check_failed"
)

const (
	LoginPath = "/"
	HomePath  = "/home"
)

// Validator resolves a token to its user.
type Validator interface {
	Validate(ctx context.Context, token string) (models.User, error)
}

// Decision is where the machine ended up and what the middleware must do.
type Decision struct {
	State      State
	Redirect   string // empty: serve the page
	ClearToken bool
	User       models.User
	Err        error
}

type rule struct {
	to       State
	redirect string
	clear    bool
}

// Guard is an AuthGuard or UnAuthGuard bound to its token store.
type Guard struct {
	name        string
	rules       map[trigger]rule
	validator   Validator
	tokens      tokenstore.Factory
	unavailable http.Handler
}

// Auth builds the AuthGuard.
func Auth(v Validator, tokens tokenstore.Factory) *Guard {
	return &Guard{
		name: "auth",
		rules: map[trigger]rule{
			tokenValid:   {to: Granted},
			noToken:      {to: Denied, redirect: LoginPath},
			tokenInvalid: {to: Denied, redirect: LoginPath},
			malformed:    {to: Denied, redirect: LoginPath},
			checkFailed:  {to: Denied, redirect: LoginPath},
		},
		validator:   v,
		tokens:      tokens,
		unavailable: http.HandlerFunc(backendUnavailable),
	}
}

// UnAuth builds the UnAuthGuard. Granted here means the public page renders.
func UnAuth(v Validator, tokens tokenstore.Factory) *Guard {
	return &Guard{
		name: "unauth",
		rules: map[trigger]rule{
			noToken:      {to: Granted},
			tokenInvalid: {to: Granted, clear: true},
			tokenValid:   {to: Denied, redirect: HomePath},
			malformed:    {to: Denied, redirect: LoginPath, clear: true},
			checkFailed:  {to: Denied, redirect: LoginPath},
		},
		validator:   v,
		tokens:      tokens,
		unavailable: http.HandlerFunc(backendUnavailable),
	}
}

// OnUnavailable sets the page served when the token cannot be checked and
// the redirect target is the current page.
func (g *Guard) OnUnavailable(h http.Handler) *Guard {
	g.unavailable = h
	return g
}

func (g *Guard) Name() string { return g.name }

// Decide checks the token in store and runs the machine to a final state.
func (g *Guard) Decide(ctx context.Context, store tokenstore.Store) Decision {
	d := Decision{State: Checking}

	trig := noToken
	if token, ok := store.Get(); ok {
		user, err := g.validator.Validate(ctx, token)
		d.User, d.Err = user, err
		trig = classify(err)
	}

	sm := g.machine(&d)
	if err := sm.FireCtx(ctx, trig); err != nil {
		// every trigger has a rule; a miss is treated as denied
		d.State, d.Redirect, d.Err = Denied, LoginPath, err
		return d
	}
	d.State = sm.MustState().(State)
	return d
}

func (g *Guard) machine(d *Decision) *stateless.StateMachine {
	sm := stateless.NewStateMachine(Checking)
	checking := sm.Configure(Checking)
	for trig, r := range g.rules {
		r := r
		checking.Permit(trig, r.to)
		sm.Configure(r.to).OnEntryFrom(trig, func(_ context.Context, _ ...any) error {
			d.Redirect, d.ClearToken = r.redirect, r.clear
			return nil
		})
	}
	return sm
}

func classify(err error) trigger {
	switch {
	case err == nil:
		return tokenValid
	case errors.Is(err, services.ErrAuth):
		return tokenInvalid
	case errors.Is(err, services.ErrMalformedToken):
		return malformed
	default:
		return checkFailed
	}
}

// Middleware applies the decision. The wrapped handler only runs on
// Granted; a redirect back to the current path is replaced by the
// unavailable page so the browser does not loop.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := g.tokens(w, r)
		d := g.Decide(r.Context(), store)
		metrics.RecordGuard(g.name, string(d.State))

		log := logger.WithCtx(r.Context())
		if d.Err != nil && !errors.Is(d.Err, services.ErrAuth) {
			log.Warn("guard: token check failed", "guard", g.name, "path", r.URL.Path, "error", d.Err)
		}

		if d.ClearToken {
			store.Clear()
		}
		if d.Redirect != "" {
			if d.Redirect == r.URL.Path && !d.ClearToken {
				g.unavailable.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, d.Redirect, http.StatusFound)
			return
		}

		ctx := r.Context()
		if d.State == Granted && d.User != (models.User{}) {
			ctx = WithUser(ctx, d.User)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func backendUnavailable(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "The order service is temporarily unavailable. Please try again.", http.StatusServiceUnavailable)
}

// ─── Context ──────────────────────────────────────────────────────────────────

type ctxKey struct{}

func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromCtx returns the user AuthGuard let through.
func UserFromCtx(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(models.User)
	return u, ok
}
