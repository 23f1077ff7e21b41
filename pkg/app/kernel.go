package app

import (
	"net/http"

	"github.com/shashiranjanraj/orderdesk/app/routes"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
	"github.com/shashiranjanraj/orderdesk/pkg/middleware"
	"github.com/shashiranjanraj/orderdesk/pkg/reqid"
	"github.com/shashiranjanraj/orderdesk/pkg/router"
	"github.com/shashiranjanraj/orderdesk/pkg/session"
)

// Router builds the route table with the global middleware stack.
//
// Global middleware (outermost → innermost):
//  1. Prometheus metrics  total latency, route pattern label
//  2. Request ID          before anything logs
//  3. Logger              request-scoped logger with request_id
//  4. Recovery            panics become 500s, logged with request_id
//  5. CORS                /api only
//  6. Rate limiter        per client IP
//  7. Session             flash messages and the session token store
func (a *Application) Router() *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS("/api", middleware.DefaultCORSOptions()))
	if a.Limiter != nil {
		r.Use(middleware.RateLimit(a.Limiter))
	}
	r.Use(session.Middleware(a.Cache, session.DefaultOptions()))

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	routes.RegisterWeb(r, a.handlers)
	routes.RegisterAPI(r, a.handlers)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		a.View.Error(w, req, http.StatusNotFound, "Page not found.", false)
	})
	return r
}

// Handler is Router().Handler().
func (a *Application) Handler() http.Handler {
	return a.Router().Handler()
}
