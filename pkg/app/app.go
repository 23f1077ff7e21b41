// Package app wires orderdesk together: backend client, catalog cache,
// token store, services, guards, controllers, background jobs and the HTTP
// kernel.
//
//	a, err := app.New(app.DefaultOptions())
//	if err != nil { ... }
//	err = a.Serve(ctx, ":"+config.AppPort())
//
// Tests build one against a fake backend:
//
//	a, _ := app.New(app.Options{BackendURL: be.URL, Tokens: store.Factory()})
//	h := a.Handler()
package app

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/orderdesk/app/controllers"
	"github.com/shashiranjanraj/orderdesk/app/guards"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/app/routes"
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/config"
	"github.com/shashiranjanraj/orderdesk/pkg/cache"
	"github.com/shashiranjanraj/orderdesk/pkg/crypt"
	"github.com/shashiranjanraj/orderdesk/pkg/httpclient"
	"github.com/shashiranjanraj/orderdesk/pkg/middleware"
	"github.com/shashiranjanraj/orderdesk/pkg/schedule"
	"github.com/shashiranjanraj/orderdesk/pkg/tokenstore"
	"github.com/shashiranjanraj/orderdesk/pkg/view"
)

// Options are the knobs New needs. DefaultOptions fills them from config.
type Options struct {
	BackendURL     string
	BackendTimeout time.Duration
	BackendRetries int
	Cache          cache.Store        // nil: selected by CACHE_DRIVER
	CatalogTTL     time.Duration      // zero: catalog is not cached
	Tokens         tokenstore.Factory // nil: selected by TOKEN_STORE
	RateLimit      int                // requests per client per minute, zero: unlimited
}

func DefaultOptions() Options {
	return Options{
		BackendURL:     config.BackendURL(),
		BackendTimeout: config.BackendTimeout(),
		BackendRetries: 2,
		CatalogTTL:     config.CatalogCacheTTL(),
		RateLimit:      config.RateLimit(),
	}
}

// Application holds every long-lived component.
type Application struct {
	Client  *httpclient.Client
	Cache   cache.Store
	Tokens  tokenstore.Factory
	View    *view.View
	Limiter *middleware.Limiter
	Jobs    *schedule.Scheduler

	Orders   *services.OrderService
	Auth     *services.AuthService
	Products *repositories.ProductRepository

	handlers routes.Handlers
}

func New(opts Options) (*Application, error) {
	a := &Application{Cache: opts.Cache, Tokens: opts.Tokens}

	if a.Cache == nil {
		store, err := cache.New()
		if err != nil {
			return nil, fmt.Errorf("app: cache: %w", err)
		}
		a.Cache = store
	}
	if a.Tokens == nil {
		box, err := crypt.Default("orderdesk/token-cookie")
		if err != nil {
			return nil, fmt.Errorf("app: token store: %w", err)
		}
		a.Tokens = tokenstore.New(box)
	}

	v, err := view.New()
	if err != nil {
		return nil, err
	}
	a.View = v

	retries := opts.BackendRetries
	if retries < 1 {
		retries = 1
	}
	a.Client = httpclient.New(opts.BackendURL,
		httpclient.WithTimeout(opts.BackendTimeout),
		httpclient.WithRetry(retries, 200*time.Millisecond),
	)

	orders := repositories.NewOrderRepository(a.Client)
	a.Products = repositories.NewProductRepository(a.Client, a.Cache, opts.CatalogTTL)
	users := repositories.NewUserRepository(a.Client)

	a.Orders = services.NewOrderService(orders, a.Products)
	a.Auth = services.NewAuthService(users)

	if opts.RateLimit > 0 {
		a.Limiter = middleware.NewLimiter(opts.RateLimit, 10*time.Minute)
	}
	a.registerJobs(opts.CatalogTTL)

	unavailable := controllers.Unavailable(a.View)
	a.handlers = routes.Handlers{
		Auth:     controllers.NewAuthController(a.Auth, a.Tokens, a.View),
		Orders:   controllers.NewOrderController(a.Orders, a.View),
		Products: controllers.NewProductController(a.Orders),
		AuthG:    guards.Auth(a.Auth, a.Tokens).OnUnavailable(unavailable),
		UnAuthG:  guards.UnAuth(a.Auth, a.Tokens).OnUnavailable(unavailable),
	}
	return a, nil
}
