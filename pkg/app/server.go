package app

import (
	"context"
	"time"

	"github.com/shashiranjanraj/orderdesk/internal/server"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/schedule"
)

// Serve runs the background jobs and the HTTP server on addr until ctx is
// cancelled, then drains in-flight requests.
func (a *Application) Serve(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		a.Jobs.Start(ctx)
		close(done)
	}()

	err := server.Run(ctx, addr, a.Handler())
	cancel()
	<-done
	return err
}

// registerJobs schedules the periodic maintenance work.
func (a *Application) registerJobs(catalogTTL time.Duration) {
	a.Jobs = schedule.New()

	if a.Limiter != nil {
		a.Jobs.Every(time.Minute).Name("limiter:sweep").Run(func(context.Context) error {
			a.Limiter.Sweep(time.Now())
			return nil
		})
	}

	// Replaces the cached catalog once per TTL.
	if catalogTTL > 0 {
		a.Jobs.Every(catalogTTL).Name("catalog:refresh").WithoutOverlapping().Run(func(ctx context.Context) error {
			if err := a.Products.Forget(ctx); err != nil {
				return err
			}
			products, err := a.Products.List(ctx)
			if err != nil {
				return err
			}
			logger.Debug("catalog refreshed", "products", len(products))
			return nil
		})
	}
}
