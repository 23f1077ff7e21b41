package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/services/orderform"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
)

// OrderStore is the Order Repository as the service needs it.
type OrderStore interface {
	List(ctx context.Context) ([]models.SaleOrder, error)
	ListByPaid(ctx context.Context, paid bool) ([]models.SaleOrder, error)
	Get(ctx context.Context, id models.ID) (models.SaleOrder, error)
	Create(ctx context.Context, order models.SaleOrder) (models.SaleOrder, error)
	Update(ctx context.Context, order models.SaleOrder) (models.SaleOrder, error)
}

// Catalog is the Product Catalog.
type Catalog interface {
	List(ctx context.Context) ([]models.Product, error)
}

type OrderService struct {
	orders  OrderStore
	catalog Catalog
	now     func() time.Time
}

func NewOrderService(orders OrderStore, catalog Catalog) *OrderService {
	return &OrderService{
		orders:  orders,
		catalog: catalog,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the timestamp source. Used by tests.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// ─── Reads ────────────────────────────────────────────────────────────────────

func (s *OrderService) Catalog(ctx context.Context) ([]models.Product, error) {
	return s.catalog.List(ctx)
}

// List returns the orders in status, or every order when status is empty.
func (s *OrderService) List(ctx context.Context, status models.Status) ([]models.SaleOrder, error) {
	switch status {
	case "":
		return s.orders.List(ctx)
	case models.StatusActive:
		return s.orders.ListByPaid(ctx, false)
	case models.StatusCompleted:
		return s.orders.ListByPaid(ctx, true)
	}
	return nil, &ValidationError{Fields: map[string]string{"status": fmt.Sprintf("Unknown status %q", status)}}
}

// Home returns both tabs of the order list from a single backend call.
func (s *OrderService) Home(ctx context.Context) (active, completed []models.SaleOrder, err error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	active, completed = models.Partition(orders)
	return active, completed, nil
}

func (s *OrderService) Get(ctx context.Context, id models.ID) (models.SaleOrder, error) {
	return s.orders.Get(ctx, id)
}

// Select loads the catalog and derives fresh line items for the chosen
// products. Unknown product ids are a validation failure.
func (s *OrderService) Select(ctx context.Context, ids []models.ID) ([]models.LineItemDraft, error) {
	catalog, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	selected, unknown := orderform.Select(catalog, ids)
	if len(unknown) > 0 {
		return nil, &ValidationError{Fields: map[string]string{
			"product_ids": fmt.Sprintf("Unknown product %s", unknown[0]),
		}}
	}
	return orderform.Derive(selected), nil
}

// LoadForEdit fetches the order and the catalog concurrently and returns the
// order as a draft with catalog metadata re-attached. If either call fails
// the other is cancelled.
func (s *OrderService) LoadForEdit(ctx context.Context, id models.ID) (models.Draft, []models.Product, error) {
	var (
		order   models.SaleOrder
		catalog []models.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order, err = s.orders.Get(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = s.catalog.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Draft{}, nil, err
	}

	d := models.DraftFromOrder(order)
	d.Items = orderform.Rehydrate(d.Items, catalog)
	return d, catalog, nil
}

// ─── Submit ───────────────────────────────────────────────────────────────────

// Prepare re-reads the catalog, replaces the inventory snapshot and catalog
// state of every line with the current values, then validates the draft.
// Snapshots posted by the client are never trusted. No order is written.
func (s *OrderService) Prepare(ctx context.Context, d models.Draft) (models.Draft, error) {
	if len(d.Items) > 0 {
		catalog, err := s.catalog.List(ctx)
		if err != nil {
			return d, err
		}
		d.Items = orderform.Rehydrate(d.Items, catalog)
	}
	if errs := orderform.Validate(d); len(errs) > 0 {
		return d, &ValidationError{Fields: errs}
	}
	return d, nil
}

// Create validates d and posts it as a new, unpaid order.
func (s *OrderService) Create(ctx context.Context, d models.Draft) (models.SaleOrder, error) {
	d, err := s.Prepare(ctx, d)
	if err != nil {
		record(ctx, "create", err)
		return models.SaleOrder{}, err
	}

	order := d.Order()
	now := s.now()
	order.ID = ""
	order.Paid = false
	order.AddingDate = now
	order.UpdatedOn = now

	created, err := s.orders.Create(ctx, order)
	record(ctx, "create", err)
	if err != nil {
		return models.SaleOrder{}, err
	}
	logger.WithCtx(ctx).Info("sale order created", "order_id", created.ID, "items", len(created.Items))
	return created, nil
}

// Update validates d and replaces the stored order. When d carries the
// version it was loaded at and the stored order has moved on, ErrConflict
// is returned and nothing is written.
func (s *OrderService) Update(ctx context.Context, d models.Draft) (models.SaleOrder, error) {
	if d.ID.IsZero() {
		record(ctx, "update", ErrNotFound)
		return models.SaleOrder{}, ErrNotFound
	}

	d, err := s.Prepare(ctx, d)
	if err != nil {
		record(ctx, "update", err)
		return models.SaleOrder{}, err
	}

	current, err := s.orders.Get(ctx, d.ID)
	if err != nil {
		record(ctx, "update", err)
		return models.SaleOrder{}, err
	}
	if version, ok := d.UpdatedOn.Get(); ok && !version.Equal(current.UpdatedOn) {
		record(ctx, "update", ErrConflict)
		return models.SaleOrder{}, ErrConflict
	}

	order := d.Order()
	order.ID = current.ID
	order.Paid = current.Paid
	order.AddingDate = current.AddingDate
	order.UpdatedOn = s.now()

	updated, err := s.orders.Update(ctx, order)
	record(ctx, "update", err)
	if err != nil {
		return models.SaleOrder{}, err
	}
	logger.WithCtx(ctx).Info("sale order updated", "order_id", updated.ID, "items", len(updated.Items))
	return updated, nil
}

func record(ctx context.Context, operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		outcome = "invalid"
	case errors.Is(err, ErrConflict):
		outcome = "conflict"
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
		logger.WithCtx(ctx).Error("sale order submit failed", "operation", operation, "error", err)
	}
	metrics.RecordSubmission(operation, outcome)
}
