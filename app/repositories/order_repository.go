package repositories

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/httpclient"
)

// OrderRepository talks to /sale-orders.
type OrderRepository struct {
	http *httpclient.Client
}

func NewOrderRepository(c *httpclient.Client) *OrderRepository {
	return &OrderRepository{http: c}
}

// List returns every sale order in backend order.
func (r *OrderRepository) List(ctx context.Context) ([]models.SaleOrder, error) {
	var orders []models.SaleOrder
	if err := send(r.http.Get("/sale-orders").WithContext(ctx), &orders); err != nil {
		return nil, fmt.Errorf("list sale orders: %w", err)
	}
	return orders, nil
}

// ListByPaid filters on the paid flag server side.
func (r *OrderRepository) ListByPaid(ctx context.Context, paid bool) ([]models.SaleOrder, error) {
	var orders []models.SaleOrder
	req := r.http.Get("/sale-orders").Query("paid", strconv.FormatBool(paid)).WithContext(ctx)
	if err := send(req, &orders); err != nil {
		return nil, fmt.Errorf("list sale orders (paid=%t): %w", paid, err)
	}
	return orders, nil
}

// Get fetches one order. An empty id is ErrNotFound without a backend call.
func (r *OrderRepository) Get(ctx context.Context, id models.ID) (models.SaleOrder, error) {
	if id.IsZero() {
		return models.SaleOrder{}, fmt.Errorf("get sale order: %w", ErrNotFound)
	}
	var order models.SaleOrder
	if err := send(r.http.Get(orderPath(id)).WithContext(ctx), &order); err != nil {
		return models.SaleOrder{}, fmt.Errorf("get sale order %s: %w", id, err)
	}
	return order, nil
}

// Create posts a new order and returns it with the id the backend assigned.
func (r *OrderRepository) Create(ctx context.Context, order models.SaleOrder) (models.SaleOrder, error) {
	order.ID = ""
	var created models.SaleOrder
	if err := send(r.http.Post("/sale-orders").Body(order).WithContext(ctx), &created); err != nil {
		return models.SaleOrder{}, fmt.Errorf("create sale order: %w", err)
	}
	return created, nil
}

// Update replaces an existing order. An order without an id is ErrNotFound.
func (r *OrderRepository) Update(ctx context.Context, order models.SaleOrder) (models.SaleOrder, error) {
	if order.ID.IsZero() {
		return models.SaleOrder{}, fmt.Errorf("update sale order: %w", ErrNotFound)
	}
	var updated models.SaleOrder
	if err := send(r.http.Put(orderPath(order.ID)).Body(order).WithContext(ctx), &updated); err != nil {
		return models.SaleOrder{}, fmt.Errorf("update sale order %s: %w", order.ID, err)
	}
	return updated, nil
}

func orderPath(id models.ID) string {
	return "/sale-orders/" + url.PathEscape(id.String())
}
