package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/cache"
	"github.com/shashiranjanraj/orderdesk/pkg/httpclient"
)

const catalogKey = "orderdesk:catalog:products"

// ProductRepository reads the catalog from /products, cached for ttl.
type ProductRepository struct {
	http  *httpclient.Client
	store cache.Store
	ttl   time.Duration
}

// NewProductRepository caches in store; a zero ttl disables caching.
func NewProductRepository(c *httpclient.Client, store cache.Store, ttl time.Duration) *ProductRepository {
	return &ProductRepository{http: c, store: store, ttl: ttl}
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	if r.store == nil || r.ttl <= 0 {
		return r.fetch(ctx)
	}
	return cache.Remember(ctx, r.store, catalogKey, r.ttl, func() ([]models.Product, error) {
		return r.fetch(ctx)
	})
}

// Forget drops the cached catalog.
func (r *ProductRepository) Forget(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	return r.store.Del(ctx, catalogKey)
}

func (r *ProductRepository) fetch(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := send(r.http.Get("/products").WithContext(ctx), &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}
