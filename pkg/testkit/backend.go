// Package testkit provides the fakes and helpers shared by orderdesk tests.
//
// Backend is an in-memory stand-in for the json-server REST backend, served
// over httptest so the real httpclient and repositories are exercised:
//
//	be := testkit.NewBackend(t)
//	be.FailWith("products", http.StatusInternalServerError)
//	orders := repositories.NewOrderRepository(be.Client())
package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/httpclient"
)

// Seed users and catalog used across test packages.
var (
	DefaultUser = models.User{ID: "1", Name: "Clerk", Email: "clerk@example.com", Password: "secret"}

	DefaultCatalog = []models.Product{
		{ID: "1", Name: "Rice", SKUs: []models.SKU{
			{ID: "10", QuantityInInventory: 5, SellingPrice: 100, Unit: "kg", Amount: 1, MaxRetailPrice: 120},
			{ID: "11", QuantityInInventory: 2, SellingPrice: 450, Unit: "kg", Amount: 5, MaxRetailPrice: 500},
		}},
		{ID: "2", Name: "Sugar", SKUs: []models.SKU{
			{ID: "20", QuantityInInventory: 8, SellingPrice: 45, Unit: "g", Amount: 500, MaxRetailPrice: 50},
		}},
	}
)

// Backend fakes /products, /users and /sale-orders.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	products []models.Product
	users    []models.User
	orders   []models.SaleOrder
	nextID   int
	failures map[string]int
	delay    map[string]time.Duration
	calls    map[string]int
}

// NewBackend starts a fake seeded with DefaultUser and DefaultCatalog. It is
// closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		products: append([]models.Product(nil), DefaultCatalog...),
		users:    []models.User{DefaultUser},
		nextID:   1,
		failures: map[string]int{},
		delay:    map[string]time.Duration{},
		calls:    map[string]int{},
	}

	r := chi.NewRouter()
	r.Use(b.intercept)
	r.Get("/products", b.listProducts)
	r.Get("/users", b.findUsers)
	r.Get("/sale-orders", b.listOrders)
	r.Post("/sale-orders", b.createOrder)
	r.Get("/sale-orders/{id}", b.getOrder)
	r.Put("/sale-orders/{id}", b.updateOrder)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Close)
	return b
}

// Client returns an httpclient pointed at the fake with no retries.
func (b *Backend) Client(opts ...httpclient.Option) *httpclient.Client {
	opts = append([]httpclient.Option{httpclient.WithRetry(1, 0), httpclient.WithTimeout(2 * time.Second)}, opts...)
	return httpclient.New(b.URL, opts...)
}

// ─── Controls ─────────────────────────────────────────────────────────────────

// FailWith makes every call to resource ("products", "users",
// "sale-orders") answer status. Zero restores normal behaviour.
func (b *Backend) FailWith(resource string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, resource)
		return
	}
	b.failures[resource] = status
}

// Delay holds every call to resource for d before answering.
func (b *Backend) Delay(resource string, d time.Duration) {
	b.mu.Lock()
	b.delay[resource] = d
	b.mu.Unlock()
}

// Calls reports how many requests resource has received.
func (b *Backend) Calls(resource string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[resource]
}

func (b *Backend) SetProducts(p []models.Product) {
	b.mu.Lock()
	b.products = p
	b.mu.Unlock()
}

// SeedOrder stores o as is; an empty ID gets the next free one.
func (b *Backend) SeedOrder(o models.SaleOrder) models.SaleOrder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if o.ID == "" {
		o.ID = b.allocID()
	}
	b.orders = append(b.orders, o)
	return o
}

// Order returns the stored order with id.
func (b *Backend) Order(id models.ID) (models.SaleOrder, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.SaleOrder{}, false
}

func (b *Backend) Orders() []models.SaleOrder {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.SaleOrder(nil), b.orders...)
}

func (b *Backend) allocID() models.ID {
	id := strconv.Itoa(b.nextID)
	b.nextID++
	return models.ID(id)
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

func (b *Backend) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resource := strings.SplitN(strings.Trim(r.URL.Path, "/"), "/", 2)[0]

		b.mu.Lock()
		b.calls[resource]++
		status := b.failures[resource]
		d := b.delay[resource]
		b.mu.Unlock()

		if d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			http.Error(w, fmt.Sprintf(`{"error":"injected %d"}`, status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) listProducts(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.products)
}

func (b *Backend) findUsers(w http.ResponseWriter, r *http.Request) {
	email, password := r.URL.Query().Get("email"), r.URL.Query().Get("password")

	b.mu.Lock()
	defer b.mu.Unlock()
	matched := []models.User{}
	for _, u := range b.users {
		if u.Email == email && u.Password == password {
			matched = append(matched, u)
		}
	}
	writeJSON(w, http.StatusOK, matched)
}

func (b *Backend) listOrders(w http.ResponseWriter, r *http.Request) {
	paid := r.URL.Query().Get("paid")

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.SaleOrder{}
	for _, o := range b.orders {
		if paid == "" || strconv.FormatBool(o.Paid) == paid {
			out = append(out, o)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := b.Order(models.ID(chi.URLParam(r, "id")))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request) {
	var o models.SaleOrder
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	o.ID = b.allocID()
	b.orders = append(b.orders, o)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, o)
}

func (b *Backend) updateOrder(w http.ResponseWriter, r *http.Request) {
	var o models.SaleOrder
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id := models.ID(chi.URLParam(r, "id"))
	o.ID = id

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.orders {
		if b.orders[i].ID == id {
			b.orders[i] = o
			writeJSON(w, http.StatusOK, o)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
