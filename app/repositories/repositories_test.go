package repositories_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/repositories"
	"github.com/shashiranjanraj/orderdesk/pkg/cache"
	"github.com/shashiranjanraj/orderdesk/pkg/httpclient"
	"github.com/shashiranjanraj/orderdesk/pkg/testkit"
)

func TestCreateThenGetRoundTrips(t *testing.T) {
	be := testkit.NewBackend(t)
	repo := repositories.NewOrderRepository(be.Client())
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, models.SaleOrder{
		ID:          "should-be-ignored",
		CustomerID:  "C-1",
		InvoiceNo:   "INV-1",
		InvoiceDate: "2024-03-01",
		Items: []models.LineItem{
			{SKUID: "10", ProductID: "1", Price: 100, Quantity: 2},
			{SKUID: "20", ProductID: "2", Price: 45.5, Quantity: 1},
		},
		AddingDate: now,
		UpdatedOn:  now,
	})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())
	assert.NotEqual(t, models.ID("should-be-ignored"), created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	for i, li := range got.Items {
		assert.Equal(t, created.Items[i].SKUID, li.SKUID)
		assert.Equal(t, created.Items[i].Price, li.Price)
		assert.Equal(t, created.Items[i].Quantity, li.Quantity)
	}
	assert.True(t, got.UpdatedOn.Equal(now))
}

func TestGetMissingIsNotFound(t *testing.T) {
	be := testkit.NewBackend(t)
	repo := repositories.NewOrderRepository(be.Client())

	_, err := repo.Get(context.Background(), "404")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestEmptyIDIsNotFoundWithoutCall(t *testing.T) {
	be := testkit.NewBackend(t)
	be.SeedOrder(models.SaleOrder{CustomerID: "A"})
	repo := repositories.NewOrderRepository(be.Client())

	_, err := repo.Get(context.Background(), "")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.Update(context.Background(), models.SaleOrder{CustomerID: "B"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.Equal(t, 0, be.Calls("sale-orders"))
	assert.Len(t, be.Orders(), 1)
}

func TestCreateTimeoutIsNotRetried(t *testing.T) {
	be := testkit.NewBackend(t)
	be.Delay("sale-orders", time.Second)
	client := be.Client(httpclient.WithTimeout(30*time.Millisecond), httpclient.WithRetry(3, time.Millisecond))
	repo := repositories.NewOrderRepository(client)

	_, err := repo.Create(context.Background(), models.SaleOrder{CustomerID: "A", InvoiceNo: "INV-1"})
	assert.ErrorIs(t, err, repositories.ErrNetwork)
	assert.Equal(t, 1, be.Calls("sale-orders"))
}

func TestGetTimeoutIsRetried(t *testing.T) {
	be := testkit.NewBackend(t)
	be.Delay("sale-orders", time.Second)
	client := be.Client(httpclient.WithTimeout(30*time.Millisecond), httpclient.WithRetry(2, time.Millisecond))
	repo := repositories.NewOrderRepository(client)

	_, err := repo.Get(context.Background(), "1")
	assert.ErrorIs(t, err, repositories.ErrNetwork)
	assert.Equal(t, 2, be.Calls("sale-orders"))
}

func TestBackendFailureIsNetworkError(t *testing.T) {
	be := testkit.NewBackend(t)
	be.FailWith("sale-orders", http.StatusInternalServerError)
	repo := repositories.NewOrderRepository(be.Client())

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, repositories.ErrNetwork)

	_, err = repo.Get(context.Background(), "1")
	assert.ErrorIs(t, err, repositories.ErrNetwork)
}

func TestTimeoutIsNetworkError(t *testing.T) {
	be := testkit.NewBackend(t)
	be.Delay("products", time.Second)
	repo := repositories.NewProductRepository(be.Client(httpclient.WithTimeout(20*time.Millisecond)), nil, 0)

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, repositories.ErrNetwork)
}

func TestListByPaid(t *testing.T) {
	be := testkit.NewBackend(t)
	be.SeedOrder(models.SaleOrder{CustomerID: "A", Paid: false})
	be.SeedOrder(models.SaleOrder{CustomerID: "B", Paid: true})
	be.SeedOrder(models.SaleOrder{CustomerID: "C", Paid: false})
	repo := repositories.NewOrderRepository(be.Client())

	active, err := repo.ListByPaid(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "A", active[0].CustomerID)
	assert.Equal(t, "C", active[1].CustomerID)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateKeepsID(t *testing.T) {
	be := testkit.NewBackend(t)
	seeded := be.SeedOrder(models.SaleOrder{CustomerID: "A", InvoiceNo: "1"})
	repo := repositories.NewOrderRepository(be.Client())

	seeded.InvoiceNo = "2"
	updated, err := repo.Update(context.Background(), seeded)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, updated.ID)

	stored, ok := be.Order(seeded.ID)
	require.True(t, ok)
	assert.Equal(t, "2", stored.InvoiceNo)
}

func TestProductCatalogIsCached(t *testing.T) {
	be := testkit.NewBackend(t)
	repo := repositories.NewProductRepository(be.Client(), cache.NewMemory(), time.Minute)
	ctx := context.Background()

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, be.Calls("products"))

	require.NoError(t, repo.Forget(ctx))
	_, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, be.Calls("products"))
}

func TestProductCatalogDecodesSKUs(t *testing.T) {
	be := testkit.NewBackend(t)
	repo := repositories.NewProductRepository(be.Client(), nil, 0)

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Rice", products[0].Name)
	require.Len(t, products[0].SKUs, 2)
	assert.Equal(t, 5, products[0].SKUs[0].QuantityInInventory)
}

func TestFindByCredentials(t *testing.T) {
	be := testkit.NewBackend(t)
	repo := repositories.NewUserRepository(be.Client())
	ctx := context.Background()

	users, err := repo.FindByCredentials(ctx, testkit.DefaultUser.Email, testkit.DefaultUser.Password)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	users, err = repo.FindByCredentials(ctx, testkit.DefaultUser.Email, "wrong")
	require.NoError(t, err)
	assert.Empty(t, users)
}
