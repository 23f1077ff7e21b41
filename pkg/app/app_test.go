package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/app/controllers"
	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/services/orderform"
	"github.com/shashiranjanraj/orderdesk/pkg/app"
	"github.com/shashiranjanraj/orderdesk/pkg/cache"
	"github.com/shashiranjanraj/orderdesk/pkg/crypt"
	"github.com/shashiranjanraj/orderdesk/pkg/testkit"
	"github.com/shashiranjanraj/orderdesk/pkg/tokenstore"
)

var seededAt = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newApp(t *testing.T) (http.Handler, *testkit.Backend) {
	t.Helper()
	be := testkit.NewBackend(t)

	box, err := crypt.New("test-secret", "orderdesk/token-cookie")
	require.NoError(t, err)

	a, err := app.New(app.Options{
		BackendURL:     be.URL,
		BackendTimeout: 2 * time.Second,
		BackendRetries: 1,
		Cache:          cache.NewMemory(),
		Tokens:         tokenstore.Cookie(box, tokenstore.CookieOptions{Name: "orderdesk_token", TTL: time.Hour}),
	})
	require.NoError(t, err)
	return a.Handler(), be
}

func login(t *testing.T, h http.Handler) []*http.Cookie {
	t.Helper()
	w := testkit.DoForm(t, h, "/login", url.Values{
		"username": {testkit.DefaultUser.Email},
		"password": {testkit.DefaultUser.Password},
	})
	testkit.AssertRedirect(t, w, "/home")
	return testkit.Cookies(nil, w)
}

func seed(be *testkit.Backend) models.SaleOrder {
	return be.SeedOrder(models.SaleOrder{
		CustomerID:  "C-1",
		InvoiceNo:   "INV-1",
		InvoiceDate: "2024-05-01",
		Items:       []models.LineItem{{SKUID: "10", ProductID: "1", Price: 100, Quantity: 2}},
		AddingDate:  seededAt,
		UpdatedOn:   seededAt,
	})
}

// orderForm is a save post with one fresh Rice line.
func orderForm(invoice string, qty int) url.Values {
	return url.Values{
		"customer_id":                    {"C-1"},
		"invoice_no":                     {invoice},
		"invoice_date":                   {"2024-05-01"},
		"items[0].sku_id":                {"10"},
		"items[0].product_id":            {"1"},
		"items[0].price":                 {"90"},
		"items[0].quantity":              {strconv.Itoa(qty)},
		"items[0].quantity_in_inventory": {"5"},
		"items[0].unit":                  {"kg"},
		"items[0].amount":                {"1"},
		"items[0].max_retail_price":      {"120"},
		"items[0].catalog":               {"fresh"},
		"action":                         {"save"},
	}
}

// ─── Login & guards ───────────────────────────────────────────────────────────

func TestLoginPageIsPublic(t *testing.T) {
	h, _ := newApp(t)

	w := testkit.Get(t, h, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/login"`)
	assert.NotContains(t, w.Body.String(), "Logout")
}

func TestLoginRequiresBothFields(t *testing.T) {
	h, be := newApp(t)

	w := testkit.DoForm(t, h, "/login", url.Values{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Username is required")
	assert.Contains(t, w.Body.String(), "Password is required")
	assert.Equal(t, 0, be.Calls("users"))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h, _ := newApp(t)

	w := testkit.DoForm(t, h, "/login", url.Values{
		"username": {testkit.DefaultUser.Email},
		"password": {"nope"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), controllers.MsgInvalidLogin)
	assert.Empty(t, testkit.Cookies(nil, w), "no token cookie on failure")
}

func TestLoginBackendDownShowsError(t *testing.T) {
	h, be := newApp(t)
	be.FailWith("users", http.StatusInternalServerError)

	w := testkit.DoForm(t, h, "/login", url.Values{
		"username": {testkit.DefaultUser.Email},
		"password": {testkit.DefaultUser.Password},
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), controllers.MsgError)
}

func TestLoginThenHomeShowsFlashOnce(t *testing.T) {
	h, _ := newApp(t)
	jar := login(t, h)

	w := testkit.Get(t, h, "/home", jar...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), controllers.MsgLoggedIn)
	assert.Contains(t, w.Body.String(), "Logout")
	jar = testkit.Cookies(jar, w)

	w = testkit.Get(t, h, "/home", jar...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), controllers.MsgLoggedIn)
}

func TestHomeRequiresLogin(t *testing.T) {
	h, _ := newApp(t)

	testkit.AssertRedirect(t, testkit.Get(t, h, "/home"), "/")
	testkit.AssertRedirect(t, testkit.Get(t, h, "/home/orders/new"), "/")
}

func TestLoggedInUserSkipsLoginPage(t *testing.T) {
	h, _ := newApp(t)
	jar := login(t, h)

	testkit.AssertRedirect(t, testkit.Get(t, h, "/", jar...), "/home")
}

func TestUnreadableTokenCookieIsCleared(t *testing.T) {
	h, _ := newApp(t)
	jar := []*http.Cookie{{Name: "orderdesk_token", Value: "garbage"}}

	w := testkit.Get(t, h, "/", jar...)
	testkit.AssertRedirect(t, w, "/")
	assert.Empty(t, testkit.Cookies(jar, w))

	assert.Equal(t, http.StatusOK, testkit.Get(t, h, "/").Code)
}

func TestLoginPageUnavailableWhenTokenCannotBeChecked(t *testing.T) {
	h, be := newApp(t)
	jar := login(t, h)
	be.FailWith("users", http.StatusInternalServerError)

	w := testkit.Get(t, h, "/", jar...)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), controllers.MsgServiceUnavailable)
}

func TestLogoutClearsToken(t *testing.T) {
	h, _ := newApp(t)
	jar := login(t, h)

	w := testkit.DoForm(t, h, "/logout", url.Values{}, jar...)
	testkit.AssertRedirect(t, w, "/")
	jar = testkit.Cookies(jar, w)

	testkit.AssertRedirect(t, testkit.Get(t, h, "/home", jar...), "/")
}

// ─── Home ─────────────────────────────────────────────────────────────────────

func TestHomeTabsPartitionByPaid(t *testing.T) {
	h, be := newApp(t)
	seed(be)
	be.SeedOrder(models.SaleOrder{CustomerID: "C-PAID", InvoiceNo: "INV-P", Paid: true, UpdatedOn: seededAt})
	jar := login(t, h)

	w := testkit.Get(t, h, "/home", jar...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "C-1")
	assert.NotContains(t, w.Body.String(), "C-PAID")
	jar = testkit.Cookies(jar, w)

	w = testkit.Get(t, h, "/home?tab=completed", jar...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "C-PAID")
	assert.NotContains(t, w.Body.String(), ">C-1<")
}

func TestHomeBackendDown(t *testing.T) {
	h, be := newApp(t)
	jar := login(t, h)
	be.FailWith("sale-orders", http.StatusInternalServerError)

	w := testkit.Get(t, h, "/home", jar...)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), controllers.MsgOrdersFailed)
}

// ─── Create ───────────────────────────────────────────────────────────────────

func TestNewFormListsCatalog(t *testing.T) {
	h, _ := newApp(t)
	jar := login(t, h)

	w := testkit.Get(t, h, "/home/orders/new", jar...)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Create Sale Order")
	assert.Contains(t, body, "Rice")
	assert.Contains(t, body, "Sugar")
	assert.Contains(t, body, `name="customer_id"`)
}

func TestNewFormCatalogFailureShowsOnlyNotification(t *testing.T) {
	h, be := newApp(t)
	jar := login(t, h)
	be.FailWith("products", http.StatusInternalServerError)

	w := testkit.Get(t, h, "/home/orders/new", jar...)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), controllers.MsgCatalogFailed)
	assert.NotContains(t, w.Body.String(), `name="customer_id"`)
}

func TestSelectProductsDerivesLines(t *testing.T) {
	h, _ := newApp(t)
	jar := login(t, h)

	w := testkit.DoForm(t, h, "/home/orders/new", url.Values{
		"customer_id": {"C-1"},
		"product_id":  {"1"},
		"action":      {"select"},
	}, jar...)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="items[0].sku_id" value="10"`)
	assert.Contains(t, body, `name="items[1].sku_id" value="11"`)
	assert.NotContains(t, body, "items[2]")
	assert.Contains(t, body, `value="C-1"`, "typed header fields survive the post")
}

func TestSelectUnknownProduct(t *testing.T) {
	h, _ := newApp(t)
	jar := login(t, h)

	w := testkit.DoForm(t, h, "/home/orders/new", url.Values{
		"product_id": {"404"},
		"action":     {"select"},
	}, jar...)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown product 404")
}

func TestRemoveLine(t *testing.T) {
	h, _ := newApp(t)
	jar := login(t, h)

	form := orderForm("INV-1", 1)
	form.Del("action")
	form.Set("items[1].sku_id", "20")
	form.Set("items[1].product_id", "2")
	form.Set("items[1].catalog", "fresh")
	form.Set("remove", "0")

	w := testkit.DoForm(t, h, "/home/orders/new", form, jar...)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="items[0].sku_id" value="20"`)
	assert.NotContains(t, body, "items[1]")
}

func TestSaveInvalidFormDoesNotWrite(t *testing.T) {
	h, be := newApp(t)
	jar := login(t, h)

	form := orderForm("", 9)
	w := testkit.DoForm(t, h, "/home/orders/new", form, jar...)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), orderform.MsgInvoiceNoRequired)
	assert.Contains(t, w.Body.String(), orderform.MsgQuantityExceeds)
	assert.Empty(t, be.Orders())
}

func TestSaveChecksLiveInventoryNotPostedSnapshot(t *testing.T) {
	h, be := newApp(t)
	jar := login(t, h)

	form := orderForm("INV-9", 9)
	form.Set("items[0].quantity_in_inventory", "999")
	w := testkit.DoForm(t, h, "/home/orders/new", form, jar...)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), orderform.MsgQuantityExceeds)
	assert.Empty(t, be.Orders())
}

func TestSaveCreatesOrderAndRedirects(t *testing.T) {
	h, be := newApp(t)
	jar := login(t, h)

	w := testkit.DoForm(t, h, "/home/orders/new", orderForm("INV-9", 2), jar...)
	testkit.AssertRedirect(t, w, "/home")
	jar = testkit.Cookies(jar, w)

	orders := be.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "INV-9", orders[0].InvoiceNo)
	assert.False(t, orders[0].Paid)
	assert.False(t, orders[0].AddingDate.IsZero())
	assert.Equal(t, []models.LineItem{{SKUID: "10", ProductID: "1", Price: 90, Quantity: 2}}, orders[0].Items)

	w = testkit.Get(t, h, "/home", jar...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), controllers.MsgOrderCreated)
	assert.Contains(t, w.Body.String(), "C-1")
}

func TestSaveBackendDownKeepsForm(t *testing.T) {
	h, be := newApp(t)
	jar := login(t, h)
	be.FailWith("sale-orders", http.StatusInternalServerError)

	w := testkit.DoForm(t, h, "/home/orders/new", orderForm("INV-9", 2), jar...)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), controllers.MsgError)
	assert.Contains(t, w.Body.String(), `value="INV-9"`)
}

// ─── Edit & details ───────────────────────────────────────────────────────────

func TestEditFormLoadsOrder(t *testing.T) {
	h, be := newApp(t)
	o := seed(be)
	jar := login(t, h)

	w := testkit.Get(t, h, "/home/orders/"+o.ID.String()+"/edit", jar...)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Edit Sale Order #"+o.ID.String())
	assert.Contains(t, body, `value="INV-1"`)
	assert.Contains(t, body, `name="items[0].catalog" value="fresh"`)
}

func TestEditMissingOrder(t *testing.T) {
	h, _ := newApp(t)
	jar := login(t, h)

	w := testkit.Get(t, h, "/home/orders/99/edit", jar...)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), controllers.MsgOrderNotFound)
}

func TestUpdateSavesChanges(t *testing.T) {
	h, be := newApp(t)
	o := seed(be)
	jar := login(t, h)

	form := orderForm("INV-2", 3)
	form.Set("updated_on", seededAt.Format(time.RFC3339Nano))
	form.Set("adding_date", seededAt.Format(time.RFC3339Nano))

	w := testkit.DoForm(t, h, "/home/orders/"+o.ID.String()+"/edit", form, jar...)
	testkit.AssertRedirect(t, w, "/home")

	stored, ok := be.Order(o.ID)
	require.True(t, ok)
	assert.Equal(t, "INV-2", stored.InvoiceNo)
	assert.True(t, stored.AddingDate.Equal(seededAt))
	assert.True(t, stored.UpdatedOn.After(seededAt))
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	h, be := newApp(t)
	o := seed(be)
	jar := login(t, h)

	form := orderForm("INV-2", 3)
	form.Set("updated_on", seededAt.Add(-time.Hour).Format(time.RFC3339Nano))

	w := testkit.DoForm(t, h, "/home/orders/"+o.ID.String()+"/edit", form, jar...)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), controllers.MsgConflict)

	stored, _ := be.Order(o.ID)
	assert.Equal(t, "INV-1", stored.InvoiceNo)
}

func TestDetailsPage(t *testing.T) {
	h, be := newApp(t)
	o := seed(be)
	jar := login(t, h)

	w := testkit.Get(t, h, "/home/orders/"+o.ID.String(), jar...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "INV-1")

	w = testkit.Get(t, h, "/home/orders/99", jar...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ─── API ──────────────────────────────────────────────────────────────────────

func apiToken(t *testing.T, h http.Handler) []string {
	t.Helper()
	w := testkit.DoJSON(t, h, http.MethodPost, "/api/login", map[string]string{
		"username": testkit.DefaultUser.Email,
		"password": testkit.DefaultUser.Password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(testkit.DecodeEnvelope(t, w).Data, &data))
	require.NotEmpty(t, data.Token)
	return []string{"Authorization", "Bearer " + data.Token}
}

func TestAPILoginValidation(t *testing.T) {
	h, _ := newApp(t)

	w := testkit.DoJSON(t, h, http.MethodPost, "/api/login", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := testkit.DecodeEnvelope(t, w)
	assert.Equal(t, "Username is required", env.Errors["username"])

	w = testkit.DoJSON(t, h, http.MethodPost, "/api/login", map[string]string{"username": "x@y.z", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIRequiresBearer(t *testing.T) {
	h, _ := newApp(t)

	assert.Equal(t, http.StatusUnauthorized, testkit.DoJSON(t, h, http.MethodGet, "/api/orders", nil).Code)
	w := testkit.DoJSON(t, h, http.MethodGet, "/api/orders", nil, "Authorization", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIProductsAndDerive(t *testing.T) {
	h, _ := newApp(t)
	auth := apiToken(t, h)

	w := testkit.DoJSON(t, h, http.MethodGet, "/api/products", nil, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	var products []models.Product
	require.NoError(t, json.Unmarshal(testkit.DecodeEnvelope(t, w).Data, &products))
	assert.Len(t, products, 2)

	w = testkit.DoJSON(t, h, http.MethodPost, "/api/orders/derive", map[string]any{"product_ids": []string{"1", "2"}}, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.LineItemDraft
	require.NoError(t, json.Unmarshal(testkit.DecodeEnvelope(t, w).Data, &items))
	require.Len(t, items, 3)
	assert.Equal(t, models.ID("10"), items[0].SKUID)
	assert.Equal(t, models.ID("20"), items[2].SKUID)
}

func TestAPIListByStatus(t *testing.T) {
	h, be := newApp(t)
	seed(be)
	be.SeedOrder(models.SaleOrder{CustomerID: "C-PAID", Paid: true})
	auth := apiToken(t, h)

	w := testkit.DoJSON(t, h, http.MethodGet, "/api/orders?status=completed", nil, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.SaleOrder
	require.NoError(t, json.Unmarshal(testkit.DecodeEnvelope(t, w).Data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "C-PAID", orders[0].CustomerID)

	w = testkit.DoJSON(t, h, http.MethodGet, "/api/orders?status=bogus", nil, auth...)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, testkit.DecodeEnvelope(t, w).Errors, "status")
}

func TestAPICreateAndUpdate(t *testing.T) {
	h, be := newApp(t)
	auth := apiToken(t, h)

	w := testkit.DoJSON(t, h, http.MethodPost, "/api/orders", map[string]any{}, auth...)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, orderform.MsgCustomerRequired, testkit.DecodeEnvelope(t, w).Errors["customer_id"])
	assert.Empty(t, be.Orders())

	draft := map[string]any{
		"customer_id":  "C-1",
		"invoice_no":   "INV-1",
		"invoice_date": "2024-05-01",
		"items":        []map[string]any{{"sku_id": "10", "product_id": "1", "price": 100, "quantity": 2}},
	}
	w = testkit.DoJSON(t, h, http.MethodPost, "/api/orders", draft, auth...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.SaleOrder
	require.NoError(t, json.Unmarshal(testkit.DecodeEnvelope(t, w).Data, &created))
	require.False(t, created.ID.IsZero())

	draft["invoice_no"] = "INV-2"
	draft["updated_on"] = created.UpdatedOn.Format(time.RFC3339Nano)
	w = testkit.DoJSON(t, h, http.MethodPut, "/api/orders/"+created.ID.String(), draft, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, controllers.MsgOrderUpdated, testkit.DecodeEnvelope(t, w).Message)

	draft["updated_on"] = created.UpdatedOn.Format(time.RFC3339Nano)
	w = testkit.DoJSON(t, h, http.MethodPut, "/api/orders/"+created.ID.String(), draft, auth...)
	assert.Equal(t, http.StatusConflict, w.Code, "second writer holds the old version")

	w = testkit.DoJSON(t, h, http.MethodPut, "/api/orders/99", draft, auth...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPICreateChecksLiveInventory(t *testing.T) {
	h, be := newApp(t)
	auth := apiToken(t, h)

	draft := map[string]any{
		"customer_id":  "C-1",
		"invoice_no":   "INV-1",
		"invoice_date": "2024-05-01",
		"items": []map[string]any{{
			"sku_id":                "10",
			"product_id":            "1",
			"price":                 100,
			"quantity":              1000,
			"quantity_in_inventory": 1000000,
			"catalog":               "fresh",
		}},
	}
	w := testkit.DoJSON(t, h, http.MethodPost, "/api/orders", draft, auth...)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, orderform.MsgQuantityExceeds, testkit.DecodeEnvelope(t, w).Errors["items[0].quantity"])
	assert.Empty(t, be.Orders())
}

// ─── Kernel ───────────────────────────────────────────────────────────────────

func TestHealthzAndNotFound(t *testing.T) {
	h, _ := newApp(t)

	w := testkit.Get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = testkit.Get(t, h, "/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found.")
}

func TestRouteList(t *testing.T) {
	be := testkit.NewBackend(t)
	a, err := app.New(app.Options{BackendURL: be.URL, Cache: cache.NewMemory(), Tokens: tokenstore.Session()})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, a.RouteList(&buf))
	out := buf.String()
	for _, name := range []string{"login", "orders.edit", "api.orders.update", "health"} {
		assert.Contains(t, out, name)
	}
	assert.True(t, strings.HasPrefix(out, "METHOD"))
}

func TestListOrdersCommand(t *testing.T) {
	be := testkit.NewBackend(t)
	seed(be)
	a, err := app.New(app.Options{BackendURL: be.URL, Cache: cache.NewMemory(), Tokens: tokenstore.Session()})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, a.ListOrders(t.Context(), &buf, models.StatusActive))
	assert.Contains(t, buf.String(), "INV-1")
	assert.Contains(t, buf.String(), "active")

	buf.Reset()
	require.NoError(t, a.ListOrders(t.Context(), &buf, models.StatusCompleted))
	assert.Contains(t, buf.String(), "No sale orders.")
}

func TestJobListFollowsOptions(t *testing.T) {
	be := testkit.NewBackend(t)

	a, err := app.New(app.Options{BackendURL: be.URL, Cache: cache.NewMemory(), Tokens: tokenstore.Session()})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, a.JobList(&buf))
	assert.Equal(t, "No background jobs.\n", buf.String())

	a, err = app.New(app.Options{
		BackendURL: be.URL,
		Cache:      cache.NewMemory(),
		Tokens:     tokenstore.Session(),
		CatalogTTL: 30 * time.Second,
		RateLimit:  60,
	})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, a.JobList(&buf))
	assert.Contains(t, buf.String(), "catalog:refresh")
	assert.Contains(t, buf.String(), "limiter:sweep")
}
