package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/optional"
)

func postForm(t *testing.T, form url.Values) orderForm {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/home/orders/new", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	f, err := parseOrderForm(r)
	require.NoError(t, err)
	return f
}

func TestParseOrderFormDefaultsToSave(t *testing.T) {
	f := postForm(t, url.Values{"customer_id": {" C-1 "}})

	assert.Equal(t, actionSave, f.Action)
	assert.Equal(t, optional.Of("C-1"), f.Draft.CustomerID)
	assert.False(t, f.Draft.InvoiceNo.IsSet(), "blank stays absent")
	assert.Empty(t, f.Draft.Items)
}

func TestParseOrderFormRemoveWins(t *testing.T) {
	f := postForm(t, url.Values{"action": {"save"}, "remove": {"1"}})

	assert.Equal(t, actionRemove, f.Action)
	assert.Equal(t, 1, f.Remove)
}

func TestParseOrderFormItemsInIndexOrder(t *testing.T) {
	stamp := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	f := postForm(t, url.Values{
		"product_id":         {"1", "", "2"},
		"updated_on":         {stamp.Format(time.RFC3339Nano)},
		"paid":               {"true"},
		"items[10].sku_id":   {"20"},
		"items[10].quantity": {"3"},
		"items[2].sku_id":    {"10"},
		"items[2].price":     {"99.5"},
		"items[2].quantity":  {"abc"},
		"items[2].catalog":   {"fresh"},
		"items[x].sku_id":    {"ignored"},
		"itemsbroken":        {"ignored"},
		"items[10].catalog":  {"stale"},
		"items[10].unit":     {""},
	})

	assert.Equal(t, []models.ID{"1", "2"}, f.ProductIDs)
	assert.True(t, f.Draft.Paid)
	v, ok := f.Draft.UpdatedOn.Get()
	require.True(t, ok)
	assert.True(t, v.Equal(stamp))

	require.Len(t, f.Draft.Items, 2)
	first, second := f.Draft.Items[0], f.Draft.Items[1]
	assert.Equal(t, models.ID("10"), first.SKUID)
	assert.Equal(t, optional.Of(99.5), first.Price)
	assert.False(t, first.Quantity.IsSet(), "non-numeric quantity stays absent")
	assert.Equal(t, models.CatalogFresh, first.Catalog)

	assert.Equal(t, models.ID("20"), second.SKUID)
	assert.Equal(t, optional.Of(3), second.Quantity)
	assert.True(t, second.Stale())
	assert.False(t, second.Unit.IsSet())
}

func TestFormPageKeepsErrorsPerLine(t *testing.T) {
	d := models.Draft{
		InvoiceNo: optional.Of("INV-1"),
		Items: []models.LineItemDraft{
			{SKUID: "10", ProductID: "1", Price: optional.Of(100.0), Catalog: models.CatalogFresh},
			{SKUID: "20", ProductID: "2", Quantity: optional.Of(4), Catalog: models.CatalogStale},
		},
	}
	catalog := []models.Product{{ID: "1", Name: "Rice"}, {ID: "2", Name: "Sugar"}, {ID: "3", Name: "Salt"}}
	errs := map[string]string{"items[1].quantity": "Quantity exceeds inventory"}

	page := formPage("Create Sale Order", "/home/orders/new", d, catalog, nil, errs)

	assert.Equal(t, "INV-1", page.InvoiceNo)
	assert.Empty(t, page.UpdatedOn)
	require.Len(t, page.Products, 3)
	assert.True(t, page.Products[0].Selected)
	assert.True(t, page.Products[1].Selected)
	assert.False(t, page.Products[2].Selected)

	require.Len(t, page.Lines, 2)
	assert.Equal(t, "100", page.Lines[0].Price)
	assert.Empty(t, page.Lines[0].Quantity)
	assert.Empty(t, page.Lines[0].QuantityError)
	assert.Equal(t, "4", page.Lines[1].Quantity)
	assert.True(t, page.Lines[1].Stale)
	assert.Equal(t, "Quantity exceeds inventory", page.Lines[1].QuantityError)
}

func TestFormPageExplicitSelection(t *testing.T) {
	d := models.Draft{Items: []models.LineItemDraft{{SKUID: "10", ProductID: "1"}}}
	catalog := []models.Product{{ID: "1", Name: "Rice"}, {ID: "2", Name: "Sugar"}}

	page := formPage("Create Sale Order", "/home/orders/new", d, catalog, []models.ID{"2"}, nil)
	assert.False(t, page.Products[0].Selected)
	assert.True(t, page.Products[1].Selected)
}
