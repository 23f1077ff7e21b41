package controllers

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/optional"
	"github.com/shashiranjanraj/orderdesk/pkg/view"
)

// Form actions.
const (
	actionSave   = "save"
	actionSelect = "select"
	actionRemove = "remove"
)

// orderForm is a decoded order form post.
type orderForm struct {
	Draft      models.Draft
	Action     string
	Remove     int
	ProductIDs []models.ID
}

// parseOrderForm reads the header fields, the product selection and the
// items[i].field line inputs. Blank inputs stay absent.
func parseOrderForm(r *http.Request) (orderForm, error) {
	if err := r.ParseForm(); err != nil {
		return orderForm{}, err
	}
	f := r.PostForm

	form := orderForm{Action: f.Get("action"), Remove: -1}
	if v := f.Get("remove"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			form.Action, form.Remove = actionRemove, i
		}
	}
	if form.Action == "" {
		form.Action = actionSave
	}

	for _, id := range f["product_id"] {
		if id = strings.TrimSpace(id); id != "" {
			form.ProductIDs = append(form.ProductIDs, models.ID(id))
		}
	}

	form.Draft = models.Draft{
		ID:          models.ID(f.Get("id")),
		CustomerID:  text(f.Get("customer_id")),
		InvoiceNo:   text(f.Get("invoice_no")),
		InvoiceDate: text(f.Get("invoice_date")),
		Paid:        f.Get("paid") == "true",
		AddingDate:  timestamp(f.Get("adding_date")),
		UpdatedOn:   timestamp(f.Get("updated_on")),
		Items:       parseItems(f),
	}
	return form, nil
}

func parseItems(f url.Values) []models.LineItemDraft {
	fields := map[int]map[string]string{}
	for key, vals := range f {
		rest, ok := strings.CutPrefix(key, "items[")
		if !ok || len(vals) == 0 {
			continue
		}
		idx, name, ok := strings.Cut(rest, "].")
		if !ok {
			continue
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 0 {
			continue
		}
		if fields[i] == nil {
			fields[i] = map[string]string{}
		}
		fields[i][name] = vals[0]
	}

	indexes := make([]int, 0, len(fields))
	for i := range fields {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	items := make([]models.LineItemDraft, 0, len(indexes))
	for _, i := range indexes {
		v := fields[i]
		items = append(items, models.LineItemDraft{
			SKUID:               models.ID(strings.TrimSpace(v["sku_id"])),
			ProductID:           models.ID(strings.TrimSpace(v["product_id"])),
			Price:               number(v["price"]),
			Quantity:            integer(v["quantity"]),
			QuantityInInventory: integer(v["quantity_in_inventory"]),
			Unit:                text(v["unit"]),
			Amount:              text(v["amount"]),
			MaxRetailPrice:      number(v["max_retail_price"]),
			Catalog:             catalogState(v["catalog"]),
		})
	}
	return items
}

func text(s string) optional.Value[string] {
	if s = strings.TrimSpace(s); s == "" {
		return optional.None[string]()
	}
	return optional.Of(s)
}

func number(s string) optional.Value[float64] {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return optional.None[float64]()
	}
	return optional.Of(v)
}

func integer(s string) optional.Value[int] {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return optional.None[int]()
	}
	return optional.Of(v)
}

func timestamp(s string) optional.Value[time.Time] {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return optional.None[time.Time]()
	}
	return optional.Of(t)
}

func catalogState(s string) models.CatalogState {
	switch models.CatalogState(s) {
	case models.CatalogFresh:
		return models.CatalogFresh
	case models.CatalogStale:
		return models.CatalogStale
	}
	return models.CatalogUnknown
}

// ─── Draft → form values ──────────────────────────────────────────────────────

func formPage(heading, action string, d models.Draft, catalog []models.Product, selected []models.ID, errs map[string]string) view.FormPage {
	page := view.FormPage{
		Heading:     heading,
		Action:      action,
		OrderID:     d.ID,
		CustomerID:  d.CustomerID.Or(""),
		InvoiceNo:   d.InvoiceNo.Or(""),
		InvoiceDate: d.InvoiceDate.Or(""),
		Paid:        d.Paid,
		Errors:      errs,
	}
	if t, ok := d.AddingDate.Get(); ok {
		page.AddingDate = t.Format(time.RFC3339Nano)
	}
	if t, ok := d.UpdatedOn.Get(); ok {
		page.UpdatedOn = t.Format(time.RFC3339Nano)
	}

	chosen := map[models.ID]bool{}
	for _, id := range selected {
		chosen[id] = true
	}
	if len(selected) == 0 {
		for _, li := range d.Items {
			chosen[li.ProductID] = true
		}
	}
	for _, p := range catalog {
		page.Products = append(page.Products, view.ProductOption{ID: p.ID, Name: p.Name, Selected: chosen[p.ID]})
	}

	for i, li := range d.Items {
		page.Lines = append(page.Lines, view.FormLine{
			Index:               i,
			SKUID:               li.SKUID,
			ProductID:           li.ProductID,
			Price:               formatFloat(li.Price),
			Quantity:            formatInt(li.Quantity),
			QuantityInInventory: formatInt(li.QuantityInInventory),
			Unit:                li.Unit.Or(""),
			Amount:              li.Amount.Or(""),
			MaxRetailPrice:      formatFloat(li.MaxRetailPrice),
			Catalog:             string(li.Catalog),
			Stale:               li.Stale(),
			PriceError:          errs[itemKey(i, "price")],
			QuantityError:       errs[itemKey(i, "quantity")],
		})
	}
	return page
}

func itemKey(i int, field string) string {
	return "items[" + strconv.Itoa(i) + "]." + field
}

func formatFloat(v optional.Value[float64]) string {
	f, ok := v.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(v optional.Value[int]) string {
	n, ok := v.Get()
	if !ok {
		return ""
	}
	return strconv.Itoa(n)
}
