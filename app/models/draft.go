package models

import (
	"encoding/json"
	"time"

	"github.com/shashiranjanraj/orderdesk/pkg/optional"
)

// CatalogState tells whether a draft line has catalog metadata attached.
type CatalogState string

const (
	// CatalogUnknown: the line has not been matched against the catalog yet.
	CatalogUnknown CatalogState = ""
	// CatalogFresh: inventory, unit, amount and MRP come from the current catalog.
	CatalogFresh CatalogState = "fresh"
	// CatalogStale: the product or SKU no longer exists; metadata is absent.
	CatalogStale CatalogState = "stale"
)

// Draft is an in-progress sale order held in form state. Every field the
// user types is optional so "left blank" stays distinguishable from zero.
type Draft struct {
	ID          ID                        `json:"id,omitempty"`
	CustomerID  optional.Value[string]    `json:"customer_id"  validate:"required"`
	InvoiceNo   optional.Value[string]    `json:"invoice_no"   validate:"required"`
	InvoiceDate optional.Value[string]    `json:"invoice_date" validate:"required"`
	Items       []LineItemDraft           `json:"items"        validate:"dive"`
	Paid        bool                      `json:"paid"`
	AddingDate  optional.Value[time.Time] `json:"adding_date"`
	UpdatedOn   optional.Value[time.Time] `json:"updated_on"` // version the draft was loaded at
}

// LineItemDraft is one editable order line.
type LineItemDraft struct {
	SKUID               ID                      `json:"sku_id"`
	ProductID           ID                      `json:"product_id"`
	Price               optional.Value[float64] `json:"price"    validate:"required,gt=0"`
	Quantity            optional.Value[int]     `json:"quantity" validate:"required,gt=0,within_inventory"`
	QuantityInInventory optional.Value[int]     `json:"quantity_in_inventory"`
	Unit                optional.Value[string]  `json:"unit"`
	Amount              optional.Value[string]  `json:"amount"`
	MaxRetailPrice      optional.Value[float64] `json:"max_retail_price"`
	Catalog             CatalogState            `json:"catalog,omitempty"`
}

// UnmarshalJSON decodes a line posted by a client. The catalog state is
// server-owned and always comes back unknown.
func (li *LineItemDraft) UnmarshalJSON(data []byte) error {
	type wire LineItemDraft
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*li = LineItemDraft(w)
	li.Catalog = CatalogUnknown
	return nil
}

// Stale reports whether the line's SKU has disappeared from the catalog.
func (li LineItemDraft) Stale() bool { return li.Catalog == CatalogStale }

// DraftFromOrder opens a persisted order for editing. Catalog metadata is
// left for the deriver to attach.
func DraftFromOrder(o SaleOrder) Draft {
	d := Draft{
		ID:          o.ID,
		CustomerID:  optional.Of(o.CustomerID),
		InvoiceNo:   optional.Of(o.InvoiceNo),
		InvoiceDate: optional.Of(o.InvoiceDate),
		Paid:        o.Paid,
		Items:       make([]LineItemDraft, 0, len(o.Items)),
	}
	if !o.AddingDate.IsZero() {
		d.AddingDate = optional.Of(o.AddingDate)
	}
	if !o.UpdatedOn.IsZero() {
		d.UpdatedOn = optional.Of(o.UpdatedOn)
	}
	for _, li := range o.Items {
		d.Items = append(d.Items, LineItemDraft{
			SKUID:     li.SKUID,
			ProductID: li.ProductID,
			Price:     optional.Of(li.Price),
			Quantity:  optional.Of(li.Quantity),
		})
	}
	return d
}

// Order converts a validated draft into the record sent to the backend.
// Absent values become zero.
func (d Draft) Order() SaleOrder {
	o := SaleOrder{
		ID:          d.ID,
		CustomerID:  d.CustomerID.Or(""),
		InvoiceNo:   d.InvoiceNo.Or(""),
		InvoiceDate: d.InvoiceDate.Or(""),
		Paid:        d.Paid,
		AddingDate:  d.AddingDate.Or(time.Time{}),
		UpdatedOn:   d.UpdatedOn.Or(time.Time{}),
		Items:       make([]LineItem, 0, len(d.Items)),
	}
	for _, li := range d.Items {
		o.Items = append(o.Items, LineItem{
			SKUID:     li.SKUID,
			ProductID: li.ProductID,
			Price:     li.Price.Or(0),
			Quantity:  li.Quantity.Or(0),
		})
	}
	return o
}
