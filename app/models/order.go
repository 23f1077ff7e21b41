package models

import "time"

// SaleOrder is a persisted order. ID is assigned by the backend and never
// changes; UpdatedOn doubles as the version used to detect lost updates.
type SaleOrder struct {
	ID          ID         `json:"id,omitempty"`
	CustomerID  string     `json:"customer_id"`
	InvoiceNo   string     `json:"invoice_no"`
	InvoiceDate string     `json:"invoice_date"`
	Items       []LineItem `json:"items"`
	Paid        bool       `json:"paid"`
	AddingDate  time.Time  `json:"adding_date"`
	UpdatedOn   time.Time  `json:"updated_on"`
}

// LineItem is the persisted part of an order line. Display metadata is
// re-attached from the catalog when the order is loaded for editing.
type LineItem struct {
	SKUID     ID      `json:"sku_id"`
	ProductID ID      `json:"product_id,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal is price × quantity.
func (li LineItem) Subtotal() float64 { return li.Price * float64(li.Quantity) }

// Total is the sum of all line subtotals.
func (o SaleOrder) Total() float64 {
	var sum float64
	for _, li := range o.Items {
		sum += li.Subtotal()
	}
	return sum
}

// Status is the list partition an order belongs to.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func (o SaleOrder) Status() Status {
	if o.Paid {
		return StatusCompleted
	}
	return StatusActive
}

// ParseStatus accepts "active" and "completed"; anything else is rejected.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// Partition splits orders into active (unpaid) and completed (paid),
// preserving their order.
func Partition(orders []SaleOrder) (active, completed []SaleOrder) {
	for _, o := range orders {
		if o.Paid {
			completed = append(completed, o)
		} else {
			active = append(active, o)
		}
	}
	return active, completed
}
