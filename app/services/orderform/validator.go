// Package orderform holds the two pure pieces of the sale order form: the
// validator that classifies a draft into field errors, and the deriver that
// turns selected products into line items and re-attaches catalog metadata
// to persisted ones. Nothing here does I/O.
package orderform

import (
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/validate"
)

const (
	MsgCustomerRequired    = "Customer ID is required"
	MsgInvoiceNoRequired   = "Invoice number is required"
	MsgInvoiceDateRequired = "Invoice date is required"
	MsgPricePositive       = "Price must be a positive number"
	MsgQuantityPositive    = "Quantity must be a positive number"
	MsgQuantityExceeds     = "Quantity exceeds inventory"
)

func init() {
	if err := validate.RegisterValidation("within_inventory", withinInventory); err != nil {
		panic(err)
	}

	validate.RegisterMessage("Draft.customer_id.required", MsgCustomerRequired)
	validate.RegisterMessage("Draft.invoice_no.required", MsgInvoiceNoRequired)
	validate.RegisterMessage("Draft.invoice_date.required", MsgInvoiceDateRequired)
	validate.RegisterMessage("Draft.price.required", MsgPricePositive)
	validate.RegisterMessage("Draft.price.gt", MsgPricePositive)
	validate.RegisterMessage("Draft.quantity.required", MsgQuantityPositive)
	validate.RegisterMessage("Draft.quantity.gt", MsgQuantityPositive)
	validate.RegisterMessage("Draft.quantity.within_inventory", MsgQuantityExceeds)
}

// Validate returns field path → message for every rule the draft breaks.
// All rules run on every call; an empty map means the draft may be
// submitted. Paths are customer_id, invoice_no, invoice_date,
// items[i].price and items[i].quantity.
func Validate(d models.Draft) map[string]string {
	return validate.Struct(d)
}

// withinInventory fails when quantity exceeds the line's inventory
// snapshot. A line without a snapshot (stale SKU) is not checked.
func withinInventory(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	item, ok := parent.Interface().(models.LineItemDraft)
	if !ok {
		return true
	}
	stock, ok := item.QuantityInInventory.Get()
	if !ok {
		return true
	}
	return fl.Field().Int() <= int64(stock)
}
