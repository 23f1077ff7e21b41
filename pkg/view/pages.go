package view

import "github.com/shashiranjanraj/orderdesk/app/models"

// LoginPage backs login.html.
type LoginPage struct {
	Username string
	Errors   map[string]string
	Message  string
}

// HomePage backs home.html.
type HomePage struct {
	Tab  string
	Rows []models.SaleOrder
}

// FormPage backs form.html for both create and edit.
type FormPage struct {
	Heading     string
	Action      string
	Failed      bool // catalog could not be loaded; only the notification is shown
	Message     string
	OrderID     models.ID
	CustomerID  string
	InvoiceNo   string
	InvoiceDate string
	Paid        bool
	AddingDate  string
	UpdatedOn   string
	Products    []ProductOption
	Lines       []FormLine
	Errors      map[string]string
}

type ProductOption struct {
	ID       models.ID
	Name     string
	Selected bool
}

// FormLine is one line item as form field values.
type FormLine struct {
	Index               int
	SKUID               models.ID
	ProductID           models.ID
	Price               string
	Quantity            string
	QuantityInInventory string
	Unit                string
	Amount              string
	MaxRetailPrice      string
	Catalog             string
	Stale               bool
	PriceError          string
	QuantityError       string
}
