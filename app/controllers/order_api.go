package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/bind"
	"github.com/shashiranjanraj/orderdesk/pkg/response"
)

// DeriveRequest is the body of POST /api/orders/derive.
type DeriveRequest struct {
	ProductIDs []models.ID `json:"product_ids"`
}

// APIIndex lists orders, optionally filtered by ?status=active|completed.
func (c *OrderController) APIIndex(w http.ResponseWriter, r *http.Request) {
	var status models.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, ok := models.ParseStatus(raw)
		if !ok {
			response.ValidationError(w, map[string]string{"status": "The status must be active or completed."})
			return
		}
		status = s
	}

	orders, err := c.service.List(r.Context(), status)
	if err != nil {
		apiError(w, r, err)
		return
	}
	if orders == nil {
		orders = []models.SaleOrder{}
	}
	response.Success(w, orders)
}

func (c *OrderController) APIShow(w http.ResponseWriter, r *http.Request) {
	order, err := c.service.Get(r.Context(), models.ID(chi.URLParam(r, "id")))
	if err != nil {
		apiError(w, r, err)
		return
	}
	response.Success(w, order)
}

// APIDerive returns the line items for a product selection.
func (c *OrderController) APIDerive(w http.ResponseWriter, r *http.Request) {
	var req DeriveRequest
	if err := bind.Decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	items, err := c.service.Select(r.Context(), req.ProductIDs)
	if err != nil {
		apiError(w, r, err)
		return
	}
	response.Success(w, items)
}

func (c *OrderController) APIStore(w http.ResponseWriter, r *http.Request) {
	var d models.Draft
	if err := bind.Decode(r, &d); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	order, err := c.service.Create(r.Context(), d)
	if err != nil {
		apiError(w, r, err)
		return
	}
	response.Created(w, order)
}

func (c *OrderController) APIUpdate(w http.ResponseWriter, r *http.Request) {
	var d models.Draft
	if err := bind.Decode(r, &d); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	d.ID = models.ID(chi.URLParam(r, "id"))

	order, err := c.service.Update(r.Context(), d)
	if err != nil {
		apiError(w, r, err)
		return
	}
	response.Message(w, MsgOrderUpdated, order)
}
