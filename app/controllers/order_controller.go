package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/app/services/orderform"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/view"
)

// OrderController serves the pages behind AuthGuard and the /api/orders
// endpoints.
type OrderController struct {
	service *services.OrderService
	view    *view.View
}

func NewOrderController(service *services.OrderService, v *view.View) *OrderController {
	return &OrderController{service: service, view: v}
}

// ─── List & details ───────────────────────────────────────────────────────────

// Home renders the Active / Completed tabs.
func (c *OrderController) Home(w http.ResponseWriter, r *http.Request) {
	tab, ok := models.ParseStatus(r.URL.Query().Get("tab"))
	if !ok {
		tab = models.StatusActive
	}

	active, completed, err := c.service.Home(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list sale orders failed", "error", err)
		c.view.Error(w, r, http.StatusBadGateway, MsgOrdersFailed, true)
		return
	}

	rows := active
	if tab == models.StatusCompleted {
		rows = completed
	}
	c.view.Render(w, r, http.StatusOK, "home", view.Page{
		Title:    "Sale Orders",
		LoggedIn: true,
		Data:     view.HomePage{Tab: string(tab), Rows: rows},
	})
}

// Show renders one order read-only.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	order, err := c.service.Get(r.Context(), models.ID(chi.URLParam(r, "id")))
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.view.Error(w, r, http.StatusNotFound, MsgOrderNotFound, true)
		return
	case err != nil:
		flash(r, view.FlashError, failure(err))
		redirect(w, r, "/home")
		return
	}
	c.view.Render(w, r, http.StatusOK, "details", view.Page{Title: "Sale Order", LoggedIn: true, Data: order})
}

// ─── Create ───────────────────────────────────────────────────────────────────

// New renders an empty form once the catalog has loaded.
func (c *OrderController) New(w http.ResponseWriter, r *http.Request) {
	catalog, err := c.service.Catalog(r.Context())
	if err != nil {
		c.catalogFailed(w, r, "Create Sale Order", err)
		return
	}
	c.renderForm(w, r, http.StatusOK, formPage("Create Sale Order", "/home/orders/new", models.Draft{}, catalog, nil, nil))
}

// Store handles every post of the create form: product selection, line
// removal and save.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	c.submit(w, r, "Create Sale Order", "/home/orders/new", false)
}

// ─── Edit ─────────────────────────────────────────────────────────────────────

// Edit loads the order and the catalog together and renders the form.
func (c *OrderController) Edit(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	heading := "Edit Sale Order #" + id.String()

	d, catalog, err := c.service.LoadForEdit(r.Context(), id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.view.Error(w, r, http.StatusNotFound, MsgOrderNotFound, true)
		return
	case err != nil:
		c.catalogFailed(w, r, heading, err)
		return
	}
	c.renderForm(w, r, http.StatusOK, formPage(heading, editPath(id), d, catalog, nil, nil))
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	c.submit(w, r, "Edit Sale Order #"+id.String(), editPath(id), true)
}

func editPath(id models.ID) string { return "/home/orders/" + id.String() + "/edit" }

// ─── Shared form handling ─────────────────────────────────────────────────────

func (c *OrderController) submit(w http.ResponseWriter, r *http.Request, heading, action string, editing bool) {
	form, err := parseOrderForm(r)
	if err != nil {
		c.view.Error(w, r, http.StatusBadRequest, "Invalid form submission.", true)
		return
	}
	d := form.Draft
	if editing {
		d.ID = models.ID(chi.URLParam(r, "id"))
	}

	ctx := r.Context()
	switch form.Action {
	case actionSelect:
		items, err := c.service.Select(ctx, form.ProductIDs)
		if fields, ok := services.FieldErrors(err); ok {
			c.rerender(w, r, http.StatusUnprocessableEntity, heading, action, d, form.ProductIDs, fields)
			return
		}
		if err != nil {
			c.catalogFailed(w, r, heading, err)
			return
		}
		d.Items = items
		c.rerender(w, r, http.StatusOK, heading, action, d, form.ProductIDs, nil)
		return

	case actionRemove:
		d.Items = orderform.Remove(d.Items, form.Remove)
		c.rerender(w, r, http.StatusOK, heading, action, d, form.ProductIDs, nil)
		return
	}

	if editing {
		_, err = c.service.Update(ctx, d)
	} else {
		_, err = c.service.Create(ctx, d)
	}

	if fields, ok := services.FieldErrors(err); ok {
		c.rerender(w, r, http.StatusUnprocessableEntity, heading, action, d, form.ProductIDs, fields)
		return
	}
	switch {
	case err == nil:
		msg := MsgOrderCreated
		if editing {
			msg = MsgOrderUpdated
		}
		flash(r, view.FlashSuccess, msg)
		redirect(w, r, "/home")
	case errors.Is(err, services.ErrNotFound):
		c.view.Error(w, r, http.StatusNotFound, MsgOrderNotFound, true)
	case errors.Is(err, services.ErrConflict):
		flash(r, view.FlashError, MsgConflict)
		c.rerender(w, r, http.StatusConflict, heading, action, d, form.ProductIDs, nil)
	default:
		flash(r, view.FlashError, failure(err))
		c.rerender(w, r, http.StatusBadGateway, heading, action, d, form.ProductIDs, nil)
	}
}

// rerender shows the posted draft again with the product checkboxes.
func (c *OrderController) rerender(w http.ResponseWriter, r *http.Request, status int, heading, action string, d models.Draft, selected []models.ID, errs map[string]string) {
	catalog, err := c.service.Catalog(r.Context())
	if err != nil {
		c.catalogFailed(w, r, heading, err)
		return
	}
	c.renderForm(w, r, status, formPage(heading, action, d, catalog, selected, errs))
}

func (c *OrderController) catalogFailed(w http.ResponseWriter, r *http.Request, heading string, err error) {
	logger.WithCtx(r.Context()).Error("load order form failed", "error", err)
	c.renderForm(w, r, http.StatusBadGateway, view.FormPage{Heading: heading, Failed: true, Message: MsgCatalogFailed})
}

func (c *OrderController) renderForm(w http.ResponseWriter, r *http.Request, status int, page view.FormPage) {
	c.view.Render(w, r, status, "form", view.Page{Title: page.Heading, LoggedIn: true, Data: page})
}
