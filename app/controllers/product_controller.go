package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/response"
)

type ProductController struct {
	service *services.OrderService
}

func NewProductController(service *services.OrderService) *ProductController {
	return &ProductController{service: service}
}

// Index returns the product catalog.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.Catalog(r.Context())
	if err != nil {
		apiError(w, r, err)
		return
	}
	response.Success(w, products)
}
