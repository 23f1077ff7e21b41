package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/cache"
	"github.com/shashiranjanraj/orderdesk/pkg/session"
	"github.com/shashiranjanraj/orderdesk/pkg/view"
)

func TestAllPagesParse(t *testing.T) {
	_, err := view.New()
	require.NoError(t, err)
}

func TestRenderShowsFlashOnceAndLogout(t *testing.T) {
	v := view.MustNew()
	store := cache.NewMemory()
	mw := session.Middleware(store, session.DefaultOptions())

	setFlash := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromCtx(r)
		s.Flash(view.FlashSuccess, "Sale Order Created.")
		require.NoError(t, s.Save(w))
	}))
	w := httptest.NewRecorder()
	setFlash.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	page := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v.Render(w, r, http.StatusOK, "home", view.Page{
			Title:    "Sale Orders",
			LoggedIn: true,
			Data: view.HomePage{Tab: "active", Rows: []models.SaleOrder{
				{ID: "7", CustomerID: "C-9", Items: []models.LineItem{{Price: 2.5, Quantity: 2}}},
			}},
		})
	}))

	render := func() string {
		req := httptest.NewRequest(http.MethodGet, "/home", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		page.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		return w.Body.String()
	}

	body := render()
	assert.Contains(t, body, "Sale Order Created.")
	assert.Contains(t, body, "Logout")
	assert.Contains(t, body, "C-9")
	assert.Contains(t, body, "5.00")
	assert.Contains(t, body, `href="/home/orders/7/edit"`)

	assert.NotContains(t, render(), "Sale Order Created.")
}

func TestFormFailedShowsOnlyNotification(t *testing.T) {
	v := view.MustNew()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/home/orders/new", nil)

	v.Render(w, r, http.StatusBadGateway, "form", view.Page{Data: view.FormPage{
		Heading: "Create Sale Order", Failed: true, Message: "Could not load products.",
	}})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Could not load products.")
	assert.NotContains(t, w.Body.String(), `name="customer_id"`)
	assert.NotContains(t, w.Body.String(), "Logout")
}

func TestUnknownPage(t *testing.T) {
	w := httptest.NewRecorder()
	view.MustNew().Render(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "nope", view.Page{})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
