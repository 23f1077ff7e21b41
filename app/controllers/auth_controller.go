package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/bind"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/response"
	"github.com/shashiranjanraj/orderdesk/pkg/session"
	"github.com/shashiranjanraj/orderdesk/pkg/tokenstore"
	"github.com/shashiranjanraj/orderdesk/pkg/validate"
	"github.com/shashiranjanraj/orderdesk/pkg/view"
)

func init() {
	validate.RegisterMessage("LoginRequest.username.required", "Username is required")
	validate.RegisterMessage("LoginRequest.password.required", "Password is required")
}

// LoginRequest is the login form and the /api/login body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthController struct {
	service *services.AuthService
	tokens  tokenstore.Factory
	view    *view.View
}

func NewAuthController(service *services.AuthService, tokens tokenstore.Factory, v *view.View) *AuthController {
	return &AuthController{service: service, tokens: tokens, view: v}
}

// ShowLogin renders the login form.
func (c *AuthController) ShowLogin(w http.ResponseWriter, r *http.Request) {
	c.renderLogin(w, r, http.StatusOK, view.LoginPage{})
}

// Login checks the posted credentials and stores the session token.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.renderLogin(w, r, http.StatusBadRequest, view.LoginPage{Message: "Invalid form submission."})
		return
	}
	req := LoginRequest{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	}
	if errs := validate.Struct(req); validate.HasErrors(errs) {
		c.renderLogin(w, r, http.StatusUnprocessableEntity, view.LoginPage{Username: req.Username, Errors: errs})
		return
	}

	token, _, err := c.service.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, services.ErrAuth):
		c.renderLogin(w, r, http.StatusUnauthorized, view.LoginPage{Username: req.Username, Message: MsgInvalidLogin})
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		flash(r, view.FlashError, failure(err))
		c.renderLogin(w, r, http.StatusBadGateway, view.LoginPage{Username: req.Username})
		return
	}

	c.tokens(w, r).Set(token)
	flash(r, view.FlashSuccess, MsgLoggedIn)
	redirect(w, r, "/home")
}

// Logout clears the token and the session.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c.tokens(w, r).Clear()
	session.FromCtx(r).Invalidate()
	redirect(w, r, "/")
}

// APILogin exchanges credentials for a bearer JWT.
func (c *AuthController) APILogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, err := c.service.IssueJWT(r.Context(), req.Username, req.Password)
	if err != nil {
		apiError(w, r, err)
		return
	}
	response.Success(w, map[string]string{"token": token})
}

func (c *AuthController) renderLogin(w http.ResponseWriter, r *http.Request, status int, page view.LoginPage) {
	c.view.Render(w, r, status, "login", view.Page{Title: "Login", LoggedIn: loggedIn(c.tokens, w, r), Data: page})
}
