package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/shared/web"
)

const (
	viewSignup = "users/signup"
	viewLogin  = "users/login"
)

type UserHandler struct {
	service      user.Service
	cookieName   string
	secureCookie bool
	loginURL     string
}

func NewUserHandler(service user.Service, cookieName, loginURL string, secureCookie bool) *UserHandler {
	return &UserHandler{
		service:      service,
		cookieName:   cookieName,
		secureCookie: secureCookie,
		loginURL:     loginURL,
	}
}

type authForm struct {
	Fields []string `json:"fields"`
	Next   string   `json:"next,omitempty"`
}

// Signup handles GET and POST /auth/signup/.
func (h *UserHandler) Signup(ctx context.Context, req *web.Request) web.Response {
	form := authForm{Fields: []string{"username", "password"}}
	if !req.IsPost() {
		return web.Render(viewSignup, form)
	}

	username, _ := req.FormValue("username")
	password, _ := req.FormValue("password")

	_, err := h.service.Signup(ctx, user.SignupRequest{
		Username: strings.TrimSpace(username),
		Password: password,
	})
	if err != nil {
		return h.handleError(viewSignup, form, err)
	}

	return web.Redirect(h.loginURL)
}

// Login handles GET and POST /auth/login/. On success the access token is
// stored in an HttpOnly cookie and the caller is sent to ?next= when it is
// a local path.
func (h *UserHandler) Login(ctx context.Context, req *web.Request) web.Response {
	next := req.Query.Get("next")
	if v, ok := req.FormValue("next"); ok {
		next = v
	}
	form := authForm{Fields: []string{"username", "password"}, Next: next}

	if !req.IsPost() {
		return web.Render(viewLogin, form)
	}

	username, _ := req.FormValue("username")
	password, _ := req.FormValue("password")

	res, err := h.service.Login(ctx, user.LoginRequest{
		Username: strings.TrimSpace(username),
		Password: password,
	})
	if err != nil {
		return h.handleError(viewLogin, form, err)
	}

	return web.Redirect(safeRedirect(next)).WithCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    res.AccessToken,
		Path:     "/",
		Expires:  res.ExpiresAt,
		MaxAge:   int(time.Until(res.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// Logout handles POST /auth/logout/.
func (h *UserHandler) Logout(_ context.Context, req *web.Request) web.Response {
	if !req.IsPost() {
		return web.MethodNotAllowed()
	}

	return web.Redirect("/").WithCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *UserHandler) handleError(view string, form authForm, err error) web.Response {
	if fields, ok := web.FieldErrorsFrom(err); ok {
		return web.Invalid(view, fields, form)
	}

	switch {
	case errors.Is(err, user.ErrUsernameTaken):
		return web.Invalid(view, web.FieldErrors{"username": err.Error()}, form)
	case errors.Is(err, user.ErrInvalidCredentials):
		return web.Invalid(view, web.FieldErrors{"credentials": err.Error()}, form)
	default:
		return web.Failure(err)
	}
}

// safeRedirect only allows local absolute paths.
func safeRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
