package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lcdsoft/storefront/internal/audit"
	apperrors "github.com/lcdsoft/storefront/internal/errors"
	"github.com/lcdsoft/storefront/internal/middleware"
	"github.com/lcdsoft/storefront/internal/service"
	"github.com/lcdsoft/storefront/internal/view"
)

type AuthHandler struct {
	authService *service.AuthService
	view        *view.Renderer
	cookies     middleware.CookieConfig
	loginLimit  func(http.Handler) http.Handler
}

func NewAuthHandler(
	authService *service.AuthService,
	renderer *view.Renderer,
	cookies middleware.CookieConfig,
	loginLimit func(http.Handler) http.Handler,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		view:        renderer,
		cookies:     cookies,
		loginLimit:  loginLimit,
	}
}

// Mount registers the auth pages on the root router. Visitors who already
// hold a session are sent to the product list instead.
func (h *AuthHandler) Mount(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RedirectIfAuthenticated)

		r.Get("/register", h.ShowRegister)
		r.Get("/login", h.ShowLogin)
		r.Get("/forgot-password", h.ShowForgotPassword)
		r.Get("/reset-password", h.ShowResetPassword)
		r.Post("/reset-password", h.ResetPassword)

		// Credential-adjacent POSTs share the attempt limiter.
		r.Group(func(r chi.Router) {
			r.Use(h.loginLimit)
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
			r.Post("/forgot-password", h.ForgotPassword)
		})
	})

	r.Post("/logout", h.Logout)
}

type registerForm struct {
	Email       string
	DisplayName string
}

// GET /register
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "register", newPage(r, registerForm{}))
}

// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	displayName := r.FormValue("displayName")

	_, err := h.authService.Register(r.Context(), email, password, displayName)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeConflict {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventRegisterConflict, Email: email})
		}
		form := registerForm{Email: email, DisplayName: displayName}
		h.view.Render(w, statusFor(err), "register", newPage(r, form).withError(userMessage(err)))
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventRegister, Email: email})
	http.Redirect(w, r, "/login", http.StatusFound)
}

type loginForm struct {
	Email string
}

// GET /login
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "login", newPage(r, loginForm{}))
}

// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	account, token, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginFailure, Email: email})
		h.view.Render(w, statusFor(err), "login", newPage(r, loginForm{Email: email}).withError(userMessage(err)))
		return
	}

	middleware.SetSessionCookie(w, token, h.cookies)
	audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginSuccess, AccountID: account.ID})
	http.Redirect(w, r, "/products", http.StatusFound)
}

// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			log.Error().Err(err).Msg("logout failed")
		}
	}

	middleware.ClearSessionCookie(w, h.cookies)
	if account := middleware.GetAccount(r.Context()); account != nil {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout, AccountID: account.ID})
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

type forgotPasswordForm struct {
	Email     string
	Requested bool
}

// GET /forgot-password
func (h *AuthHandler) ShowForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "forgot_password", newPage(r, forgotPasswordForm{}))
}

// POST /forgot-password
//
// The response is identical whether or not the email belongs to an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")

	if err := h.authService.RequestPasswordReset(r.Context(), email); err != nil {
		log.Error().Err(err).Msg("password reset request failed")
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventPasswordResetReq, Email: email})
	h.view.Render(w, http.StatusOK, "forgot_password", newPage(r, forgotPasswordForm{Requested: true}))
}

type resetPasswordForm struct {
	Token string
}

// GET /reset-password?token=...
func (h *AuthHandler) ShowResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.view.RenderError(w, http.StatusNotFound, "This reset link is invalid or has expired", nil)
		return
	}
	h.view.Render(w, http.StatusOK, "reset_password", newPage(r, resetPasswordForm{Token: token}))
}

// POST /reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	password := r.FormValue("password")

	if err := h.authService.CompletePasswordReset(r.Context(), token, password); err != nil {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventPasswordResetDeny})
		h.view.Render(w, statusFor(err), "reset_password", newPage(r, resetPasswordForm{Token: token}).withError(userMessage(err)))
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventPasswordResetDone})
	http.Redirect(w, r, "/login", http.StatusFound)
}
