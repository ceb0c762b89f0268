package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lcdsoft/storefront/internal/service"
	"github.com/lcdsoft/storefront/internal/view"
)

// PagesHandler serves the public informational pages and the contact form.
type PagesHandler struct {
	contactService *service.ContactService
	view           *view.Renderer
}

func NewPagesHandler(contactService *service.ContactService, renderer *view.Renderer) *PagesHandler {
	return &PagesHandler{contactService: contactService, view: renderer}
}

// Mount registers the public pages on the root router.
func (h *PagesHandler) Mount(r chi.Router) {
	r.Get("/contact", h.ShowContact)
	r.Post("/contact", h.Contact)
	r.Get("/help", h.Help)
}

type contactForm struct {
	Name    string
	Email   string
	Message string
	Sent    bool
}

// GET /contact
func (h *PagesHandler) ShowContact(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "contact", newPage(r, contactForm{}))
}

// POST /contact
func (h *PagesHandler) Contact(w http.ResponseWriter, r *http.Request) {
	form := contactForm{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}

	if err := h.contactService.Send(r.Context(), form.Name, form.Email, form.Message); err != nil {
		h.view.Render(w, statusFor(err), "contact", newPage(r, form).withError(userMessage(err)))
		return
	}

	h.view.Render(w, http.StatusOK, "contact", newPage(r, contactForm{Sent: true}))
}

// GET /help
func (h *PagesHandler) Help(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "help", newPage(r, nil))
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UnixMilli(),
	})
}

// NotFound renders the shared 404 page for unknown routes.
func NotFound(renderer *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.RenderError(w, http.StatusNotFound, "Page not found", nil)
	}
}
