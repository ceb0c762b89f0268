package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lcdsoft/storefront/internal/middleware"
	"github.com/lcdsoft/storefront/internal/service"
	"github.com/lcdsoft/storefront/internal/view"
)

type DashboardHandler struct {
	productService *service.ProductService
	view           *view.Renderer
}

func NewDashboardHandler(productService *service.ProductService, renderer *view.Renderer) *DashboardHandler {
	return &DashboardHandler{productService: productService, view: renderer}
}

func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequireAuth)
	r.Get("/", h.Show)

	return r
}

type dashboardData struct {
	ProductCount int
}

// GET /dashboard
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	count, err := h.productService.Count(r.Context())
	if err != nil {
		h.view.RenderError(w, statusFor(err), userMessage(err), err)
		return
	}

	h.view.Render(w, http.StatusOK, "dashboard", newPage(r, dashboardData{ProductCount: count}))
}
