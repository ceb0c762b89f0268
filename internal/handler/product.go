package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/lcdsoft/storefront/internal/errors"
	"github.com/lcdsoft/storefront/internal/middleware"
	"github.com/lcdsoft/storefront/internal/model"
	"github.com/lcdsoft/storefront/internal/service"
	"github.com/lcdsoft/storefront/internal/view"
)

type ProductHandler struct {
	productService *service.ProductService
	view           *view.Renderer
}

func NewProductHandler(productService *service.ProductService, renderer *view.Renderer) *ProductHandler {
	return &ProductHandler{productService: productService, view: renderer}
}

// Routes mounts the product pages. Everything here requires a session.
func (h *ProductHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequireAuth)

	r.Get("/", h.List)
	r.Get("/new", h.ShowCreate)
	r.Post("/", h.Create)
	r.Get("/{productID}/edit", h.ShowEdit)
	r.Post("/{productID}", h.Update)
	r.Post("/{productID}/delete", h.Delete)

	r.NotFound(NotFound(h.view))

	return r
}

type productListData struct {
	Products []model.Product
	Page     int
	NextPage int
	PrevPage int
}

// GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	pageNum := parsePage(r)

	products, err := h.productService.List(r.Context(), pageNum)
	if err != nil {
		h.view.RenderError(w, statusFor(err), userMessage(err), err)
		return
	}

	data := productListData{Products: products, Page: pageNum, PrevPage: pageNum - 1}
	if len(products) > 0 {
		data.NextPage = pageNum + 1
	}
	h.view.Render(w, http.StatusOK, "products", newPage(r, data))
}

// productFormData drives the shared create/edit form. Editing is true when
// the form posts to an existing product.
type productFormData struct {
	Editing     bool
	ID          string
	Name        string
	Description string
	Price       string
}

// GET /products/new
func (h *ProductHandler) ShowCreate(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "product_form", newPage(r, productFormData{}))
}

// POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	description := r.FormValue("description")
	price := r.FormValue("price")

	var ownerID string
	if account := middleware.GetAccount(r.Context()); account != nil {
		ownerID = account.ID
	}

	_, err := h.productService.Create(r.Context(), name, description, price, ownerID)
	if err != nil {
		form := productFormData{Name: name, Description: description, Price: price}
		h.view.Render(w, statusFor(err), "product_form", newPage(r, form).withError(userMessage(err)))
		return
	}

	http.Redirect(w, r, "/products", http.StatusFound)
}

// GET /products/{productID}/edit
func (h *ProductHandler) ShowEdit(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.view.RenderError(w, statusFor(err), userMessage(err), err)
		return
	}

	form := productFormData{
		Editing:     true,
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price(),
	}
	h.view.Render(w, http.StatusOK, "product_form", newPage(r, form))
}

// POST /products/{productID}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	name := r.FormValue("name")
	description := r.FormValue("description")
	price := r.FormValue("price")

	_, err := h.productService.Update(r.Context(), id, name, description, price)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeNotFound {
			h.view.RenderError(w, http.StatusNotFound, userMessage(err), err)
			return
		}
		form := productFormData{Editing: true, ID: id, Name: name, Description: description, Price: price}
		h.view.Render(w, statusFor(err), "product_form", newPage(r, form).withError(userMessage(err)))
		return
	}

	http.Redirect(w, r, "/products", http.StatusFound)
}

// POST /products/{productID}/delete
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
		h.view.RenderError(w, statusFor(err), userMessage(err), err)
		return
	}

	http.Redirect(w, r, "/products", http.StatusFound)
}
