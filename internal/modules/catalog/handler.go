package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/armoredmart/armoredmart-backend/internal/modules/auth"
	"github.com/armoredmart/armoredmart-backend/internal/modules/refdata"
	"github.com/armoredmart/armoredmart-backend/internal/transition"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	router.Get("/products/{id}", h.getProduct)
	router.Get("/categories/{categoryID}/products", h.listPublished)

	router.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/products", h.createProduct)
		r.Get("/vendors/{vendorID}/products", h.listVendorProducts)
		r.Post("/products/{id}/action", h.applyAction)
	})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) listVendorProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListVendorProducts(r.Context(),
		chi.URLParam(r, "vendorID"), r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) listPublished(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListPublished(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) applyAction(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req ProductActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.service.ApplyAction(r.Context(), chi.URLParam(r, "id"), caller, req)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func statusCode(err error) int {
	var mf *transition.MissingFieldError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, refdata.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrVendorNotEligible):
		return http.StatusForbidden
	case errors.Is(err, transition.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, transition.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.As(err, &mf):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
