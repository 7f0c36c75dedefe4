package payout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/armoredmart/armoredmart-backend/internal/modules/auth"
	"github.com/armoredmart/armoredmart-backend/internal/transition"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	router.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/payouts", h.requestPayout)
		r.Get("/payouts/{id}", h.getPayout)
		r.Get("/vendors/{vendorID}/payouts", h.listByVendor)

		r.Get("/admin/payouts", h.listByStatus)
		r.Post("/admin/payouts/{id}/review", h.review)
	})
}

func (h *Handler) requestPayout(w http.ResponseWriter, r *http.Request) {
	var req CreatePayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.service.RequestPayout(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) getPayout(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) listByVendor(w http.ResponseWriter, r *http.Request) {
	payouts, err := h.service.ListByVendor(r.Context(), chi.URLParam(r, "vendorID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payouts)
}

func (h *Handler) listByStatus(w http.ResponseWriter, r *http.Request) {
	payouts, err := h.service.ListByStatus(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payouts)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req ReviewPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.service.Review(r.Context(), chi.URLParam(r, "id"), caller, req)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func statusCode(err error) int {
	var mf *transition.MissingFieldError
	switch {
	case errors.Is(err, ErrNotFound):
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
