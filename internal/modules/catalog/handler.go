package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/pulse-backend/internal/modules/auth"
	"github.com/georgemunganga/pulse-backend/internal/modules/remote"
)

// SnapshotReader provides the mirror's current catalog snapshots. Reads are
// served from these, never from the database.
type SnapshotReader interface {
	Outlets() []Outlet
	Products() []Product
}

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service   Service
	snapshots SnapshotReader
}

func NewHandler(service Service, snapshots SnapshotReader) *Handler {
	return &Handler{service: service, snapshots: snapshots}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/outlets", func(r chi.Router) {
		r.With(auth.RequireVerified).Get("/", h.listOutlets)
		r.With(auth.RequireVerified).Get("/{id}/products", h.listOutletProducts)
		r.With(auth.RequireAdmin).Post("/", h.saveOutlet)
		r.With(auth.RequireAdmin).Put("/{id}", h.updateOutlet)
		r.With(auth.RequireAdmin).Delete("/{id}", h.deleteOutlet)
	})
	r.Route("/api/v1/products", func(r chi.Router) {
		r.With(auth.RequireAdmin).Get("/orphaned", h.listOrphanedProducts)
		r.With(auth.RequireAdmin).Post("/", h.saveProduct)
		r.With(auth.RequireAdmin).Put("/{id}", h.updateProduct)
		r.With(auth.RequireAdmin).Delete("/{id}", h.deleteProduct)
	})
}

func (h *Handler) listOutlets(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := OutletType(r.URL.Query().Get("category"))
	respond(w, http.StatusOK, FilterOutlets(h.snapshots.Outlets(), search, category))
}

func (h *Handler) listOutletProducts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	respond(w, http.StatusOK, ProductsForOutlet(h.snapshots.Products(), id))
}

func (h *Handler) listOrphanedProducts(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, OrphanedProducts(h.snapshots.Products(), h.snapshots.Outlets()))
}

func (h *Handler) saveOutlet(w http.ResponseWriter, r *http.Request) {
	var req SaveOutletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o, err := h.service.SaveOutlet(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), remote.HTTPStatus(err))
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) updateOutlet(w http.ResponseWriter, r *http.Request) {
	var req SaveOutletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.ID = chi.URLParam(r, "id")
	o, err := h.service.SaveOutlet(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), remote.HTTPStatus(err))
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) deleteOutlet(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOutlet(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), remote.HTTPStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) saveProduct(w http.ResponseWriter, r *http.Request) {
	var req SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.service.SaveProduct(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), remote.HTTPStatus(err))
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.ID = chi.URLParam(r, "id")
	p, err := h.service.SaveProduct(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), remote.HTTPStatus(err))
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), remote.HTTPStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
