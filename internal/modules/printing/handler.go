package printing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/pulse-backend/internal/modules/auth"
	"github.com/georgemunganga/pulse-backend/internal/modules/remote"
)

// OrderSnapshots provides the mirror's current print-order snapshot, already
// sorted most recent first.
type OrderSnapshots interface {
	PrintOrders() []Order
}

// Handler exposes print-service HTTP endpoints.
type Handler struct {
	service   Service
	snapshots OrderSnapshots
}

func NewHandler(service Service, snapshots OrderSnapshots) *Handler {
	return &Handler{service: service, snapshots: snapshots}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/print/orders", func(r chi.Router) {
		r.With(auth.RequireVerified).Post("/", h.submit)
		r.With(auth.RequireVerified).Get("/mine", h.listMine)
		r.With(auth.RequireAdmin).Get("/", h.list)
		r.With(auth.RequireAdmin).Post("/{id}/status", h.updateStatus)
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user := auth.FromContext(r.Context())
	o, err := h.service.Submit(r.Context(), *user, req)
	if err != nil {
		http.Error(w, err.Error(), remote.HTTPStatus(err))
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.snapshots.PrintOrders())
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	respond(w, http.StatusOK, OrdersForUser(h.snapshots.PrintOrders(), user.ID))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), Status(req.Status))
	if err != nil {
		http.Error(w, err.Error(), remote.HTTPStatus(err))
		return
	}
	respond(w, http.StatusOK, o)
}

// OrdersForUser slices the snapshot down to one submitter, preserving its
// most-recent-first order.
func OrdersForUser(orders []Order, userID string) []Order {
	matched := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.UserID == userID {
			matched = append(matched, o)
		}
	}
	return matched
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
