package cart

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/pulse-backend/internal/modules/auth"
	"github.com/georgemunganga/pulse-backend/internal/modules/catalog"
)

// Handler exposes the session cart over HTTP. Product lookups go through the
// mirror's snapshots, never the database.
type Handler struct {
	carts     *Manager
	snapshots catalog.SnapshotReader
}

func NewHandler(carts *Manager, snapshots catalog.SnapshotReader) *Handler {
	return &Handler{carts: carts, snapshots: snapshots}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(auth.RequireVerified)
		r.Get("/", h.view)
		r.Post("/items", h.addItem)
		r.Patch("/items/{id}", h.updateItem)
		r.Post("/checkout", h.checkout)
	})
}

type cartView struct {
	Items []Item  `json:"items"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	store := h.carts.For(auth.FromContext(r.Context()).ID)
	respond(w, http.StatusOK, cartView{Items: store.Items(), Total: store.Total(), Count: store.Count()})
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, ok := findProduct(h.snapshots.Products(), req.ProductID)
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if !product.IsAvailable {
		http.Error(w, "product is currently unavailable", http.StatusConflict)
		return
	}

	store := h.carts.For(auth.FromContext(r.Context()).ID)
	store.Add(product, outletName(h.snapshots.Outlets(), product.OutletID))
	respond(w, http.StatusOK, cartView{Items: store.Items(), Total: store.Total(), Count: store.Count()})
}

type updateItemRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	store := h.carts.For(auth.FromContext(r.Context()).ID)
	store.UpdateQuantity(chi.URLParam(r, "id"), req.Delta)
	respond(w, http.StatusOK, cartView{Items: store.Items(), Total: store.Total(), Count: store.Count()})
}

// checkout is demo-complete: it reports the total and clears the cart. No
// payment is taken at this layer.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	store := h.carts.For(auth.FromContext(r.Context()).ID)
	total := store.Total()
	store.Clear()
	respond(w, http.StatusOK, map[string]interface{}{"status": "placed", "total": total})
}

func findProduct(products []catalog.Product, id string) (catalog.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func outletName(outlets []catalog.Outlet, id string) string {
	for _, o := range outlets {
		if o.ID == id {
			return o.Name
		}
	}
	return ""
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
