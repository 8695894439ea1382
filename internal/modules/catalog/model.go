package catalog

// OutletType groups outlets on the storefront landing view.
type OutletType string

const (
	TypeFood       OutletType = "food"
	TypeStationery OutletType = "stationery"
)

// Outlet is a campus vendor: a food-court stall or a stationery shop.
// The id is globally unique and immutable once created.
type Outlet struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Location string     `json:"location"`
	Type     OutletType `json:"type"`
	Tags     []string   `json:"tags"`
	ImageURL string     `json:"imageUrl,omitempty"`
}

// Product is a menu or shelf item belonging to an outlet. Referential
// integrity to the outlet is assumed by readers, not enforced by the store:
// deleting an outlet leaves its products orphaned.
type Product struct {
	ID          string  `json:"id"`
	OutletID    string  `json:"outletId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	IsAvailable bool    `json:"isAvailable"`
}
