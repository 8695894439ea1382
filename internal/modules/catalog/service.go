package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/georgemunganga/pulse-backend/internal/modules/remote"
)

// Service coordinates catalog writes against the remote store. Writes never
// touch the local mirror; the change stream reflects them once the store's
// write is durable and has propagated.
type Service interface {
	SaveOutlet(ctx context.Context, req SaveOutletRequest) (*Outlet, error)
	DeleteOutlet(ctx context.Context, id string) error
	SaveProduct(ctx context.Context, req SaveProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// SaveOutletRequest creates or overwrites an outlet. A supplied id overwrites
// any existing document with that id; this backs edit-in-place on the admin
// surface.
type SaveOutletRequest struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	ImageBase64 string   `json:"imageBase64,omitempty"`
	ImageType   string   `json:"imageType,omitempty"`
}

// SaveProductRequest creates or overwrites a product.
type SaveProductRequest struct {
	ID          string  `json:"id,omitempty"`
	OutletID    string  `json:"outletId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	ImageBase64 string  `json:"imageBase64,omitempty"`
	ImageType   string  `json:"imageType,omitempty"`
	IsAvailable *bool   `json:"isAvailable,omitempty"` // nil defaults to available
}

type service struct {
	repo    Repository
	pending *remote.InFlight
}

func NewService(repo Repository) Service {
	return &service{repo: repo, pending: remote.NewInFlight()}
}

func (s *service) SaveOutlet(ctx context.Context, req SaveOutletRequest) (*Outlet, error) {
	if req.Name == "" {
		return nil, remote.Invalid("outlet name is required")
	}
	if req.Location == "" {
		return nil, remote.Invalid("outlet location is required")
	}
	outletType := OutletType(req.Type)
	if outletType != TypeFood && outletType != TypeStationery {
		return nil, remote.Invalid("outlet type must be %q or %q", TypeFood, TypeStationery)
	}

	imageURL := req.ImageURL
	if req.ImageBase64 != "" {
		encoded, err := remote.EncodeImage(req.ImageType, req.ImageBase64)
		if err != nil {
			return nil, err
		}
		imageURL = encoded
	}

	o := &Outlet{
		ID:       req.ID,
		Name:     req.Name,
		Location: req.Location,
		Type:     outletType,
		Tags:     req.Tags,
		ImageURL: imageURL,
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}

	if err := s.pending.Begin("outlet:" + o.ID); err != nil {
		return nil, fmt.Errorf("save outlet: %w", err)
	}
	defer s.pending.End("outlet:" + o.ID)

	if err := s.repo.UpsertOutlet(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// DeleteOutlet removes the outlet document only. Its products stay behind as
// orphans; callers must tolerate them.
func (s *service) DeleteOutlet(ctx context.Context, id string) error {
	if id == "" {
		return remote.Invalid("outlet id is required")
	}
	if err := s.pending.Begin("outlet:" + id); err != nil {
		return fmt.Errorf("delete outlet: %w", err)
	}
	defer s.pending.End("outlet:" + id)
	return s.repo.DeleteOutlet(ctx, id)
}

func (s *service) SaveProduct(ctx context.Context, req SaveProductRequest) (*Product, error) {
	if req.Name == "" {
		return nil, remote.Invalid("product name is required")
	}
	if req.OutletID == "" {
		return nil, remote.Invalid("product outletId is required")
	}
	if req.Price < 0 {
		return nil, remote.Invalid("product price must not be negative")
	}

	imageURL := req.ImageURL
	if req.ImageBase64 != "" {
		encoded, err := remote.EncodeImage(req.ImageType, req.ImageBase64)
		if err != nil {
			return nil, err
		}
		imageURL = encoded
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	p := &Product{
		ID:          req.ID,
		OutletID:    req.OutletID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    imageURL,
		IsAvailable: available,
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	if err := s.pending.Begin("product:" + p.ID); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	defer s.pending.End("product:" + p.ID)

	if err := s.repo.UpsertProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return remote.Invalid("product id is required")
	}
	if err := s.pending.Begin("product:" + id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer s.pending.End("product:" + id)
	return s.repo.DeleteProduct(ctx, id)
}
