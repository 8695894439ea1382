package printing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/georgemunganga/pulse-backend/internal/modules/auth"
	"github.com/georgemunganga/pulse-backend/internal/modules/remote"
)

// Service defines the print-job business logic.
type Service interface {
	// Submit validates the job, prices it, and persists the order. The total
	// is computed at submission time and never revised afterwards.
	Submit(ctx context.Context, user auth.Identity, req SubmitRequest) (*Order, error)

	// UpdateStatus advances an order one step along
	// pending → printed → delivered.
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
}

// SubmitRequest is the payload for placing a print order. FileBase64 is the
// raw base64 of the uploaded file; the service encodes it as a self-contained
// data URL after checking the size ceiling.
type SubmitRequest struct {
	FileName         string  `json:"fileName"`
	FileType         string  `json:"fileType"`
	FileBase64       string  `json:"fileBase64"`
	Options          Options `json:"options"`
	DeliveryLocation string  `json:"deliveryLocation"`
}

type service struct {
	repo    Repository
	pending *remote.InFlight
	now     func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, pending: remote.NewInFlight(), now: time.Now}
}

// forward holds the single allowed next status for each state. delivered is
// terminal.
var forward = map[Status]Status{
	StatusPending: StatusPrinted,
	StatusPrinted: StatusDelivered,
}

func (s *service) Submit(ctx context.Context, user auth.Identity, req SubmitRequest) (*Order, error) {
	if req.FileName == "" {
		return nil, remote.Invalid("a file is required")
	}
	if strings.TrimSpace(req.DeliveryLocation) == "" {
		return nil, remote.Invalid("a delivery location is required")
	}
	if err := validateOptions(&req.Options); err != nil {
		return nil, err
	}

	fileURL, err := remote.EncodePrintFile(req.FileType, req.FileBase64)
	if err != nil {
		return nil, err
	}

	now := s.now()
	o := &Order{
		ID:               fmt.Sprintf("print-%d", now.UnixMilli()),
		UserID:           user.ID,
		UserEmail:        user.Email,
		FileName:         req.FileName,
		FileType:         req.FileType,
		FileBase64:       fileURL,
		Options:          req.Options,
		TotalPrice:       ComputePrice(req.Options),
		Status:           StatusPending,
		Timestamp:        now.UnixMilli(),
		DeliveryLocation: req.DeliveryLocation,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	// The in-flight key is claimed before the read so the check-then-update
	// below cannot interleave with a concurrent transition on the same order.
	if err := s.pending.Begin("print:" + id); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	defer s.pending.End("print:" + id)

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("print order not found: %w", err)
	}

	// Defensive guard: the admin surface only offers the valid next step, but
	// skipping or reversing states is refused here regardless.
	if forward[o.Status] != status {
		return nil, remote.Invalid("cannot move print order from %s to %s", o.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	o.Status = status
	return o, nil
}

func validateOptions(opts *Options) error {
	if opts.Copies < 1 {
		return remote.Invalid("copies must be at least 1")
	}
	if opts.PaperSize != PaperA4 && opts.PaperSize != PaperA5 {
		return remote.Invalid("paper size must be %s or %s", PaperA4, PaperA5)
	}
	if opts.ColorType != BlackAndWhite && opts.ColorType != FullColor {
		return remote.Invalid("color type must be %s or %s", BlackAndWhite, FullColor)
	}
	if opts.Sides != SingleSided && opts.Sides != DoubleSided {
		return remote.Invalid("sides must be %s or %s", SingleSided, DoubleSided)
	}
	if opts.PageRange == "" {
		opts.PageRange = "all"
	}
	return nil
}
