package inventory

import (
	"context"

	"livemart-be/internal/pipeline"
)

// Service covers the seller-facing ledger mutations. The transactional
// Ledger contract is consumed directly by the checkout engine.
type Service interface {
	GetByID(ctx context.Context, id uint) (*Record, error)
	ListBySeller(ctx context.Context, kind pipeline.SellerKind, sellerID uint, limit, page int) ([]*Record, error)

	Create(ctx context.Context, params CreateParams) (*Record, error)
	Update(ctx context.Context, id uint, params UpdateParams) (*Record, error)
	Delete(ctx context.Context, id uint, kind pipeline.SellerKind, sellerID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id uint) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListBySeller(
	ctx context.Context,
	kind pipeline.SellerKind,
	sellerID uint,
	limit, page int,
) ([]*Record, error) {
	return s.repo.ListBySeller(ctx, kind, sellerID, limit, page)
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Record, error) {
	if !params.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if params.Stock < 0 {
		return nil, ErrInvalidStock
	}
	return s.repo.Create(ctx, params)
}

func (s *service) Update(ctx context.Context, id uint, params UpdateParams) (*Record, error) {
	if params.Price != nil && !params.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if params.Stock != nil && *params.Stock < 0 {
		return nil, ErrInvalidStock
	}
	return s.repo.Update(ctx, id, params)
}

func (s *service) Delete(ctx context.Context, id uint, kind pipeline.SellerKind, sellerID uint) error {
	return s.repo.Delete(ctx, id, kind, sellerID)
}
