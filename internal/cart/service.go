package cart

import (
	"context"

	"livemart-be/internal/inventory"
	"livemart-be/internal/logger"
	"livemart-be/internal/pipeline"

	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	// AddOrMerge adds inventory to the buyer's cart, merging quantities when
	// a line already exists. When the merged quantity exceeds current stock
	// the line is persisted anyway and the returned error is
	// *inventory.InsufficientStockError: stock is only enforced hard at
	// checkout.
	AddOrMerge(ctx context.Context, params AddParams) (*Line, error)
	View(ctx context.Context, buyerID uint) (*Cart, error)
	UpdateQuantity(ctx context.Context, params UpdateParams) (*Line, error)
	RemoveLine(ctx context.Context, params RemoveParams) error
	Clear(ctx context.Context, buyerID uint) error
}

type service struct {
	repo          Repository
	inventoryRepo inventory.Repository
	pipe          pipeline.Pipeline
}

func NewService(repo Repository, inventoryRepo inventory.Repository, pipe pipeline.Pipeline) Service {
	return &service{repo: repo, inventoryRepo: inventoryRepo, pipe: pipe}
}

func (s *service) AddOrMerge(ctx context.Context, params AddParams) (*Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddOrMerge"),
		zap.String("pipeline", s.pipe.Name),
		zap.Uint("buyer_id", params.BuyerID),
		zap.Uint("inventory_id", params.InventoryID),
	)

	if params.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	// The offer must belong to this pipeline's seller pool and have stock;
	// otherwise it does not exist from this buyer's point of view.
	rec, err := s.inventoryRepo.GetAvailable(ctx, params.InventoryID, s.pipe.Kind)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.EnsureCart(ctx, params.BuyerID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetLine(ctx, c.ID, params.InventoryID)
	if err != nil {
		return nil, err
	}

	finalQty := params.Quantity
	if existing != nil {
		finalQty += existing.Quantity
	}

	var line *Line
	if existing == nil {
		line, err = s.repo.CreateLine(ctx, c.ID, params.InventoryID, params.Quantity)
	} else {
		line, err = s.repo.UpdateLineQuantity(ctx, existing.ID, finalQty)
	}
	if err != nil {
		return nil, err
	}

	line.ProductName = rec.ProductName
	line.UnitPrice = rec.Price
	line.Stock = rec.Stock

	// Soft check: the line stays at the merged quantity, the checkout
	// re-checks under lock.
	if finalQty > rec.Stock {
		log.Info("cart line exceeds current stock",
			zap.Int("quantity", finalQty),
			zap.Int("stock", rec.Stock),
		)
		return line, &inventory.InsufficientStockError{
			Item:      rec.ProductName,
			Available: rec.Stock,
		}
	}

	return line, nil
}

func (s *service) View(ctx context.Context, buyerID uint) (*Cart, error) {
	c, err := s.repo.EnsureCart(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	c.Lines = lines
	return c, nil
}

func (s *service) UpdateQuantity(ctx context.Context, params UpdateParams) (*Line, error) {
	if params.Quantity <= 0 {
		// Zero or negative quantity removes the line
		if err := s.RemoveLine(ctx, RemoveParams{
			BuyerID:     params.BuyerID,
			InventoryID: params.InventoryID,
		}); err != nil {
			return nil, err
		}
		return nil, nil
	}

	c, err := s.repo.EnsureCart(ctx, params.BuyerID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetLine(ctx, c.ID, params.InventoryID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrLineNotFound
	}

	return s.repo.UpdateLineQuantity(ctx, existing.ID, params.Quantity)
}

func (s *service) RemoveLine(ctx context.Context, params RemoveParams) error {
	c, err := s.repo.EnsureCart(ctx, params.BuyerID)
	if err != nil {
		return err
	}
	return s.repo.RemoveLine(ctx, c.ID, params.InventoryID)
}

func (s *service) Clear(ctx context.Context, buyerID uint) error {
	c, err := s.repo.EnsureCart(ctx, buyerID)
	if err != nil {
		return err
	}
	return s.repo.Clear(ctx, c.ID)
}
