package fulfillment

import (
	"context"
	"time"

	"livemart-be/internal/logger"
	"livemart-be/internal/notification"
	"livemart-be/internal/order"
	"livemart-be/internal/pipeline"

	"go.uber.org/zap"
)

type Service interface {
	Queue(ctx context.Context, params QueueParams) ([]*QueueItem, error)
	// Transition moves one of the seller's own items to the next status.
	// Items of other sellers in the same order are untouchable.
	Transition(ctx context.Context, sellerID, itemID uint, to order.ItemStatus) (*QueueItem, error)
}

type service struct {
	repo      Repository
	publisher notification.Publisher
	pipe      pipeline.Pipeline
}

func NewService(repo Repository, publisher notification.Publisher, pipe pipeline.Pipeline) Service {
	return &service{repo: repo, publisher: publisher, pipe: pipe}
}

func (s *service) Queue(ctx context.Context, params QueueParams) ([]*QueueItem, error) {
	if params.Status != nil && !params.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListSellerItems(ctx, params)
}

func (s *service) Transition(ctx context.Context, sellerID, itemID uint, to order.ItemStatus) (*QueueItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Transition"),
		zap.String("pipeline", s.pipe.Name),
		zap.Uint("seller_id", sellerID),
		zap.Uint("item_id", itemID),
	)

	if !to.Valid() {
		return nil, ErrInvalidStatus
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.SellerID != sellerID {
		log.Warn("cross-seller transition refused", zap.Uint("owner_id", item.SellerID))
		return nil, ErrNotItemOwner
	}

	if !order.CanTransitionItem(item.Status, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateItemStatus(ctx, itemID, item.Status, to); err != nil {
		return nil, err
	}

	item.Status = to
	log.Info("item transitioned", zap.String("status", string(to)))

	// Delivery notices go out after the status write and never affect its
	// outcome.
	if to == order.ItemDelivered {
		s.publisher.Publish(ctx, notification.Event{
			Type:       notification.EventItemDelivered,
			Recipient:  item.BuyerID,
			OrderID:    item.OrderID,
			ItemID:     item.ItemID,
			ItemName:   item.ProductName,
			Pipeline:   s.pipe.Name,
			OccurredAt: time.Now().UTC(),
		})
	}

	return item, nil
}
