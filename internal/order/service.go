package order

import (
	"context"

	"livemart-be/internal/logger"
	"livemart-be/internal/pipeline"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, params ListParams) ([]*Order, error)
	Detail(ctx context.Context, buyerID, orderID uint) (*Order, error)
	// Cancel lets the buyer abandon an order that has not been paid yet.
	Cancel(ctx context.Context, buyerID, orderID uint) (*Order, error)
	// UpdateStatus applies a validated forward transition on behalf of the
	// buyer-facing surface (e.g. marking an offline-payment order PAID).
	UpdateStatus(ctx context.Context, buyerID, orderID uint, to Status) (*Order, error)
}

type service struct {
	repo Repository
	pipe pipeline.Pipeline
}

func NewService(repo Repository, pipe pipeline.Pipeline) Service {
	return &service{repo: repo, pipe: pipe}
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Order, error) {
	if params.Status != nil && !params.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.FetchOrders(ctx, params)
}

func (s *service) Detail(ctx context.Context, buyerID, orderID uint) (*Order, error) {
	return s.repo.GetOrderDetail(ctx, buyerID, orderID)
}

func (s *service) Cancel(ctx context.Context, buyerID, orderID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.String("pipeline", s.pipe.Name),
		zap.Uint("order_id", orderID),
	)

	o, err := s.repo.GetOrderDetail(ctx, buyerID, orderID)
	if err != nil {
		return nil, err
	}

	// Buyers may only cancel before payment; later cancellation is a
	// seller/support concern.
	if o.Status != StatusPending {
		return nil, ErrNotCancellable
	}

	if err := s.repo.UpdateStatus(ctx, orderID, StatusPending, StatusCancelled); err != nil {
		return nil, err
	}

	log.Info("order cancelled", zap.String("invoice_number", o.InvoiceNumber))

	o.Status = StatusCancelled
	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, buyerID, orderID uint, to Status) (*Order, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetOrderDetail(ctx, buyerID, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(o.Status, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, orderID, o.Status, to); err != nil {
		return nil, err
	}

	o.Status = to
	return o, nil
}
