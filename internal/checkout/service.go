package checkout

import (
	"context"
	"errors"
	"strings"

	"livemart-be/internal/inventory"
	"livemart-be/internal/logger"
	"livemart-be/internal/metrics"
	"livemart-be/internal/order"
	"livemart-be/internal/pipeline"
	"livemart-be/internal/user"

	"go.uber.org/zap"
)

type Service interface {
	Checkout(ctx context.Context, buyerID uint, in Input) (*order.Order, error)
}

type service struct {
	repo     Repository
	users    user.Service
	pipe     pipeline.Pipeline
	counters *metrics.Checkout
}

func NewService(
	repo Repository,
	users user.Service,
	pipe pipeline.Pipeline,
	counters *metrics.Checkout,
) Service {
	return &service{repo: repo, users: users, pipe: pipe, counters: counters}
}

func (s *service) Checkout(ctx context.Context, buyerID uint, in Input) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.String("pipeline", s.pipe.Name),
		zap.Uint("buyer_id", buyerID),
	)

	s.counters.Attempts.Inc()
	timer := metrics.StartTimer()

	in.Address = strings.TrimSpace(in.Address)
	if in.Address == "" {
		stored, err := s.users.StoredAddress(ctx, s.pipe.BuyerRole, buyerID)
		if err != nil {
			return nil, err
		}
		in.Address = stored
	}
	if in.Address == "" {
		return nil, ErrMissingAddress
	}

	if !s.pipe.OfflinePayment {
		in.OfflinePayment = false
		in.ScheduledDeliveryDate = nil
	}

	o, err := s.repo.CheckoutTx(ctx, buyerID, in)
	if err != nil {
		var insufficient *inventory.InsufficientStockError
		switch {
		case errors.As(err, &insufficient):
			s.counters.StockConflicts.Inc()
			log.Info("checkout rejected on stock",
				zap.String("item", insufficient.Item),
				zap.Int("available", insufficient.Available),
			)
		case errors.Is(err, ErrLockTimeout):
			s.counters.LockTimeouts.Inc()
		}
		return nil, err
	}

	s.counters.Commits.Inc()
	log.Info("checkout succeeded",
		zap.Uint("order_id", o.ID),
		zap.Duration("duration", timer.Duration()),
	)

	return o, nil
}
