package checkout

import (
	"context"
	"testing"
	"time"

	"livemart-be/internal/inventory"
	"livemart-be/internal/metrics"
	"livemart-be/internal/order"
	"livemart-be/internal/pipeline"
	"livemart-be/internal/user"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CheckoutTx(ctx context.Context, buyerID uint, in Input) (*order.Order, error) {
	args := m.Called(ctx, buyerID, in)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) EnsureCustomerProfile(ctx context.Context, userID uint) (*user.CustomerProfile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*user.CustomerProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) GetCustomerProfile(ctx context.Context, userID uint) (*user.CustomerProfile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*user.CustomerProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) UpdateCustomerProfile(ctx context.Context, userID uint, in user.UpdateCustomerProfileInput) (*user.CustomerProfile, error) {
	args := m.Called(ctx, userID, in)
	if p, ok := args.Get(0).(*user.CustomerProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) StoredAddress(ctx context.Context, role string, userID uint) (string, error) {
	args := m.Called(ctx, role, userID)
	return args.String(0), args.Error(1)
}

var stockErr = inventory.InsufficientStockError{Item: "Rice 5kg", Available: 3}

func TestCheckoutAddressResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("request address wins", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserService)
		counters := &metrics.Checkout{}

		repo.On("CheckoutTx", ctx, uint(7), Input{Address: "12 Main St"}).
			Return(&order.Order{ID: 1, Address: "12 Main St"}, nil)

		svc := NewService(repo, users, pipeline.Retail, counters)

		o, err := svc.Checkout(ctx, 7, Input{Address: "  12 Main St  "})
		require.NoError(t, err)
		assert.Equal(t, "12 Main St", o.Address)
		users.AssertNotCalled(t, "StoredAddress", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("falls back to stored profile address", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserService)
		counters := &metrics.Checkout{}

		users.On("StoredAddress", ctx, "CUSTOMER", uint(7)).Return("9 Elm Rd", nil)
		repo.On("CheckoutTx", ctx, uint(7), Input{Address: "9 Elm Rd"}).
			Return(&order.Order{ID: 1, Address: "9 Elm Rd"}, nil)

		svc := NewService(repo, users, pipeline.Retail, counters)

		o, err := svc.Checkout(ctx, 7, Input{})
		require.NoError(t, err)
		assert.Equal(t, "9 Elm Rd", o.Address)
	})

	t.Run("wholesale falls back to the retailer shop address", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserService)
		counters := &metrics.Checkout{}

		users.On("StoredAddress", ctx, "RETAILER", uint(3)).Return("Shop 4, Market Sq", nil)
		repo.On("CheckoutTx", ctx, uint(3), Input{Address: "Shop 4, Market Sq"}).
			Return(&order.Order{ID: 2}, nil)

		svc := NewService(repo, users, pipeline.Wholesale, counters)

		_, err := svc.Checkout(ctx, 3, Input{})
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("no address anywhere", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserService)
		counters := &metrics.Checkout{}

		users.On("StoredAddress", ctx, "CUSTOMER", uint(7)).Return("", nil)

		svc := NewService(repo, users, pipeline.Retail, counters)

		_, err := svc.Checkout(ctx, 7, Input{})
		assert.ErrorIs(t, err, ErrMissingAddress)
		repo.AssertNotCalled(t, "CheckoutTx", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCheckoutPaymentFlags(t *testing.T) {
	ctx := context.Background()

	t.Run("retail keeps offline payment and scheduled delivery", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserService)
		counters := &metrics.Checkout{}

		when := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
		in := Input{Address: "12 Main St", OfflinePayment: true, ScheduledDeliveryDate: &when}
		repo.On("CheckoutTx", ctx, uint(7), in).Return(&order.Order{ID: 1}, nil)

		svc := NewService(repo, users, pipeline.Retail, counters)

		_, err := svc.Checkout(ctx, 7, in)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("wholesale strips them", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserService)
		counters := &metrics.Checkout{}

		when := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
		repo.On("CheckoutTx", ctx, uint(3), Input{Address: "Warehouse Rd 4"}).
			Return(&order.Order{ID: 2}, nil)

		svc := NewService(repo, users, pipeline.Wholesale, counters)

		_, err := svc.Checkout(ctx, 3, Input{
			Address:               "Warehouse Rd 4",
			OfflinePayment:        true,
			ScheduledDeliveryDate: &when,
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestCheckoutMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("commit counted", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserService)
		counters := &metrics.Checkout{}

		repo.On("CheckoutTx", ctx, uint(7), mock.Anything).
			Return(&order.Order{ID: 1, TotalPrice: decimal.RequireFromString("20.00")}, nil)

		svc := NewService(repo, users, pipeline.Retail, counters)

		_, err := svc.Checkout(ctx, 7, Input{Address: "12 Main St"})
		require.NoError(t, err)

		snap := counters.Snapshot()
		assert.Equal(t, uint64(1), snap.Attempts)
		assert.Equal(t, uint64(1), snap.Commits)
	})

	t.Run("stock conflict counted", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserService)
		counters := &metrics.Checkout{}

		repo.On("CheckoutTx", ctx, uint(7), mock.Anything).
			Return(nil, &stockErr)

		svc := NewService(repo, users, pipeline.Retail, counters)

		_, err := svc.Checkout(ctx, 7, Input{Address: "12 Main St"})
		require.Error(t, err)

		snap := counters.Snapshot()
		assert.Equal(t, uint64(1), snap.StockConflicts)
		assert.Equal(t, uint64(0), snap.Commits)
	})

	t.Run("lock timeout counted", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserService)
		counters := &metrics.Checkout{}

		repo.On("CheckoutTx", ctx, uint(7), mock.Anything).Return(nil, ErrLockTimeout)

		svc := NewService(repo, users, pipeline.Retail, counters)

		_, err := svc.Checkout(ctx, 7, Input{Address: "12 Main St"})
		assert.ErrorIs(t, err, ErrLockTimeout)
		assert.Equal(t, uint64(1), counters.Snapshot().LockTimeouts)
	})
}
