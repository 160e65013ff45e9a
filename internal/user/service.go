package user

import (
	"context"
	"errors"
	"strings"
)

// Service is the profile boundary the checkout pipelines lean on: an
// idempotent ensure-exists and the stored-address fallback.
type Service interface {
	EnsureCustomerProfile(ctx context.Context, userID uint) (*CustomerProfile, error)
	GetCustomerProfile(ctx context.Context, userID uint) (*CustomerProfile, error)
	UpdateCustomerProfile(ctx context.Context, userID uint, in UpdateCustomerProfileInput) (*CustomerProfile, error)

	// StoredAddress returns the buyer's on-file address for the given role:
	// a customer's delivery address, or a retailer's shop address. Empty
	// string when nothing is on file.
	StoredAddress(ctx context.Context, role string, userID uint) (string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) EnsureCustomerProfile(ctx context.Context, userID uint) (*CustomerProfile, error) {
	if userID == 0 {
		return nil, errors.New("user ID is required")
	}
	return s.repo.EnsureCustomerProfile(ctx, userID)
}

func (s *service) GetCustomerProfile(ctx context.Context, userID uint) (*CustomerProfile, error) {
	return s.repo.GetCustomerProfile(ctx, userID)
}

func (s *service) UpdateCustomerProfile(
	ctx context.Context,
	userID uint,
	in UpdateCustomerProfileInput,
) (*CustomerProfile, error) {
	return s.repo.UpdateCustomerProfile(ctx, userID, in)
}

func (s *service) StoredAddress(ctx context.Context, role string, userID uint) (string, error) {
	switch role {
	case RoleCustomer:
		p, err := s.repo.GetCustomerProfile(ctx, userID)
		if errors.Is(err, ErrProfileNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if p.Address == nil {
			return "", nil
		}
		return strings.TrimSpace(*p.Address), nil

	case RoleRetailer:
		p, err := s.repo.GetRetailerProfile(ctx, userID)
		if errors.Is(err, ErrProfileNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(p.ShopAddress), nil

	default:
		return "", ErrUnknownRole
	}
}
