package user

import (
	"context"
	"database/sql"
	"errors"

	"livemart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	EnsureCustomerProfile(ctx context.Context, userID uint) (*CustomerProfile, error)
	GetCustomerProfile(ctx context.Context, userID uint) (*CustomerProfile, error)
	UpdateCustomerProfile(ctx context.Context, userID uint, in UpdateCustomerProfileInput) (*CustomerProfile, error)

	GetRetailerProfile(ctx context.Context, userID uint) (*RetailerProfile, error)
	GetWholesalerProfile(ctx context.Context, userID uint) (*WholesalerProfile, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// EnsureCustomerProfile is the explicit get-or-create used by the cart and
// checkout boundary. Safe to call concurrently for the same user.
func (r *repository) EnsureCustomerProfile(ctx context.Context, userID uint) (*CustomerProfile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "EnsureCustomerProfile"),
		zap.Uint("user_id", userID),
	)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customer_profiles (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		log.Error("failed to ensure customer profile", zap.Error(err))
		return nil, err
	}

	return r.GetCustomerProfile(ctx, userID)
}

func (r *repository) GetCustomerProfile(ctx context.Context, userID uint) (*CustomerProfile, error) {
	query := `
		SELECT user_id, phone_number, address, latitude, longitude, created_at
		FROM customer_profiles
		WHERE user_id = $1
	`

	var p CustomerProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.PhoneNumber, &p.Address, &p.Latitude, &p.Longitude, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to scan customer profile", zap.Error(err))
		return nil, err
	}

	return &p, nil
}

func (r *repository) UpdateCustomerProfile(
	ctx context.Context,
	userID uint,
	in UpdateCustomerProfileInput,
) (*CustomerProfile, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateCustomerProfile"),
		zap.Uint("user_id", userID),
	)

	// COALESCE keeps existing values when the input field is nil
	query := `
		UPDATE customer_profiles
		SET phone_number = COALESCE($2, phone_number),
			address = COALESCE($3, address),
			latitude = COALESCE($4, latitude),
			longitude = COALESCE($5, longitude)
		WHERE user_id = $1
		RETURNING user_id, phone_number, address, latitude, longitude, created_at
	`

	var p CustomerProfile
	err := r.db.QueryRowContext(ctx, query,
		userID, in.PhoneNumber, in.Address, in.Latitude, in.Longitude,
	).Scan(&p.UserID, &p.PhoneNumber, &p.Address, &p.Latitude, &p.Longitude, &p.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		log.Error("failed to update customer profile", zap.Error(err))
		return nil, err
	}

	log.Info("customer profile updated")
	return &p, nil
}

func (r *repository) GetRetailerProfile(ctx context.Context, userID uint) (*RetailerProfile, error) {
	query := `
		SELECT user_id, shop_name, shop_address, latitude, longitude, created_at
		FROM retailer_profiles
		WHERE user_id = $1
	`

	var p RetailerProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.ShopName, &p.ShopAddress, &p.Latitude, &p.Longitude, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to scan retailer profile", zap.Error(err))
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetWholesalerProfile(ctx context.Context, userID uint) (*WholesalerProfile, error) {
	query := `
		SELECT user_id, business_name, warehouse_address, latitude, longitude, created_at
		FROM wholesaler_profiles
		WHERE user_id = $1
	`

	var p WholesalerProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.BusinessName, &p.WarehouseAddress, &p.Latitude, &p.Longitude, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to scan wholesaler profile", zap.Error(err))
		return nil, err
	}

	return &p, nil
}
