package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"livemart-be/internal/logger"
	"livemart-be/internal/pipeline"

	"go.uber.org/zap"
)

type Repository interface {
	FetchOrders(ctx context.Context, params ListParams) ([]*Order, error)
	GetOrderDetail(ctx context.Context, buyerID, orderID uint) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, from, to Status) error
}

type repository struct {
	db   *sql.DB
	pipe pipeline.Pipeline
}

func NewRepository(db *sql.DB, pipe pipeline.Pipeline) Repository {
	return &repository{db: db, pipe: pipe}
}

func (r *repository) orderColumns() string {
	return `o.id,
		o.external_id,
		o.` + r.pipe.BuyerColumn + `,
		o.invoice_number,
		o.status,
		o.total_price,
		o.` + r.pipe.AddressColumn + `,
		o.is_offline_payment,
		o.scheduled_delivery_date,
		o.created_at,
		o.updated_at`
}

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.ExternalID,
		&o.BuyerID,
		&o.InvoiceNumber,
		&o.Status,
		&o.TotalPrice,
		&o.Address,
		&o.OfflinePayment,
		&o.ScheduledDeliveryDate,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) FetchOrders(ctx context.Context, params ListParams) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FetchOrders"),
		zap.String("pipeline", r.pipe.Name),
		zap.Uint("buyer_id", params.BuyerID),
	)

	start := time.Now()

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `
		SELECT ` + r.orderColumns() + `
		FROM ` + r.pipe.OrderTable + ` o
		WHERE o.` + r.pipe.BuyerColumn + ` = $1
	`
	args := []any{params.BuyerID}

	if params.Status != nil {
		args = append(args, *params.Status)
		query += fmt.Sprintf(" AND o.status = $%d", len(args))
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("orders fetched",
		zap.Int("rows", len(orders)),
		zap.Duration("duration", time.Since(start)),
	)

	return orders, nil
}

// GetOrderDetail is buyer-scoped: an order belonging to someone else is
// indistinguishable from a missing one.
func (r *repository) GetOrderDetail(ctx context.Context, buyerID, orderID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrderDetail"),
		zap.String("pipeline", r.pipe.Name),
		zap.Uint("buyer_id", buyerID),
		zap.Uint("order_id", orderID),
	)

	query := `
		SELECT ` + r.orderColumns() + `
		FROM ` + r.pipe.OrderTable + ` o
		WHERE o.id = $1 AND o.` + r.pipe.BuyerColumn + ` = $2
	`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID, buyerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to load order", zap.Error(err))
		return nil, err
	}

	itemQuery := `
		SELECT
			it.id,
			it.order_id,
			it.inventory_id,
			p.name,
			it.quantity,
			it.price_at_purchase,
			it.status,
			it.created_at,
			it.updated_at
		FROM ` + r.pipe.OrderItemTable + ` it
		JOIN inventories i ON i.id = it.inventory_id
		JOIN products p ON p.id = i.product_id
		WHERE it.order_id = $1
		ORDER BY it.id
	`

	rows, err := r.db.QueryContext(ctx, itemQuery, orderID)
	if err != nil {
		log.Error("failed to load order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.InventoryID,
			&it.ProductName,
			&it.Quantity,
			&it.PriceAtPurchase,
			&it.Status,
			&it.CreatedAt,
			&it.UpdatedAt,
		); err != nil {
			log.Error("item scan failed", zap.Error(err))
			return nil, err
		}
		o.Items = append(o.Items, &it)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	return o, nil
}

// UpdateStatus is optimistic: the WHERE clause pins the expected current
// status so concurrent writers cannot double-apply a transition.
func (r *repository) UpdateStatus(ctx context.Context, orderID uint, from, to Status) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatus"),
		zap.String("pipeline", r.pipe.Name),
		zap.Uint("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	res, err := r.db.ExecContext(ctx, `
		UPDATE `+r.pipe.OrderTable+`
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, orderID, from)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStatusConflict
	}

	log.Info("order status updated")
	return nil
}
