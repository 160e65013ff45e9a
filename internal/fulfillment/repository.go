package fulfillment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"livemart-be/internal/logger"
	"livemart-be/internal/order"
	"livemart-be/internal/pipeline"

	"go.uber.org/zap"
)

type Repository interface {
	ListSellerItems(ctx context.Context, params QueueParams) ([]*QueueItem, error)
	GetItem(ctx context.Context, itemID uint) (*QueueItem, error)
	UpdateItemStatus(ctx context.Context, itemID uint, from, to order.ItemStatus) error
}

type repository struct {
	db   *sql.DB
	pipe pipeline.Pipeline
}

func NewRepository(db *sql.DB, pipe pipeline.Pipeline) Repository {
	return &repository{db: db, pipe: pipe}
}

func (r *repository) queueColumns() string {
	return `it.id,
		it.order_id,
		o.invoice_number,
		o.` + r.pipe.BuyerColumn + `,
		i.` + r.pipe.Kind.SellerColumn() + `,
		p.name,
		it.quantity,
		it.price_at_purchase,
		it.status,
		o.status,
		o.` + r.pipe.AddressColumn + `,
		it.created_at,
		it.updated_at`
}

func (r *repository) queueJoins() string {
	return `
		FROM ` + r.pipe.OrderItemTable + ` it
		JOIN ` + r.pipe.OrderTable + ` o ON o.id = it.order_id
		JOIN inventories i ON i.id = it.inventory_id
		JOIN products p ON p.id = i.product_id
	`
}

func scanQueueItem(row interface{ Scan(...any) error }) (*QueueItem, error) {
	var q QueueItem
	err := row.Scan(
		&q.ItemID,
		&q.OrderID,
		&q.InvoiceNumber,
		&q.BuyerID,
		&q.SellerID,
		&q.ProductName,
		&q.Quantity,
		&q.PriceAtPurchase,
		&q.Status,
		&q.OrderStatus,
		&q.Address,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListSellerItems is the seller's fulfillment queue: every item of theirs
// across all orders, newest first.
func (r *repository) ListSellerItems(ctx context.Context, params QueueParams) ([]*QueueItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListSellerItems"),
		zap.String("pipeline", r.pipe.Name),
		zap.Uint("seller_id", params.SellerID),
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
		SELECT ` + r.queueColumns() + r.queueJoins() + `
		WHERE i.` + r.pipe.Kind.SellerColumn() + ` = $1
	`
	args := []any{params.SellerID}

	if params.Status != nil {
		args = append(args, *params.Status)
		query += fmt.Sprintf(" AND it.status = $%d", len(args))
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY it.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	defer rows.Close()

	var items []*QueueItem
	for rows.Next() {
		q, err := scanQueueItem(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("fulfillment queue fetched",
		zap.Int("rows", len(items)),
		zap.Duration("duration", time.Since(start)),
	)

	return items, nil
}

// GetItem loads the item with its owning seller id so the service can make
// the ownership call. Not seller-scoped on purpose: the caller must tell
// "not yours" apart from "does not exist".
func (r *repository) GetItem(ctx context.Context, itemID uint) (*QueueItem, error) {
	query := `
		SELECT ` + r.queueColumns() + r.queueJoins() + `
		WHERE it.id = $1
	`

	q, err := scanQueueItem(r.db.QueryRowContext(ctx, query, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load order item",
			zap.Uint("item_id", itemID),
			zap.Error(err),
		)
		return nil, err
	}

	return q, nil
}

func (r *repository) UpdateItemStatus(ctx context.Context, itemID uint, from, to order.ItemStatus) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateItemStatus"),
		zap.String("pipeline", r.pipe.Name),
		zap.Uint("item_id", itemID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	res, err := r.db.ExecContext(ctx, `
		UPDATE `+r.pipe.OrderItemTable+`
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, itemID, from)
	if err != nil {
		log.Error("failed to update item status", zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStatusConflict
	}

	log.Info("order item status updated")
	return nil
}
