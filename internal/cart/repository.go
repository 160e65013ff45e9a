package cart

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"livemart-be/internal/logger"
	"livemart-be/internal/pipeline"

	"go.uber.org/zap"
)

type Repository interface {
	EnsureCart(ctx context.Context, buyerID uint) (*Cart, error)
	GetLines(ctx context.Context, cartID uint) ([]*Line, error)
	GetLine(ctx context.Context, cartID, inventoryID uint) (*Line, error)
	CreateLine(ctx context.Context, cartID, inventoryID uint, quantity int) (*Line, error)
	UpdateLineQuantity(ctx context.Context, lineID uint, quantity int) (*Line, error)
	RemoveLine(ctx context.Context, cartID, inventoryID uint) error
	Clear(ctx context.Context, cartID uint) error
}

// repository serves one pipeline: the same code runs the retail and the
// wholesale cart over different tables.
type repository struct {
	db   *sql.DB
	pipe pipeline.Pipeline
}

func NewRepository(db *sql.DB, pipe pipeline.Pipeline) Repository {
	return &repository{db: db, pipe: pipe}
}

// EnsureCart is the lazy get-or-create: a buyer's cart comes into existence
// on first touch and then lives forever.
func (r *repository) EnsureCart(ctx context.Context, buyerID uint) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "EnsureCart"),
		zap.String("pipeline", r.pipe.Name),
		zap.Uint("buyer_id", buyerID),
	)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO `+r.pipe.CartTable+` (`+r.pipe.BuyerColumn+`)
		VALUES ($1)
		ON CONFLICT (`+r.pipe.BuyerColumn+`) DO NOTHING
	`, buyerID)
	if err != nil {
		log.Error("failed to ensure cart", zap.Error(err))
		return nil, err
	}

	var c Cart
	err = r.db.QueryRowContext(ctx, `
		SELECT id, `+r.pipe.BuyerColumn+`, created_at
		FROM `+r.pipe.CartTable+`
		WHERE `+r.pipe.BuyerColumn+` = $1
	`, buyerID).Scan(&c.ID, &c.BuyerID, &c.CreatedAt)
	if err != nil {
		log.Error("failed to load cart", zap.Error(err))
		return nil, err
	}

	return &c, nil
}

func (r *repository) GetLines(ctx context.Context, cartID uint) ([]*Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetLines"),
		zap.String("pipeline", r.pipe.Name),
		zap.Uint("cart_id", cartID),
	)

	start := time.Now()

	query := `
		SELECT
			l.id,
			l.cart_id,
			l.inventory_id,
			l.quantity,
			l.created_at,
			l.updated_at,
			p.name,
			i.price,
			i.stock
		FROM ` + r.pipe.CartItemTable + ` l
		JOIN inventories i ON i.id = l.inventory_id
		JOIN products p ON p.id = i.product_id
		WHERE l.cart_id = $1
		ORDER BY l.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		log.Error("query failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	defer rows.Close()

	var lines []*Line
	for rows.Next() {
		var ln Line
		if err := rows.Scan(
			&ln.ID,
			&ln.CartID,
			&ln.InventoryID,
			&ln.Quantity,
			&ln.CreatedAt,
			&ln.UpdatedAt,
			&ln.ProductName,
			&ln.UnitPrice,
			&ln.Stock,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		lines = append(lines, &ln)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("cart lines fetched",
		zap.Int("rows", len(lines)),
		zap.Duration("duration", time.Since(start)),
	)

	return lines, nil
}

func (r *repository) GetLine(ctx context.Context, cartID, inventoryID uint) (*Line, error) {
	query := `
		SELECT id, cart_id, inventory_id, quantity, created_at, updated_at
		FROM ` + r.pipe.CartItemTable + `
		WHERE cart_id = $1 AND inventory_id = $2
	`

	var ln Line
	err := r.db.QueryRowContext(ctx, query, cartID, inventoryID).Scan(
		&ln.ID, &ln.CartID, &ln.InventoryID, &ln.Quantity, &ln.CreatedAt, &ln.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &ln, nil
}

func (r *repository) CreateLine(
	ctx context.Context,
	cartID, inventoryID uint,
	quantity int,
) (*Line, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateLine"),
		zap.String("pipeline", r.pipe.Name),
		zap.Uint("cart_id", cartID),
		zap.Uint("inventory_id", inventoryID),
	)

	query := `
		INSERT INTO ` + r.pipe.CartItemTable + ` (cart_id, inventory_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, cart_id, inventory_id, quantity, created_at, updated_at
	`

	var ln Line
	err := r.db.QueryRowContext(ctx, query, cartID, inventoryID, quantity).Scan(
		&ln.ID, &ln.CartID, &ln.InventoryID, &ln.Quantity, &ln.CreatedAt, &ln.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create cart line", zap.Error(err))
		return nil, err
	}

	log.Info("cart line created", zap.Uint("line_id", ln.ID))
	return &ln, nil
}

func (r *repository) UpdateLineQuantity(ctx context.Context, lineID uint, quantity int) (*Line, error) {
	query := `
		UPDATE ` + r.pipe.CartItemTable + `
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, cart_id, inventory_id, quantity, created_at, updated_at
	`

	var ln Line
	err := r.db.QueryRowContext(ctx, query, quantity, lineID).Scan(
		&ln.ID, &ln.CartID, &ln.InventoryID, &ln.Quantity, &ln.CreatedAt, &ln.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLineNotFound
	}
	if err != nil {
		return nil, err
	}

	return &ln, nil
}

func (r *repository) RemoveLine(ctx context.Context, cartID, inventoryID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM `+r.pipe.CartItemTable+`
		WHERE cart_id = $1 AND inventory_id = $2
	`, cartID, inventoryID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLineNotFound
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, cartID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM `+r.pipe.CartItemTable+`
		WHERE cart_id = $1
	`, cartID)
	return err
}
