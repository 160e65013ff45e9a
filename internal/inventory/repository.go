package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"livemart-be/internal/logger"
	"livemart-be/internal/pipeline"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Ledger is the transactional stock contract the checkout engine runs on.
// Both methods operate inside the caller's transaction; LockRecords takes
// exclusive row locks in ascending id order so concurrent checkouts that
// share items cannot deadlock.
type Ledger interface {
	LockRecords(ctx context.Context, tx *sql.Tx, ids []uint) (map[uint]*Record, error)
	Decrement(ctx context.Context, tx *sql.Tx, id uint, qty int) error
}

type Repository interface {
	Ledger

	GetByID(ctx context.Context, id uint) (*Record, error)
	GetAvailable(ctx context.Context, id uint, kind pipeline.SellerKind) (*Record, error)
	ListBySeller(ctx context.Context, kind pipeline.SellerKind, sellerID uint, limit, page int) ([]*Record, error)

	Create(ctx context.Context, params CreateParams) (*Record, error)
	Update(ctx context.Context, id uint, params UpdateParams) (*Record, error)
	Delete(ctx context.Context, id uint, kind pipeline.SellerKind, sellerID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const recordColumns = `
	i.id,
	i.product_id,
	p.name,
	i.retailer_id,
	i.wholesaler_id,
	i.price,
	i.stock,
	i.available_via_wholesaler,
	i.availability_date,
	i.created_at,
	i.updated_at
`

func scanRecord(row interface{ Scan(...any) error }) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID,
		&rec.ProductID,
		&rec.ProductName,
		&rec.RetailerID,
		&rec.WholesalerID,
		&rec.Price,
		&rec.Stock,
		&rec.AvailableViaWholesaler,
		&rec.AvailabilityDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventories i
		JOIN products p ON p.id = i.product_id
		WHERE i.id = $1
	`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInventoryNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get inventory", zap.Uint("inventory_id", id), zap.Error(err))
		return nil, err
	}

	return rec, nil
}

// GetAvailable resolves an offer for add-to-cart: it must belong to the
// pipeline's seller pool and have stock on hand. Anything else is NotFound.
func (r *repository) GetAvailable(
	ctx context.Context,
	id uint,
	kind pipeline.SellerKind,
) (*Record, error) {

	query := `
		SELECT ` + recordColumns + `
		FROM inventories i
		JOIN products p ON p.id = i.product_id
		WHERE i.id = $1
		  AND i.` + kind.SellerColumn() + ` IS NOT NULL
		  AND i.stock > 0
	`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInventoryNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get available inventory",
			zap.Uint("inventory_id", id),
			zap.String("seller_kind", string(kind)),
			zap.Error(err),
		)
		return nil, err
	}

	return rec, nil
}

func (r *repository) ListBySeller(
	ctx context.Context,
	kind pipeline.SellerKind,
	sellerID uint,
	limit, page int,
) ([]*Record, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListBySeller"),
		zap.Uint("seller_id", sellerID),
	)

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `
		SELECT ` + recordColumns + `
		FROM inventories i
		JOIN products p ON p.id = i.product_id
		WHERE i.` + kind.SellerColumn() + ` = $1
		ORDER BY i.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, sellerID, limit, offset)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := make([]*Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	return result, nil
}

func (r *repository) Create(ctx context.Context, params CreateParams) (*Record, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateInventory"),
		zap.Uint("product_id", params.ProductID),
		zap.Uint("seller_id", params.SellerID),
	)

	query := fmt.Sprintf(`
		INSERT INTO inventories (
			product_id, %s, price, stock,
			available_via_wholesaler, availability_date
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, params.Kind.SellerColumn())

	var id uint
	err := r.db.QueryRowContext(ctx, query,
		params.ProductID,
		params.SellerID,
		params.Price,
		params.Stock,
		params.AvailableViaWholesaler,
		params.AvailabilityDate,
	).Scan(&id)
	if err != nil {
		log.Error("failed to create inventory", zap.Error(err))
		return nil, err
	}

	log.Info("inventory created", zap.Uint("inventory_id", id))
	return r.GetByID(ctx, id)
}

func (r *repository) Update(ctx context.Context, id uint, params UpdateParams) (*Record, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateInventory"),
		zap.Uint("inventory_id", id),
		zap.Uint("seller_id", params.SellerID),
	)

	// Owner scoping lives in the WHERE clause: a seller cannot touch
	// another seller's rows.
	query := fmt.Sprintf(`
		UPDATE inventories
		SET price = COALESCE($3, price),
			stock = COALESCE($4, stock),
			availability_date = COALESCE($5, availability_date),
			updated_at = NOW()
		WHERE id = $1 AND %s = $2
		RETURNING id
	`, params.Kind.SellerColumn())

	var updated uint
	err := r.db.QueryRowContext(ctx, query,
		id, params.SellerID, params.Price, params.Stock, params.AvailabilityDate,
	).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInventoryNotFound
	}
	if err != nil {
		log.Error("failed to update inventory", zap.Error(err))
		return nil, err
	}

	return r.GetByID(ctx, updated)
}

func (r *repository) Delete(
	ctx context.Context,
	id uint,
	kind pipeline.SellerKind,
	sellerID uint,
) error {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "DeleteInventory"),
		zap.Uint("inventory_id", id),
		zap.Uint("seller_id", sellerID),
	)

	query := fmt.Sprintf(
		`DELETE FROM inventories WHERE id = $1 AND %s = $2`,
		kind.SellerColumn(),
	)

	res, err := r.db.ExecContext(ctx, query, id, sellerID)
	if err != nil {
		// Order items reference inventories with ON DELETE RESTRICT; a
		// referenced row must never disappear from under its order history.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgForeignKeyViolation {
			log.Warn("delete blocked by order item reference")
			return ErrInventoryInUse
		}
		log.Error("failed to delete inventory", zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInventoryNotFound
	}

	log.Info("inventory deleted")
	return nil
}

// LockRecords takes FOR UPDATE locks on every requested row, ascending by
// id. Rows that do not exist are simply absent from the result map.
func (r *repository) LockRecords(
	ctx context.Context,
	tx *sql.Tx,
	ids []uint,
) (map[uint]*Record, error) {

	keys := make([]int64, len(ids))
	for i, id := range ids {
		keys[i] = int64(id)
	}

	query := `
		SELECT ` + recordColumns + `
		FROM inventories i
		JOIN products p ON p.id = i.product_id
		WHERE i.id = ANY($1)
		ORDER BY i.id
		FOR UPDATE OF i
	`

	rows, err := tx.QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[uint]*Record, len(ids))
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Decrement assumes the row is already locked by LockRecords and the caller
// verified qty against the locked stock. The guard stays anyway.
func (r *repository) Decrement(ctx context.Context, tx *sql.Tx, id uint, qty int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE inventories
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`, qty, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("decrement of inventory %d by %d lost its lock guarantee", id, qty)
	}

	return nil
}
