package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"livemart-be/internal/inventory"
	"livemart-be/internal/logger"
	"livemart-be/internal/order"
	"livemart-be/internal/pipeline"
	"livemart-be/internal/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	// CheckoutTx converts the buyer's cart into an order in one
	// transaction. On any failure nothing is left behind: no order row, no
	// stock change, cart untouched.
	CheckoutTx(ctx context.Context, buyerID uint, in Input) (*order.Order, error)
}

type repository struct {
	db          *sql.DB
	ledger      inventory.Ledger
	pipe        pipeline.Pipeline
	lockTimeout time.Duration
}

func NewRepository(
	db *sql.DB,
	ledger inventory.Ledger,
	pipe pipeline.Pipeline,
	lockTimeout time.Duration,
) Repository {
	if lockTimeout <= 0 {
		lockTimeout = 3 * time.Second
	}
	return &repository{db: db, ledger: ledger, pipe: pipe, lockTimeout: lockTimeout}
}

type cartLine struct {
	inventoryID uint
	quantity    int
}

func (r *repository) CheckoutTx(ctx context.Context, buyerID uint, in Input) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CheckoutTx"),
		zap.String("pipeline", r.pipe.Name),
		zap.Uint("buyer_id", buyerID),
	)

	start := time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("rollback failed", zap.Error(rbErr))
			}
		}
	}()

	// Bound the wait on contended inventory rows. SET LOCAL scopes the
	// setting to this transaction.
	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		"SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds(),
	))
	if err != nil {
		log.Error("failed to set lock timeout", zap.Error(err))
		return nil, err
	}

	cartID, lines, err := r.readCart(ctx, tx, buyerID)
	if err != nil {
		return nil, err
	}

	o, err := r.insertOrder(ctx, tx, buyerID, in)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	ids := make([]uint, len(lines))
	for i, ln := range lines {
		ids[i] = ln.inventoryID
	}

	records, err := r.ledger.LockRecords(ctx, tx, ids)
	if err != nil {
		if isLockTimeout(err) {
			log.Warn("lock wait exceeded", zap.Duration("lock_timeout", r.lockTimeout))
			return nil, ErrLockTimeout
		}
		log.Error("failed to lock inventory", zap.Error(err))
		return nil, err
	}

	total := decimal.Zero
	for _, ln := range lines {
		rec, ok := records[ln.inventoryID]
		if !ok {
			// Offer vanished between cart time and now.
			return nil, &inventory.InsufficientStockError{
				Item:      fmt.Sprintf("inventory %d", ln.inventoryID),
				Available: 0,
			}
		}
		if rec.Stock < ln.quantity {
			return nil, &inventory.InsufficientStockError{
				Item:      rec.ProductName,
				Available: rec.Stock,
			}
		}

		if err := r.ledger.Decrement(ctx, tx, ln.inventoryID, ln.quantity); err != nil {
			log.Error("failed to decrement stock",
				zap.Uint("inventory_id", ln.inventoryID),
				zap.Error(err),
			)
			return nil, err
		}

		lineTotal := rec.Price.Mul(decimal.NewFromInt(int64(ln.quantity)))
		total = total.Add(lineTotal)

		item := &order.Item{
			OrderID:         o.ID,
			InventoryID:     ln.inventoryID,
			ProductName:     rec.ProductName,
			Quantity:        ln.quantity,
			PriceAtPurchase: rec.Price,
			Status:          order.ItemPending,
		}
		if err := r.insertItem(ctx, tx, item); err != nil {
			log.Error("failed to insert order item",
				zap.Uint("inventory_id", ln.inventoryID),
				zap.Error(err),
			)
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE `+r.pipe.OrderTable+`
		SET total_price = $1, updated_at = NOW()
		WHERE id = $2
	`, total, o.ID)
	if err != nil {
		log.Error("failed to write order total", zap.Error(err))
		return nil, err
	}
	o.TotalPrice = total

	_, err = tx.ExecContext(ctx, `
		DELETE FROM `+r.pipe.CartItemTable+`
		WHERE cart_id = $1
	`, cartID)
	if err != nil {
		log.Error("failed to empty cart", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed", zap.Error(err))
		return nil, err
	}
	committed = true

	log.Info("checkout committed",
		zap.Uint("order_id", o.ID),
		zap.String("invoice_number", o.InvoiceNumber),
		zap.String("total_price", total.StringFixed(2)),
		zap.Int("items", len(o.Items)),
		zap.Duration("duration", time.Since(start)),
	)

	return o, nil
}

// readCart loads the cart and its lines inside the transaction so the
// checkout works off a consistent snapshot.
func (r *repository) readCart(
	ctx context.Context,
	tx *sql.Tx,
	buyerID uint,
) (uint, []cartLine, error) {

	var cartID uint
	err := tx.QueryRowContext(ctx, `
		SELECT id
		FROM `+r.pipe.CartTable+`
		WHERE `+r.pipe.BuyerColumn+` = $1
	`, buyerID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, ErrEmptyCart
	}
	if err != nil {
		return 0, nil, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT inventory_id, quantity
		FROM `+r.pipe.CartItemTable+`
		WHERE cart_id = $1
		ORDER BY inventory_id
	`, cartID)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	var lines []cartLine
	for rows.Next() {
		var ln cartLine
		if err := rows.Scan(&ln.inventoryID, &ln.quantity); err != nil {
			return 0, nil, err
		}
		lines = append(lines, ln)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}

	if len(lines) == 0 {
		return 0, nil, ErrEmptyCart
	}

	return cartID, lines, nil
}

// insertOrder stages the anchor row with a zero total; the real total is
// written once every line has cleared the stock check.
func (r *repository) insertOrder(
	ctx context.Context,
	tx *sql.Tx,
	buyerID uint,
	in Input,
) (*order.Order, error) {

	o := &order.Order{
		ExternalID:            uuid.New(),
		BuyerID:               buyerID,
		InvoiceNumber:         utils.GenerateInvoiceNumber(),
		Status:                order.StatusPending,
		TotalPrice:            decimal.Zero,
		Address:               in.Address,
		OfflinePayment:        in.OfflinePayment,
		ScheduledDeliveryDate: in.ScheduledDeliveryDate,
	}

	query := `
		INSERT INTO ` + r.pipe.OrderTable + ` (
			external_id, ` + r.pipe.BuyerColumn + `, invoice_number, status,
			total_price, ` + r.pipe.AddressColumn + `, is_offline_payment,
			scheduled_delivery_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRowContext(ctx, query,
		o.ExternalID,
		o.BuyerID,
		o.InvoiceNumber,
		o.Status,
		o.TotalPrice,
		o.Address,
		o.OfflinePayment,
		o.ScheduledDeliveryDate,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) insertItem(ctx context.Context, tx *sql.Tx, item *order.Item) error {
	query := `
		INSERT INTO ` + r.pipe.OrderItemTable + ` (
			order_id, inventory_id, quantity, price_at_purchase, status
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	return tx.QueryRowContext(ctx, query,
		item.OrderID,
		item.InventoryID,
		item.Quantity,
		item.PriceAtPurchase,
		item.Status,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func isLockTimeout(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == PgLockNotAvailable
}
