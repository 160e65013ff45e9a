package cart

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"livemart-be/internal/pipeline"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T, pipe pipeline.Pipeline) (Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db, pipe), mock, func() { db.Close() }
}

func TestEnsureCart(t *testing.T) {
	t.Run("creates cart on first touch", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, pipeline.Retail)
		defer done()

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO carts (customer_id)`)).
			WithArgs(uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, customer_id, created_at`)).
			WithArgs(uint(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "created_at"}).
				AddRow(1, 7, time.Now()))

		c, err := repo.EnsureCart(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, uint(1), c.ID)
		assert.Equal(t, uint(7), c.BuyerID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wholesale pipeline uses its own tables", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, pipeline.Wholesale)
		defer done()

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO wholesale_carts (retailer_id)`)).
			WithArgs(uint(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM wholesale_carts`)).
			WithArgs(uint(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "retailer_id", "created_at"}).
				AddRow(4, 3, time.Now()))

		c, err := repo.EnsureCart(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, uint(4), c.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetLines(t *testing.T) {
	repo, mock, done := newMockRepo(t, pipeline.Retail)
	defer done()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "cart_id", "inventory_id", "quantity",
		"created_at", "updated_at", "name", "price", "stock",
	}).
		AddRow(1, 1, 10, 2, now, now, "Rice 5kg", "10.00", 5).
		AddRow(2, 1, 11, 1, now, now, "Cooking Oil", "4.50", 8)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM cart_items l`)).
		WithArgs(uint(1)).
		WillReturnRows(rows)

	lines, err := repo.GetLines(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Rice 5kg", lines[0].ProductName)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, 5, lines[0].Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLine(t *testing.T) {
	t.Run("returns nil when no line exists", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, pipeline.Retail)
		defer done()

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE cart_id = $1 AND inventory_id = $2`)).
			WithArgs(uint(1), uint(10)).
			WillReturnError(sql.ErrNoRows)

		ln, err := repo.GetLine(context.Background(), 1, 10)
		require.NoError(t, err)
		assert.Nil(t, ln)
	})

	t.Run("returns existing line", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, pipeline.Retail)
		defer done()

		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE cart_id = $1 AND inventory_id = $2`)).
			WithArgs(uint(1), uint(10)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "cart_id", "inventory_id", "quantity", "created_at", "updated_at",
			}).AddRow(5, 1, 10, 2, now, now))

		ln, err := repo.GetLine(context.Background(), 1, 10)
		require.NoError(t, err)
		require.NotNil(t, ln)
		assert.Equal(t, 2, ln.Quantity)
	})
}

func TestCreateLine(t *testing.T) {
	repo, mock, done := newMockRepo(t, pipeline.Retail)
	defer done()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO cart_items (cart_id, inventory_id, quantity)`)).
		WithArgs(uint(1), uint(10), 2).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "cart_id", "inventory_id", "quantity", "created_at", "updated_at",
		}).AddRow(5, 1, 10, 2, now, now))

	ln, err := repo.CreateLine(context.Background(), 1, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(5), ln.ID)
	assert.Equal(t, 2, ln.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLineQuantity(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, pipeline.Retail)
		defer done()

		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE cart_items`)).
			WithArgs(5, uint(9)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "cart_id", "inventory_id", "quantity", "created_at", "updated_at",
			}).AddRow(9, 1, 10, 5, now, now))

		ln, err := repo.UpdateLineQuantity(context.Background(), 9, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, ln.Quantity)
	})

	t.Run("missing line", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, pipeline.Retail)
		defer done()

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE cart_items`)).
			WithArgs(5, uint(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.UpdateLineQuantity(context.Background(), 99, 5)
		assert.ErrorIs(t, err, ErrLineNotFound)
	})
}

func TestRemoveLine(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, pipeline.Retail)
		defer done()

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items`)).
			WithArgs(uint(1), uint(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.RemoveLine(context.Background(), 1, 10))
	})

	t.Run("missing line", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, pipeline.Retail)
		defer done()

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items`)).
			WithArgs(uint(1), uint(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.RemoveLine(context.Background(), 1, 10), ErrLineNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, pipeline.Retail)
		defer done()

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items`)).
			WithArgs(uint(1), uint(10)).
			WillReturnError(errors.New("connection lost"))

		assert.Error(t, repo.RemoveLine(context.Background(), 1, 10))
	})
}

func TestClear(t *testing.T) {
	repo, mock, done := newMockRepo(t, pipeline.Retail)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items`)).
		WithArgs(uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.Clear(context.Background(), 1))
}
