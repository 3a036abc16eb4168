package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvidalc/stock-core/internal/domain"
	"github.com/jvidalc/stock-core/internal/domain/entity"
)

func setupStockRepo(t *testing.T) (*StockRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStockRepository(mock), mock
}

var testKey = entity.StockKey{WarehouseID: "wh-a", ProductID: "prod-1", VariantID: ""}

func stockRowsFields() []string {
	return []string{"warehouse_id", "product_id", "variant_id", "quantity", "reserved_qty", "updated_at"}
}

func stockRow(qty, reserved int64) *pgxmock.Rows {
	return pgxmock.NewRows(stockRowsFields()).
		AddRow(testKey.WarehouseID, testKey.ProductID, testKey.VariantID, qty, reserved, time.Now())
}

// TestStockRepo_Get_SinFila: clave nunca tocada devuelve nil sin error.
func TestStockRepo_Get_SinFila(t *testing.T) {
	repo, mock := setupStockRepo(t)

	mock.ExpectQuery("SELECT .+ FROM stock WHERE").
		WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID).
		WillReturnError(pgx.ErrNoRows)

	s, err := repo.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestStockRepo_ApplyDelta_PositivoUpsert: el delta positivo va por el upsert
// (crea la fila si no existe o suma sobre la existente) y devuelve la fila resultante.
func TestStockRepo_ApplyDelta_PositivoUpsert(t *testing.T) {
	repo, mock := setupStockRepo(t)

	mock.ExpectQuery("INSERT INTO stock").
		WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID, int64(100)).
		WillReturnRows(stockRow(100, 0))

	s, err := repo.ApplyDelta(context.Background(), testKey, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), s.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestStockRepo_ApplyDelta_NegativoOk: el delta negativo va por el update condicional.
func TestStockRepo_ApplyDelta_NegativoOk(t *testing.T) {
	repo, mock := setupStockRepo(t)

	mock.ExpectQuery("UPDATE stock").
		WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID, int64(-60)).
		WillReturnRows(stockRow(40, 0))

	s, err := repo.ApplyDelta(context.Background(), testKey, -60)
	require.NoError(t, err)
	assert.Equal(t, int64(40), s.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestStockRepo_ApplyDelta_Insuficiente: cero filas afectadas se traduce en
// InsufficientStockError con el disponible real consultado aparte.
func TestStockRepo_ApplyDelta_Insuficiente(t *testing.T) {
	repo, mock := setupStockRepo(t)

	mock.ExpectQuery("UPDATE stock").
		WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID, int64(-150)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT quantity - reserved_qty").
		WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID).
		WillReturnRows(pgxmock.NewRows([]string{"available"}).AddRow(int64(100)))

	s, err := repo.ApplyDelta(context.Background(), testKey, -150)
	require.Error(t, err)
	assert.Nil(t, s)

	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, int64(150), insErr.Requested)
	assert.Equal(t, int64(100), insErr.Available)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestStockRepo_ApplyDelta_InsuficienteSinFila: fila ausente cuenta como
// disponible cero y no se materializa.
func TestStockRepo_ApplyDelta_InsuficienteSinFila(t *testing.T) {
	repo, mock := setupStockRepo(t)

	mock.ExpectQuery("UPDATE stock").
		WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID, int64(-10)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT quantity - reserved_qty").
		WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.ApplyDelta(context.Background(), testKey, -10)
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, int64(0), insErr.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestStockRepo_Reserve cubre reserva exitosa, disponible insuficiente y qty inválida.
func TestStockRepo_Reserve(t *testing.T) {
	t.Run("exitosa", func(t *testing.T) {
		repo, mock := setupStockRepo(t)
		mock.ExpectQuery("UPDATE stock").
			WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID, int64(30)).
			WillReturnRows(stockRow(100, 30))

		s, err := repo.Reserve(context.Background(), testKey, 30)
		require.NoError(t, err)
		assert.Equal(t, int64(30), s.ReservedQty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insuficiente", func(t *testing.T) {
		repo, mock := setupStockRepo(t)
		mock.ExpectQuery("UPDATE stock").
			WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID, int64(80)).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("SELECT quantity - reserved_qty").
			WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID).
			WillReturnRows(pgxmock.NewRows([]string{"available"}).AddRow(int64(70)))

		_, err := repo.Reserve(context.Background(), testKey, 80)
		var insErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &insErr)
		assert.Equal(t, int64(70), insErr.Available)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cantidad no positiva", func(t *testing.T) {
		repo, _ := setupStockRepo(t)
		_, err := repo.Reserve(context.Background(), testKey, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// TestStockRepo_Release cubre liberación exitosa y liberar más de lo reservado.
func TestStockRepo_Release(t *testing.T) {
	t.Run("exitosa", func(t *testing.T) {
		repo, mock := setupStockRepo(t)
		mock.ExpectQuery("UPDATE stock").
			WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID, int64(30)).
			WillReturnRows(stockRow(100, 0))

		s, err := repo.Release(context.Background(), testKey, 30)
		require.NoError(t, err)
		assert.Equal(t, int64(0), s.ReservedQty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mas de lo reservado", func(t *testing.T) {
		repo, mock := setupStockRepo(t)
		mock.ExpectQuery("UPDATE stock").
			WithArgs(testKey.WarehouseID, testKey.ProductID, testKey.VariantID, int64(99)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.Release(context.Background(), testKey, 99)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestStockRepo_Summary verifica el mapeo de los agregados por bodega.
func TestStockRepo_Summary(t *testing.T) {
	repo, mock := setupStockRepo(t)

	mock.ExpectQuery("SELECT").
		WithArgs("wh-a").
		WillReturnRows(pgxmock.NewRows([]string{"total_items", "total_quantity", "total_reserved", "low_stock_count"}).
			AddRow(int64(12), int64(340), int64(25), int64(3)))

	summary, err := repo.Summary(context.Background(), "wh-a")
	require.NoError(t, err)
	assert.Equal(t, "wh-a", summary.WarehouseID)
	assert.Equal(t, int64(12), summary.TotalItems)
	assert.Equal(t, int64(340), summary.TotalQuantity)
	assert.Equal(t, int64(25), summary.TotalReserved)
	assert.Equal(t, int64(3), summary.LowStockCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestStockRepo_LowStock verifica el listado de claves bajo mínimo, ordenado
// por déficit, y el modo "todas las bodegas" con warehouseID vacío.
func TestStockRepo_LowStock(t *testing.T) {
	cols := []string{"warehouse_id", "product_id", "variant_id", "sku", "name", "quantity", "min_stock"}

	t.Run("por bodega", func(t *testing.T) {
		repo, mock := setupStockRepo(t)
		mock.ExpectQuery("SELECT .+ FROM stock s").
			WithArgs("wh-a").
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow("wh-a", "prod-1", "", "SKU-001", "Tornillo", int64(2), int64(50)).
				AddRow("wh-a", "prod-2", "", "SKU-002", "Tuerca", int64(20), int64(30)))

		items, err := repo.LowStock(context.Background(), "wh-a")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "SKU-001", items[0].SKU)
		assert.Equal(t, int64(50), items[0].MinStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("todas las bodegas", func(t *testing.T) {
		repo, mock := setupStockRepo(t)
		mock.ExpectQuery("SELECT .+ FROM stock s").
			WillReturnRows(pgxmock.NewRows(cols))

		items, err := repo.LowStock(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
