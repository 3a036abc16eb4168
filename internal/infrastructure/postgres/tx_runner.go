package postgres

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jvidalc/stock-core/internal/application/inventory"
	"github.com/jvidalc/stock-core/internal/domain/repository"
	"github.com/jvidalc/stock-core/pkg/metrics"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

const (
	maxTxAttempts       = 3
	retryBaseWait       = 50 * time.Millisecond
	retryJitterFraction = 0.25
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Ante conflicto de serialización o deadlock (40001/40P01) reintenta la
// transacción completa hasta maxTxAttempts con backoff exponencial y jitter;
// cualquier otro error se propaga de inmediato.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if attempt > 0 {
			metrics.TxRetries.Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryWait(attempt)):
			}
		}
		err = r.runOnce(ctx, fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	stockRepo := NewStockRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(movRepo, stockRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// retryWait calcula la espera del intento (1-indexado) con jitter de ±25%.
func retryWait(attempt int) time.Duration {
	base := retryBaseWait << (attempt - 1)
	jitter := time.Duration(float64(base) * retryJitterFraction * (2*rand.Float64() - 1))
	return base + jitter
}
