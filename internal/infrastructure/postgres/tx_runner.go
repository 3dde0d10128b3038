package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jcastillo/Taller-api/internal/application/presupuesto"
	"github.com/jcastillo/Taller-api/internal/domain/repository"
)

// Ensure TxRunner implements presupuesto.TxRunner.
var _ presupuesto.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunPresupuesto inicia una transacción, ejecuta fn con los repos de
// presupuestos y tokens atados a la tx y hace Commit o Rollback. Es el
// soporte del camino público aprobar/rechazar: el lock de fila del token
// vive lo que vive esta transacción.
func (r *TxRunner) RunPresupuesto(ctx context.Context, fn func(
	presupuestoRepo repository.PresupuestoRepository,
	tokenRepo repository.TokenRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	presupuestoRepo := NewPresupuestoRepository(tx)
	tokenRepo := NewTokenRepository(tx)

	if err := fn(presupuestoRepo, tokenRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
