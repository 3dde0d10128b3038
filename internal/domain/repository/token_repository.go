package repository

import (
	"context"

	"github.com/jcastillo/Taller-api/internal/domain/entity"
)

// TokenRepository define el puerto de persistencia para los tokens públicos.
// Los tokens nunca se borran; invalidar es marcar usado.
type TokenRepository interface {
	Create(ctx context.Context, t *entity.PresupuestoToken) error
	GetByToken(ctx context.Context, token string) (*entity.PresupuestoToken, error)
	// GetByTokenForUpdate obtiene el token bloqueando la fila (SELECT ... FOR UPDATE),
	// de modo que dos envíos concurrentes del mismo token se serialicen y el
	// perdedor observe Usado=true. Solo dentro de una transacción.
	GetByTokenForUpdate(ctx context.Context, token string) (*entity.PresupuestoToken, error)
	// MarkUsed marca el token como usado con la IP de origen para auditoría.
	MarkUsed(ctx context.Context, token, sourceIP string) error
	// ListUnusedByPresupuesto devuelve los tokens vivos (no usados) del presupuesto.
	ListUnusedByPresupuesto(ctx context.Context, presupuestoID string) ([]*entity.PresupuestoToken, error)
	// InvalidateUnused marca usados todos los tokens no usados del presupuesto,
	// sin IP ni fecha de uso (fueron superseded, no consumidos por el cliente).
	InvalidateUnused(ctx context.Context, presupuestoID string) error
}
