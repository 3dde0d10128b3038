package repository

import (
	"context"

	"github.com/jcastillo/Taller-api/internal/domain/entity"
)

// PresupuestoRepository define el puerto de persistencia para Presupuesto y sus líneas.
type PresupuestoRepository interface {
	Create(ctx context.Context, p *entity.Presupuesto) error
	// Update persiste estado, precio elegido, totales y fechas de respuesta.
	Update(ctx context.Context, p *entity.Presupuesto) error
	GetByID(ctx context.Context, id string) (*entity.Presupuesto, error)
	// GetByIDForUpdate obtiene el presupuesto bloqueando la fila (SELECT ... FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Presupuesto, error)
	ListByServicio(ctx context.Context, servicioID string) ([]*entity.Presupuesto, error)
	// NextNumero devuelve el siguiente consecutivo del numerador de presupuestos.
	NextNumero(ctx context.Context) (int64, error)

	// ReplaceDetalles borra y reinserta las líneas del presupuesto (reemplazo completo).
	ReplaceDetalles(ctx context.Context, presupuestoID string, detalles []*entity.DetallePresupuesto) error
	GetDetalles(ctx context.Context, presupuestoID string) ([]*entity.DetallePresupuesto, error)
}
