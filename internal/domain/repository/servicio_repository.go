package repository

import (
	"context"

	"github.com/jcastillo/Taller-api/internal/domain/entity"
)

// ServicioRepository define el puerto de persistencia para las órdenes de ingreso.
type ServicioRepository interface {
	Create(ctx context.Context, s *entity.Servicio) error
	Update(ctx context.Context, s *entity.Servicio) error
	GetByID(ctx context.Context, id string) (*entity.Servicio, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Servicio, error)
	ListByCliente(ctx context.Context, clienteID string, limit, offset int) ([]*entity.Servicio, error)
	NextNumero(ctx context.Context) (int64, error)
}
