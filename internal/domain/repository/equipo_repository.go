package repository

import (
	"context"

	"github.com/jcastillo/Taller-api/internal/domain/entity"
)

// EquipoRepository define el puerto de persistencia para equipos.
type EquipoRepository interface {
	Create(ctx context.Context, e *entity.Equipo) error
	GetByID(ctx context.Context, id string) (*entity.Equipo, error)
	ListByCliente(ctx context.Context, clienteID string) ([]*entity.Equipo, error)
}
