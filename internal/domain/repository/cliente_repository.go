package repository

import (
	"context"

	"github.com/jcastillo/Taller-api/internal/domain/entity"
)

// ClienteRepository define el puerto de persistencia para clientes.
type ClienteRepository interface {
	Create(ctx context.Context, c *entity.Cliente) error
	Update(ctx context.Context, c *entity.Cliente) error
	GetByID(ctx context.Context, id string) (*entity.Cliente, error)
	GetByDocumento(ctx context.Context, documento string) (*entity.Cliente, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Cliente, error)
}
