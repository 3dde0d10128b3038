package repository

import (
	"context"

	"github.com/jcastillo/Taller-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios (empleados).
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
