package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcastillo/Taller-api/internal/domain"
	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/internal/domain/repository"
)

var _ repository.ClienteRepository = (*ClienteRepo)(nil)

// ClienteRepo implementación de ClienteRepository (usable con pool o tx).
type ClienteRepo struct {
	q Querier
}

// NewClienteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClienteRepository(q Querier) *ClienteRepo {
	return &ClienteRepo{q: q}
}

const clienteColumns = `id, nombre, documento, email, telefono, direccion, created_at, updated_at`

// Create persiste un nuevo cliente. El documento es único.
func (r *ClienteRepo) Create(ctx context.Context, c *entity.Cliente) error {
	query := `
		INSERT INTO clientes (id, nombre, documento, email, telefono, direccion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Nombre, c.Documento, c.Email, c.Telefono, c.Direccion, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cliente: %w", err)
	}
	return nil
}

// Update actualiza los datos de contacto del cliente.
func (r *ClienteRepo) Update(ctx context.Context, c *entity.Cliente) error {
	query := `
		UPDATE clientes
		SET nombre = $2, email = $3, telefono = $4, direccion = $5, updated_at = $6
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, c.ID, c.Nombre, c.Email, c.Telefono, c.Direccion, c.UpdatedAt); err != nil {
		return fmt.Errorf("update cliente: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClienteRepo) GetByID(ctx context.Context, id string) (*entity.Cliente, error) {
	return r.get(ctx, `SELECT `+clienteColumns+` FROM clientes WHERE id = $1`, id)
}

// GetByDocumento obtiene un cliente por NIT/cédula.
func (r *ClienteRepo) GetByDocumento(ctx context.Context, documento string) (*entity.Cliente, error) {
	return r.get(ctx, `SELECT `+clienteColumns+` FROM clientes WHERE documento = $1`, documento)
}

func (r *ClienteRepo) get(ctx context.Context, query, arg string) (*entity.Cliente, error) {
	var c entity.Cliente
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Nombre, &c.Documento, &c.Email, &c.Telefono, &c.Direccion, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	return &c, nil
}

// List lista clientes con paginación por nombre.
func (r *ClienteRepo) List(ctx context.Context, limit, offset int) ([]*entity.Cliente, error) {
	query := `SELECT ` + clienteColumns + ` FROM clientes ORDER BY nombre LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Cliente
	for rows.Next() {
		var c entity.Cliente
		if err := rows.Scan(
			&c.ID, &c.Nombre, &c.Documento, &c.Email, &c.Telefono, &c.Direccion, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
