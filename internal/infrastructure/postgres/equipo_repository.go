package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/internal/domain/repository"
)

var _ repository.EquipoRepository = (*EquipoRepo)(nil)

// EquipoRepo implementación de EquipoRepository (usable con pool o tx).
type EquipoRepo struct {
	q Querier
}

// NewEquipoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEquipoRepository(q Querier) *EquipoRepo {
	return &EquipoRepo{q: q}
}

const equipoColumns = `id, cliente_id, tipo, marca, modelo, serie, descripcion, created_at, updated_at`

// Create persiste un equipo.
func (r *EquipoRepo) Create(ctx context.Context, e *entity.Equipo) error {
	query := `
		INSERT INTO equipos (id, cliente_id, tipo, marca, modelo, serie, descripcion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ClienteID, e.Tipo, e.Marca, e.Modelo, nullIfEmpty(e.Serie), e.Descripcion,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert equipo: %w", err)
	}
	return nil
}

// GetByID obtiene un equipo por ID.
func (r *EquipoRepo) GetByID(ctx context.Context, id string) (*entity.Equipo, error) {
	query := `SELECT ` + equipoColumns + ` FROM equipos WHERE id = $1`
	var e entity.Equipo
	var serie *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.ClienteID, &e.Tipo, &e.Marca, &e.Modelo, &serie, &e.Descripcion, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipo: %w", err)
	}
	if serie != nil {
		e.Serie = *serie
	}
	return &e, nil
}

// ListByCliente lista los equipos registrados de un cliente.
func (r *EquipoRepo) ListByCliente(ctx context.Context, clienteID string) ([]*entity.Equipo, error) {
	query := `SELECT ` + equipoColumns + ` FROM equipos WHERE cliente_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, clienteID)
	if err != nil {
		return nil, fmt.Errorf("list equipos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Equipo
	for rows.Next() {
		var e entity.Equipo
		var serie *string
		if err := rows.Scan(
			&e.ID, &e.ClienteID, &e.Tipo, &e.Marca, &e.Modelo, &serie, &e.Descripcion, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan equipo: %w", err)
		}
		if serie != nil {
			e.Serie = *serie
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
