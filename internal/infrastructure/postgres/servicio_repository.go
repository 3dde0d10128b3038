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

var _ repository.ServicioRepository = (*ServicioRepo)(nil)

// ServicioRepo implementación de ServicioRepository (usable con pool o tx).
type ServicioRepo struct {
	q Querier
}

// NewServicioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServicioRepository(q Querier) *ServicioRepo {
	return &ServicioRepo{q: q}
}

const servicioColumns = `
	id, cliente_id, equipo_id, numero, falla_reportada, estado, recibido_por, created_at, updated_at`

// Create persiste una orden de ingreso.
func (r *ServicioRepo) Create(ctx context.Context, s *entity.Servicio) error {
	query := `
		INSERT INTO servicios (id, cliente_id, equipo_id, numero, falla_reportada, estado, recibido_por, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ClienteID, s.EquipoID, s.Numero, s.FallaReportada, s.Estado, s.RecibidoPor,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert servicio: %w", err)
	}
	return nil
}

// Update actualiza estado y datos de la orden.
func (r *ServicioRepo) Update(ctx context.Context, s *entity.Servicio) error {
	query := `
		UPDATE servicios
		SET falla_reportada = $2, estado = $3, updated_at = $4
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, s.ID, s.FallaReportada, s.Estado, s.UpdatedAt); err != nil {
		return fmt.Errorf("update servicio: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *ServicioRepo) GetByID(ctx context.Context, id string) (*entity.Servicio, error) {
	query := `SELECT` + servicioColumns + ` FROM servicios WHERE id = $1`
	var s entity.Servicio
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ClienteID, &s.EquipoID, &s.Numero, &s.FallaReportada, &s.Estado, &s.RecibidoPor,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get servicio: %w", err)
	}
	return &s, nil
}

// List lista órdenes con paginación, más recientes primero.
func (r *ServicioRepo) List(ctx context.Context, limit, offset int) ([]*entity.Servicio, error) {
	query := `SELECT` + servicioColumns + ` FROM servicios ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

// ListByCliente lista las órdenes de un cliente con paginación.
func (r *ServicioRepo) ListByCliente(ctx context.Context, clienteID string, limit, offset int) ([]*entity.Servicio, error) {
	query := `SELECT` + servicioColumns + ` FROM servicios WHERE cliente_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, clienteID, limit, offset)
}

func (r *ServicioRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Servicio, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list servicios: %w", err)
	}
	defer rows.Close()
	var list []*entity.Servicio
	for rows.Next() {
		var s entity.Servicio
		if err := rows.Scan(
			&s.ID, &s.ClienteID, &s.EquipoID, &s.Numero, &s.FallaReportada, &s.Estado, &s.RecibidoPor,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan servicio: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// NextNumero devuelve el siguiente valor del numerador de servicios.
func (r *ServicioRepo) NextNumero(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('servicios_numero_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("nextval servicios: %w", err)
	}
	return n, nil
}
