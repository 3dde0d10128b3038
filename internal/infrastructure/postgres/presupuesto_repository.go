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

var _ repository.PresupuestoRepository = (*PresupuestoRepo)(nil)

// PresupuestoRepo implementación de PresupuestoRepository (usable con pool o tx).
type PresupuestoRepo struct {
	q Querier
}

// NewPresupuestoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPresupuestoRepository(q Querier) *PresupuestoRepo {
	return &PresupuestoRepo{q: q}
}

const presupuestoColumns = `
	id, servicio_id, numero, estado, diagnostico, mano_de_obra,
	total_original, total_alternativo, mostrar_original, mostrar_alternativo,
	precio_elegido, fecha_vencimiento, fecha_respuesta, created_at, updated_at`

// Create persiste la cabecera del presupuesto.
func (r *PresupuestoRepo) Create(ctx context.Context, p *entity.Presupuesto) error {
	query := `
		INSERT INTO presupuestos (id, servicio_id, numero, estado, diagnostico, mano_de_obra,
			total_original, total_alternativo, mostrar_original, mostrar_alternativo,
			precio_elegido, fecha_vencimiento, fecha_respuesta, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ServicioID, p.Numero, p.Estado, p.Diagnostico, p.ManoDeObra,
		p.TotalOriginal, p.TotalAlternativo, p.MostrarOriginal, p.MostrarAlternativo,
		nullIfEmpty(p.PrecioElegido), p.FechaVencimiento, p.FechaRespuesta, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert presupuesto: %w", err)
	}
	return nil
}

// Update persiste estado, precio elegido, totales y fechas de respuesta.
func (r *PresupuestoRepo) Update(ctx context.Context, p *entity.Presupuesto) error {
	query := `
		UPDATE presupuestos
		SET estado              = $2,
		    diagnostico         = $3,
		    mano_de_obra        = $4,
		    total_original      = $5,
		    total_alternativo   = $6,
		    mostrar_original    = $7,
		    mostrar_alternativo = $8,
		    precio_elegido      = $9,
		    fecha_vencimiento   = $10,
		    fecha_respuesta     = $11,
		    updated_at          = $12
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Estado, p.Diagnostico, p.ManoDeObra,
		p.TotalOriginal, p.TotalAlternativo, p.MostrarOriginal, p.MostrarAlternativo,
		nullIfEmpty(p.PrecioElegido), p.FechaVencimiento, p.FechaRespuesta, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update presupuesto: %w", err)
	}
	return nil
}

// GetByID obtiene un presupuesto por ID.
func (r *PresupuestoRepo) GetByID(ctx context.Context, id string) (*entity.Presupuesto, error) {
	return r.get(ctx, `SELECT`+presupuestoColumns+` FROM presupuestos WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el presupuesto bloqueando la fila. Solo dentro de una tx.
func (r *PresupuestoRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Presupuesto, error) {
	return r.get(ctx, `SELECT`+presupuestoColumns+` FROM presupuestos WHERE id = $1 FOR UPDATE`, id)
}

func (r *PresupuestoRepo) get(ctx context.Context, query, id string) (*entity.Presupuesto, error) {
	var p entity.Presupuesto
	var precioElegido *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.ServicioID, &p.Numero, &p.Estado, &p.Diagnostico, &p.ManoDeObra,
		&p.TotalOriginal, &p.TotalAlternativo, &p.MostrarOriginal, &p.MostrarAlternativo,
		&precioElegido, &p.FechaVencimiento, &p.FechaRespuesta, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presupuesto: %w", err)
	}
	if precioElegido != nil {
		p.PrecioElegido = *precioElegido
	}
	return &p, nil
}

// ListByServicio lista los presupuestos del servicio, más reciente primero.
func (r *PresupuestoRepo) ListByServicio(ctx context.Context, servicioID string) ([]*entity.Presupuesto, error) {
	query := `SELECT` + presupuestoColumns + ` FROM presupuestos WHERE servicio_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, servicioID)
	if err != nil {
		return nil, fmt.Errorf("list presupuestos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Presupuesto
	for rows.Next() {
		var p entity.Presupuesto
		var precioElegido *string
		if err := rows.Scan(
			&p.ID, &p.ServicioID, &p.Numero, &p.Estado, &p.Diagnostico, &p.ManoDeObra,
			&p.TotalOriginal, &p.TotalAlternativo, &p.MostrarOriginal, &p.MostrarAlternativo,
			&precioElegido, &p.FechaVencimiento, &p.FechaRespuesta, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan presupuesto: %w", err)
		}
		if precioElegido != nil {
			p.PrecioElegido = *precioElegido
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// NextNumero devuelve el siguiente valor del numerador de presupuestos.
func (r *PresupuestoRepo) NextNumero(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('presupuestos_numero_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("nextval presupuestos: %w", err)
	}
	return n, nil
}

// ReplaceDetalles borra y reinserta las líneas (reemplazo completo en cada edición).
func (r *PresupuestoRepo) ReplaceDetalles(ctx context.Context, presupuestoID string, detalles []*entity.DetallePresupuesto) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM presupuesto_detalles WHERE presupuesto_id = $1`, presupuestoID); err != nil {
		return fmt.Errorf("delete detalles: %w", err)
	}
	query := `
		INSERT INTO presupuesto_detalles (id, presupuesto_id, descripcion, cantidad,
			precio_original, precio_alternativo, tiene_alternativo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, d := range detalles {
		if _, err := r.q.Exec(ctx, query,
			d.ID, presupuestoID, d.Descripcion, d.Cantidad,
			d.PrecioOriginal, d.PrecioAlternativo, d.TieneAlternativo,
		); err != nil {
			return fmt.Errorf("insert detalle: %w", err)
		}
	}
	return nil
}

// GetDetalles obtiene las líneas del presupuesto en orden de inserción.
func (r *PresupuestoRepo) GetDetalles(ctx context.Context, presupuestoID string) ([]*entity.DetallePresupuesto, error) {
	query := `
		SELECT id, presupuesto_id, descripcion, cantidad, precio_original, precio_alternativo, tiene_alternativo
		FROM presupuesto_detalles WHERE presupuesto_id = $1 ORDER BY descripcion`
	rows, err := r.q.Query(ctx, query, presupuestoID)
	if err != nil {
		return nil, fmt.Errorf("get detalles: %w", err)
	}
	defer rows.Close()
	var list []*entity.DetallePresupuesto
	for rows.Next() {
		var d entity.DetallePresupuesto
		if err := rows.Scan(
			&d.ID, &d.PresupuestoID, &d.Descripcion, &d.Cantidad,
			&d.PrecioOriginal, &d.PrecioAlternativo, &d.TieneAlternativo,
		); err != nil {
			return nil, fmt.Errorf("scan detalle: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
