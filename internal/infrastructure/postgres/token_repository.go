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

var _ repository.TokenRepository = (*TokenRepo)(nil)

// TokenRepo implementación de TokenRepository (usable con pool o tx).
// Las filas nunca se borran: son el historial de auditoría del presupuesto.
type TokenRepo struct {
	q Querier
}

// NewTokenRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTokenRepository(q Querier) *TokenRepo {
	return &TokenRepo{q: q}
}

const tokenColumns = `
	id, presupuesto_id, token, accion, tipo_precio, expira_en,
	usado, usado_en, usado_desde_ip, created_at`

// Create persiste un token nuevo.
func (r *TokenRepo) Create(ctx context.Context, t *entity.PresupuestoToken) error {
	query := `
		INSERT INTO presupuesto_tokens (id, presupuesto_id, token, accion, tipo_precio,
			expira_en, usado, usado_en, usado_desde_ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.PresupuestoID, t.Token, t.Accion, nullIfEmpty(t.TipoPrecio),
		t.ExpiraEn, t.Usado, t.UsadoEn, nullIfEmpty(t.UsadoDesdeIP), t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetByToken obtiene un token por su string opaco.
func (r *TokenRepo) GetByToken(ctx context.Context, token string) (*entity.PresupuestoToken, error) {
	return r.get(ctx, `SELECT`+tokenColumns+` FROM presupuesto_tokens WHERE token = $1`, token)
}

// GetByTokenForUpdate obtiene el token bloqueando la fila. Solo dentro de una tx:
// el lock serializa los envíos concurrentes del mismo token.
func (r *TokenRepo) GetByTokenForUpdate(ctx context.Context, token string) (*entity.PresupuestoToken, error) {
	return r.get(ctx, `SELECT`+tokenColumns+` FROM presupuesto_tokens WHERE token = $1 FOR UPDATE`, token)
}

func (r *TokenRepo) get(ctx context.Context, query, token string) (*entity.PresupuestoToken, error) {
	var t entity.PresupuestoToken
	var tipoPrecio, usadoDesdeIP *string
	err := r.q.QueryRow(ctx, query, token).Scan(
		&t.ID, &t.PresupuestoID, &t.Token, &t.Accion, &tipoPrecio,
		&t.ExpiraEn, &t.Usado, &t.UsadoEn, &usadoDesdeIP, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get token: %w", err)
	}
	if tipoPrecio != nil {
		t.TipoPrecio = *tipoPrecio
	}
	if usadoDesdeIP != nil {
		t.UsadoDesdeIP = *usadoDesdeIP
	}
	return &t, nil
}

// MarkUsed consume el token registrando la IP y la hora del uso.
func (r *TokenRepo) MarkUsed(ctx context.Context, token, sourceIP string) error {
	query := `
		UPDATE presupuesto_tokens
		SET usado = TRUE, usado_en = NOW(), usado_desde_ip = $2
		WHERE token = $1 AND usado = FALSE`
	tag, err := r.q.Exec(ctx, query, token, nullIfEmpty(sourceIP))
	if err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTokenUsado
	}
	return nil
}

// ListUnusedByPresupuesto devuelve los tokens vivos del presupuesto.
func (r *TokenRepo) ListUnusedByPresupuesto(ctx context.Context, presupuestoID string) ([]*entity.PresupuestoToken, error) {
	query := `SELECT` + tokenColumns + ` FROM presupuesto_tokens WHERE presupuesto_id = $1 AND usado = FALSE ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, presupuestoID)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()
	var list []*entity.PresupuestoToken
	for rows.Next() {
		var t entity.PresupuestoToken
		var tipoPrecio, usadoDesdeIP *string
		if err := rows.Scan(
			&t.ID, &t.PresupuestoID, &t.Token, &t.Accion, &tipoPrecio,
			&t.ExpiraEn, &t.Usado, &t.UsadoEn, &usadoDesdeIP, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		if tipoPrecio != nil {
			t.TipoPrecio = *tipoPrecio
		}
		if usadoDesdeIP != nil {
			t.UsadoDesdeIP = *usadoDesdeIP
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// InvalidateUnused marca usados los tokens no usados del presupuesto, sin IP
// ni fecha de uso: quedaron superseded por un lote nuevo o por la respuesta
// del cliente, nadie los consumió.
func (r *TokenRepo) InvalidateUnused(ctx context.Context, presupuestoID string) error {
	query := `UPDATE presupuesto_tokens SET usado = TRUE WHERE presupuesto_id = $1 AND usado = FALSE`
	if _, err := r.q.Exec(ctx, query, presupuestoID); err != nil {
		return fmt.Errorf("invalidate tokens: %w", err)
	}
	return nil
}
