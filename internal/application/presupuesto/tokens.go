package presupuesto

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jcastillo/Taller-api/internal/domain"
	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/internal/domain/repository"
)

// tokenBytes bytes de entropía por token (256 bits).
const tokenBytes = 32

// TokenService emite, valida y retira los tokens públicos de un presupuesto.
// Los métodos reciben el TokenRepository del caller para poder ejecutarse con
// repos atados a una transacción (mismo patrón que los use cases "InTx").
type TokenService struct {
	ttl time.Duration
}

// NewTokenService construye el servicio con la vigencia de los tokens en días.
func NewTokenService(ttlDias int) *TokenService {
	if ttlDias <= 0 {
		ttlDias = 15
	}
	return &TokenService{ttl: time.Duration(ttlDias) * 24 * time.Hour}
}

// IssueTokens invalida el lote anterior y emite un par nuevo (APROBAR, RECHAZAR)
// para el presupuesto. Después de emitir, a lo sumo hay un token vivo por acción.
// No envía correo: eso es del Notifier.
func (s *TokenService) IssueTokens(ctx context.Context, tokens repository.TokenRepository, p *entity.Presupuesto) (aprobar, rechazar *entity.PresupuestoToken, err error) {
	if err := tokens.InvalidateUnused(ctx, p.ID); err != nil {
		return nil, nil, fmt.Errorf("invalidar lote anterior: %w", err)
	}

	now := time.Now()
	expira := now.Add(s.ttl)
	// El token nunca sobrevive al vencimiento del presupuesto.
	if p.FechaVencimiento != nil && p.FechaVencimiento.Add(24*time.Hour).Before(expira) {
		expira = p.FechaVencimiento.Add(24 * time.Hour)
	}

	aprobar = &entity.PresupuestoToken{
		ID:            uuid.New().String(),
		PresupuestoID: p.ID,
		Token:         nuevoToken(),
		Accion:        entity.AccionAprobar,
		TipoPrecio:    entity.PrecioOriginal,
		ExpiraEn:      expira,
		CreatedAt:     now,
	}
	rechazar = &entity.PresupuestoToken{
		ID:            uuid.New().String(),
		PresupuestoID: p.ID,
		Token:         nuevoToken(),
		Accion:        entity.AccionRechazar,
		ExpiraEn:      expira,
		CreatedAt:     now,
	}
	if err := tokens.Create(ctx, aprobar); err != nil {
		return nil, nil, fmt.Errorf("crear token aprobar: %w", err)
	}
	if err := tokens.Create(ctx, rechazar); err != nil {
		return nil, nil, fmt.Errorf("crear token rechazar: %w", err)
	}
	return aprobar, rechazar, nil
}

// Validate es el único punto por el que pasa toda resolución de token público:
// busca por el string opaco y aplica en orden existencia, expiración y uso.
// Con forUpdate la búsqueda bloquea la fila (requiere estar dentro de una tx),
// de modo que dos envíos concurrentes del mismo token se serialicen aquí.
func (s *TokenService) Validate(ctx context.Context, tokens repository.TokenRepository, tokenString string, forUpdate bool) (*entity.PresupuestoToken, error) {
	var (
		t   *entity.PresupuestoToken
		err error
	)
	if forUpdate {
		t, err = tokens.GetByTokenForUpdate(ctx, tokenString)
	} else {
		t, err = tokens.GetByToken(ctx, tokenString)
	}
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTokenNoEncontrado
	}
	if t.Expirado(time.Now()) {
		return nil, domain.ErrTokenExpirado
	}
	if t.Usado {
		return nil, domain.ErrTokenUsado
	}
	return t, nil
}

// MarkUsed consume el token registrando la IP de origen. Se llama exactamente
// una vez por acción pública exitosa, siempre después de la transición.
func (s *TokenService) MarkUsed(ctx context.Context, tokens repository.TokenRepository, tokenString, sourceIP string) error {
	return tokens.MarkUsed(ctx, tokenString, sourceIP)
}

// InvalidateOthers retira los demás tokens vivos del presupuesto una vez que
// el cliente respondió. Quedan marcados usados sin IP ni fecha de uso.
func (s *TokenService) InvalidateOthers(ctx context.Context, tokens repository.TokenRepository, presupuestoID string) error {
	return tokens.InvalidateUnused(ctx, presupuestoID)
}

// nuevoToken genera un string opaco URL-safe con entropía criptográfica.
func nuevoToken() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand no falla en plataformas soportadas; si falla, nada
		// razonable puede emitirse.
		panic("generar token: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
