package presupuesto

import (
	"context"
	"errors"
	"time"

	"github.com/jcastillo/Taller-api/internal/application/dto"
	"github.com/jcastillo/Taller-api/internal/domain"
	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/internal/domain/repository"
	"github.com/jcastillo/Taller-api/pkg/logger"
)

// PublicUseCase atiende las peticiones no autenticadas del cliente: ver el
// presupuesto desde el enlace del correo y aprobarlo o rechazarlo. Todo token
// pasa por TokenService.Validate; no hay otro camino de resolución.
type PublicUseCase struct {
	presupuestos repository.PresupuestoRepository
	tokens       repository.TokenRepository
	servicios    repository.ServicioRepository
	clientes     repository.ClienteRepository
	equipos      repository.EquipoRepository
	tokenSvc     *TokenService
	txRunner     TxRunner
	notifier     Notifier
	log          *logger.Logger
}

// NewPublicUseCase construye el caso de uso público.
func NewPublicUseCase(
	presupuestos repository.PresupuestoRepository,
	tokens repository.TokenRepository,
	servicios repository.ServicioRepository,
	clientes repository.ClienteRepository,
	equipos repository.EquipoRepository,
	tokenSvc *TokenService,
	txRunner TxRunner,
	notifier Notifier,
	log *logger.Logger,
) *PublicUseCase {
	return &PublicUseCase{
		presupuestos: presupuestos,
		tokens:       tokens,
		servicios:    servicios,
		clientes:     clientes,
		equipos:      equipos,
		tokenSvc:     tokenSvc,
		txRunner:     txRunner,
		notifier:     notifier,
		log:          log,
	}
}

// Ver resuelve el token y arma la vista pública del presupuesto.
// Solo lectura: no consume el token.
func (uc *PublicUseCase) Ver(ctx context.Context, tokenString string) (*dto.PublicPresupuestoResponse, error) {
	t, err := uc.tokenSvc.Validate(ctx, uc.tokens, tokenString, false)
	if err != nil {
		return nil, err
	}
	p, err := uc.presupuestos.GetByID(ctx, t.PresupuestoID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	detalles, err := uc.presupuestos.GetDetalles(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	svc, err := uc.servicios.GetByID(ctx, p.ServicioID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	cliente, _ := uc.clientes.GetByID(ctx, svc.ClienteID)
	equipo, _ := uc.equipos.GetByID(ctx, svc.EquipoID)

	resp := &dto.PublicPresupuestoResponse{
		Numero:            p.Numero,
		EquipoDescripcion: descripcionEquipo(equipo),
		FallaReportada:    svc.FallaReportada,
		Diagnostico:       p.Diagnostico,
		ManoDeObra:        p.ManoDeObra,
		Estado:            p.Estado,
		EstadoDescripcion: entity.EstadoDescripcion(p.Estado),
		Vencido:           p.Vencido(time.Now()),
		FechaCreacion:     p.CreatedAt,
		FechaVencimiento:  p.FechaVencimiento,
		Detalles:          make([]dto.DetalleResponse, 0, len(detalles)),
	}
	if cliente != nil {
		resp.ClienteNombre = cliente.Nombre
	}
	// Cada total sale solo si su flag de mostrar está activo.
	if p.MostrarOriginal {
		total := p.TotalOriginal
		resp.TotalOriginal = &total
	}
	if p.MostrarAlternativo {
		total := p.TotalAlternativo
		resp.TotalAlternativo = &total
	}
	for _, d := range detalles {
		item := dto.DetalleResponse{
			ID:             d.ID,
			Descripcion:    d.Descripcion,
			Cantidad:       d.Cantidad,
			PrecioOriginal: d.PrecioOriginal,
		}
		if d.TieneAlternativo {
			alt := d.PrecioAlternativo
			item.PrecioAlternativo = &alt
		}
		resp.Detalles = append(resp.Detalles, item)
	}
	return resp, nil
}

// Aprobar aplica la decisión APROBAR del cliente con el tipo de precio elegido.
func (uc *PublicUseCase) Aprobar(ctx context.Context, tokenString, precio, sourceIP string) (*dto.PublicActionResponse, error) {
	if precio == "" {
		precio = entity.PrecioOriginal
	}
	return uc.responder(ctx, tokenString, entity.AccionAprobar, precio, sourceIP)
}

// Rechazar aplica la decisión RECHAZAR del cliente.
func (uc *PublicUseCase) Rechazar(ctx context.Context, tokenString, sourceIP string) (*dto.PublicActionResponse, error) {
	return uc.responder(ctx, tokenString, entity.AccionRechazar, "", sourceIP)
}

// responder ejecuta la secuencia completa en una sola transacción:
//
//	lock del token → validar → acción correcta → presupuesto respondible →
//	transición → marcar usado → invalidar hermanos
//
// El lock de fila serializa los envíos duplicados: el perdedor observa
// Usado=true al entrar y falla con ErrTokenUsado sin tocar el presupuesto.
// Si el presupuesto ya fue respondido o venció, el token igualmente se marca
// usado (la decisión quedó tomada, reintentar con él no tiene sentido) pero
// la respuesta al cliente es el error de negocio.
func (uc *PublicUseCase) responder(ctx context.Context, tokenString, accion, precio, sourceIP string) (*dto.PublicActionResponse, error) {
	var (
		p      *entity.Presupuesto
		bizErr error
	)
	err := uc.txRunner.RunPresupuesto(ctx, func(
		presupuestoRepo repository.PresupuestoRepository,
		tokenRepo repository.TokenRepository,
	) error {
		t, err := uc.tokenSvc.Validate(ctx, tokenRepo, tokenString, true)
		if err != nil {
			return err
		}
		if t.Accion != accion {
			return domain.ErrAccionToken
		}

		p, err = presupuestoRepo.GetByIDForUpdate(ctx, t.PresupuestoID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		switch accion {
		case entity.AccionAprobar:
			err = p.Aprobar(precio, now)
		case entity.AccionRechazar:
			err = p.Rechazar(now)
		default:
			err = domain.ErrInvalidInput
		}
		if err != nil {
			// Token válido contra presupuesto ya decidido o vencido: consumir
			// el token para cortar reintentos, confirmando solo esa marca.
			if errors.Is(err, domain.ErrYaRespondido) || errors.Is(err, domain.ErrPresupuestoVencido) {
				bizErr = err
				return uc.tokenSvc.MarkUsed(ctx, tokenRepo, tokenString, sourceIP)
			}
			return err
		}

		if err := presupuestoRepo.Update(ctx, p); err != nil {
			return err
		}
		if err := uc.tokenSvc.MarkUsed(ctx, tokenRepo, tokenString, sourceIP); err != nil {
			return err
		}
		return uc.tokenSvc.InvalidateOthers(ctx, tokenRepo, p.ID)
	})
	if err != nil {
		return nil, err
	}
	if bizErr != nil {
		uc.log.Warn().Str("token", prefijoToken(tokenString)).Str("ip", sourceIP).Err(bizErr).Msg("acción pública sobre presupuesto no respondible")
		return nil, bizErr
	}

	uc.log.Info().
		Str("presupuesto", p.Numero).
		Str("accion", accion).
		Str("precio", p.PrecioElegido).
		Str("ip", sourceIP).
		Msg("presupuesto respondido por el cliente")

	// Aviso interno fuera de la transacción y fuera del camino de la petición:
	// un fallo del correo nunca revierte ni retrasa la decisión ya confirmada.
	uc.notificarRespuesta(p)

	mensaje := "Presupuesto aprobado. El taller iniciará la reparación."
	if accion == entity.AccionRechazar {
		mensaje = "Presupuesto rechazado. Gracias por su respuesta."
	}
	return &dto.PublicActionResponse{Message: mensaje, Numero: p.Numero}, nil
}

// prefijoToken acorta el token para los logs; el valor completo no se registra.
func prefijoToken(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func (uc *PublicUseCase) notificarRespuesta(p *entity.Presupuesto) {
	clienteNombre := ""
	if svc, err := uc.servicios.GetByID(context.Background(), p.ServicioID); err == nil && svc != nil {
		if cliente, err := uc.clientes.GetByID(context.Background(), svc.ClienteID); err == nil && cliente != nil {
			clienteNombre = cliente.Nombre
		}
	}
	r := RespuestaPresupuesto{
		Numero:        p.Numero,
		Resultado:     p.Estado,
		PrecioElegido: p.PrecioElegido,
		ClienteNombre: clienteNombre,
	}
	go func() {
		if err := uc.notifier.NotificarRespuesta(context.Background(), r); err != nil {
			uc.log.Error().Err(err).Str("presupuesto", r.Numero).Msg("notificar respuesta del presupuesto")
		}
	}()
}
