package presupuesto

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcastillo/Taller-api/internal/application/dto"
	"github.com/jcastillo/Taller-api/internal/domain"
	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/internal/domain/repository"
	"github.com/jcastillo/Taller-api/pkg/logger"
)

// UseCase operaciones autenticadas sobre presupuestos: crear, editar,
// enviar/reenviar al cliente y consultar. Las transiciones de estado por
// respuesta del cliente viven en PublicUseCase.
type UseCase struct {
	presupuestos repository.PresupuestoRepository
	tokens       repository.TokenRepository
	servicios    repository.ServicioRepository
	clientes     repository.ClienteRepository
	equipos      repository.EquipoRepository
	tokenSvc     *TokenService
	txRunner     TxRunner
	notifier     Notifier
	pdf          PDFGenerator
	log          *logger.Logger
	publicURL    string // base de los enlaces públicos del correo
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	presupuestos repository.PresupuestoRepository,
	tokens repository.TokenRepository,
	servicios repository.ServicioRepository,
	clientes repository.ClienteRepository,
	equipos repository.EquipoRepository,
	tokenSvc *TokenService,
	txRunner TxRunner,
	notifier Notifier,
	pdf PDFGenerator,
	log *logger.Logger,
	publicURL string,
) *UseCase {
	return &UseCase{
		presupuestos: presupuestos,
		tokens:       tokens,
		servicios:    servicios,
		clientes:     clientes,
		equipos:      equipos,
		tokenSvc:     tokenSvc,
		txRunner:     txRunner,
		notifier:     notifier,
		pdf:          pdf,
		log:          log,
		publicURL:    publicURL,
	}
}

// Create crea un presupuesto PENDIENTE bajo un servicio activo.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreatePresupuestoRequest) (*dto.PresupuestoResponse, error) {
	if in.ServicioID == "" || in.Diagnostico == "" || len(in.Detalles) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !in.MostrarOriginal && !in.MostrarAlternativo {
		return nil, domain.ErrInvalidInput
	}

	svc, err := uc.servicios.GetByID(ctx, in.ServicioID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	if !svc.Activo() {
		return nil, domain.ErrConflict
	}

	detalles, err := construirDetalles(in.Detalles)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	seq, err := uc.presupuestos.NextNumero(ctx)
	if err != nil {
		return nil, fmt.Errorf("numerador de presupuestos: %w", err)
	}

	manoDeObra := in.ManoDeObra
	if manoDeObra.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	totalOriginal, totalAlternativo := calcularTotales(detalles, manoDeObra)

	p := &entity.Presupuesto{
		ID:                 uuid.New().String(),
		ServicioID:         in.ServicioID,
		Numero:             fmt.Sprintf("P-%05d", seq),
		Estado:             entity.EstadoPendiente,
		Diagnostico:        in.Diagnostico,
		ManoDeObra:         manoDeObra,
		TotalOriginal:      totalOriginal,
		TotalAlternativo:   totalAlternativo,
		MostrarOriginal:    in.MostrarOriginal,
		MostrarAlternativo: in.MostrarAlternativo,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if in.DiasVigencia > 0 {
		vence := now.AddDate(0, 0, in.DiasVigencia)
		p.FechaVencimiento = &vence
	}
	for _, d := range detalles {
		d.PresupuestoID = p.ID
	}

	if err := uc.presupuestos.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := uc.presupuestos.ReplaceDetalles(ctx, p.ID, detalles); err != nil {
		return nil, err
	}
	uc.log.Info().Str("presupuesto", p.Numero).Str("servicio", svc.Numero).Str("user", userID).Msg("presupuesto creado")
	return toResponse(p, detalles), nil
}

// Update edita un presupuesto aún no respondido. Si vienen líneas nuevas se
// reemplazan completas y se recalculan los totales.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdatePresupuestoRequest) (*dto.PresupuestoResponse, error) {
	p, err := uc.presupuestos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.Respondido() {
		return nil, domain.ErrYaRespondido
	}

	now := time.Now()
	if in.Diagnostico != nil {
		p.Diagnostico = *in.Diagnostico
	}
	if in.ManoDeObra != nil {
		if in.ManoDeObra.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p.ManoDeObra = *in.ManoDeObra
	}
	if in.MostrarOriginal != nil {
		p.MostrarOriginal = *in.MostrarOriginal
	}
	if in.MostrarAlternativo != nil {
		p.MostrarAlternativo = *in.MostrarAlternativo
	}
	if !p.MostrarOriginal && !p.MostrarAlternativo {
		return nil, domain.ErrInvalidInput
	}
	if in.DiasVigencia != nil {
		if *in.DiasVigencia <= 0 {
			return nil, domain.ErrInvalidInput
		}
		vence := now.AddDate(0, 0, *in.DiasVigencia)
		p.FechaVencimiento = &vence
	}

	detalles, err := uc.presupuestos.GetDetalles(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Detalles != nil {
		detalles, err = construirDetalles(in.Detalles)
		if err != nil {
			return nil, err
		}
		for _, d := range detalles {
			d.PresupuestoID = p.ID
		}
		if err := uc.presupuestos.ReplaceDetalles(ctx, p.ID, detalles); err != nil {
			return nil, err
		}
	}
	p.TotalOriginal, p.TotalAlternativo = calcularTotales(detalles, p.ManoDeObra)
	p.UpdatedAt = now

	if err := uc.presupuestos.Update(ctx, p); err != nil {
		return nil, err
	}
	return toResponse(p, detalles), nil
}

// Enviar emite un lote nuevo de tokens, pasa el presupuesto a EN_PROCESO y
// manda al cliente el correo con el PDF y los enlaces de aprobar/rechazar.
// Reenviar es la misma operación: el lote anterior queda invalidado.
func (uc *UseCase) Enviar(ctx context.Context, id string) (*dto.PresupuestoResponse, error) {
	p, err := uc.presupuestos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	if p.Respondido() {
		return nil, domain.ErrYaRespondido
	}
	if p.Vencido(now) {
		return nil, domain.ErrPresupuestoVencido
	}

	svc, err := uc.servicios.GetByID(ctx, p.ServicioID)
	if err != nil || svc == nil {
		return nil, domain.ErrNotFound
	}
	cliente, err := uc.clientes.GetByID(ctx, svc.ClienteID)
	if err != nil || cliente == nil {
		return nil, domain.ErrNotFound
	}
	if cliente.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	equipo, _ := uc.equipos.GetByID(ctx, svc.EquipoID)

	detalles, err := uc.presupuestos.GetDetalles(ctx, id)
	if err != nil {
		return nil, err
	}

	// Emisión de tokens y cambio de estado en una sola transacción: no debe
	// quedar un lote nuevo apuntando a un presupuesto que no cambió de estado.
	var aprobar, rechazar *entity.PresupuestoToken
	err = uc.txRunner.RunPresupuesto(ctx, func(
		presupuestoRepo repository.PresupuestoRepository,
		tokenRepo repository.TokenRepository,
	) error {
		aprobar, rechazar, err = uc.tokenSvc.IssueTokens(ctx, tokenRepo, p)
		if err != nil {
			return err
		}
		if p.Estado == entity.EstadoPendiente {
			p.Estado = entity.EstadoEnProceso
		}
		p.UpdatedAt = now
		return presupuestoRepo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	// El correo es best-effort: el envío de tokens ya quedó confirmado.
	pdfBytes, err := uc.pdf.GenerarPresupuesto(PDFDatos{
		Numero:             p.Numero,
		ClienteNombre:      cliente.Nombre,
		EquipoDescripcion:  descripcionEquipo(equipo),
		Diagnostico:        p.Diagnostico,
		Detalles:           detalles,
		ManoDeObra:         p.ManoDeObra,
		TotalOriginal:      p.TotalOriginal,
		TotalAlternativo:   p.TotalAlternativo,
		MostrarOriginal:    p.MostrarOriginal,
		MostrarAlternativo: p.MostrarAlternativo,
		FechaVencimiento:   p.FechaVencimiento,
	})
	if err != nil {
		uc.log.Error().Err(err).Str("presupuesto", p.Numero).Msg("generar PDF del presupuesto")
		pdfBytes = nil
	}

	envio := EnvioPresupuesto{
		Para:          cliente.Email,
		ClienteNombre: cliente.Nombre,
		Numero:        p.Numero,
		URLVer:        fmt.Sprintf("%s/api/public/presupuestos/token/%s", uc.publicURL, aprobar.Token),
		URLAprobar:    fmt.Sprintf("%s/api/public/presupuestos/aprobar/%s", uc.publicURL, aprobar.Token),
		URLRechazar:   fmt.Sprintf("%s/api/public/presupuestos/rechazar/%s", uc.publicURL, rechazar.Token),
		FechaVence:    p.FechaVencimiento,
		PDF:           pdfBytes,
	}
	go func() {
		if err := uc.notifier.EnviarPresupuesto(context.Background(), envio); err != nil {
			uc.log.Error().Err(err).Str("presupuesto", p.Numero).Msg("enviar correo del presupuesto")
		}
	}()

	return toResponse(p, detalles), nil
}

// GetByID obtiene un presupuesto con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.PresupuestoResponse, error) {
	p, err := uc.presupuestos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	detalles, err := uc.presupuestos.GetDetalles(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(p, detalles), nil
}

// ListByServicio lista los presupuestos de un servicio.
func (uc *UseCase) ListByServicio(ctx context.Context, servicioID string) ([]dto.PresupuestoResponse, error) {
	list, err := uc.presupuestos.ListByServicio(ctx, servicioID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PresupuestoResponse, 0, len(list))
	for _, p := range list {
		detalles, err := uc.presupuestos.GetDetalles(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *toResponse(p, detalles))
	}
	return items, nil
}

// construirDetalles valida y materializa las líneas de la petición.
func construirDetalles(in []dto.DetalleRequest) ([]*entity.DetallePresupuesto, error) {
	detalles := make([]*entity.DetallePresupuesto, 0, len(in))
	for _, d := range in {
		if d.Descripcion == "" || d.Cantidad < 1 {
			return nil, domain.ErrInvalidInput
		}
		if !d.PrecioOriginal.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		det := &entity.DetallePresupuesto{
			ID:             uuid.New().String(),
			Descripcion:    d.Descripcion,
			Cantidad:       d.Cantidad,
			PrecioOriginal: d.PrecioOriginal,
		}
		if d.PrecioAlternativo != nil {
			if !d.PrecioAlternativo.IsPositive() {
				return nil, domain.ErrInvalidInput
			}
			det.PrecioAlternativo = *d.PrecioAlternativo
			det.TieneAlternativo = true
		}
		detalles = append(detalles, det)
	}
	return detalles, nil
}

// calcularTotales suma cada pista de precio. En la pista alternativa, las
// líneas sin repuesto alternativo entran con su precio original.
func calcularTotales(detalles []*entity.DetallePresupuesto, manoDeObra decimal.Decimal) (original, alternativo decimal.Decimal) {
	for _, d := range detalles {
		cantidad := decimal.NewFromInt(int64(d.Cantidad))
		original = original.Add(cantidad.Mul(d.PrecioOriginal))
		precioAlt := d.PrecioOriginal
		if d.TieneAlternativo {
			precioAlt = d.PrecioAlternativo
		}
		alternativo = alternativo.Add(cantidad.Mul(precioAlt))
	}
	return original.Add(manoDeObra), alternativo.Add(manoDeObra)
}

func descripcionEquipo(e *entity.Equipo) string {
	if e == nil {
		return ""
	}
	desc := e.Tipo
	if e.Marca != "" {
		desc += " " + e.Marca
	}
	if e.Modelo != "" {
		desc += " " + e.Modelo
	}
	return desc
}

func toResponse(p *entity.Presupuesto, detalles []*entity.DetallePresupuesto) *dto.PresupuestoResponse {
	resp := &dto.PresupuestoResponse{
		ID:                 p.ID,
		ServicioID:         p.ServicioID,
		Numero:             p.Numero,
		Estado:             p.Estado,
		EstadoDescripcion:  entity.EstadoDescripcion(p.Estado),
		Diagnostico:        p.Diagnostico,
		ManoDeObra:         p.ManoDeObra,
		TotalOriginal:      p.TotalOriginal,
		TotalAlternativo:   p.TotalAlternativo,
		MostrarOriginal:    p.MostrarOriginal,
		MostrarAlternativo: p.MostrarAlternativo,
		PrecioElegido:      p.PrecioElegido,
		Vencido:            p.Vencido(time.Now()),
		FechaVencimiento:   p.FechaVencimiento,
		FechaRespuesta:     p.FechaRespuesta,
		Detalles:           make([]dto.DetalleResponse, 0, len(detalles)),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
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
	return resp
}
