package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jcastillo/Taller-api/internal/application/dto"
	"github.com/jcastillo/Taller-api/internal/domain"
	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/internal/domain/repository"
)

// estadosServicio transiciones permitidas de la orden de ingreso.
var estadosServicio = map[string]bool{
	entity.ServicioRecibido:    true,
	entity.ServicioDiagnostico: true,
	entity.ServicioReparacion:  true,
	entity.ServicioTerminado:   true,
	entity.ServicioEntregado:   true,
	entity.ServicioCancelado:   true,
}

// ServicioUseCase casos de uso de órdenes de ingreso al taller.
type ServicioUseCase struct {
	servicios repository.ServicioRepository
	clientes  repository.ClienteRepository
	equipos   repository.EquipoRepository
}

// NewServicioUseCase construye el caso de uso.
func NewServicioUseCase(
	servicios repository.ServicioRepository,
	clientes repository.ClienteRepository,
	equipos repository.EquipoRepository,
) *ServicioUseCase {
	return &ServicioUseCase{servicios: servicios, clientes: clientes, equipos: equipos}
}

// Create registra el ingreso de un equipo. El userID del empleado que recibe
// viaja como argumento explícito desde el handler; no se lee de ningún
// contexto ambiente.
func (uc *ServicioUseCase) Create(ctx context.Context, userID string, in dto.CreateServicioRequest) (*dto.ServicioResponse, error) {
	if in.ClienteID == "" || in.FallaReportada == "" {
		return nil, domain.ErrInvalidInput
	}
	cliente, err := uc.clientes.GetByID(ctx, in.ClienteID)
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	equipoID := in.EquipoID
	if equipoID == "" {
		if in.Equipo == nil || in.Equipo.Tipo == "" {
			return nil, domain.ErrInvalidInput
		}
		equipo := &entity.Equipo{
			ID:          uuid.New().String(),
			ClienteID:   in.ClienteID,
			Tipo:        in.Equipo.Tipo,
			Marca:       in.Equipo.Marca,
			Modelo:      in.Equipo.Modelo,
			Serie:       in.Equipo.Serie,
			Descripcion: in.Equipo.Descripcion,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := uc.equipos.Create(ctx, equipo); err != nil {
			return nil, err
		}
		equipoID = equipo.ID
	} else {
		equipo, err := uc.equipos.GetByID(ctx, equipoID)
		if err != nil {
			return nil, err
		}
		if equipo == nil {
			return nil, domain.ErrNotFound
		}
		if equipo.ClienteID != in.ClienteID {
			return nil, domain.ErrForbidden
		}
	}

	seq, err := uc.servicios.NextNumero(ctx)
	if err != nil {
		return nil, fmt.Errorf("numerador de servicios: %w", err)
	}
	s := &entity.Servicio{
		ID:             uuid.New().String(),
		ClienteID:      in.ClienteID,
		EquipoID:       equipoID,
		Numero:         fmt.Sprintf("S-%05d", seq),
		FallaReportada: in.FallaReportada,
		Estado:         entity.ServicioRecibido,
		RecibidoPor:    userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.servicios.Create(ctx, s); err != nil {
		return nil, err
	}
	return toServicioResponse(s), nil
}

// GetByID obtiene una orden por ID.
func (uc *ServicioUseCase) GetByID(ctx context.Context, id string) (*dto.ServicioResponse, error) {
	s, err := uc.servicios.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toServicioResponse(s), nil
}

// UpdateEstado cambia el estado de la orden. Una orden entregada o cancelada
// no vuelve a cambiar.
func (uc *ServicioUseCase) UpdateEstado(ctx context.Context, id string, in dto.UpdateServicioEstadoRequest) (*dto.ServicioResponse, error) {
	if !estadosServicio[in.Estado] {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.servicios.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if !s.Activo() {
		return nil, domain.ErrConflict
	}
	s.Estado = in.Estado
	s.UpdatedAt = time.Now()
	if err := uc.servicios.Update(ctx, s); err != nil {
		return nil, err
	}
	return toServicioResponse(s), nil
}

// List lista órdenes con paginación; con clienteID filtra por cliente.
func (uc *ServicioUseCase) List(ctx context.Context, clienteID string, limit, offset int) (*dto.ServicioListResponse, error) {
	var (
		list []*entity.Servicio
		err  error
	)
	if clienteID != "" {
		list, err = uc.servicios.ListByCliente(ctx, clienteID, limit, offset)
	} else {
		list, err = uc.servicios.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.ServicioResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toServicioResponse(s))
	}
	return &dto.ServicioListResponse{Items: items, Limit: limit, Offset: offset}, nil
}

func toServicioResponse(s *entity.Servicio) *dto.ServicioResponse {
	return &dto.ServicioResponse{
		ID:             s.ID,
		Numero:         s.Numero,
		ClienteID:      s.ClienteID,
		EquipoID:       s.EquipoID,
		FallaReportada: s.FallaReportada,
		Estado:         s.Estado,
		RecibidoPor:    s.RecibidoPor,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
