package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jcastillo/Taller-api/internal/application/dto"
	"github.com/jcastillo/Taller-api/internal/domain"
	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/internal/domain/repository"
)

// ClienteUseCase casos de uso CRUD para clientes del taller y sus equipos.
type ClienteUseCase struct {
	repo    repository.ClienteRepository
	equipos repository.EquipoRepository
}

// NewClienteUseCase construye el caso de uso.
func NewClienteUseCase(repo repository.ClienteRepository, equipos repository.EquipoRepository) *ClienteUseCase {
	return &ClienteUseCase{repo: repo, equipos: equipos}
}

// Create crea un cliente. El documento (NIT/cédula) es único.
func (uc *ClienteUseCase) Create(ctx context.Context, in dto.CreateClienteRequest) (*dto.ClienteResponse, error) {
	if in.Nombre == "" || in.Documento == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByDocumento(ctx, in.Documento)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.Cliente{
		ID:        uuid.New().String(),
		Nombre:    in.Nombre,
		Documento: in.Documento,
		Email:     in.Email,
		Telefono:  in.Telefono,
		Direccion: in.Direccion,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toClienteResponse(c), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClienteUseCase) GetByID(ctx context.Context, id string) (*dto.ClienteResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toClienteResponse(c), nil
}

// Update actualiza los campos presentes de un cliente.
func (uc *ClienteUseCase) Update(ctx context.Context, id string, in dto.UpdateClienteRequest) (*dto.ClienteResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nombre != nil {
		c.Nombre = *in.Nombre
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Telefono != nil {
		c.Telefono = *in.Telefono
	}
	if in.Direccion != nil {
		c.Direccion = *in.Direccion
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toClienteResponse(c), nil
}

// List lista clientes con paginación.
func (uc *ClienteUseCase) List(ctx context.Context, limit, offset int) (*dto.ClienteListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClienteResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClienteResponse(c))
	}
	return &dto.ClienteListResponse{Items: items, Limit: limit, Offset: offset}, nil
}

// ListEquipos lista los equipos registrados del cliente.
func (uc *ClienteUseCase) ListEquipos(ctx context.Context, clienteID string) ([]dto.EquipoResponse, error) {
	c, err := uc.repo.GetByID(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.equipos.ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EquipoResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.EquipoResponse{
			ID:          e.ID,
			ClienteID:   e.ClienteID,
			Tipo:        e.Tipo,
			Marca:       e.Marca,
			Modelo:      e.Modelo,
			Serie:       e.Serie,
			Descripcion: e.Descripcion,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		})
	}
	return items, nil
}

func toClienteResponse(c *entity.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:        c.ID,
		Nombre:    c.Nombre,
		Documento: c.Documento,
		Email:     c.Email,
		Telefono:  c.Telefono,
		Direccion: c.Direccion,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
