package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastillo/Taller-api/internal/application/dto"
	"github.com/jcastillo/Taller-api/internal/application/presupuesto"
	"github.com/jcastillo/Taller-api/internal/domain"
)

// PresupuestoHandler maneja el ciclo interno del presupuesto (protegido):
// crear, editar, enviar al cliente y consultar.
type PresupuestoHandler struct {
	uc *presupuesto.UseCase
}

// NewPresupuestoHandler construye el handler.
func NewPresupuestoHandler(uc *presupuesto.UseCase) *PresupuestoHandler {
	return &PresupuestoHandler{uc: uc}
}

// Create crea un presupuesto PENDIENTE bajo un servicio.
// POST /api/presupuestos
func (h *PresupuestoHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreatePresupuestoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update edita un presupuesto aún no respondido.
// PUT /api/presupuestos/:id
func (h *PresupuestoHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.UpdatePresupuestoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// Enviar manda (o reenvía) el presupuesto al cliente con enlaces nuevos.
// POST /api/presupuestos/:id/enviar
func (h *PresupuestoHandler) Enviar(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.uc.Enviar(c.Context(), id)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el cliente no tiene email registrado"})
		}
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene un presupuesto con sus líneas.
// GET /api/presupuestos/:id
func (h *PresupuestoHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// ListByServicio lista los presupuestos de una orden.
// GET /api/servicios/:id/presupuestos
func (h *PresupuestoHandler) ListByServicio(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	items, err := h.uc.ListByServicio(c.Context(), id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// mapError traduce los errores de dominio del ciclo interno a HTTP.
func (h *PresupuestoHandler) mapError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el servicio no admite presupuestos en su estado actual"})
	case domain.ErrYaRespondido:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_ANSWERED", Message: "el presupuesto ya fue respondido"})
	case domain.ErrPresupuestoVencido:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EXPIRED", Message: "el presupuesto está vencido"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
