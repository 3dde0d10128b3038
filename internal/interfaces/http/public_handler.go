package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jcastillo/Taller-api/internal/application/dto"
	"github.com/jcastillo/Taller-api/internal/application/presupuesto"
	"github.com/jcastillo/Taller-api/internal/domain"
	"github.com/jcastillo/Taller-api/pkg/logger"
)

// PublicHandler atiende los enlaces del correo del cliente (sin auth).
// Hacia afuera, todo fallo de token o de negocio colapsa en una única
// respuesta genérica: la causa concreta queda solo en los logs.
type PublicHandler struct {
	uc  *presupuesto.PublicUseCase
	log *logger.Logger
}

// NewPublicHandler construye el handler público.
func NewPublicHandler(uc *presupuesto.PublicUseCase, log *logger.Logger) *PublicHandler {
	return &PublicHandler{uc: uc, log: log}
}

// Ver muestra el presupuesto al cliente. No consume el token.
// GET /api/public/presupuestos/token/:token
func (h *PublicHandler) Ver(c *fiber.Ctx) error {
	token := c.Params("token")
	out, err := h.uc.Ver(c.Context(), token)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// Aprobar aplica la decisión APROBAR del cliente.
// POST /api/public/presupuestos/aprobar/:token?precio=ORIGINAL|ALTERNATIVO
func (h *PublicHandler) Aprobar(c *fiber.Ctx) error {
	token := c.Params("token")
	out, err := h.uc.Aprobar(c.Context(), token, c.Query("precio"), ClientIP(c))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// Rechazar aplica la decisión RECHAZAR del cliente.
// POST /api/public/presupuestos/rechazar/:token
func (h *PublicHandler) Rechazar(c *fiber.Ctx) error {
	token := c.Params("token")
	out, err := h.uc.Rechazar(c.Context(), token, ClientIP(c))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// mapError colapsa todos los fallos esperables del camino público en un 400
// genérico. Distinguir "no existe" de "expirado" o "usado" hacia afuera
// regalaría un oráculo a quien pruebe tokens al azar.
func (h *PublicHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrTokenNoEncontrado),
		errors.Is(err, domain.ErrTokenExpirado),
		errors.Is(err, domain.ErrTokenUsado),
		errors.Is(err, domain.ErrAccionToken),
		errors.Is(err, domain.ErrYaRespondido),
		errors.Is(err, domain.ErrPresupuestoVencido),
		errors.Is(err, domain.ErrInvalidInput):
		h.log.Warn().Err(err).Str("ip", ClientIP(c)).Str("ruta", c.Path()).Msg("petición pública rechazada")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "presupuesto no encontrado"})
	default:
		h.log.Error().Err(err).Str("ruta", c.Path()).Msg("error interno en el camino público")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
