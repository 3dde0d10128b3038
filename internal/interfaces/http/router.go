package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastillo/Taller-api/internal/application/auth"
	"github.com/jcastillo/Taller-api/internal/application/presupuesto"
	"github.com/jcastillo/Taller-api/internal/application/usecase"
	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ClienteUC     *usecase.ClienteUseCase
	ServicioUC    *usecase.ServicioUseCase
	PresupuestoUC *presupuesto.UseCase
	PublicUC      *presupuesto.PublicUseCase
	JWTSecret     string
	Log           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Enlaces del correo del cliente (público, sin Bearer)
	public := api.Group("/public/presupuestos")
	publicHandler := NewPublicHandler(deps.PublicUC, deps.Log)
	public.Get("/token/:token", publicHandler.Ver)
	public.Post("/aprobar/:token", publicHandler.Aprobar)
	public.Post("/rechazar/:token", publicHandler.Rechazar)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Clientes (protegido)
	clientes := protected.Group("/clientes")
	clienteHandler := NewClienteHandler(deps.ClienteUC)
	clientes.Post("/", clienteHandler.Create)
	clientes.Get("/", clienteHandler.List)
	clientes.Get("/:id", clienteHandler.GetByID)
	clientes.Put("/:id", clienteHandler.Update)
	clientes.Get("/:id/equipos", clienteHandler.ListEquipos)

	// Servicios / órdenes de ingreso (protegido)
	servicios := protected.Group("/servicios")
	servicioHandler := NewServicioHandler(deps.ServicioUC)
	presupuestoHandler := NewPresupuestoHandler(deps.PresupuestoUC)
	servicios.Post("/", servicioHandler.Create)
	servicios.Get("/", servicioHandler.List)
	servicios.Get("/:id", servicioHandler.GetByID)
	servicios.Patch("/:id/estado", servicioHandler.UpdateEstado)
	servicios.Get("/:id/presupuestos", presupuestoHandler.ListByServicio)

	// Presupuestos (protegido; crear/editar/enviar solo admin y recepción)
	presupuestos := protected.Group("/presupuestos")
	puedeGestionar := RequireRole(entity.RoleAdmin, entity.RoleRecepcion)
	presupuestos.Post("/", puedeGestionar, presupuestoHandler.Create)
	presupuestos.Get("/:id", presupuestoHandler.GetByID)
	presupuestos.Put("/:id", puedeGestionar, presupuestoHandler.Update)
	presupuestos.Post("/:id/enviar", puedeGestionar, presupuestoHandler.Enviar)
}
