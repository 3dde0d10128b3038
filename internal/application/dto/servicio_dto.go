package dto

import "time"

// CreateServicioRequest entrada para registrar un ingreso al taller.
// Si EquipoID viene vacío se crea el equipo con los datos de Equipo.
type CreateServicioRequest struct {
	ClienteID      string               `json:"cliente_id" validate:"required,uuid"`
	EquipoID       string               `json:"equipo_id" validate:"omitempty,uuid"`
	Equipo         *CreateEquipoRequest `json:"equipo"`
	FallaReportada string               `json:"falla_reportada" validate:"required,min=1"`
}

// CreateEquipoRequest datos del equipo cuando se registra junto con el servicio.
type CreateEquipoRequest struct {
	Tipo        string `json:"tipo" validate:"required,max=50"`
	Marca       string `json:"marca" validate:"omitempty,max=100"`
	Modelo      string `json:"modelo" validate:"omitempty,max=100"`
	Serie       string `json:"serie" validate:"omitempty,max=100"`
	Descripcion string `json:"descripcion" validate:"omitempty,max=500"`
}

// EquipoResponse salida de un equipo registrado.
type EquipoResponse struct {
	ID          string    `json:"id"`
	ClienteID   string    `json:"cliente_id"`
	Tipo        string    `json:"tipo"`
	Marca       string    `json:"marca"`
	Modelo      string    `json:"modelo"`
	Serie       string    `json:"serie,omitempty"`
	Descripcion string    `json:"descripcion"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdateServicioEstadoRequest cambio de estado de la orden.
type UpdateServicioEstadoRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// ServicioResponse salida de una orden de ingreso.
type ServicioResponse struct {
	ID             string    `json:"id"`
	Numero         string    `json:"numero"`
	ClienteID      string    `json:"cliente_id"`
	EquipoID       string    `json:"equipo_id"`
	FallaReportada string    `json:"falla_reportada"`
	Estado         string    `json:"estado"`
	RecibidoPor    string    `json:"recibido_por"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ServicioListResponse listado paginado de servicios.
type ServicioListResponse struct {
	Items  []ServicioResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
