package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DetalleRequest una línea del presupuesto. PrecioAlternativo es opcional;
// si viene, debe ser mayor que cero.
type DetalleRequest struct {
	Descripcion       string           `json:"descripcion" validate:"required,min=1,max=300"`
	Cantidad          int              `json:"cantidad" validate:"required,min=1"`
	PrecioOriginal    decimal.Decimal  `json:"precio_original" validate:"required"`
	PrecioAlternativo *decimal.Decimal `json:"precio_alternativo"`
}

// CreatePresupuestoRequest entrada para crear un presupuesto bajo un servicio.
// Al menos uno de los dos flags de mostrar precio debe ser true.
type CreatePresupuestoRequest struct {
	ServicioID         string           `json:"servicio_id" validate:"required,uuid"`
	Diagnostico        string           `json:"diagnostico" validate:"required,min=1"`
	ManoDeObra         decimal.Decimal  `json:"mano_de_obra"`
	MostrarOriginal    bool             `json:"mostrar_original"`
	MostrarAlternativo bool             `json:"mostrar_alternativo"`
	DiasVigencia       int              `json:"dias_vigencia" validate:"omitempty,min=1,max=365"`
	Detalles           []DetalleRequest `json:"detalles" validate:"required,min=1,dive"`
}

// UpdatePresupuestoRequest edición de un presupuesto aún no respondido.
// Las líneas se reemplazan completas.
type UpdatePresupuestoRequest struct {
	Diagnostico        *string          `json:"diagnostico"`
	ManoDeObra         *decimal.Decimal `json:"mano_de_obra"`
	MostrarOriginal    *bool            `json:"mostrar_original"`
	MostrarAlternativo *bool            `json:"mostrar_alternativo"`
	DiasVigencia       *int             `json:"dias_vigencia"`
	Detalles           []DetalleRequest `json:"detalles"`
}

// DetalleResponse salida de una línea.
type DetalleResponse struct {
	ID                string           `json:"id"`
	Descripcion       string           `json:"descripcion"`
	Cantidad          int              `json:"cantidad"`
	PrecioOriginal    decimal.Decimal  `json:"precio_original"`
	PrecioAlternativo *decimal.Decimal `json:"precio_alternativo,omitempty"`
}

// PresupuestoResponse salida completa para el panel interno.
type PresupuestoResponse struct {
	ID                 string            `json:"id"`
	ServicioID         string            `json:"servicio_id"`
	Numero             string            `json:"numero"`
	Estado             string            `json:"estado"`
	EstadoDescripcion  string            `json:"estado_descripcion"`
	Diagnostico        string            `json:"diagnostico"`
	ManoDeObra         decimal.Decimal   `json:"mano_de_obra"`
	TotalOriginal      decimal.Decimal   `json:"total_original"`
	TotalAlternativo   decimal.Decimal   `json:"total_alternativo"`
	MostrarOriginal    bool              `json:"mostrar_original"`
	MostrarAlternativo bool              `json:"mostrar_alternativo"`
	PrecioElegido      string            `json:"precio_elegido,omitempty"`
	Vencido            bool              `json:"vencido"`
	FechaVencimiento   *time.Time        `json:"fecha_vencimiento,omitempty"`
	FechaRespuesta     *time.Time        `json:"fecha_respuesta,omitempty"`
	Detalles           []DetalleResponse `json:"detalles"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}
