package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PublicPresupuestoResponse es la vista del presupuesto que ve el cliente
// desde el enlace del correo. Los totales salen solo si su flag de mostrar
// está activo; nunca expone IDs internos distintos del número legible.
type PublicPresupuestoResponse struct {
	Numero             string            `json:"numero"`
	ClienteNombre      string            `json:"cliente_nombre"`
	EquipoDescripcion  string            `json:"equipo_descripcion"`
	FallaReportada     string            `json:"falla_reportada"`
	Diagnostico        string            `json:"diagnostico"`
	Detalles           []DetalleResponse `json:"detalles"`
	ManoDeObra         decimal.Decimal   `json:"mano_de_obra"`
	TotalOriginal      *decimal.Decimal  `json:"total_original,omitempty"`
	TotalAlternativo   *decimal.Decimal  `json:"total_alternativo,omitempty"`
	Estado             string            `json:"estado"`
	EstadoDescripcion  string            `json:"estado_descripcion"`
	Vencido            bool              `json:"vencido"`
	FechaCreacion      time.Time         `json:"fecha_creacion"`
	FechaVencimiento   *time.Time        `json:"fecha_vencimiento,omitempty"`
}

// PublicActionResponse confirmación de una acción pública (aprobar/rechazar).
type PublicActionResponse struct {
	Message string `json:"message"`
	Numero  string `json:"numero"`
}
