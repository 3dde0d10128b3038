package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastillo/Taller-api/internal/domain"
)

// Estados del presupuesto.
const (
	EstadoPendiente = "PENDIENTE"
	EstadoEnProceso = "EN_PROCESO"
	EstadoAprobado  = "APROBADO"
	EstadoRechazado = "RECHAZADO"
)

// Tipos de precio que el cliente puede elegir al aprobar.
const (
	PrecioOriginal    = "ORIGINAL"
	PrecioAlternativo = "ALTERNATIVO"
)

// Presupuesto representa una propuesta de reparación enviada al cliente.
// El estado solo muta a través de Aprobar/Rechazar; "vencido" es una condición
// derivada de FechaVencimiento y nunca se materializa como estado almacenado.
type Presupuesto struct {
	ID                 string
	ServicioID         string
	Numero             string // consecutivo legible (P-00042), único
	Estado             string
	Diagnostico        string
	ManoDeObra         decimal.Decimal
	TotalOriginal      decimal.Decimal
	TotalAlternativo   decimal.Decimal
	MostrarOriginal    bool
	MostrarAlternativo bool
	PrecioElegido      string // ORIGINAL | ALTERNATIVO, vacío hasta aprobar
	FechaVencimiento   *time.Time
	FechaRespuesta     *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DetallePresupuesto es una línea del presupuesto. Las líneas pertenecen a un
// único presupuesto y se reemplazan completas en cada edición.
type DetallePresupuesto struct {
	ID                 string
	PresupuestoID      string
	Descripcion        string
	Cantidad           int
	PrecioOriginal     decimal.Decimal
	PrecioAlternativo  decimal.Decimal // cero si no hay repuesto alternativo
	TieneAlternativo   bool
}

// Respondido indica si el presupuesto ya recibió una decisión del cliente.
func (p *Presupuesto) Respondido() bool {
	return p.Estado == EstadoAprobado || p.Estado == EstadoRechazado
}

// Vencido evalúa la condición de vencimiento contra el instante dado.
// Se compara por fecha (no hora): el día del vencimiento todavía es válido.
func (p *Presupuesto) Vencido(now time.Time) bool {
	if p.FechaVencimiento == nil {
		return false
	}
	y, m, d := now.Date()
	hoy := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	vy, vm, vd := p.FechaVencimiento.Date()
	vence := time.Date(vy, vm, vd, 0, 0, 0, 0, now.Location())
	return vence.Before(hoy)
}

// Aprobar aplica la transición a APROBADO registrando el tipo de precio elegido.
// Falla con ErrYaRespondido sobre un presupuesto ya respondido y con
// ErrPresupuestoVencido si la fecha de vencimiento quedó atrás; en ambos casos
// no se toca ningún campo.
func (p *Presupuesto) Aprobar(precio string, now time.Time) error {
	if err := p.puedeResponder(now); err != nil {
		return err
	}
	if precio != PrecioOriginal && precio != PrecioAlternativo {
		return domain.ErrInvalidInput
	}
	if precio == PrecioAlternativo && !p.MostrarAlternativo {
		return domain.ErrInvalidInput
	}
	if precio == PrecioOriginal && !p.MostrarOriginal {
		return domain.ErrInvalidInput
	}
	p.Estado = EstadoAprobado
	p.PrecioElegido = precio
	p.FechaRespuesta = &now
	p.UpdatedAt = now
	return nil
}

// Rechazar aplica la transición a RECHAZADO con las mismas guardas que Aprobar.
func (p *Presupuesto) Rechazar(now time.Time) error {
	if err := p.puedeResponder(now); err != nil {
		return err
	}
	p.Estado = EstadoRechazado
	p.FechaRespuesta = &now
	p.UpdatedAt = now
	return nil
}

// puedeResponder concentra las guardas de la máquina de estados: solo
// PENDIENTE o EN_PROCESO sin vencer aceptan una respuesta del cliente.
// El chequeo de vencimiento se evalúa siempre en el momento del intento.
func (p *Presupuesto) puedeResponder(now time.Time) error {
	if p.Respondido() {
		return domain.ErrYaRespondido
	}
	if p.Estado != EstadoPendiente && p.Estado != EstadoEnProceso {
		return domain.ErrConflict
	}
	if p.Vencido(now) {
		return domain.ErrPresupuestoVencido
	}
	return nil
}

// EstadoDescripcion devuelve el texto para mostrar de cada estado.
// La presentación vive fuera del enum a propósito.
func EstadoDescripcion(estado string) string {
	switch estado {
	case EstadoPendiente:
		return "Pendiente de respuesta"
	case EstadoEnProceso:
		return "En proceso"
	case EstadoAprobado:
		return "Aprobado por el cliente"
	case EstadoRechazado:
		return "Rechazado por el cliente"
	default:
		return estado
	}
}
