package entity

import "time"

// Estados del servicio (orden de ingreso).
const (
	ServicioRecibido   = "RECIBIDO"
	ServicioDiagnostico = "EN_DIAGNOSTICO"
	ServicioReparacion = "EN_REPARACION"
	ServicioTerminado  = "TERMINADO"
	ServicioEntregado  = "ENTREGADO"
	ServicioCancelado  = "CANCELADO"
)

// Servicio es la orden de ingreso que agrupa el equipo, la falla reportada y
// los presupuestos emitidos. Mientras el servicio está activo sus presupuestos
// no se eliminan físicamente.
type Servicio struct {
	ID             string
	ClienteID      string
	EquipoID       string
	Numero         string // consecutivo legible (S-00017), único
	FallaReportada string
	Estado         string
	RecibidoPor    string // user ID del empleado que recibió el equipo
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Activo indica si el servicio sigue abierto en el taller.
func (s *Servicio) Activo() bool {
	return s.Estado != ServicioEntregado && s.Estado != ServicioCancelado
}
