package entity

import "time"

// Acciones posibles de un token público.
const (
	AccionAprobar  = "APROBAR"
	AccionRechazar = "RECHAZAR"
)

// PresupuestoToken es la credencial de un solo uso que permite a un cliente
// no autenticado responder un presupuesto desde el enlace del correo.
// Nunca se borra: queda como historial de auditoría del presupuesto.
type PresupuestoToken struct {
	ID            string
	PresupuestoID string
	Token         string // opaco, ≥256 bits de entropía, único
	Accion        string // APROBAR | RECHAZAR
	TipoPrecio    string // ORIGINAL | ALTERNATIVO (solo relevante para APROBAR)
	ExpiraEn      time.Time
	Usado         bool
	UsadoEn       *time.Time
	UsadoDesdeIP  string // auditoría; vacío cuando el token fue invalidado por un lote nuevo
	CreatedAt     time.Time
}

// Expirado indica si el token pasó su fecha de expiración.
func (t *PresupuestoToken) Expirado(now time.Time) bool {
	return now.After(t.ExpiraEn)
}
