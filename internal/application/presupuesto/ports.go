package presupuesto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de
// presupuestos y tokens atados a la misma tx. Es el soporte del camino
// público: la validación del token, la transición de estado y la
// invalidación deben confirmarse juntas o no confirmarse.
type TxRunner interface {
	RunPresupuesto(ctx context.Context, fn func(
		presupuestoRepo repository.PresupuestoRepository,
		tokenRepo repository.TokenRepository,
	) error) error
}

// EnvioPresupuesto datos para el correo de envío del presupuesto al cliente.
type EnvioPresupuesto struct {
	Para          string
	ClienteNombre string
	Numero        string
	URLVer        string
	URLAprobar    string
	URLRechazar   string
	FechaVence    *time.Time
	PDF           []byte // representación del presupuesto adjunta al correo
}

// RespuestaPresupuesto datos para el aviso interno cuando el cliente responde.
// PrecioElegido viaja para que recepción abra la orden de trabajo con el
// tipo de repuesto correcto.
type RespuestaPresupuesto struct {
	Numero        string
	Resultado     string // APROBADO | RECHAZADO
	PrecioElegido string
	ClienteNombre string
}

// Notifier envía los correos del flujo de presupuestos. Las implementaciones
// son best-effort: un fallo se registra y nunca se propaga al caller.
type Notifier interface {
	EnviarPresupuesto(ctx context.Context, e EnvioPresupuesto) error
	NotificarRespuesta(ctx context.Context, r RespuestaPresupuesto) error
}

// PDFDatos información que necesita el generador para armar el documento.
type PDFDatos struct {
	Numero             string
	ClienteNombre      string
	EquipoDescripcion  string
	Diagnostico        string
	Detalles           []*entity.DetallePresupuesto
	ManoDeObra         decimal.Decimal
	TotalOriginal      decimal.Decimal
	TotalAlternativo   decimal.Decimal
	MostrarOriginal    bool
	MostrarAlternativo bool
	FechaVencimiento   *time.Time
}

// PDFGenerator genera la representación PDF del presupuesto para el correo.
type PDFGenerator interface {
	GenerarPresupuesto(d PDFDatos) ([]byte, error)
}
