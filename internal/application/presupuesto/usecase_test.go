package presupuesto_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastillo/Taller-api/internal/application/dto"
	"github.com/jcastillo/Taller-api/internal/application/presupuesto"
	"github.com/jcastillo/Taller-api/internal/domain"
	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/pkg/logger"
)

type usecaseEnv struct {
	uc           *presupuesto.UseCase
	tokens       *fakeTokenRepo
	presupuestos *fakePresupuestoRepo
	servicios    *fakeServicioRepo
	clientes     *fakeClienteRepo
	notifier     *fakeNotifier
}

func newUsecaseEnv(t *testing.T) *usecaseEnv {
	t.Helper()
	ctx := context.Background()

	clientes := newFakeClienteRepo()
	equipos := newFakeEquipoRepo()
	servicios := newFakeServicioRepo()
	presupuestos := newFakePresupuestoRepo()
	tokens := newFakeTokenRepo()
	notifier := newFakeNotifier()

	require.NoError(t, clientes.Create(ctx, &entity.Cliente{
		ID: "c-1", Nombre: "Laura Gómez", Documento: "900123", Email: "laura@example.com",
	}))
	require.NoError(t, equipos.Create(ctx, &entity.Equipo{
		ID: "e-1", ClienteID: "c-1", Tipo: "portatil", Marca: "Lenovo",
	}))
	require.NoError(t, servicios.Create(ctx, &entity.Servicio{
		ID: "s-1", ClienteID: "c-1", EquipoID: "e-1", Numero: "S-00001",
		FallaReportada: "no enciende", Estado: entity.ServicioDiagnostico,
	}))

	uc := presupuesto.NewUseCase(
		presupuestos, tokens, servicios, clientes, equipos,
		presupuesto.NewTokenService(15),
		&fakeTxRunner{presupuestos: presupuestos, tokens: tokens},
		notifier, fakePDF{}, logger.Nop(), "https://taller.example.com",
	)
	return &usecaseEnv{
		uc: uc, tokens: tokens, presupuestos: presupuestos,
		servicios: servicios, clientes: clientes, notifier: notifier,
	}
}

func createRequest() dto.CreatePresupuestoRequest {
	alt := decimal.NewFromInt(120)
	return dto.CreatePresupuestoRequest{
		ServicioID:         "s-1",
		Diagnostico:        "pantalla dañada",
		ManoDeObra:         decimal.NewFromInt(50),
		MostrarOriginal:    true,
		MostrarAlternativo: true,
		DiasVigencia:       10,
		Detalles: []dto.DetalleRequest{
			{Descripcion: "pantalla 14\"", Cantidad: 1, PrecioOriginal: decimal.NewFromInt(200), PrecioAlternativo: &alt},
			{Descripcion: "bisagras", Cantidad: 2, PrecioOriginal: decimal.NewFromInt(30)},
		},
	}
}

func TestCreate_CalculaTotalesYNumera(t *testing.T) {
	env := newUsecaseEnv(t)

	out, err := env.uc.Create(context.Background(), "u-1", createRequest())
	require.NoError(t, err)

	assert.Equal(t, "P-00001", out.Numero)
	assert.Equal(t, entity.EstadoPendiente, out.Estado)
	// original: 200 + 2*30 + 50 de mano de obra
	assert.True(t, out.TotalOriginal.Equal(decimal.NewFromInt(310)), "total original: %s", out.TotalOriginal)
	// alternativo: 120 + 2*30 (sin alternativo entra el original) + 50
	assert.True(t, out.TotalAlternativo.Equal(decimal.NewFromInt(230)), "total alternativo: %s", out.TotalAlternativo)
	require.NotNil(t, out.FechaVencimiento)
	assert.Len(t, out.Detalles, 2)
}

func TestCreate_Validaciones(t *testing.T) {
	env := newUsecaseEnv(t)
	ctx := context.Background()

	in := createRequest()
	in.MostrarOriginal = false
	in.MostrarAlternativo = false
	_, err := env.uc.Create(ctx, "u-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "al menos una pista de precio visible")

	in = createRequest()
	in.Detalles[0].PrecioOriginal = decimal.Zero
	_, err = env.uc.Create(ctx, "u-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio cero")

	in = createRequest()
	in.ServicioID = "s-inexistente"
	_, err = env.uc.Create(ctx, "u-1", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ServicioCerradoFalla(t *testing.T) {
	env := newUsecaseEnv(t)
	ctx := context.Background()
	svc, _ := env.servicios.GetByID(ctx, "s-1")
	svc.Estado = entity.ServicioEntregado

	_, err := env.uc.Create(ctx, "u-1", createRequest())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestEnviar_EmiteTokensYCorreo(t *testing.T) {
	env := newUsecaseEnv(t)
	ctx := context.Background()

	created, err := env.uc.Create(ctx, "u-1", createRequest())
	require.NoError(t, err)

	out, err := env.uc.Enviar(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoEnProceso, out.Estado)

	var envio presupuesto.EnvioPresupuesto
	select {
	case envio = <-env.notifier.envios:
	case <-time.After(2 * time.Second):
		t.Fatal("no se despachó el correo de envío")
	}
	assert.Equal(t, "laura@example.com", envio.Para)
	assert.Contains(t, envio.URLAprobar, "/api/public/presupuestos/aprobar/")
	assert.Contains(t, envio.URLRechazar, "/api/public/presupuestos/rechazar/")
	assert.NotEmpty(t, envio.PDF)
	// los enlaces llevan tokens distintos
	assert.NotEqual(t, envio.URLAprobar, strings.Replace(envio.URLRechazar, "rechazar", "aprobar", 1))

	vivos, err := env.tokens.ListUnusedByPresupuesto(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, vivos, 2)
}

func TestEnviar_ReenvioRotaTokens(t *testing.T) {
	env := newUsecaseEnv(t)
	ctx := context.Background()

	created, err := env.uc.Create(ctx, "u-1", createRequest())
	require.NoError(t, err)

	_, err = env.uc.Enviar(ctx, created.ID)
	require.NoError(t, err)
	primero := <-env.notifier.envios

	_, err = env.uc.Enviar(ctx, created.ID)
	require.NoError(t, err)
	segundo := <-env.notifier.envios

	assert.NotEqual(t, primero.URLAprobar, segundo.URLAprobar, "el reenvío emite enlaces nuevos")
	vivos, _ := env.tokens.ListUnusedByPresupuesto(ctx, created.ID)
	assert.Len(t, vivos, 2, "el lote anterior queda retirado")
}

func TestEnviar_ClienteSinEmailFalla(t *testing.T) {
	env := newUsecaseEnv(t)
	ctx := context.Background()
	cliente, _ := env.clientes.GetByID(ctx, "c-1")
	cliente.Email = ""

	created, err := env.uc.Create(ctx, "u-1", createRequest())
	require.NoError(t, err)

	_, err = env.uc.Enviar(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_RespondidoNoSeEdita(t *testing.T) {
	env := newUsecaseEnv(t)
	ctx := context.Background()

	created, err := env.uc.Create(ctx, "u-1", createRequest())
	require.NoError(t, err)

	p, _ := env.presupuestos.GetByID(ctx, created.ID)
	p.Estado = entity.EstadoAprobado
	require.NoError(t, env.presupuestos.Update(ctx, p))

	diag := "otro diagnóstico"
	_, err = env.uc.Update(ctx, created.ID, dto.UpdatePresupuestoRequest{Diagnostico: &diag})
	assert.ErrorIs(t, err, domain.ErrYaRespondido)
}

func TestUpdate_ReemplazaLineasYRecalcula(t *testing.T) {
	env := newUsecaseEnv(t)
	ctx := context.Background()

	created, err := env.uc.Create(ctx, "u-1", createRequest())
	require.NoError(t, err)

	out, err := env.uc.Update(ctx, created.ID, dto.UpdatePresupuestoRequest{
		Detalles: []dto.DetalleRequest{
			{Descripcion: "teclado", Cantidad: 1, PrecioOriginal: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)
	assert.Len(t, out.Detalles, 1)
	// 80 + 50 de mano de obra
	assert.True(t, out.TotalOriginal.Equal(decimal.NewFromInt(130)), "total original: %s", out.TotalOriginal)
}
