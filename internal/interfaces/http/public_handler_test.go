package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastillo/Taller-api/internal/application/presupuesto"
	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/internal/domain/repository"
	apphttp "github.com/jcastillo/Taller-api/internal/interfaces/http"
	"github.com/jcastillo/Taller-api/pkg/logger"
)

// Fakes mínimos en memoria para montar el camino público completo
// (handler → use case → repos) sin base de datos.

type memTokens struct{ m map[string]*entity.PresupuestoToken }

func (f *memTokens) Create(_ context.Context, t *entity.PresupuestoToken) error {
	f.m[t.Token] = t
	return nil
}
func (f *memTokens) GetByToken(_ context.Context, tok string) (*entity.PresupuestoToken, error) {
	return f.m[tok], nil
}
func (f *memTokens) GetByTokenForUpdate(ctx context.Context, tok string) (*entity.PresupuestoToken, error) {
	return f.GetByToken(ctx, tok)
}
func (f *memTokens) MarkUsed(_ context.Context, tok, ip string) error {
	t := f.m[tok]
	t.Usado = true
	t.UsadoDesdeIP = ip
	return nil
}
func (f *memTokens) ListUnusedByPresupuesto(_ context.Context, _ string) ([]*entity.PresupuestoToken, error) {
	return nil, nil
}
func (f *memTokens) InvalidateUnused(_ context.Context, id string) error {
	for _, t := range f.m {
		if t.PresupuestoID == id {
			t.Usado = true
		}
	}
	return nil
}

type memPresupuestos struct{ p *entity.Presupuesto }

func (f *memPresupuestos) Create(_ context.Context, _ *entity.Presupuesto) error { return nil }
func (f *memPresupuestos) Update(_ context.Context, p *entity.Presupuesto) error {
	*f.p = *p
	return nil
}
func (f *memPresupuestos) GetByID(_ context.Context, id string) (*entity.Presupuesto, error) {
	if f.p != nil && f.p.ID == id {
		cp := *f.p
		return &cp, nil
	}
	return nil, nil
}
func (f *memPresupuestos) GetByIDForUpdate(ctx context.Context, id string) (*entity.Presupuesto, error) {
	return f.GetByID(ctx, id)
}
func (f *memPresupuestos) ListByServicio(_ context.Context, _ string) ([]*entity.Presupuesto, error) {
	return nil, nil
}
func (f *memPresupuestos) NextNumero(_ context.Context) (int64, error) { return 1, nil }
func (f *memPresupuestos) ReplaceDetalles(_ context.Context, _ string, _ []*entity.DetallePresupuesto) error {
	return nil
}
func (f *memPresupuestos) GetDetalles(_ context.Context, _ string) ([]*entity.DetallePresupuesto, error) {
	return []*entity.DetallePresupuesto{
		{ID: "d-1", Descripcion: "pantalla", Cantidad: 1, PrecioOriginal: decimal.NewFromInt(200)},
	}, nil
}

type memServicios struct{ s *entity.Servicio }

func (f *memServicios) Create(_ context.Context, _ *entity.Servicio) error { return nil }
func (f *memServicios) Update(_ context.Context, _ *entity.Servicio) error { return nil }
func (f *memServicios) GetByID(_ context.Context, _ string) (*entity.Servicio, error) {
	return f.s, nil
}
func (f *memServicios) List(_ context.Context, _, _ int) ([]*entity.Servicio, error) {
	return nil, nil
}
func (f *memServicios) ListByCliente(_ context.Context, _ string, _, _ int) ([]*entity.Servicio, error) {
	return nil, nil
}
func (f *memServicios) NextNumero(_ context.Context) (int64, error) { return 1, nil }

type memClientes struct{ c *entity.Cliente }

func (f *memClientes) Create(_ context.Context, _ *entity.Cliente) error { return nil }
func (f *memClientes) Update(_ context.Context, _ *entity.Cliente) error { return nil }
func (f *memClientes) GetByID(_ context.Context, _ string) (*entity.Cliente, error) {
	return f.c, nil
}
func (f *memClientes) GetByDocumento(_ context.Context, _ string) (*entity.Cliente, error) {
	return nil, nil
}
func (f *memClientes) List(_ context.Context, _, _ int) ([]*entity.Cliente, error) { return nil, nil }

type memEquipos struct{}

func (memEquipos) Create(_ context.Context, _ *entity.Equipo) error { return nil }
func (memEquipos) GetByID(_ context.Context, _ string) (*entity.Equipo, error) {
	return &entity.Equipo{ID: "e-1", Tipo: "portatil", Marca: "Lenovo"}, nil
}
func (memEquipos) ListByCliente(_ context.Context, _ string) ([]*entity.Equipo, error) {
	return nil, nil
}

type memTxRunner struct {
	presupuestos repository.PresupuestoRepository
	tokens       repository.TokenRepository
}

func (f *memTxRunner) RunPresupuesto(_ context.Context, fn func(
	repository.PresupuestoRepository, repository.TokenRepository,
) error) error {
	return fn(f.presupuestos, f.tokens)
}

type silentNotifier struct{}

func (silentNotifier) EnviarPresupuesto(_ context.Context, _ presupuesto.EnvioPresupuesto) error {
	return nil
}
func (silentNotifier) NotificarRespuesta(_ context.Context, _ presupuesto.RespuestaPresupuesto) error {
	return nil
}

// buildPublicApp monta la app con un presupuesto EN_PROCESO y su token APROBAR vivo.
func buildPublicApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	p := &entity.Presupuesto{
		ID: "p-1", ServicioID: "s-1", Numero: "P-00001",
		Estado:          entity.EstadoEnProceso,
		Diagnostico:     "pantalla dañada",
		MostrarOriginal: true,
		TotalOriginal:   decimal.NewFromInt(250),
	}
	tokens := &memTokens{m: map[string]*entity.PresupuestoToken{
		"tok-aprobar-vivo": {
			ID: "t-1", PresupuestoID: "p-1", Token: "tok-aprobar-vivo",
			Accion: entity.AccionAprobar, ExpiraEn: time.Now().Add(time.Hour),
		},
	}}
	presupuestos := &memPresupuestos{p: p}
	uc := presupuesto.NewPublicUseCase(
		presupuestos, tokens,
		&memServicios{s: &entity.Servicio{ID: "s-1", ClienteID: "c-1", EquipoID: "e-1", FallaReportada: "no enciende"}},
		&memClientes{c: &entity.Cliente{ID: "c-1", Nombre: "Laura Gómez", Email: "laura@example.com"}},
		memEquipos{},
		presupuesto.NewTokenService(15),
		&memTxRunner{presupuestos: presupuestos, tokens: tokens},
		silentNotifier{}, logger.Nop(),
	)

	app := fiber.New()
	h := apphttp.NewPublicHandler(uc, logger.Nop())
	app.Get("/api/public/presupuestos/token/:token", h.Ver)
	app.Post("/api/public/presupuestos/aprobar/:token", h.Aprobar)
	app.Post("/api/public/presupuestos/rechazar/:token", h.Rechazar)
	return app, "tok-aprobar-vivo"
}

func TestPublicVer_TokenValido(t *testing.T) {
	app, token := buildPublicApp(t)
	req := httptest.NewRequest(http.MethodGet, "/api/public/presupuestos/token/"+token, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "P-00001", body["numero"])
	// la pista alternativa está oculta: no debe aparecer en el JSON
	_, existe := body["total_alternativo"]
	assert.False(t, existe)
}

func TestPublicAprobar_OK(t *testing.T) {
	app, token := buildPublicApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/public/presupuestos/aprobar/"+token+"?precio=ORIGINAL", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "P-00001", body["numero"])
}

// Todo fallo del camino público responde el mismo 400 genérico: token
// desconocido, usado, de otra acción o presupuesto ya respondido se ven
// idénticos desde afuera.
func TestPublic_FallasColapsanEn400(t *testing.T) {
	app, token := buildPublicApp(t)

	casos := []struct {
		nombre string
		metodo string
		ruta   string
	}{
		{"token desconocido", http.MethodGet, "/api/public/presupuestos/token/tok-inexistente"},
		{"acción cruzada", http.MethodPost, "/api/public/presupuestos/rechazar/" + token},
	}
	for _, tc := range casos {
		req := httptest.NewRequest(tc.metodo, tc.ruta, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err, tc.nombre)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, tc.nombre)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "INVALID_TOKEN", body["code"], tc.nombre)
		assert.Equal(t, "token inválido o expirado", body["message"], tc.nombre)
		resp.Body.Close()
	}

	// consumir el token y reintentar: mismo 400 genérico
	req := httptest.NewRequest(http.MethodPost, "/api/public/presupuestos/aprobar/"+token, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodPost, "/api/public/presupuestos/aprobar/"+token, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
