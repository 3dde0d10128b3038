package presupuesto_test

import (
	"context"
	"sync"
	"time"

	"github.com/jcastillo/Taller-api/internal/application/presupuesto"
	"github.com/jcastillo/Taller-api/internal/domain"
	"github.com/jcastillo/Taller-api/internal/domain/entity"
	"github.com/jcastillo/Taller-api/internal/domain/repository"
)

// Fakes en memoria de los puertos de persistencia, en el estilo de los tests
// de use cases: estado en maps, sin errores simulados salvo los del contrato.

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*entity.PresupuestoToken // por string de token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*entity.PresupuestoToken)}
}

func (f *fakeTokenRepo) Create(_ context.Context, t *entity.PresupuestoToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[t.Token]; ok {
		return domain.ErrDuplicate
	}
	cp := *t
	f.tokens[t.Token] = &cp
	return nil
}

func (f *fakeTokenRepo) GetByToken(_ context.Context, token string) (*entity.PresupuestoToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTokenRepo) GetByTokenForUpdate(ctx context.Context, token string) (*entity.PresupuestoToken, error) {
	return f.GetByToken(ctx, token)
}

func (f *fakeTokenRepo) MarkUsed(_ context.Context, token, sourceIP string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok || t.Usado {
		return domain.ErrTokenUsado
	}
	now := time.Now()
	t.Usado = true
	t.UsadoEn = &now
	t.UsadoDesdeIP = sourceIP
	return nil
}

func (f *fakeTokenRepo) ListUnusedByPresupuesto(_ context.Context, presupuestoID string) ([]*entity.PresupuestoToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*entity.PresupuestoToken
	for _, t := range f.tokens {
		if t.PresupuestoID == presupuestoID && !t.Usado {
			cp := *t
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (f *fakeTokenRepo) InvalidateUnused(_ context.Context, presupuestoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.PresupuestoID == presupuestoID && !t.Usado {
			t.Usado = true
		}
	}
	return nil
}

// usados cuenta los tokens consumidos del presupuesto (para aserciones).
func (f *fakeTokenRepo) usados(presupuestoID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tokens {
		if t.PresupuestoID == presupuestoID && t.Usado {
			n++
		}
	}
	return n
}

type fakePresupuestoRepo struct {
	mu       sync.Mutex
	byID     map[string]*entity.Presupuesto
	detalles map[string][]*entity.DetallePresupuesto
	seq      int64
}

func newFakePresupuestoRepo() *fakePresupuestoRepo {
	return &fakePresupuestoRepo{
		byID:     make(map[string]*entity.Presupuesto),
		detalles: make(map[string][]*entity.DetallePresupuesto),
	}
}

func (f *fakePresupuestoRepo) Create(_ context.Context, p *entity.Presupuesto) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePresupuestoRepo) Update(_ context.Context, p *entity.Presupuesto) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePresupuestoRepo) GetByID(_ context.Context, id string) (*entity.Presupuesto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePresupuestoRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Presupuesto, error) {
	return f.GetByID(ctx, id)
}

func (f *fakePresupuestoRepo) ListByServicio(_ context.Context, servicioID string) ([]*entity.Presupuesto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*entity.Presupuesto
	for _, p := range f.byID {
		if p.ServicioID == servicioID {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (f *fakePresupuestoRepo) NextNumero(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq, nil
}

func (f *fakePresupuestoRepo) ReplaceDetalles(_ context.Context, presupuestoID string, detalles []*entity.DetallePresupuesto) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]*entity.DetallePresupuesto, 0, len(detalles))
	for _, d := range detalles {
		dd := *d
		cp = append(cp, &dd)
	}
	f.detalles[presupuestoID] = cp
	return nil
}

func (f *fakePresupuestoRepo) GetDetalles(_ context.Context, presupuestoID string) ([]*entity.DetallePresupuesto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detalles[presupuestoID], nil
}

type fakeServicioRepo struct {
	byID map[string]*entity.Servicio
	seq  int64
}

func newFakeServicioRepo() *fakeServicioRepo {
	return &fakeServicioRepo{byID: make(map[string]*entity.Servicio)}
}

func (f *fakeServicioRepo) Create(_ context.Context, s *entity.Servicio) error {
	f.byID[s.ID] = s
	return nil
}
func (f *fakeServicioRepo) Update(_ context.Context, s *entity.Servicio) error {
	f.byID[s.ID] = s
	return nil
}
func (f *fakeServicioRepo) GetByID(_ context.Context, id string) (*entity.Servicio, error) {
	return f.byID[id], nil
}
func (f *fakeServicioRepo) List(_ context.Context, _, _ int) ([]*entity.Servicio, error) {
	return nil, nil
}
func (f *fakeServicioRepo) ListByCliente(_ context.Context, _ string, _, _ int) ([]*entity.Servicio, error) {
	return nil, nil
}
func (f *fakeServicioRepo) NextNumero(_ context.Context) (int64, error) {
	f.seq++
	return f.seq, nil
}

type fakeClienteRepo struct {
	byID map[string]*entity.Cliente
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{byID: make(map[string]*entity.Cliente)}
}

func (f *fakeClienteRepo) Create(_ context.Context, c *entity.Cliente) error {
	f.byID[c.ID] = c
	return nil
}
func (f *fakeClienteRepo) Update(_ context.Context, c *entity.Cliente) error {
	f.byID[c.ID] = c
	return nil
}
func (f *fakeClienteRepo) GetByID(_ context.Context, id string) (*entity.Cliente, error) {
	return f.byID[id], nil
}
func (f *fakeClienteRepo) GetByDocumento(_ context.Context, doc string) (*entity.Cliente, error) {
	for _, c := range f.byID {
		if c.Documento == doc {
			return c, nil
		}
	}
	return nil, nil
}
func (f *fakeClienteRepo) List(_ context.Context, _, _ int) ([]*entity.Cliente, error) {
	return nil, nil
}

type fakeEquipoRepo struct {
	byID map[string]*entity.Equipo
}

func newFakeEquipoRepo() *fakeEquipoRepo {
	return &fakeEquipoRepo{byID: make(map[string]*entity.Equipo)}
}

func (f *fakeEquipoRepo) Create(_ context.Context, e *entity.Equipo) error {
	f.byID[e.ID] = e
	return nil
}
func (f *fakeEquipoRepo) GetByID(_ context.Context, id string) (*entity.Equipo, error) {
	return f.byID[id], nil
}
func (f *fakeEquipoRepo) ListByCliente(_ context.Context, _ string) ([]*entity.Equipo, error) {
	return nil, nil
}

// fakeTxRunner ejecuta el callback con los mismos fakes, sin rollback. El
// mutex serializa los callbacks igual que el lock de fila del token en
// Postgres: dos envíos concurrentes se observan uno después del otro.
type fakeTxRunner struct {
	mu           sync.Mutex
	presupuestos *fakePresupuestoRepo
	tokens       *fakeTokenRepo
}

func (f *fakeTxRunner) RunPresupuesto(_ context.Context, fn func(
	presupuestoRepo repository.PresupuestoRepository,
	tokenRepo repository.TokenRepository,
) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f.presupuestos, f.tokens)
}

// fakeNotifier publica los envíos en canales para que el test pueda esperar
// las goroutines fire-and-forget sin sleeps.
type fakeNotifier struct {
	envios     chan presupuesto.EnvioPresupuesto
	respuestas chan presupuesto.RespuestaPresupuesto
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		envios:     make(chan presupuesto.EnvioPresupuesto, 4),
		respuestas: make(chan presupuesto.RespuestaPresupuesto, 4),
	}
}

func (f *fakeNotifier) EnviarPresupuesto(_ context.Context, e presupuesto.EnvioPresupuesto) error {
	f.envios <- e
	return nil
}

func (f *fakeNotifier) NotificarRespuesta(_ context.Context, r presupuesto.RespuestaPresupuesto) error {
	f.respuestas <- r
	return nil
}

type fakePDF struct{}

func (fakePDF) GenerarPresupuesto(_ presupuesto.PDFDatos) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}
