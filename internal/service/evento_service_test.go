package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenda-cultural/agenda-api/internal/models"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
)

type fakeEventoRepo struct {
	findByID    func(ctx context.Context, id string) (*models.Evento, error)
	list        func(ctx context.Context, filter models.EventoFilter) ([]models.Evento, int, error)
	destacados  func(ctx context.Context, limite int) ([]models.Evento, error)
	create      func(ctx context.Context, evento *models.Evento) error
	update      func(ctx context.Context, evento *models.Evento) error
	delete      func(ctx context.Context, id string) error
	incrementar func(ctx context.Context, id string) error
}

func (f *fakeEventoRepo) FindByID(ctx context.Context, id string) (*models.Evento, error) {
	return f.findByID(ctx, id)
}

func (f *fakeEventoRepo) List(ctx context.Context, filter models.EventoFilter) ([]models.Evento, int, error) {
	return f.list(ctx, filter)
}

func (f *fakeEventoRepo) Destacados(ctx context.Context, limite int) ([]models.Evento, error) {
	return f.destacados(ctx, limite)
}

func (f *fakeEventoRepo) Create(ctx context.Context, evento *models.Evento) error {
	return f.create(ctx, evento)
}

func (f *fakeEventoRepo) Update(ctx context.Context, evento *models.Evento) error {
	return f.update(ctx, evento)
}

func (f *fakeEventoRepo) Delete(ctx context.Context, id string) error {
	return f.delete(ctx, id)
}

func (f *fakeEventoRepo) IncrementarVistas(ctx context.Context, id string) error {
	return f.incrementar(ctx, id)
}

type fakeCategoriaLookup struct {
	categoria *models.Categoria
	err       error
}

func (f *fakeCategoriaLookup) FindByID(_ context.Context, _ string) (*models.Categoria, error) {
	return f.categoria, f.err
}

type fakeCache struct {
	store   map[string][]byte
	gets    int
	sets    int
	deleted []string
	getFn   func(key string, dest interface{}) error
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	f.gets++
	if f.getFn != nil {
		return f.getFn(key, dest)
	}
	return appErrors.ErrCacheMiss
}

func (f *fakeCache) Set(_ context.Context, key string, _ interface{}, _ time.Duration) error {
	f.sets++
	f.store[key] = nil
	return nil
}

func (f *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	f.deleted = append(f.deleted, pattern)
	return nil
}

func eventoRequestValida() models.EventoRequest {
	return models.EventoRequest{
		Titulo:      "Noche de Museos",
		Descripcion: "Recorrido nocturno por los museos del centro",
		CategoriaID: "cat-1",
		Lugar:       "Centro histórico",
		Ciudad:      "Oaxaca",
		FechaInicio: time.Date(2026, 11, 20, 19, 0, 0, 0, time.UTC),
	}
}

func TestEventoCrearValidaFechas(t *testing.T) {
	cats := &fakeCategoriaLookup{categoria: &models.Categoria{ID: "cat-1", Activo: true}}
	svc := NewEventoService(&fakeEventoRepo{}, cats, nil, 0, nil, nil, nil)

	req := eventoRequestValida()
	fin := req.FechaInicio.Add(-time.Hour)
	req.FechaFin = &fin

	_, err := svc.Crear(context.Background(), "admin-1", req)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Codigo)
	require.Len(t, appErr.Errores, 1)
	assert.Equal(t, "fechaFin", appErr.Errores[0].Campo)
}

func TestEventoCrearCategoriaInexistente(t *testing.T) {
	cats := &fakeCategoriaLookup{err: sql.ErrNoRows}
	svc := NewEventoService(&fakeEventoRepo{}, cats, nil, 0, nil, nil, nil)

	_, err := svc.Crear(context.Background(), "admin-1", eventoRequestValida())
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", erroresCodigo(t, err))
}

func TestEventoCrearCategoriaInactiva(t *testing.T) {
	cats := &fakeCategoriaLookup{categoria: &models.Categoria{ID: "cat-1", Activo: false}}
	svc := NewEventoService(&fakeEventoRepo{}, cats, nil, 0, nil, nil, nil)

	_, err := svc.Crear(context.Background(), "admin-1", eventoRequestValida())
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", erroresCodigo(t, err))
}

func TestEventoCrearInvalidaCache(t *testing.T) {
	cats := &fakeCategoriaLookup{categoria: &models.Categoria{ID: "cat-1", Activo: true}}
	cache := newFakeCache()
	repo := &fakeEventoRepo{
		create: func(_ context.Context, _ *models.Evento) error { return nil },
	}
	svc := NewEventoService(repo, cats, cache, time.Minute, nil, nil, nil)

	evento, err := svc.Crear(context.Background(), "admin-1", eventoRequestValida())
	require.NoError(t, err)
	assert.Equal(t, "admin-1", evento.CreadoPor)
	assert.True(t, evento.Activo)
	assert.Contains(t, cache.deleted, "eventos:*")
}

func TestEventoListarPueblaCache(t *testing.T) {
	cache := newFakeCache()
	llamadas := 0
	repo := &fakeEventoRepo{
		list: func(_ context.Context, _ models.EventoFilter) ([]models.Evento, int, error) {
			llamadas++
			return []models.Evento{{ID: "ev-1"}}, 1, nil
		},
	}
	svc := NewEventoService(repo, nil, cache, time.Minute, nil, nil, nil)

	eventos, meta, err := svc.Listar(context.Background(), models.EventoFilter{Pagina: 1, Limite: 10})
	require.NoError(t, err)
	assert.Len(t, eventos, 1)
	assert.Equal(t, 1, meta.TotalRegistros)
	assert.Equal(t, 1, llamadas)
	assert.Equal(t, 1, cache.sets)
}

func TestEventoListarFallaDeCacheNoRompe(t *testing.T) {
	cache := newFakeCache()
	cache.getFn = func(_ string, _ interface{}) error { return errors.New("redis caído") }
	repo := &fakeEventoRepo{
		list: func(_ context.Context, _ models.EventoFilter) ([]models.Evento, int, error) {
			return nil, 0, nil
		},
	}
	svc := NewEventoService(repo, nil, cache, time.Minute, nil, nil, nil)

	_, meta, err := svc.Listar(context.Background(), models.EventoFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, meta.TotalRegistros)
	assert.Equal(t, 0, meta.TotalPaginas)
	assert.False(t, meta.TienePaginaSiguiente)
}

func TestEventoObtenerNoEncontrado(t *testing.T) {
	repo := &fakeEventoRepo{
		findByID: func(_ context.Context, _ string) (*models.Evento, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewEventoService(repo, nil, nil, 0, nil, nil, nil)

	_, err := svc.Obtener(context.Background(), "ev-x")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", erroresCodigo(t, err))
}

func TestEventoRegistrarVista(t *testing.T) {
	incrementado := ""
	repo := &fakeEventoRepo{
		findByID: func(_ context.Context, id string) (*models.Evento, error) {
			return &models.Evento{ID: id}, nil
		},
		incrementar: func(_ context.Context, id string) error {
			incrementado = id
			return nil
		},
	}
	svc := NewEventoService(repo, nil, nil, 0, nil, nil, nil)

	require.NoError(t, svc.RegistrarVista(context.Background(), "ev-1"))
	assert.Equal(t, "ev-1", incrementado)
}

func TestEventoDestacadosLimiteSaneado(t *testing.T) {
	var recibido int
	repo := &fakeEventoRepo{
		destacados: func(_ context.Context, limite int) ([]models.Evento, error) {
			recibido = limite
			return nil, nil
		},
	}
	svc := NewEventoService(repo, nil, nil, 0, nil, nil, nil)

	_, err := svc.Destacados(context.Background(), -3)
	require.NoError(t, err)
	assert.Equal(t, 10, recibido)

	_, err = svc.Destacados(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, 10, recibido)
}
