package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenda-cultural/agenda-api/internal/models"
)

func eventoRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "titulo", "descripcion", "categoria_id", "lugar", "direccion", "ciudad",
		"fecha_inicio", "fecha_fin", "precio", "imagen_url", "destacado", "activo",
		"vistas", "creado_por", "created_at", "updated_at",
	}).AddRow("evento-1", "Festival de Jazz", "Tres días de jazz", "cat-1", "Teatro Colón",
		"Cerrito 628", "Buenos Aires", now, nil, "Gratis", "", true, true, 42, "admin-1", now, now)
}

func TestEventoListBusquedaPaginada(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventoRepository(db)

	filter := models.EventoFilter{
		Busqueda: "jazz",
		Pagina:   2,
		Limite:   5,
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM eventos WHERE 1=1 AND (LOWER(titulo) LIKE ? OR LOWER(descripcion) LIKE ?) ORDER BY created_at DESC LIMIT 5 OFFSET 5")).
		WithArgs("%jazz%", "%jazz%").
		WillReturnRows(eventoRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM eventos WHERE 1=1 AND (LOWER(titulo) LIKE ? OR LOWER(descripcion) LIKE ?)")).
		WithArgs("%jazz%", "%jazz%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	eventos, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, eventos, 1)
	assert.Equal(t, 12, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventoListRangoFechasIncluyeDiaFinal(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventoRepository(db)

	desde := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	hasta := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	filter := models.EventoFilter{
		FechaDesde: &desde,
		FechaHasta: &hasta,
	}

	// un evento el 30 de junio a las 20:00 debe entrar en el rango
	mock.ExpectQuery(regexp.QuoteMeta("fecha_inicio >= ? AND fecha_inicio < ?")).
		WithArgs(desde, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(eventoRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(desde, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventoListFiltroActivo(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventoRepository(db)

	activo := true
	filter := models.EventoFilter{Activo: &activo}

	mock.ExpectQuery(regexp.QuoteMeta("FROM eventos WHERE 1=1 AND activo = ?")).
		WithArgs(true).
		WillReturnRows(eventoRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM eventos WHERE 1=1 AND activo = ?")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, _, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventoDestacadosLimiteInvalido(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventoRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM eventos WHERE destacado = TRUE AND activo = TRUE ORDER BY fecha_inicio ASC LIMIT 10")).
		WillReturnRows(eventoRows())

	eventos, err := repo.Destacados(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, eventos, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
