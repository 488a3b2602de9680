package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuildingMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func buildingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "name_en", "campus", "address", "longitude", "latitude", "description", "created_at", "updated_at"})
}

func TestBuildingRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newBuildingMock(t)
	defer cleanup()
	repo := NewBuildingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, name_en, campus, address, longitude, latitude, description, created_at, updated_at FROM buildings WHERE id = $1")).
		WithArgs("b-1").
		WillReturnRows(buildingRows().AddRow("b-1", "致腾楼", "Zhiteng Building", "沧海校区", "深圳大学沧海校区", 113.93677, 22.52601, nil, time.Now(), time.Now()))

	building, err := repo.FindByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, "b-1", building.ID)
	assert.Equal(t, 22.52601, building.Latitude)
	assert.Equal(t, 113.93677, building.Longitude)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildingRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newBuildingMock(t)
	defer cleanup()
	repo := NewBuildingRepository(db)

	mock.ExpectQuery("FROM buildings WHERE id").
		WithArgs("gone").
		WillReturnRows(buildingRows())

	_, err := repo.FindByID(context.Background(), "gone")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildingRepositoryListOrdersByID(t *testing.T) {
	db, mock, cleanup := newBuildingMock(t)
	defer cleanup()
	repo := NewBuildingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, name_en, campus, address, longitude, latitude, description, created_at, updated_at FROM buildings ORDER BY id ASC")).
		WillReturnRows(buildingRows().
			AddRow("b-1", "汇德楼", "Huide Building", "沧海校区", "深圳大学沧海校区", 113.933001, 22.534245, nil, time.Now(), time.Now()).
			AddRow("b-2", "汇园楼", "Huiyuan Building", "沧海校区", "深圳大学沧海校区", 113.933001, 22.534245, nil, time.Now(), time.Now()))

	buildings, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, buildings, 2)
	assert.Equal(t, "b-1", buildings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
