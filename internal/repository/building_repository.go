package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/szu-oia/campus-checkin-api/internal/models"
)

// BuildingRepository reads campus building records.
type BuildingRepository struct {
	db *sqlx.DB
}

// NewBuildingRepository creates a new building repository.
func NewBuildingRepository(db *sqlx.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

const buildingColumns = `id, name, name_en, campus, address, longitude, latitude, description, created_at, updated_at`

// FindByID loads a building by id. Returns sql.ErrNoRows when absent.
func (r *BuildingRepository) FindByID(ctx context.Context, id string) (*models.Building, error) {
	query := fmt.Sprintf(`SELECT %s FROM buildings WHERE id = $1`, buildingColumns)
	var building models.Building
	if err := r.db.GetContext(ctx, &building, query, id); err != nil {
		return nil, err
	}
	return &building, nil
}

// List returns every building ordered by id. The ordering matters: nearest-
// building selection breaks distance ties by taking the first row, and two
// campus buildings share identical coordinates.
func (r *BuildingRepository) List(ctx context.Context) ([]models.Building, error) {
	query := fmt.Sprintf(`SELECT %s FROM buildings ORDER BY id ASC`, buildingColumns)
	var buildings []models.Building
	if err := r.db.SelectContext(ctx, &buildings, query); err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return buildings, nil
}
