package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/szu-oia/campus-checkin-api/internal/models"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
)

// BuildingService serves campus building reads.
type BuildingService struct {
	buildings buildingReader
}

// NewBuildingService creates a new building service.
func NewBuildingService(buildings buildingReader) *BuildingService {
	return &BuildingService{buildings: buildings}
}

// List returns all campus buildings in stable id order.
func (s *BuildingService) List(ctx context.Context) ([]models.Building, error) {
	return s.buildings.List(ctx)
}

// Get returns one building by id.
func (s *BuildingService) Get(ctx context.Context, id string) (*models.Building, error) {
	building, err := s.buildings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "building not found")
		}
		return nil, err
	}
	return building, nil
}
