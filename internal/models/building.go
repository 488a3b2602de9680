package models

import (
	"time"

	"github.com/szu-oia/campus-checkin-api/internal/geo"
)

// Building represents a campus teaching building with its WGS84 position.
type Building struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	NameEN      *string   `db:"name_en" json:"name_en,omitempty"`
	Campus      string    `db:"campus" json:"campus"`
	Address     string    `db:"address" json:"address"`
	Longitude   float64   `db:"longitude" json:"longitude"`
	Latitude    float64   `db:"latitude" json:"latitude"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Coordinate returns the building position as the canonical lat/lon pair.
func (b *Building) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: b.Latitude, Lon: b.Longitude}
}
