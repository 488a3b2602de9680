package dto

import "github.com/szu-oia/campus-checkin-api/internal/models"

// CheckInResult is the check-in endpoint payload.
type CheckInResult struct {
	Status   models.VerdictStatus     `json:"status"`
	Message  string                   `json:"message"`
	Session  *models.ClassSession     `json:"session,omitempty"`
	Building *models.Building         `json:"building,omitempty"`
	Record   *models.AttendanceRecord `json:"record,omitempty"`
}

// LocationInfoResponse combines the nearest-building lookup with the
// attendance context at the same instant. Distance is rounded to 2 decimals;
// it is null when no buildings exist (JSON has no +Inf).
type LocationInfoResponse struct {
	Building        *models.Building     `json:"building,omitempty"`
	Distance        *float64             `json:"distance,omitempty"`
	IsValidLocation bool                 `json:"is_valid_location"`
	Session         *models.ClassSession `json:"session,omitempty"`
	Status          models.VerdictStatus `json:"status"`
	Message         string               `json:"message"`
}
