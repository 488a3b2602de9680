package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/szu-oia/campus-checkin-api/internal/dto"
	"github.com/szu-oia/campus-checkin-api/internal/geo"
	"github.com/szu-oia/campus-checkin-api/internal/service"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
	"github.com/szu-oia/campus-checkin-api/pkg/response"
)

// CheckinHandler exposes the check-in endpoints.
type CheckinHandler struct {
	records *service.RecordService
}

// NewCheckinHandler constructs CheckinHandler.
func NewCheckinHandler(records *service.RecordService) *CheckinHandler {
	return &CheckinHandler{records: records}
}

// CheckIn godoc
// @Summary Submit a location check-in
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.CheckInRequest true "Reported position"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/check-in [post]
func (h *CheckinHandler) CheckIn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	req, at, err := bindCheckInRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	coord := geo.Coordinate{Lat: *req.Latitude, Lon: *req.Longitude}
	result, err := h.records.CheckIn(c.Request.Context(), claims.StudentID, at, coord)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// LocationInfo godoc
// @Summary Describe the nearest building and current attendance context
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.CheckInRequest true "Reported position"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/location-info [post]
func (h *CheckinHandler) LocationInfo(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	req, at, err := bindCheckInRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	coord := geo.Coordinate{Lat: *req.Latitude, Lon: *req.Longitude}
	info, err := h.records.LocationInfo(c.Request.Context(), claims.StudentID, at, coord)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

func bindCheckInRequest(c *gin.Context) (*dto.CheckInRequest, time.Time, error) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "longitude and latitude are required")
	}

	at := time.Now()
	if req.Timestamp != nil {
		at = time.Unix(*req.Timestamp, 0)
	}
	return &req, at, nil
}
