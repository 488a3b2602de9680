package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/szu-oia/campus-checkin-api/internal/models"
	"github.com/szu-oia/campus-checkin-api/internal/service"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
	"github.com/szu-oia/campus-checkin-api/pkg/response"
)

// RecordHandler exposes attendance record read endpoints.
type RecordHandler struct {
	records *service.RecordService
}

// NewRecordHandler constructs RecordHandler.
func NewRecordHandler(records *service.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// List godoc
// @Summary List the caller's attendance records
// @Tags Attendance
// @Produce json
// @Param status query string false "Filter by verdict status"
// @Param from query string false "Inclusive start date (2006-01-02)"
// @Param to query string false "Inclusive end date (2006-01-02)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/records [get]
func (h *RecordHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.AttendanceRecordFilter{StudentID: claims.StudentID}
	if status := c.Query("status"); status != "" {
		verdict := models.VerdictStatus(status)
		if !verdict.Recordable() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "status must be present, late or absent"))
			return
		}
		filter.Status = &verdict
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be formatted 2006-01-02"))
			return
		}
		filter.DateFrom = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must be formatted 2006-01-02"))
			return
		}
		filter.DateTo = &parsed
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	records, pagination, err := h.records.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Summary godoc
// @Summary Aggregate the caller's attendance counts
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/summary [get]
func (h *RecordHandler) Summary(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	summary, err := h.records.Summary(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Export godoc
// @Summary Export the caller's attendance history
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /attendance/export [get]
func (h *RecordHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", "csv")
	payload, mimeType, err := h.records.Export(c.Request.Context(), claims.StudentID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if mimeType == "application/pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("attendance-%s-%s.%s", claims.StudentID, time.Now().Format("20060102"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, mimeType, payload)
}
