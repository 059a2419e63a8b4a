package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/interview-timetable-api/internal/dto"
	"github.com/noah-isme/interview-timetable-api/internal/models"
	appErrors "github.com/noah-isme/interview-timetable-api/pkg/errors"
	"github.com/noah-isme/interview-timetable-api/pkg/response"
	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

type adminService interface {
	ToggleDate(ctx context.Context, id string, date timegrid.Date) (*models.SessionSummary, error)
	RemoveDate(ctx context.Context, id string, index int) (*models.SessionSummary, error)
	ClearDates(ctx context.Context, id string) (*models.SessionSummary, error)
	SetStart(ctx context.Context, id string, t *timegrid.TimeOfDay) (*models.AdminSnapshot, []models.Notice, error)
	SetEnd(ctx context.Context, id string, t *timegrid.TimeOfDay) (*models.AdminSnapshot, []models.Notice, error)
	SetWindow(ctx context.Context, id string, w timegrid.Window) (*models.AdminSnapshot, []models.Notice, error)
	ImportBlocks(ctx context.Context, id string, records []timegrid.BlockRecord) (*models.SessionSummary, error)
	SaveAdmin(ctx context.Context, id string) (*models.AdminSnapshot, []models.Notice, error)
}

// AdminHandler exposes the admin dashboard operations. Routes are expected
// behind an admin session guard.
type AdminHandler struct {
	admin     adminService
	validator *validator.Validate
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(admin adminService, validate *validator.Validate) *AdminHandler {
	if validate == nil {
		validate = NewValidator()
	}
	return &AdminHandler{admin: admin, validator: validate}
}

// ToggleDate godoc
// @Summary Add a date, or remove it when already scheduled
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.DateRequest true "Date"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/admin/dates/toggle [post]
func (h *AdminHandler) ToggleDate(c *gin.Context) {
	var req dto.DateRequest
	if !bindJSON(c, h.validator, &req, "date") {
		return
	}
	summary, err := h.admin.ToggleDate(c.Request.Context(), c.Param("id"), *req.Date)
	writeSummary(c, summary, err)
}

// RemoveDate godoc
// @Summary Remove the draft date at an index
// @Tags Admin
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Column index"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/admin/dates/{index} [delete]
func (h *AdminHandler) RemoveDate(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "index must be an integer"))
		return
	}
	summary, err := h.admin.RemoveDate(c.Request.Context(), c.Param("id"), index)
	writeSummary(c, summary, err)
}

// ClearDates godoc
// @Summary Remove every draft date
// @Tags Admin
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/admin/dates [delete]
func (h *AdminHandler) ClearDates(c *gin.Context) {
	summary, err := h.admin.ClearDates(c.Request.Context(), c.Param("id"))
	writeSummary(c, summary, err)
}

// SetWindow godoc
// @Summary Set the visible time window
// @Description Writes through to the shared settings. An end not after the start is kept and answered with a warning notice.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.WindowRequest true "Bounds, null clears"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/admin/window [put]
func (h *AdminHandler) SetWindow(c *gin.Context) {
	var req dto.WindowRequest
	if !bindJSON(c, h.validator, &req, "window") {
		return
	}
	writeSnapshot(c)(h.admin.SetWindow(c.Request.Context(), c.Param("id"), req.Window()))
}

// SetStart godoc
// @Summary Set the first visible row
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.TimeBoundRequest true "Time, null clears"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/admin/window/start [put]
func (h *AdminHandler) SetStart(c *gin.Context) {
	var req dto.TimeBoundRequest
	if !bindJSON(c, h.validator, &req, "start time") {
		return
	}
	writeSnapshot(c)(h.admin.SetStart(c.Request.Context(), c.Param("id"), req.Time))
}

// SetEnd godoc
// @Summary Set the end of the visible rows
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.TimeBoundRequest true "Time, null clears"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/admin/window/end [put]
func (h *AdminHandler) SetEnd(c *gin.Context) {
	var req dto.TimeBoundRequest
	if !bindJSON(c, h.validator, &req, "end time") {
		return
	}
	writeSnapshot(c)(h.admin.SetEnd(c.Request.Context(), c.Param("id"), req.Time))
}

// ImportBlocks godoc
// @Summary Replace the draft blocked slots
// @Description Records may carry a date or a legacy day offset from today.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.ImportBlocksRequest true "Blocked slot records"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/admin/blocks/import [post]
func (h *AdminHandler) ImportBlocks(c *gin.Context) {
	var req dto.ImportBlocksRequest
	if !bindJSON(c, h.validator, &req, "blocked slots") {
		return
	}
	summary, err := h.admin.ImportBlocks(c.Request.Context(), c.Param("id"), req.BlockedSlots)
	writeSummary(c, summary, err)
}

// Save godoc
// @Summary Publish the draft blocked slots and dates
// @Tags Admin
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /sessions/{id}/admin/save [post]
func (h *AdminHandler) Save(c *gin.Context) {
	writeSnapshot(c)(h.admin.SaveAdmin(c.Request.Context(), c.Param("id")))
}

func writeSummary(c *gin.Context, summary *models.SessionSummary, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

func writeSnapshot(c *gin.Context) func(*models.AdminSnapshot, []models.Notice, error) {
	return func(snap *models.AdminSnapshot, notices []models.Notice, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, snap, notices)
	}
}
