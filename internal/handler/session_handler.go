package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/interview-timetable-api/internal/dto"
	"github.com/noah-isme/interview-timetable-api/internal/middleware"
	"github.com/noah-isme/interview-timetable-api/internal/models"
	"github.com/noah-isme/interview-timetable-api/internal/service"
	appErrors "github.com/noah-isme/interview-timetable-api/pkg/errors"
	"github.com/noah-isme/interview-timetable-api/pkg/response"
)

type sessionService interface {
	Create(ctx context.Context, role models.Role, name string) (*models.SessionSummary, error)
	Get(ctx context.Context, id string) (*models.SessionSummary, error)
	Delete(ctx context.Context, id string) error
	Role(id string) (models.Role, error)
	SetName(ctx context.Context, id, name string) (*models.SessionSummary, error)
	ResetName(ctx context.Context, id string) (*models.SessionSummary, error)
	ResetSelection(ctx context.Context, id string) (*models.SessionSummary, error)
	ResetAdmin(ctx context.Context, id string) (*models.AdminSnapshot, []models.Notice, error)
	Submit(ctx context.Context, id string) (*models.Submission, []models.Notice, error)
	View(ctx context.Context, id string) (*models.GridView, bool, error)
}

type exportService interface {
	Export(ctx context.Context, sessionID, format string) (*service.ExportResult, error)
}

// SessionHandler exposes page session endpoints.
type SessionHandler struct {
	sessions  sessionService
	exports   exportService
	validator *validator.Validate
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(sessions sessionService, exports exportService, validate *validator.Validate) *SessionHandler {
	if validate == nil {
		validate = NewValidator()
	}
	return &SessionHandler{sessions: sessions, exports: exports, validator: validate}
}

// Create godoc
// @Summary Open a page session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Role and optional name"
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if !bindJSON(c, h.validator, &req, "session") {
		return
	}
	summary, err := h.sessions.Create(c.Request.Context(), models.Role(req.Role), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, summary)
}

// Get godoc
// @Summary Get a session summary
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	summary, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Delete godoc
// @Summary Close a session
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetName godoc
// @Summary Set the mentor or applicant name
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.SetNameRequest true "Name"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/name [put]
func (h *SessionHandler) SetName(c *gin.Context) {
	var req dto.SetNameRequest
	if !bindJSON(c, h.validator, &req, "name") {
		return
	}
	summary, err := h.sessions.SetName(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ResetName godoc
// @Summary Clear the name, keeping the selection
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/name [delete]
func (h *SessionHandler) ResetName(c *gin.Context) {
	summary, err := h.sessions.ResetName(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Reset godoc
// @Summary Reset the page
// @Description Viewer sessions lose their selection and name. Admin sessions clear the draft and every shared admin setting.
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	role, err := h.sessions.Role(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if role == models.RoleAdmin {
		snap, notices, err := h.sessions.ResetAdmin(ctx, id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, snap, notices)
		return
	}
	summary, err := h.sessions.ResetSelection(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Submit godoc
// @Summary Save mentor or applicant availability
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	sub, notices, err := h.sessions.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sub, notices)
}

// Grid godoc
// @Summary Render the session grid
// @Tags Grid
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/grid [get]
func (h *SessionHandler) Grid(c *gin.Context) {
	view, hit, err := h.sessions.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	middleware.SetScheduleRevision(c, view.ScheduleRev)
	var notices []models.Notice
	if view.Grid.Warning != "" {
		notices = append(notices, models.WarningNotice(appErrors.ErrInvalidTimeRange.Code, view.Grid.Warning))
	}
	response.JSON(c, http.StatusOK, view, notices, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download the session grid
// @Tags Grid
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /sessions/{id}/export [get]
func (h *SessionHandler) Export(c *gin.Context) {
	result, err := h.exports.Export(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Body)
}
