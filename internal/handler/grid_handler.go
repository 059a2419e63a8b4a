package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/interview-timetable-api/internal/dto"
	"github.com/noah-isme/interview-timetable-api/internal/models"
	"github.com/noah-isme/interview-timetable-api/pkg/response"
	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

type gridService interface {
	Press(ctx context.Context, id string, cell timegrid.Cell, button timegrid.Button) (*models.GridResult, error)
	Enter(ctx context.Context, id string, cell timegrid.Cell) (*models.GridResult, error)
	Release(ctx context.Context, id string) (*models.GridResult, error)
	Toggle(ctx context.Context, id string, cell timegrid.Cell) (*models.GridResult, error)
}

// GridHandler turns pointer and keyboard events into grid operations.
type GridHandler struct {
	grid      gridService
	validator *validator.Validate
}

// NewGridHandler constructs the handler.
func NewGridHandler(grid gridService, validate *validator.Validate) *GridHandler {
	if validate == nil {
		validate = NewValidator()
	}
	return &GridHandler{grid: grid, validator: validate}
}

// Press godoc
// @Summary Press on a cell
// @Tags Grid
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.PressRequest true "Cell and button"
// @Success 200 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /sessions/{id}/grid/press [post]
func (h *GridHandler) Press(c *gin.Context) {
	var req dto.PressRequest
	if !bindJSON(c, h.validator, &req, "press") {
		return
	}
	h.respond(c)(h.grid.Press(c.Request.Context(), c.Param("id"), req.Cell(), req.GridButton()))
}

// Enter godoc
// @Summary Move the pointer onto a cell
// @Tags Grid
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.EnterRequest true "Cell"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/grid/enter [post]
func (h *GridHandler) Enter(c *gin.Context) {
	var req dto.EnterRequest
	if !bindJSON(c, h.validator, &req, "enter") {
		return
	}
	h.respond(c)(h.grid.Enter(c.Request.Context(), c.Param("id"), req.Cell()))
}

// Release godoc
// @Summary Release the pointer anywhere
// @Tags Grid
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/grid/release [post]
func (h *GridHandler) Release(c *gin.Context) {
	h.respond(c)(h.grid.Release(c.Request.Context(), c.Param("id")))
}

// Toggle godoc
// @Summary Toggle a focused cell with Enter or Space
// @Tags Grid
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.ToggleRequest true "Cell and key"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/grid/toggle [post]
func (h *GridHandler) Toggle(c *gin.Context) {
	var req dto.ToggleRequest
	if !bindJSON(c, h.validator, &req, "toggle") {
		return
	}
	h.respond(c)(h.grid.Toggle(c.Request.Context(), c.Param("id"), req.Cell()))
}

func (h *GridHandler) respond(c *gin.Context) func(*models.GridResult, error) {
	return func(result *models.GridResult, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, result, nil)
	}
}
