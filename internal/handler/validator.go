package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/interview-timetable-api/internal/models"
	appErrors "github.com/noah-isme/interview-timetable-api/pkg/errors"
	"github.com/noah-isme/interview-timetable-api/pkg/response"
)

// NewValidator returns a validator with the grid request rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("session_role", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseRole(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("toggle_key", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "Enter", " ", "Space", "Spacebar":
			return true
		default:
			return false
		}
	})
	return v
}

func bindJSON(c *gin.Context, v *validator.Validate, dest interface{}, what string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, fmt.Sprintf("invalid %s payload", what)))
		return false
	}
	if err := v.Struct(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, validationMessage(err)))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErrors.ErrValidation.Message
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
