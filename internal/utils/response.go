package utils

import (
	"errors"
	"net/http"

	"github.com/andreadp02/participium/internal/model"

	"github.com/gin-gonic/gin"
)

// SendErrorResponse sends a standardized error response
func SendErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

// SendServiceError maps a domain error to its HTTP representation. Errors
// outside the taxonomy are reported as internal without leaking details.
func SendServiceError(c *gin.Context, err error) {
	var (
		validationErr *model.ValidationError
		statusErr     *model.InvalidStatusError
		notFoundErr   *model.NotFoundError
		forbiddenErr  *model.ForbiddenError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &statusErr):
		SendErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		SendErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.As(err, &forbiddenErr):
		SendErrorResponse(c, http.StatusForbidden, err.Error())
	default:
		SendErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
