package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shiggorat/shareit/internal/common/domain"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Success writes 200 with data as the body.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes 201 with data as the body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent writes 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes 400 with a validation code.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: message, Code: string(domain.KindValidation)})
}

// Error maps err to a status code. Unclassified errors are attached to the gin context for
// the logging middleware and answered with an opaque 500.
func Error(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := StatusFor(kind)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, ErrorBody{Error: "internal server error", Code: "INTERNAL"})
		return
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: err.Error(), Code: string(kind)})
}

// StatusFor returns the HTTP status for a domain error kind.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindValidation, domain.KindInvalidRange, domain.KindItemUnavailable, domain.KindBadState:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
