package fakeapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transrural/internal/domain"
)

// respondError sends the error payload shape the console client expects.
func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"error":      msg,
		"request_id": GetRequestID(c),
	})
}

// respondDomainError maps domain errors to HTTP responses. The inverse of
// the client's status-to-error mapping.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsAuth(err):
		respondError(c, http.StatusUnauthorized, err.Error())
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "error interno")
	}
}

// bindJSONOrError ensures body is present and parsable.
func bindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "cuerpo vacío")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "payload inválido")
		return false
	}
	return true
}
