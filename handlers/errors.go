package handlers

import (
	"errors"
	"net/http"

	"iajuridica-backend/service"

	"github.com/gin-gonic/gin"
)

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondError maps service errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, service.ErrCaseNotFound):
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", "Case not found")
	case errors.Is(err, service.ErrDocumentNotFound):
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
	case errors.Is(err, service.ErrGenerationFailed):
		abortWithError(c, http.StatusBadGateway, "GENERATION_FAILED", err.Error())
	case errors.Is(err, service.ErrArchiveFailed):
		abortWithError(c, http.StatusInternalServerError, "ARCHIVE_FAILED", err.Error())
	default:
		c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
