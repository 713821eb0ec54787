// Package response is the JSON envelope shared by all HTTP handlers.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeState      = "STATE_CONFLICT"
	CodeInternal   = "INTERNAL_ERROR"
	CodeForbidden  = "FORBIDDEN"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func Validation(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeValidation, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message)
}

// StateConflict reports a lifecycle violation (mutating an approved
// quotation). Distinct from NotFound per the error taxonomy.
func StateConflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, CodeState, message)
}

func Internal(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, CodeInternal, message)
}
