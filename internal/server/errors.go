package server

import (
	"errors"
	"net/http"

	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type apiError struct {
	status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string { return e.Code + ": " + e.Message }

var (
	ErrUnauthorized = &apiError{status: http.StatusUnauthorized, Code: "unauthorized", Message: "invalid or missing API key"}
	ErrForbidden    = &apiError{status: http.StatusForbidden, Code: "forbidden", Message: "insufficient scope"}
	ErrRateLimited  = &apiError{status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests"}
	ErrNotFound     = &apiError{status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
)

func invalidRequestError() error {
	return &apiError{status: http.StatusBadRequest, Code: "invalid_request", Message: "malformed request body"}
}

func newValidationError(field, code, message string) error {
	return &apiError{status: http.StatusBadRequest, Code: code, Message: field + ": " + message}
}

// AbortWithError maps domain errors onto HTTP responses. Unknown errors are a
// 500 with no internals leaked.
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		c.AbortWithStatusJSON(api.status, gin.H{"error": api})
		return
	}

	var ve *reportdomain.ValidationError
	if errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{
			"code":    "validation_failed",
			"message": ve.Error(),
			"field":   ve.Field,
		}})
		return
	}

	switch {
	case errors.Is(err, reportdomain.ErrManagerOnly):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{
			"code": "manager_only", "message": "team reports require the manager role",
		}})
	case errors.Is(err, reportdomain.ErrUserNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": gin.H{
			"code": "not_found", "message": "resource not found",
		}})
	case errors.Is(err, reportdomain.ErrUnknownSource):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{
			"code": "unknown_platform", "message": "no platform with that code",
		}})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code": "internal", "message": "internal error",
		}})
	}
}
