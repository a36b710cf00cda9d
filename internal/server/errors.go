package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumora-hq/lumora/internal/apperror"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware renders the last handler error as a JSON envelope.
// Handlers never write error bodies themselves; they call AbortWithError.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return apperror.Validation("request", "invalid_request", "invalid request")
}

func mapError(err error) (int, errorPayload) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperror.KindValidation:
			return http.StatusBadRequest, errorPayload{
				Type:    string(apperror.KindValidation),
				Message: "validation error",
				Errors: []ValidationError{
					{
						Field:   appErr.Field,
						Code:    appErr.Code,
						Message: appErr.Message,
					},
				},
			}
		case apperror.KindConflict:
			return http.StatusConflict, errorPayload{
				Type:    string(apperror.KindConflict),
				Message: appErr.Message,
			}
		case apperror.KindReference:
			return http.StatusBadRequest, errorPayload{
				Type:    string(apperror.KindReference),
				Message: appErr.Message,
			}
		case apperror.KindAccessDenied:
			return http.StatusForbidden, errorPayload{
				Type:    string(apperror.KindAccessDenied),
				Message: appErr.Message,
			}
		case apperror.KindNotFound:
			return http.StatusNotFound, errorPayload{
				Type:    string(apperror.KindNotFound),
				Message: appErr.Message,
			}
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "invalid request",
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}
