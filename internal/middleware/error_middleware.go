package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/coursedesk/internal/app/models/dto"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// AbortWithError writes the standard error envelope and stops the handler chain
func AbortWithError(c *gin.Context, status int, detail *dto.ErrorDetail) {
	resp := dto.NewErrorResponse(detail)
	resp.RequestID = GetRequestID(c)
	c.AbortWithStatusJSON(status, resp)
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		AbortWithError(c, http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, messageOr(err, "Resource not found")))
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, messageOr(err, "Validation failed"))
		if ce, ok := apperrors.AsCustomError(err); ok {
			if field, ok := ce.Details["field"].(string); ok {
				detail = detail.WithField(field)
			}
		}
		AbortWithError(c, http.StatusBadRequest, detail)
	case errors.Is(err, apperrors.ErrBadRequest):
		AbortWithError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, messageOr(err, "Bad request")))
	case errors.Is(err, apperrors.ErrTokenExpired):
		AbortWithError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"))
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		AbortWithError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"))
	case errors.Is(err, apperrors.ErrTokenNotFound):
		AbortWithError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"))
	default:
		requestLogger(c).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled API error")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
		AbortWithError(c, http.StatusInternalServerError, detail)
	}
}

// messageOr returns the message of a CustomError in err's chain, or fallback
func messageOr(err error, fallback string) string {
	if ce, ok := apperrors.AsCustomError(err); ok && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

func requestLogger(c *gin.Context) *zerolog.Logger {
	lgr := logger.WithField("requestId", GetRequestID(c))
	return &lgr
}
