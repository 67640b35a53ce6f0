package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wastewise/wastewise/internal/api/handler"
	"github.com/wastewise/wastewise/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Detail string `json:"detail"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"detail": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Detail: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, ve.Error()
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrRoleMismatch):
		return http.StatusForbidden, capitalize(err.Error())
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusUnprocessableEntity, `Role must be either "user" or "admin"`
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "Token has expired"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrEmailInUse):
		return http.StatusBadRequest, "Email already in use"
	case errors.Is(err, domain.ErrNoFieldsToUpdate):
		return http.StatusBadRequest, "No fields to update"
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusBadRequest, "Current password is incorrect"
	case errors.Is(err, domain.ErrInvalidImage):
		return http.StatusBadRequest, "Uploaded file must be an image"
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusBadRequest, "Image size must be less than 10MB"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, `Status must be "pending", "in_progress", or "completed"`
	case errors.Is(err, domain.ErrInvalidReportID):
		return http.StatusBadRequest, "Invalid report ID"
	case errors.Is(err, domain.ErrReportNotFound):
		return http.StatusNotFound, "Report not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Not authorized to access these reports"
	case errors.Is(err, domain.ErrAdminRequired):
		return http.StatusForbidden, "Admin access required"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, capitalize(strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": "))
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
