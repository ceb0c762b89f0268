package handler

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	apperrors "github.com/lcdsoft/storefront/internal/errors"
	"github.com/lcdsoft/storefront/internal/middleware"
	"github.com/lcdsoft/storefront/internal/model"
)

// page carries what every template needs: the signed-in account for the nav,
// plus whatever the page itself renders.
type page struct {
	Account *model.Account
	Error   string
	Data    any
}

func newPage(r *http.Request, data any) page {
	return page{Account: middleware.GetAccount(r.Context()), Data: data}
}

func (p page) withError(message string) page {
	p.Error = message
	return p
}

// statusFor maps application error codes onto HTTP statuses for rendered
// pages.
func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeMissingRequired, apperrors.ErrCodeInvalidResetToken:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeInvalidCredentials, apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// userMessage returns the message safe to show on a page. Unexpected errors
// get logged and replaced with a generic line.
func userMessage(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok && statusFor(err) < http.StatusInternalServerError {
		return appErr.Message
	}
	log.Error().Err(err).Msg("unexpected handler error")
	return "Something went wrong. Please try again."
}

func parsePage(r *http.Request) int {
	p, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if p < 1 {
		p = 1
	}
	return p
}
