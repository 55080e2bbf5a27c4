// Package handlerutil holds what every v1 handler needs: the caller's session
// and the mapping from domain errors to HTTP statuses.
package handlerutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/storage"
)

// Session returns the session the auth middleware attached, or a 401.
func Session(ctx context.Context) (storage.Session, error) {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return storage.Session{}, huma.NewError(http.StatusUnauthorized, "unauthenticated", err)
	}
	return session, nil
}

// Error converts a service error into a huma error. msg is only used for
// errors outside the apperr taxonomy.
func Error(msg string, err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return huma.NewError(http.StatusNotFound, "not found", err)
	case errors.Is(err, apperr.ErrInvalidArgument):
		return huma.NewError(http.StatusBadRequest, "invalid argument", err)
	case errors.Is(err, apperr.ErrInvalidState):
		return huma.NewError(http.StatusConflict, "invalid state", err)
	case errors.Is(err, apperr.ErrUnauthenticated):
		return huma.NewError(http.StatusUnauthorized, "unauthenticated", err)
	default:
		return huma.NewError(http.StatusInternalServerError, msg, err)
	}
}

// ParseDecimal parses a decimal request field. An empty string is zero.
func ParseDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return d, nil
}
