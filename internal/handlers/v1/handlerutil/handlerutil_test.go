package handlerutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/storage"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.True(t, errors.As(err, &se), "expected a huma.StatusError, got %T", err)
	return se.GetStatus()
}

func TestError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("account x: %w", apperr.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("bad amount: %w", apperr.ErrInvalidArgument), http.StatusBadRequest},
		{fmt.Errorf("nothing to sell: %w", apperr.ErrInvalidState), http.StatusConflict},
		{fmt.Errorf("no session: %w", apperr.ErrUnauthenticated), http.StatusUnauthorized},
		{errors.New("database unavailable"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusOf(t, Error("failed", tt.err)))
		})
	}
}

func TestSession(t *testing.T) {
	_, err := Session(context.Background())
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	ctx := auth.WithSession(context.Background(), storage.Session{UserID: "user-1"})
	session, err := Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
}

func TestParseDecimal(t *testing.T) {
	d, err := ParseDecimal("amount", "")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = ParseDecimal("amount", "12.50")
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	_, err = ParseDecimal("amount", "abc")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}
