// Package handlertest builds humatest APIs that behave as if the caller had
// passed a valid bearer token.
package handlertest

import (
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/storage"
)

// Session is the session attached to every request of New's API.
var Session = storage.Session{UserID: "user-1"}

// New returns a test API whose middleware attaches Session. Register
// handlers after calling it.
func New(t *testing.T) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, auth.WithSession(ctx.Context(), Session)))
	})
	return api
}

// NewAnonymous returns a test API without a session.
func NewAnonymous(t *testing.T) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	return api
}
