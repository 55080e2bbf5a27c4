package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/storage"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator("test-secret", "finance-server")
	require.NoError(t, err)
	return a
}

// -- Issue / Verify tests --

func TestIssueVerify_RoundTrip(t *testing.T) {
	a := newTestAuthenticator(t)

	token, err := a.Issue("user-1", time.Hour)
	require.NoError(t, err)

	session, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, storage.Session{UserID: "user-1"}, session)
}

func TestVerify_Expired(t *testing.T) {
	a := newTestAuthenticator(t)
	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := a.Issue("user-1", time.Hour)
	require.NoError(t, err)

	a.now = time.Now
	_, err = a.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestVerify_WrongSecret(t *testing.T) {
	a := newTestAuthenticator(t)
	other, err := NewAuthenticator("other-secret", "finance-server")
	require.NoError(t, err)

	token, err := other.Issue("user-1", time.Hour)
	require.NoError(t, err)

	_, err = a.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestVerify_WrongIssuer(t *testing.T) {
	a := newTestAuthenticator(t)
	other, err := NewAuthenticator("test-secret", "someone-else")
	require.NoError(t, err)

	token, err := other.Issue("user-1", time.Hour)
	require.NoError(t, err)

	_, err = a.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestIssue_EmptyUser(t *testing.T) {
	a := newTestAuthenticator(t)
	_, err := a.Issue("", time.Hour)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestNewAuthenticator_EmptySecret(t *testing.T) {
	_, err := NewAuthenticator("", "finance-server")
	assert.Error(t, err)
}

// -- Context tests --

func TestSessionFromContext(t *testing.T) {
	_, err := SessionFromContext(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	ctx := WithSession(context.Background(), storage.Session{UserID: "user-1"})
	session, err := SessionFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
}

// -- Middleware tests --

type whoamiOutput struct {
	Body struct {
		UserID string `json:"userId"`
	}
}

func newTestAPI(t *testing.T, a *Authenticator) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	api.UseMiddleware(Middleware(api, a))
	huma.Register(api, huma.Operation{
		OperationID: "whoami",
		Method:      http.MethodGet,
		Path:        "/v1/whoami",
	}, func(ctx context.Context, _ *struct{}) (*whoamiOutput, error) {
		session, err := SessionFromContext(ctx)
		if err != nil {
			return nil, huma.Error401Unauthorized("no session")
		}
		out := &whoamiOutput{}
		out.Body.UserID = session.UserID
		return out, nil
	})
	return api
}

func TestMiddleware_AttachesSession(t *testing.T) {
	a := newTestAuthenticator(t)
	api := newTestAPI(t, a)
	token, err := a.Issue("user-1", time.Hour)
	require.NoError(t, err)

	resp := api.Get("/v1/whoami", "Authorization: Bearer "+token)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"userId":"user-1"`)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	api := newTestAPI(t, newTestAuthenticator(t))

	resp := api.Get("/v1/whoami")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMiddleware_InvalidToken(t *testing.T) {
	api := newTestAPI(t, newTestAuthenticator(t))

	resp := api.Get("/v1/whoami", "Authorization: Bearer not-a-token")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
