// Package auth turns bearer tokens into storage sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/storage"
)

type sessionKey struct{}

// Authenticator issues and verifies HS256 tokens whose subject is the user ID.
type Authenticator struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewAuthenticator(secret, issuer string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("auth: empty JWT secret")
	}
	return &Authenticator{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue signs a token for userID valid for ttl.
func (a *Authenticator) Issue(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("auth: empty user id: %w", apperr.ErrInvalidArgument)
	}
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(a.secret)
}

// Verify checks the token and returns the session it names.
func (a *Authenticator) Verify(tokenString string) (storage.Session, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return a.secret, nil
	},
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return storage.Session{}, fmt.Errorf("auth: invalid token: %w", errors.Join(apperr.ErrUnauthenticated, err))
	}
	if claims.Subject == "" {
		return storage.Session{}, fmt.Errorf("auth: token without subject: %w", apperr.ErrUnauthenticated)
	}
	return storage.Session{UserID: claims.Subject}, nil
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session storage.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the request's session. It fails with
// ErrUnauthenticated when none was attached.
func SessionFromContext(ctx context.Context) (storage.Session, error) {
	session, ok := ctx.Value(sessionKey{}).(storage.Session)
	if !ok || session.UserID == "" {
		return storage.Session{}, fmt.Errorf("auth: no session: %w", apperr.ErrUnauthenticated)
	}
	return session, nil
}

// Middleware rejects requests without a valid bearer token and attaches the
// session to the context of the rest.
func Middleware(api huma.API, a *Authenticator) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing or invalid Authorization header")
			return
		}

		session, err := a.Verify(tokenString)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid token")
			return
		}

		next(huma.WithContext(ctx, WithSession(ctx.Context(), session)))
	}
}
