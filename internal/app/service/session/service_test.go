package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
	"github.com/qybrrlabs/portal/pkg/types"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters-long"

type stubAuthenticator struct {
	user      *types.User
	userErr   error
	userCalls int
}

func (s *stubAuthenticator) SignUp(ctx context.Context, email, password string, doc map[string]interface{}) (*types.User, error) {
	panic("not used")
}

func (s *stubAuthenticator) SignIn(ctx context.Context, email, password string) (*Session, error) {
	panic("not used")
}

func (s *stubAuthenticator) Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	panic("not used")
}

func (s *stubAuthenticator) SignOut(ctx context.Context, accessToken string) error {
	panic("not used")
}

func (s *stubAuthenticator) User(ctx context.Context, accessToken string) (*types.User, error) {
	s.userCalls++
	return s.user, s.userErr
}

func (s *stubAuthenticator) UpdateUser(ctx context.Context, accessToken string, attrs map[string]interface{}) (*types.User, error) {
	panic("not used")
}

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestService(auth Authenticator) *Service {
	cfg := &cfgpkg.Config{}
	cfg.Supabase.JWTSecret = testSecret
	return NewService(cfg, auth, zap.NewNop().Sugar())
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestResolve(t *testing.T) {
	auth := &stubAuthenticator{user: &types.User{ID: "user-1", Email: "amaka@qybrrlabs.africa"}}
	svc := newTestService(auth)

	user, err := svc.Resolve(context.Background(), signToken(t, testSecret, validClaims()))
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)
	require.Equal(t, 1, auth.userCalls)
}

func TestResolveRejectsEmptyToken(t *testing.T) {
	auth := &stubAuthenticator{}
	svc := newTestService(auth)

	_, err := svc.Resolve(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.Zero(t, auth.userCalls)
}

func TestResolveRejectsBadSignature(t *testing.T) {
	auth := &stubAuthenticator{}
	svc := newTestService(auth)

	_, err := svc.Resolve(context.Background(), signToken(t, "some-other-secret", validClaims()))
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.Zero(t, auth.userCalls)
}

func TestResolveRejectsExpiredToken(t *testing.T) {
	auth := &stubAuthenticator{}
	svc := newTestService(auth)

	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	_, err := svc.Resolve(context.Background(), signToken(t, testSecret, claims))
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.Zero(t, auth.userCalls)
}

func TestResolveRejectsMissingSubject(t *testing.T) {
	auth := &stubAuthenticator{}
	svc := newTestService(auth)

	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	_, err := svc.Resolve(context.Background(), signToken(t, testSecret, claims))
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.Zero(t, auth.userCalls)
}

func TestResolveProviderRejection(t *testing.T) {
	auth := &stubAuthenticator{userErr: errors.New("session revoked")}
	svc := newTestService(auth)

	_, err := svc.Resolve(context.Background(), signToken(t, testSecret, validClaims()))
	require.ErrorIs(t, err, ErrUnauthenticated)
	// resolution is attempted exactly once
	require.Equal(t, 1, auth.userCalls)
}
