package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
	"github.com/qybrrlabs/portal/pkg/logctx"
	"github.com/qybrrlabs/portal/pkg/types"
)

// ErrUnauthenticated covers every failure to resolve the current user:
// missing token, invalid signature, expired session, provider rejection.
// Callers treat them all identically (redirect to login, no retry).
var ErrUnauthenticated = errors.New("unauthenticated")

// Session is what the authentication provider issues on sign-in or refresh.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
	User         *types.User `json:"user"`
}

// Authenticator is the authentication provider contract. The provider owns
// the canonical user record including its metadata document; UpdateUser
// performs a top-level merge of attrs into the stored record and echoes the
// updated user back.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string, doc map[string]interface{}) (*types.User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	User(ctx context.Context, accessToken string) (*types.User, error)
	UpdateUser(ctx context.Context, accessToken string, attrs map[string]interface{}) (*types.User, error)
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service resolves "who is the current user" from a bearer token. Tokens are
// verified locally against the provider's HS256 secret first, so garbage
// never reaches the provider; the full user snapshot is then fetched once.
type Service struct {
	auth   Authenticator
	secret []byte
	log    *zap.SugaredLogger
}

func NewService(cfg *cfgpkg.Config, auth Authenticator, log *zap.SugaredLogger) *Service {
	return &Service{auth: auth, secret: []byte(cfg.Supabase.JWTSecret), log: log}
}

// Resolve validates accessToken and returns the provider's current user
// snapshot. Resolution is attempted exactly once; any failure maps to
// ErrUnauthenticated.
func (s *Service) Resolve(ctx context.Context, accessToken string) (*types.User, error) {
	if accessToken == "" {
		return nil, ErrUnauthenticated
	}
	if _, err := s.verifyToken(accessToken); err != nil {
		logctx.FromCtx(ctx, s.log).Debugf("token verification failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	user, err := s.auth.User(ctx, accessToken)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Debugf("session resolution rejected by provider: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return user, nil
}

func (s *Service) verifyToken(accessToken string) (*accessClaims, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
