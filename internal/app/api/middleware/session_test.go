package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qybrrlabs/portal/internal/app/service/session"
	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
	"github.com/qybrrlabs/portal/pkg/types"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters-long"

type stubAuthenticator struct {
	user *types.User
}

func (s *stubAuthenticator) SignUp(ctx context.Context, email, password string, doc map[string]interface{}) (*types.User, error) {
	panic("not used")
}

func (s *stubAuthenticator) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	panic("not used")
}

func (s *stubAuthenticator) Refresh(ctx context.Context, accessToken, refreshToken string) (*session.Session, error) {
	panic("not used")
}

func (s *stubAuthenticator) SignOut(ctx context.Context, accessToken string) error {
	panic("not used")
}

func (s *stubAuthenticator) User(ctx context.Context, accessToken string) (*types.User, error) {
	return s.user, nil
}

func (s *stubAuthenticator) UpdateUser(ctx context.Context, accessToken string, attrs map[string]interface{}) (*types.User, error) {
	panic("not used")
}

func newSessionService() *session.Service {
	cfg := &cfgpkg.Config{}
	cfg.Supabase.JWTSecret = testSecret
	auth := &stubAuthenticator{user: &types.User{ID: "user-1", Email: "amaka@qybrrlabs.africa"}}
	return session.NewService(cfg, auth, zap.NewNop().Sugar())
}

func signToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestSessionMiddlewareRedirectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1/account")
	g.Use(SessionMiddleware(newSessionService(), "/login"))
	handled := false
	g.GET("", func(c *gin.Context) { handled = true })

	for _, header := range []string{"", "Bearer ", "Token abc", "Bearer " + signToken(t, "wrong-secret")} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusFound, w.Code, "header %q", header)
		require.Equal(t, "/login", w.Header().Get("Location"))
		require.False(t, handled)
	}
}

func TestSessionMiddlewarePassesAuthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1/account")
	g.Use(SessionMiddleware(newSessionService(), "/login"))

	var seenUser *types.User
	var seenToken string
	g.GET("", func(c *gin.Context) {
		seenUser = CurrentUser(c)
		seenToken = AccessToken(c)
		c.Status(http.StatusOK)
	})

	token := signToken(t, testSecret)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seenUser)
	require.Equal(t, "user-1", seenUser.ID)
	require.Equal(t, token, seenToken)
}

func TestOptionalSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OptionalSessionMiddleware(newSessionService()))

	var seenUser *types.User
	r.GET("/api/products", func(c *gin.Context) {
		seenUser = CurrentUser(c)
		c.Status(http.StatusOK)
	})

	// anonymous requests pass through without a user
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, seenUser)

	// a bad token is ignored rather than rejected
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, seenUser)

	// a valid token resolves the user
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seenUser)
	require.Equal(t, "user-1", seenUser.ID)
}
