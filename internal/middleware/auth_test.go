package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"packtrack/internal/remote"
	"packtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateSession struct {
	initialized chan struct{}
	authed      bool
}

func newGateSession(initialized, authed bool) *gateSession {
	s := &gateSession{initialized: make(chan struct{}), authed: authed}
	if initialized {
		close(s.initialized)
	}
	return s
}

func (s *gateSession) Initialize(ctx context.Context) {}
func (s *gateSession) WaitUntilInitialized(ctx context.Context) error {
	select {
	case <-s.initialized:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
func (s *gateSession) State() string                 { return "" }
func (s *gateSession) IsAuthenticated() bool         { return s.authed }
func (s *gateSession) CurrentUser() *remote.AuthUser { return nil }
func (s *gateSession) AccessToken() (string, bool)   { return "", false }
func (s *gateSession) RefreshToken() (string, bool)  { return "", false }
func (s *gateSession) SignIn(context.Context, string, string) service.AuthResult {
	return service.AuthResult{}
}
func (s *gateSession) SignUp(context.Context, string, string) service.AuthResult {
	return service.AuthResult{}
}
func (s *gateSession) SignOut(context.Context) service.AuthResult { return service.AuthResult{} }
func (s *gateSession) ResetPassword(context.Context, string) service.AuthResult {
	return service.AuthResult{}
}
func (s *gateSession) RefreshSession(ctx context.Context) error { return nil }

func gateRouter(sessions service.SessionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireGate(sessions), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestRequireGateAdmitsAuthenticated(t *testing.T) {
	router := gateRouter(newGateSession(true, true))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireGateRedirectsUnauthenticated(t *testing.T) {
	router := gateRouter(newGateSession(true, false))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginRoute, w.Header().Get("Location"))
}

func TestRequireGateWaitsForInitialization(t *testing.T) {
	router := gateRouter(newGateSession(false, true))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil).WithContext(ctx)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequireGateAdmitsAfterLateInitialization(t *testing.T) {
	sessions := newGateSession(false, true)
	router := gateRouter(sessions)

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(sessions.initialized)
	}()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func signedToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := []byte("test-secret")

	var gotUserID, gotEmail string
	router := gin.New()
	router.GET("/me", RequireAuth(secret), func(c *gin.Context) {
		gotUserID = c.GetString("userID")
		gotEmail = c.GetString("userEmail")
		c.Status(http.StatusOK)
	})

	tokenString := signedToken(t, secret, jwt.MapClaims{
		"sub":   "u1",
		"email": "a@b.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", gotUserID)
	assert.Equal(t, "a@b.com", gotEmail)
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", RequireAuth([]byte("right-secret")), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tokenString := signedToken(t, []byte("wrong-secret"), jwt.MapClaims{"sub": "u1"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", RequireAuth([]byte("secret")), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// The production route setup chains the session gate and the token check;
// an admitted request must still prove its own token.
func TestGateAndAuthChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := []byte("chain-secret")
	router := gin.New()
	router.GET("/protected", RequireGate(newGateSession(true, true)), RequireAuth(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "gate admission alone is not enough")

	tokenString := signedToken(t, secret, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestSetTokenCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetTokenCookies(c, "access-value", "refresh-value")

	cookies := w.Header().Values("Set-Cookie")
	require.Len(t, cookies, 2)
	assert.Contains(t, cookies[0], "access_token=access-value")
	assert.Contains(t, cookies[1], "refresh_token=refresh-value")
}

func TestSetTokenCookiesSkipsEmptyRefresh(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetTokenCookies(c, "access-value", "")

	cookies := w.Header().Values("Set-Cookie")
	require.Len(t, cookies, 1, "no empty refresh cookie may be written")
	assert.Contains(t, cookies[0], "access_token=access-value")
}

func TestExtractTokenPrefersCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "access_token", Value: "from-cookie"})
	c.Request.Header.Set("Authorization", "Bearer from-header")

	token, ok := extractToken(c)
	assert.True(t, ok)
	assert.Equal(t, "from-cookie", token)
}
