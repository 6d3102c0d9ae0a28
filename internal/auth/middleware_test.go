package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"budgetmate/internal/model"
)

// fakeTokenStore is an in-memory TokenStoreInterface for middleware tests.
type fakeTokenStore struct {
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{revoked: map[string]bool{}}
}

func (s *fakeTokenStore) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.revoked[tokenID] = true
	return nil
}

func (s *fakeTokenStore) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

func newProtectedEcho(jwtService *JWTService, store TokenStoreInterface) *echo.Echo {
	e := echo.New()
	g := e.Group("", Middleware(jwtService, store))
	g.GET("/me", func(c echo.Context) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return echo.NewHTTPError(http.StatusInternalServerError, "claims missing")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"id": claims.UserID, "role": claims.Role})
	})
	g.GET("/admin-only", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"secret": "admin data"})
	}, RequireAdmin)
	return e
}

func TestMiddleware_MissingHeader(t *testing.T) {
	e := newProtectedEcho(NewJWTService("test-secret"), newFakeTokenStore())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_InvalidToken(t *testing.T) {
	e := newProtectedEcho(NewJWTService("test-secret"), newFakeTokenStore())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_ValidToken(t *testing.T) {
	jwtService := NewJWTService("test-secret")
	e := newProtectedEcho(jwtService, newFakeTokenStore())

	token, err := jwtService.GenerateToken(7, model.RoleUser)
	assert.NoError(t, err)

	// The scheme prefix must be stripped before validation: a well-formed
	// "Bearer <token>" header has to reach the handler, and any other
	// scheme has to be rejected outright.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":7`)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_RevokedToken(t *testing.T) {
	jwtService := NewJWTService("test-secret")
	store := newFakeTokenStore()
	e := newProtectedEcho(jwtService, store)

	token, err := jwtService.GenerateToken(7, model.RoleUser)
	assert.NoError(t, err)
	claims, err := jwtService.ValidateToken(token)
	assert.NoError(t, err)
	assert.NoError(t, store.BlacklistToken(context.Background(), claims.ID, claims.RemainingTTL()))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_RoleGate(t *testing.T) {
	jwtService := NewJWTService("test-secret")
	e := newProtectedEcho(jwtService, newFakeTokenStore())

	t.Run("user role gets 403 and no data", func(t *testing.T) {
		token, err := jwtService.GenerateToken(7, model.RoleUser)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.NotContains(t, rec.Body.String(), "admin data")
	})

	t.Run("admin role passes", func(t *testing.T) {
		token, err := jwtService.GenerateToken(1, model.RoleAdmin)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
