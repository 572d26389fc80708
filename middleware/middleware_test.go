package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/models"
)

const testSecret = "test-secret"

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, token string) bool { return r[token] }

func storeUser(role models.Role) *models.User {
	storeID := primitive.NewObjectID()
	return &models.User{
		ID:      primitive.NewObjectID(),
		Email:   "owner@greenleaf.test",
		Role:    role,
		StoreID: &storeID,
	}
}

func newProtected(revoked RevocationChecker, extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	mws := append([]echo.MiddlewareFunc{JWTMiddleware(testSecret, revoked)}, extra...)
	e.GET("/me", func(c echo.Context) error {
		storeID, err := StoreID(c)
		if err != nil {
			return c.String(http.StatusOK, "")
		}
		return c.String(http.StatusOK, storeID.Hex())
	}, mws...)
	return e
}

func do(e *echo.Echo, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGenerateJWT_Claims(t *testing.T) {
	user := storeUser(models.RoleOwner)
	now := time.Now()

	token, expires, err := GenerateJWT(testSecret, DefaultTokenTTL, user, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(7*24*time.Hour).Unix(), expires.Unix())

	claims, err := ParseJWT(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleOwner, claims.Role)
	assert.Equal(t, user.StoreID.Hex(), claims.StoreID)
	assert.Equal(t, expires.Unix(), claims.ExpiresAt)

	_, err = ParseJWT("other-secret", token)
	assert.Error(t, err)
}

func TestGenerateJWT_RequiresSecret(t *testing.T) {
	_, _, err := GenerateJWT("", DefaultTokenTTL, storeUser(models.RoleOwner), time.Now())
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	user := storeUser(models.RoleManager)
	token, _, err := GenerateJWT(testSecret, time.Hour, user, time.Now())
	require.NoError(t, err)

	expired, _, err := GenerateJWT(testSecret, time.Hour, user, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	e := newProtected(revokedSet{})

	rec := do(e, "/me", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.StoreID.Hex(), rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(e, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, "/me", "not-a-token").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, "/me", expired).Code)

	rec = do(e, "/me?token="+token, "")
	assert.Equal(t, http.StatusOK, rec.Code, "websocket clients pass the token as a query parameter")
}

func TestJWTMiddleware_RevokedToken(t *testing.T) {
	token, _, err := GenerateJWT(testSecret, time.Hour, storeUser(models.RoleOwner), time.Now())
	require.NoError(t, err)

	e := newProtected(revokedSet{token: true})
	assert.Equal(t, http.StatusUnauthorized, do(e, "/me", token).Code)
}

func TestRequireRole(t *testing.T) {
	employee, _, err := GenerateJWT(testSecret, time.Hour, storeUser(models.RoleEmployee), time.Now())
	require.NoError(t, err)
	owner, _, err := GenerateJWT(testSecret, time.Hour, storeUser(models.RoleOwner), time.Now())
	require.NoError(t, err)

	e := newProtected(nil, RequireRole(models.RoleOwner, models.RoleManager))

	assert.Equal(t, http.StatusForbidden, do(e, "/me", employee).Code)
	assert.Equal(t, http.StatusOK, do(e, "/me", owner).Code)
}

func TestRequireStore(t *testing.T) {
	admin := &models.User{ID: primitive.NewObjectID(), Email: "admin@platform.test", Role: models.RoleAdmin}
	token, _, err := GenerateJWT(testSecret, time.Hour, admin, time.Now())
	require.NoError(t, err)

	e := newProtected(nil, RequireStore())
	assert.Equal(t, http.StatusForbidden, do(e, "/me", token).Code)
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter()
	rl.SetEndpointLimit("/api/auth/login", 0.0001, 2)

	e := echo.New()
	e.POST("/api/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, rl.RateLimit())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders())
	e.GET("/api/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRequireJSON(t *testing.T) {
	e := echo.New()
	e.Use(RequireJSON())
	e.POST("/api/expenses", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })

	send := func(contentType, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set(echo.HeaderContentType, contentType)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, send("application/json; charset=utf-8", `{"amount":1}`))
	assert.Equal(t, http.StatusUnsupportedMediaType, send("text/plain", "amount=1"))
	// empty bodies carry no media type
	assert.Equal(t, http.StatusCreated, send("", ""))
}
