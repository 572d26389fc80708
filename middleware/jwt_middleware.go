// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/models"
)

// DefaultTokenTTL is the lifetime of tokens issued at login
const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	ErrNoClaims = errors.New("missing token claims")
	ErrNoStore  = errors.New("account is not bound to a store")
)

// JwtCustomClaims for JWT token
type JwtCustomClaims struct {
	UserID     string      `json:"userId"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	StoreID    string      `json:"storeId,omitempty"`
	ResellerID string      `json:"resellerId,omitempty"`
	jwt.StandardClaims
}

// RevocationChecker reports whether a token was invalidated by logout
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) bool
}

// GenerateJWT signs an HS256 token for user that expires ttl after now
func GenerateJWT(secret string, ttl time.Duration, user *models.User, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}
	expires := now.Add(ttl)

	claims := &JwtCustomClaims{
		UserID:  user.ID.Hex(),
		Email:   user.Email,
		Role:    user.Role,
		StoreID: user.StoreIDHex(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expires.Unix(),
			IssuedAt:  now.Unix(),
			Subject:   user.ID.Hex(),
		},
	}
	if user.ResellerID != nil {
		claims.ResellerID = user.ResellerID.Hex()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// ParseJWT validates a signed token and returns its claims
func ParseJWT(secret, tokenString string) (*JwtCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// JWTMiddleware authenticates the request with a bearer token, or with a
// ?token= query parameter for websocket upgrades, and rejects tokens that
// were revoked at logout.
func JWTMiddleware(secret string, revoked RevocationChecker) echo.MiddlewareFunc {
	jwtMW := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    []byte(secret),
		SigningMethod: middleware.AlgorithmHS256,
		Claims:        &JwtCustomClaims{},
		SuccessHandler: func(c echo.Context) {
			claims := GetUserFromToken(c)
			if claims == nil {
				return
			}
			c.Set("userId", claims.UserID)
			c.Set("role", string(claims.Role))
			c.Set("email", claims.Email)
			c.Set("storeId", claims.StoreID)
		},
		ErrorHandler: func(err error) error {
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Invalid or expired token")
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := jwtMW(rejectRevoked(revoked, next))
		return func(c echo.Context) error {
			req := c.Request()
			if req.Header.Get(echo.HeaderAuthorization) == "" {
				if token := c.QueryParam("token"); token != "" {
					req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
				}
			}
			return h(c)
		}
	}
}

func rejectRevoked(revoked RevocationChecker, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if revoked == nil {
			return next(c)
		}
		if token := RawToken(c); token != "" && revoked.IsRevoked(c.Request().Context(), token) {
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Token has been invalidated")
		}
		return next(c)
	}
}

// RawToken returns the encoded token of the authenticated request
func RawToken(c echo.Context) string {
	if token, ok := c.Get("user").(*jwt.Token); ok {
		return token.Raw
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
}

// GetUserFromToken extracts the claims set by JWTMiddleware
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

func UserID(c echo.Context) (primitive.ObjectID, error) {
	claims := GetUserFromToken(c)
	if claims == nil {
		return primitive.NilObjectID, ErrNoClaims
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

// StoreID returns the tenant of the authenticated user. Every store scoped
// query takes its store id from here, never from the request body.
func StoreID(c echo.Context) (primitive.ObjectID, error) {
	claims := GetUserFromToken(c)
	if claims == nil {
		return primitive.NilObjectID, ErrNoClaims
	}
	if claims.StoreID == "" {
		return primitive.NilObjectID, ErrNoStore
	}
	return primitive.ObjectIDFromHex(claims.StoreID)
}

// ResellerID returns the partner or consultant profile of a portal user
func ResellerID(c echo.Context) (primitive.ObjectID, error) {
	claims := GetUserFromToken(c)
	if claims == nil || claims.ResellerID == "" {
		return primitive.NilObjectID, ErrNoClaims
	}
	return primitive.ObjectIDFromHex(claims.ResellerID)
}
