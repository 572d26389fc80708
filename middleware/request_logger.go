package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/dispensary_backend/logger"
	"github.com/HSouheill/dispensary_backend/metrics"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/security"
)

// RequestLogger tags each request with an id and writes one structured log
// line and one metrics observation when it completes.
func RequestLogger(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = req.Header.Get(echo.HeaderXRequestID)
			}
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			m.RequestStarted()
			err := next(c)
			m.RequestFinished()
			if err != nil {
				// let echo write the error so the recorded status is final
				c.Error(err)
			}

			status := c.Response().Status
			elapsed := time.Since(start)
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.ObserveRequest(req.Method, path, status, elapsed)

			entry := logger.WithFields(map[string]interface{}{
				"requestId": id,
				"method":    req.Method,
				"path":      path,
				"uri":       req.RequestURI,
				"status":    status,
				"latencyMs": elapsed.Milliseconds(),
				"ip":        c.RealIP(),
			})
			if claims := GetUserFromToken(c); claims != nil {
				entry = entry.WithField("userId", claims.UserID)
			}
			if logger.L().IsLevelEnabled(logrus.DebugLevel) {
				entry = entry.WithField("headers", security.SanitizeHeaders(req.Header))
			}

			switch {
			case status >= http.StatusInternalServerError:
				entry.WithError(err).Error("request failed")
			case status >= http.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request completed")
			}
			return nil
		}
	}
}

// RequireJSON rejects write requests whose body is not a supported media type
func RequireJSON() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if req.ContentLength != 0 && !security.ValidateContentType(req.Header.Get(echo.HeaderContentType)) {
					return c.JSON(http.StatusUnsupportedMediaType, models.Response{
						Status:  http.StatusUnsupportedMediaType,
						Message: "Unsupported content type",
					})
				}
			}
			return next(c)
		}
	}
}
