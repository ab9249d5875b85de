package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/dprince-03/LMS-API/pkg/auth"
)

// jwtAuthentication verifies the bearer token, re-resolves the account (so a
// deactivated user loses access immediately, not at token expiry) and puts
// the actor on the request context.
func (h *Handler) jwtAuthentication(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authorization := c.Request().Header.Get(auth.AuthorizationHeader)
		if authorization == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access denied. No token provided")
		}
		if !strings.HasPrefix(authorization, auth.Bearer) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access denied. Invalid token format")
		}
		tokenStr := strings.TrimPrefix(authorization, auth.Bearer)

		claims, err := h.jwt.Parse(tokenStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access denied. Invalid token")
		}

		actor, err := h.authSvc.ResolveActor(c.Request().Context(), claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access denied. Account is not active")
		}

		req := c.Request()
		c.SetRequest(req.WithContext(auth.SetActor(req.Context(), actor)))
		return next(c)
	}
}

// authorize gates a route on the capability table.
func (h *Handler) authorize(resource auth.Resource, action auth.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := actorFrom(c)
			if err != nil {
				return err
			}
			if !auth.Can(actor.Role, resource, action) {
				return echo.NewHTTPError(http.StatusForbidden, "Access denied. Insufficient role")
			}
			return next(c)
		}
	}
}

// newRateLimiterMW limits per identity: authenticated actors by username,
// everyone else by source IP. The store evicts stale identities itself.
func newRateLimiterMW(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rps,
			Burst:     int(rps),
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if actor, ok := auth.ActorFromContext(c.Request().Context()); ok {
				return actor.Username, nil
			}
			return c.RealIP(), nil
		},
	})
}

func requestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
}
