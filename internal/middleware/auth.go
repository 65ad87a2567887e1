package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/deppfellow/robotics-club/internal/sqlerr"
	"github.com/labstack/echo/v4"
)

// Authenticator resolves a bearer token to the user it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type AuthMiddleware struct {
	server *server.Server
	auth   Authenticator
}

func NewAuthMiddleware(s *server.Server, auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		auth:   auth,
	}
}

// RequireAuth loads the user named by the Authorization bearer token and
// stores it in the echo context under UserKey, UserIDKey and UserRoleKey.
func (am *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return errs.NewUnauthorizedError("Not authorized, no token", true)
		}

		user, err := am.auth.Authenticate(c.Request().Context(), token)
		if err != nil {
			if sqlerr.IsNotFound(err) {
				return errs.NewUnauthorizedError("User not found", true)
			}

			am.server.Logger.Warn().
				Err(err).
				Str("function", "RequireAuth").
				Str("request_id", GetRequestID(c)).
				Dur("duration", time.Since(start)).
				Msg("token verification failed")

			var httpErr *errs.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}
			return errs.NewUnauthorizedError("Not authorized, token failed", true)
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID.String())
		c.Set(UserRoleKey, string(user.Role))

		am.server.Logger.Debug().
			Str("function", "RequireAuth").
			Str("user_id", user.ID.String()).
			Str("request_id", GetRequestID(c)).
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}

// RequireRole rejects users whose role is not in roles with a 403 carrying
// message. It must run after RequireAuth.
func RequireRole(message string, roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUser(c)
			if user == nil {
				return errs.NewUnauthorizedError("Not authorized, no token", true)
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return errs.NewForbiddenError(message, true)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return RequireRole("Access denied. Admin only.", model.RoleAdmin)
}

func EditorOrAdmin() echo.MiddlewareFunc {
	return RequireRole("Access denied. Editor or Admin required.", model.RoleAdmin, model.RoleEditor)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
