package middleware

import (
	"net/http"
	"strings"

	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// TracingMiddleware opens a New Relic transaction per request and tags it
// with the club resource and the caller. Without an agent both middlewares
// pass requests straight through.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}

func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return passthrough
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing must run after NewRelicMiddleware.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return passthrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("request.id", GetRequestID(c))
			if resource := resourceOf(c.Path()); resource != "" {
				txn.AddAttribute("club.resource", resource)
			}

			err := next(c)

			// The user is set by RequireAuth inside the route group.
			if userID := GetUserID(c); userID != "" {
				txn.AddAttribute("user.id", userID)
				txn.AddAttribute("user.role", GetUserRole(c))
			}

			if serverFault(err) {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			return err
		}
	}
}

// resourceOf returns the first segment after /api, e.g. "events".
func resourceOf(route string) string {
	rest, ok := strings.CutPrefix(route, "/api/")
	if !ok {
		return ""
	}
	resource, _, _ := strings.Cut(rest, "/")
	return resource
}

// serverFault reports whether err should be noticed as an APM error.
// Rejected input and denied access are expected traffic.
func serverFault(err error) bool {
	return err != nil && statusOf(err) >= http.StatusInternalServerError
}
