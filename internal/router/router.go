// Package router builds the Echo instance: global middleware, the error
// handler and every route group under /api.
package router

import (
	"net/http"
	"strings"

	"github.com/deppfellow/robotics-club/internal/handler"
	"github.com/deppfellow/robotics-club/internal/lib/upload"
	"github.com/deppfellow/robotics-club/internal/middleware"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers, auth middleware.Authenticator) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s, auth)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.BodyLimit(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	if s.Uploads != nil {
		router.Static(strings.TrimSuffix(upload.URLPrefix, "/"), s.Uploads.Dir())
	}

	api := router.Group("/api")
	api.GET("/health", h.Health.CheckHealth)

	registerAuthRoutes(api, h, middlewares)
	registerUserRoutes(api, h, middlewares)
	registerContentRoutes(api, h, middlewares)
	registerSiteRoutes(api, h, middlewares)

	return router
}

func registerAuthRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	auth := api.Group("/auth")

	limited := m.RateLimit.Login()
	auth.POST("/register", handler.Handle(h.Auth.Register, http.StatusCreated), limited)
	auth.POST("/login", handler.Handle(h.Auth.Login, http.StatusOK), limited)

	me := auth.Group("", m.Auth.RequireAuth, m.ContextEnhancer.EnhanceUser())
	me.GET("/me", handler.Handle(h.Auth.Me, http.StatusOK))
	me.PUT("/password", handler.Handle(h.Auth.ChangePassword, http.StatusOK))
	me.PUT("/profile", handler.Handle(h.Auth.UpdateProfile, http.StatusOK))
}

func registerUserRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	users := api.Group("/users", m.Auth.RequireAuth, m.ContextEnhancer.EnhanceUser(), middleware.AdminOnly())

	users.GET("", handler.Handle(h.Users.List, http.StatusOK))
	users.PUT("/:id/role", handler.Handle(h.Users.UpdateRole, http.StatusOK))
	users.DELETE("/:id", handler.Handle(h.Users.Delete, http.StatusOK))
}

func registerContentRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	editor := []echo.MiddlewareFunc{m.Auth.RequireAuth, m.ContextEnhancer.EnhanceUser(), middleware.EditorOrAdmin()}

	events := api.Group("/events")
	events.GET("", handler.Handle(h.Events.List, http.StatusOK))
	events.GET("/:id", handler.Handle(h.Events.Get, http.StatusOK))
	events.POST("", handler.Handle(h.Events.Create, http.StatusCreated), editor...)
	events.PUT("/:id", handler.Handle(h.Events.Update, http.StatusOK), editor...)
	events.DELETE("/:id", handler.Handle(h.Events.Delete, http.StatusOK), editor...)

	team := api.Group("/team")
	team.GET("", handler.Handle(h.Team.List, http.StatusOK))
	team.GET("/:id", handler.Handle(h.Team.Get, http.StatusOK))
	team.POST("", handler.Handle(h.Team.Create, http.StatusCreated), editor...)
	team.PUT("/:id", handler.Handle(h.Team.Update, http.StatusOK), editor...)
	team.DELETE("/:id", handler.Handle(h.Team.Delete, http.StatusOK), editor...)

	achievements := api.Group("/achievements")
	achievements.GET("", handler.Handle(h.Achievements.List, http.StatusOK))
	achievements.GET("/:id", handler.Handle(h.Achievements.Get, http.StatusOK))
	achievements.POST("", handler.Handle(h.Achievements.Create, http.StatusCreated), editor...)
	achievements.PUT("/:id", handler.Handle(h.Achievements.Update, http.StatusOK), editor...)
	achievements.DELETE("/:id", handler.Handle(h.Achievements.Delete, http.StatusOK), editor...)

	gallery := api.Group("/gallery")
	gallery.GET("", handler.Handle(h.Gallery.List, http.StatusOK))
	gallery.GET("/:id", handler.Handle(h.Gallery.Get, http.StatusOK))
	gallery.POST("", handler.Handle(h.Gallery.Upload, http.StatusCreated), editor...)
	gallery.PUT("/:id", handler.Handle(h.Gallery.Update, http.StatusOK), editor...)
	gallery.DELETE("/:id", handler.Handle(h.Gallery.Delete, http.StatusOK), editor...)

	announcements := api.Group("/announcements")
	announcements.GET("", handler.Handle(h.Announcements.ListActive, http.StatusOK))
	// Registered before /:id so "all" is not read as an id.
	announcements.GET("/all", handler.Handle(h.Announcements.ListAll, http.StatusOK), editor...)
	announcements.GET("/:id", handler.Handle(h.Announcements.Get, http.StatusOK))
	announcements.POST("", handler.Handle(h.Announcements.Create, http.StatusCreated), editor...)
	announcements.PUT("/:id", handler.Handle(h.Announcements.Update, http.StatusOK), editor...)
	announcements.DELETE("/:id", handler.Handle(h.Announcements.Delete, http.StatusOK), editor...)
}

func registerSiteRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	authed := []echo.MiddlewareFunc{m.Auth.RequireAuth, m.ContextEnhancer.EnhanceUser()}

	api.GET("/home", handler.Handle(h.Site.GetHome, http.StatusOK))
	api.PUT("/home", handler.Handle(h.Site.UpdateHome, http.StatusOK), append(authed, middleware.EditorOrAdmin())...)

	api.GET("/settings", handler.Handle(h.Site.GetSettings, http.StatusOK))
	api.PUT("/settings", handler.Handle(h.Site.UpdateSettings, http.StatusOK), append(authed, middleware.AdminOnly())...)
}
