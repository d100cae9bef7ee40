package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/pdpi/member-portal/internal/api/handler"
	"github.com/pdpi/member-portal/internal/api/middleware"
	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
	"github.com/pdpi/member-portal/internal/infrastructure/http/handlers"
	"github.com/pdpi/member-portal/internal/pkg/token"
)

// Deps is everything the router needs to build the handlers.
type Deps struct {
	Log       zerolog.Logger
	APIPrefix string
	Issuer    *token.Issuer

	Auth      ports.AuthService
	News      ports.NewsService
	Agenda    ports.AgendaService
	Directory ports.DirectoryService
	Menus     ports.MenuService
	Site      ports.SiteService
	Members   ports.MemberService
	Upload    ports.UploadService
	Views     handler.ViewQueue

	// UploadDir is served read-only under UploadPublicPath.
	UploadDir        string
	UploadPublicPath string
	// BodyLimit caps request bodies, e.g. "6M". Empty disables the limit.
	BodyLimit string

	Pingers []handlers.Pinger

	// Registry receives the HTTP metrics. Nil means the default registry,
	// which also holds the domain counters.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(metricsMiddleware(d.Registry))
	if d.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	}

	// --- Operational endpoints ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Pingers...).Readiness)
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if d.UploadDir != "" && d.UploadPublicPath != "" {
		e.Static(d.UploadPublicPath, d.UploadDir)
	}

	authed := middleware.Auth(d.Issuer)
	optional := middleware.OptionalAuth(d.Issuer)
	manageContent := []echo.MiddlewareFunc{authed, middleware.RequirePermission(domain.PermManageContent)}

	v1 := e.Group(d.APIPrefix)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/profile", authHandler.Profile, authed)
	auth.PUT("/profile", authHandler.UpdateProfile, authed)
	auth.POST("/profile/change-password", authHandler.ChangePassword, authed)

	// --- Content collections ---
	news := handler.NewNewsHandler(d.News, d.Views)
	registerCollection(v1.Group("/news", optional), news.List, news.Get, news.Create, news.Update, news.Patch, news.Delete, manageContent)

	agenda := handler.NewAgendaHandler(d.Agenda)
	registerCollection(v1.Group("/agenda", optional), agenda.List, agenda.Get, agenda.Create, agenda.Update, agenda.Patch, agenda.Delete, manageContent)

	directory := handler.NewDirectoryHandler(d.Directory)
	registerCollection(v1.Group("/directory", optional), directory.List, directory.Get, directory.Create, directory.Update, directory.Patch, directory.Delete, manageContent)

	// --- Menus ---
	menus := handler.NewMenuHandler(d.Menus)
	v1.GET("/menus", menus.List)
	v1.GET("/menus/:position", menus.ByPosition)
	v1.GET("/menus/:position/navigation", menus.Navigation, optional)
	v1.POST("/menus", menus.Replace, authed, middleware.RequirePermission(domain.PermManageMenus))

	// --- Site content ---
	site := handler.NewSiteHandler(d.Site)
	v1.GET("/homepage", site.Homepage)
	v1.POST("/homepage", site.UpdateHomepage, manageContent...)
	v1.GET("/organization", site.Organization)
	v1.GET("/board", site.Board)
	v1.GET("/dynamic-content", site.DynamicContents)
	v1.GET("/dynamic-content/*", site.DynamicContent)
	v1.POST("/dynamic-content", site.SaveDynamicContent, manageContent...)
	v1.GET("/documents", site.Documents, authed, middleware.RequirePermission(domain.PermViewDocuments))

	// --- Member directory ---
	members := handler.NewMemberHandler(d.Members)
	v1.GET("/members/search", members.Search)
	v1.GET("/members/filters", members.Filters)

	// --- Upload ---
	upload := handler.NewUploadHandler(d.Upload)
	v1.POST("/upload", upload.Upload, authed, middleware.RequirePermission(domain.PermUploadDocuments))

	return e
}

// registerCollection wires the six CRUD routes every content collection shares.
func registerCollection(g *echo.Group, list, get, create, update, patch, del echo.HandlerFunc, guard []echo.MiddlewareFunc) {
	g.GET("", list)
	g.GET("/:id", get)
	g.POST("", create, guard...)
	g.PUT("/:id", update, guard...)
	g.PATCH("/:id", patch, guard...)
	g.DELETE("/:id", del, guard...)
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	if reg == nil {
		return echoprometheus.NewMiddleware("portal")
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: reg,
	})
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/health" || p == "/metrics"
		},
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Str("remote_ip", v.RemoteIP).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
