package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/storefront/ecommerce-api/docs"
	"github.com/storefront/ecommerce-api/internal/api/handler"
	"github.com/storefront/ecommerce-api/internal/api/middleware"
	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers and middleware.
type Deps struct {
	Users      ports.UserService
	Catalog    ports.CatalogService
	Categories ports.CategoryService
	Reviews    ports.ReviewService
	Tokens     ports.TokenIssuer

	// AuthLimiter guards credential endpoints, APILimiter the whole API.
	// A nil limiter disables that scope.
	AuthLimiter ports.RateLimiter
	APILimiter  ports.RateLimiter

	Cookie         handler.SessionCookie
	ResetURLBase   string
	RequestTimeout time.Duration

	// Mongo enables the readiness probe; Redis is checked when non-nil.
	Mongo *mongo.Database
	Redis *redis.Client

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "storefront",
		Registerer: d.Registerer,
	}))
	if d.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{Timeout: d.RequestTimeout}))
	}

	// --- Probes, metrics and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if d.Mongo != nil {
		e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Mongo, d.Redis).Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1", limit(d.APILimiter, "api", d.Log)...)

	authn := middleware.Auth(d.Tokens, d.Users, d.Cookie.Name)
	admin := middleware.RBAC(domain.RoleAdmin)
	credentials := limit(d.AuthLimiter, "auth", d.Log)

	// --- Accounts ---
	auth := handler.NewAuthHandler(d.Users, d.Cookie, d.ResetURLBase)
	v1.POST("/register", auth.Register, credentials...)
	v1.POST("/login", auth.Login, credentials...)
	v1.GET("/logout", auth.Logout)
	v1.POST("/password/forgot", auth.ForgotPassword, credentials...)
	v1.PUT("/password/reset/:token", auth.ResetPassword, credentials...)
	v1.GET("/me", auth.Me, authn)
	v1.PUT("/password/update", auth.UpdatePassword, authn)
	v1.PUT("/me/update", auth.UpdateProfile, authn)

	users := handler.NewUserHandler(d.Users)
	v1.GET("/admin/users", users.List, authn, admin)
	v1.GET("/admin/user/:id", users.Get, authn, admin)
	v1.PUT("/admin/user/:id", users.UpdateRole, authn, admin)
	v1.DELETE("/admin/user/:id", users.Delete, authn, admin)

	// --- Catalog ---
	products := handler.NewProductHandler(d.Catalog)
	v1.GET("/products", products.List)
	v1.GET("/products/group-by-category", products.GroupByCategory)
	v1.GET("/product/:id", products.Get)
	v1.POST("/admin/product/new", products.Create, authn, admin)
	v1.PUT("/admin/product/:id", products.Update, authn, admin)
	v1.DELETE("/admin/product/:id", products.Delete, authn, admin)

	reviews := handler.NewReviewHandler(d.Reviews, d.Users)
	v1.PUT("/review", reviews.Upsert, authn)
	v1.GET("/reviews", reviews.List, authn)
	v1.DELETE("/reviews", reviews.Delete, authn)

	categories := handler.NewCategoryHandler(d.Categories)
	v1.GET("/categories", categories.List)
	v1.GET("/category/:id", categories.Get)
	v1.POST("/admin/category/new", categories.Create, authn, admin)

	return e
}

func limit(limiter ports.RateLimiter, scope string, log zerolog.Logger) []echo.MiddlewareFunc {
	if limiter == nil {
		return nil
	}
	return []echo.MiddlewareFunc{middleware.RateLimit(limiter, scope, log)}
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
