package http

import (
	"context"
	"log/slog"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/config"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/http/handlers"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/http/middlewares"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

// Deps is everything the router needs. Limiter may be nil, which turns rate
// limiting off. Prom and Gatherer may be nil in tests.
type Deps struct {
	Config config.Config
	Log    *slog.Logger

	Users         user.Store
	RefreshTokens user.RefreshTokenStore
	Tokens        interface {
		handlers.TokenIssuer
		middlewares.TokenVerifier
	}

	Limiter  ratelimit.Limiter
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Ping     func(ctx context.Context) error
}

// NewRouter builds the HTTP surface.
//
//	@title						Auth API
//	@version					1.0.0
//	@description				User registration, login, token refresh and profile management.
//	@BasePath					/
//	@securityDefinitions.apikey	bearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(middlewares.Recovery(d.Log))
	r.Use(middlewares.RequestID())
	if d.Config.OTelEndpoint != "" {
		r.Use(otelgin.Middleware(d.Config.AppName))
	}
	r.Use(d.Prom.GinHandleMiddleware())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.CORSOrigins))

	if d.Limiter != nil {
		rl := middlewares.NewRateLimiter(d.Limiter, middlewares.RateLimiterOptions{
			Namespace: d.Config.RateLimit.Namespace,
			Window:    d.Config.RateLimit.Window,
			Ban:       d.Config.RateLimit.Ban,
		}, d.Log, d.Prom)
		r.Use(rl.RateLimiterMiddleware(middlewares.KeyByIP))
	}

	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// system
	health := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	docs := handlers.NewDocsHandler(d.Config.AppName, d.Config.AppVersion)
	r.GET("/openapi.json", docs.OpenAPI)
	r.GET("/docs/*any", docs.UI)
	r.GET("/", docs.Root)

	// auth
	authHandler := handlers.NewAuthHandler(d.Users, d.RefreshTokens, d.Tokens, d.Prom)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)

	// users, owner only
	authMW := middlewares.NewAuthMiddleware(d.Tokens)
	usersHandler := handlers.NewUsersHandler(d.Users, d.RefreshTokens)

	r.PATCH("/users/:id", authMW.Authenticated(usersHandler.Update))
	r.DELETE("/users/:id", authMW.Authenticated(usersHandler.Delete))

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondNotFound(ctx, "Route not found")
	})

	return r
}
