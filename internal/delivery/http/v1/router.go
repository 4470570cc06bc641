package v1

import (
	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/web"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC   domain.ContactUsecase
	HealthUC    usecase.HealthUsecase
	Notifier    domain.Notifier
	RateLimiter *middleware.RateLimiter
	Audit       *security.SecurityLogger
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	production := cfg.IsProduction()

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil, deps.Audit)
	}
	submitLimit := limiter.Middleware(middleware.ContactRateLimitConfig(cfg.RateLimitContactThreshold, cfg.RateLimitWindow()))

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, production)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(production))
	r.Use(limiter.Middleware(middleware.DefaultRateLimitConfig(cfg.RateLimitGlobalThreshold, cfg.RateLimitWindow())))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")
	{
		NewHealthHandler(v1, deps.HealthUC)
		NewContactHandler(v1, deps.ContactUC, deps.Notifier, submitLimit)
		v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Server-rendered pages
	pages := r.Group("")
	pages.Use(middleware.FormSession(production))
	pages.Use(middleware.CSRFMiddleware("/v1/", production, deps.Audit))
	{
		web.NewContactHandler(pages, deps.ContactUC, deps.Notifier, submitLimit)
	}

	return r
}
