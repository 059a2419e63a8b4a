package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/interview-timetable-api/internal/middleware"
	"github.com/noah-isme/interview-timetable-api/internal/service"
	"github.com/noah-isme/interview-timetable-api/pkg/cache"
	"github.com/noah-isme/interview-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/interview-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/interview-timetable-api/pkg/middleware/requestid"
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	EnableMetrics  bool

	Logger    *zap.Logger
	State     *service.ScheduleState
	Sessions  *service.SessionService
	Exports   *service.ExportService
	Metrics   *service.MetricsService
	Limiter   *middleware.GestureLimiter
	Validator *validator.Validate
	Redis     cache.Pinger
}

// NewRouter wires every route. It panics when the shared state or the session
// service is missing.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.State == nil || cfg.Sessions == nil {
		panic("handler: router requires a schedule state and a session service")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Validator == nil {
		cfg.Validator = NewValidator()
	}
	if cfg.Exports == nil {
		cfg.Exports = service.NewExportService(cfg.Sessions, cfg.Logger, nil, nil)
	}
	if cfg.Limiter == nil {
		cfg.Limiter = middleware.NewGestureLimiter(0, 0, cfg.Metrics, cfg.Logger)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics, "/health", "/ready", "/metrics"))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := NewMetricsHandler(cfg.Metrics, cfg.Sessions, cfg.Redis)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.EnableMetrics {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	sessionHandler := NewSessionHandler(cfg.Sessions, cfg.Exports, cfg.Validator)
	gridHandler := NewGridHandler(cfg.Sessions, cfg.Validator)
	adminHandler := NewAdminHandler(cfg.Sessions, cfg.Validator)
	scheduleHandler := NewScheduleHandler(cfg.State)

	api := r.Group(cfg.APIPrefix)

	api.GET("/schedule", scheduleHandler.Get)
	api.GET("/schedule/events", scheduleHandler.Events)

	api.POST("/sessions", sessionHandler.Create)
	sessions := api.Group("/sessions/:id")
	sessions.GET("", sessionHandler.Get)
	sessions.DELETE("", sessionHandler.Delete)
	sessions.PUT("/name", sessionHandler.SetName)
	sessions.DELETE("/name", sessionHandler.ResetName)
	sessions.POST("/reset", sessionHandler.Reset)
	sessions.POST("/submit", sessionHandler.Submit)
	sessions.GET("/grid", sessionHandler.Grid)
	sessions.GET("/export", sessionHandler.Export)
	// release always resolves a drag, so it sits outside the limiter
	sessions.POST("/grid/release", gridHandler.Release)

	grid := sessions.Group("/grid", cfg.Limiter.Middleware())
	grid.POST("/press", gridHandler.Press)
	grid.POST("/enter", gridHandler.Enter)
	grid.POST("/toggle", gridHandler.Toggle)

	admin := sessions.Group("/admin", middleware.RequireAdmin(cfg.Sessions))
	admin.POST("/dates/toggle", adminHandler.ToggleDate)
	admin.DELETE("/dates/:index", adminHandler.RemoveDate)
	admin.DELETE("/dates", adminHandler.ClearDates)
	admin.PUT("/window", adminHandler.SetWindow)
	admin.PUT("/window/start", adminHandler.SetStart)
	admin.PUT("/window/end", adminHandler.SetEnd)
	admin.POST("/blocks/import", adminHandler.ImportBlocks)
	admin.POST("/save", adminHandler.Save)

	return r
}
