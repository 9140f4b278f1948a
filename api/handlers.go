package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/internal/cache"
	"github.com/gcbaptista/go-retrieval-engine/internal/logger"
	"github.com/gcbaptista/go-retrieval-engine/internal/metrics"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

// API holds dependencies for API handlers, primarily the search engine.
type API struct {
	engine    services.SearchEngine
	settings  config.EngineSettings
	cache     *cache.QueryCache
	metrics   *metrics.Metrics
	logger    *slog.Logger
	startedAt time.Time
}

// Option configures an API.
type Option func(*API)

// WithSettings sets the defaults applied to requests that leave options unset.
func WithSettings(settings config.EngineSettings) Option {
	return func(a *API) { a.settings = settings }
}

// WithCache serves searches through a query cache.
func WithCache(c *cache.QueryCache) Option {
	return func(a *API) { a.cache = c }
}

// WithMetrics instruments requests and exposes GET /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *API) { a.metrics = m }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) { a.logger = l }
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.SearchEngine, opts ...Option) *API {
	a := &API{
		engine:    engine,
		logger:    logger.WithComponent("api"),
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.settings.ApplyDefaults()
	return a
}

// NewRouter creates a gin engine with the standard middleware chain and all routes.
func NewRouter(engine services.SearchEngine, server config.ServerConfig, opts ...Option) *gin.Engine {
	apiHandler := NewAPI(engine, opts...)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		LoggingMiddleware(apiHandler.logger),
		MetricsMiddleware(apiHandler.metrics),
		CORSMiddleware(),
		RequestSizeLimitMiddleware(server.MaxBodyBytes),
	)
	apiHandler.RegisterRoutes(router)
	return router
}

// SetupRoutes defines all the API routes for the retrieval engine.
func SetupRoutes(router *gin.Engine, engine services.SearchEngine, opts ...Option) {
	NewAPI(engine, opts...).RegisterRoutes(router)
}

// RegisterRoutes mounts the handlers on router.
func (api *API) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", api.HealthCheckHandler)
	router.GET("/stats", api.StatsHandler)
	if api.metrics != nil {
		router.GET("/metrics", gin.WrapH(api.metrics.Handler()))
	}

	docRoutes := router.Group("/documents")
	{
		docRoutes.PUT("", api.AddDocumentsHandler)            // Replace the corpus
		docRoutes.GET("/:documentId", api.GetDocumentHandler) // Get specific document
	}

	router.POST("/_search", api.SearchHandler)
	router.GET("/search", api.QuerySearchHandler)
}

// HealthCheckHandler reports liveness and the size of the current corpus.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"document_count": api.engine.DocumentCount(),
		"generation":     api.engine.Generation(),
		"uptime_seconds": int64(time.Since(api.startedAt).Seconds()),
		"timestamp":      time.Now().UTC(),
	})
}

// StatsHandler returns corpus statistics.
func (api *API) StatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.Stats())
}
