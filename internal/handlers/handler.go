package handlers

import (
	"farmtech_irrigation/internal/logger"
	"farmtech_irrigation/internal/service"

	_ "farmtech_irrigation/docs"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	gatherer prometheus.Gatherer
	ticks    *tickFeed
}

// NewHandler constructs a new HTTP handler with dependencies. A nil
// gatherer serves the default prometheus registry.
func NewHandler(services *service.Service, log *logger.Logger, gatherer prometheus.Gatherer) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{services: services, log: log, gatherer: gatherer, ticks: newTickFeed()}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// dashboard state stream, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerSensorRoutes(api)
		h.registerHistoryRoutes(api)
		h.registerContactRoutes(api)
		api.POST("/simulation/tick", h.runTick)
	}
}

func (h *Handler) registerSensorRoutes(api *gin.RouterGroup) {
	sensors := api.Group("/sensors")
	{
		sensors.GET("/state", h.getState)
		sensors.GET("/:id/readings", h.getSensorReadings)
	}
}

func (h *Handler) registerHistoryRoutes(api *gin.RouterGroup) {
	api.GET("/alerts", h.getAlerts)
	api.GET("/irrigation", h.getIrrigation)
}

func (h *Handler) registerContactRoutes(api *gin.RouterGroup) {
	contacts := api.Group("/contacts")
	{
		contacts.GET("", h.listContacts)
		// Body example: {"name":"Ana","email":"ana@farm.test"}
		contacts.POST("", h.createContact)
		contacts.DELETE("/:id", h.deactivateContact)
	}
}
