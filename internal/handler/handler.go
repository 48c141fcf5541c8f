package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rachitha15/PixelProbe/internal/dto"
	"github.com/rachitha15/PixelProbe/internal/service"
	"github.com/rachitha15/PixelProbe/internal/telemetry"
	"github.com/rachitha15/PixelProbe/internal/ws"
)

type Handler struct {
	eventService service.EventServicer
	hub          *ws.Hub
	router       *gin.Engine
	log          *zap.Logger
}

func NewHandler(eventService service.EventServicer, hub *ws.Hub, log *zap.Logger) *Handler {
	h := &Handler{
		eventService: eventService,
		hub:          hub,
		router:       gin.Default(),
		log:          log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.Use(corsMiddleware())

	api := h.router.Group("/api")
	api.POST("/events", h.trackEvent)
	api.GET("/events", h.listEvents)
	api.GET("/events/:id", h.getEvent)
	api.GET("/metrics", h.getMetrics)
	api.GET("/health", h.healthCheck)
	api.POST("/reset", h.reset)

	h.router.GET("/ws", h.serveWS)
}

// corsMiddleware allows the pixel and the dashboard to call the API from
// any storefront origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, x-shop-domain")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// trackEvent handles POST /api/events
func (h *Handler) trackEvent(c *gin.Context) {
	var req dto.TrackEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		telemetry.EventsRejected.Inc()
		h.log.Warn("Invalid event payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Error:   "Invalid event data",
			Details: dto.DetailsFromBindingError(err),
		})
		return
	}

	if details := req.Validate(); len(details) > 0 {
		telemetry.EventsRejected.Inc()
		h.log.Warn("Event payload failed validation",
			zap.String("event_name", req.EventData.Name),
			zap.Int("violations", len(details)))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Error:   "Invalid event data",
			Details: details,
		})
		return
	}

	eventID, err := h.eventService.TrackEvent(&req)
	if err != nil {
		h.log.Error("Failed to process event",
			zap.Error(err),
			zap.String("event_name", req.EventData.Name),
			zap.String("shop_domain", req.ShopDomain))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Success: false,
			Error:   "Internal server error",
		})
		return
	}

	c.JSON(http.StatusCreated, dto.TrackEventResponse{
		Success: true,
		EventID: eventID,
		Message: "Event received successfully",
	})
}

// listEvents handles GET /api/events
func (h *Handler) listEvents(c *gin.Context) {
	var req dto.ListEventsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid events query", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Error:   "Invalid query parameters",
			Details: dto.DetailsFromBindingError(err),
		})
		return
	}

	events, err := h.eventService.ListEvents(&req)
	if err != nil {
		h.log.Error("Failed to fetch events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Success: false,
			Error:   "Failed to fetch events",
		})
		return
	}

	c.JSON(http.StatusOK, dto.ListEventsResponse{
		Success: true,
		Events:  events,
		Pagination: dto.Pagination{
			Limit:   req.Limit,
			Offset:  req.Offset,
			HasMore: len(events) == req.Limit,
		},
	})
}

// getEvent handles GET /api/events/:id
func (h *Handler) getEvent(c *gin.Context) {
	id := c.Param("id")

	event, ok := h.eventService.GetEvent(id)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Success: false,
			Error:   "Event not found",
		})
		return
	}

	c.JSON(http.StatusOK, dto.GetEventResponse{
		Success: true,
		Event:   event,
	})
}

// getMetrics handles GET /api/metrics
func (h *Handler) getMetrics(c *gin.Context) {
	var req dto.GetMetricsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid metrics query", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Error:   "Invalid query parameters",
			Details: dto.DetailsFromBindingError(err),
		})
		return
	}

	metrics, err := h.eventService.GetMetrics(&req)
	if err != nil {
		h.log.Error("Failed to compute metrics",
			zap.Error(err),
			zap.String("timeframe", req.Timeframe),
			zap.String("shop_domain", req.ShopDomain))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Success: false,
			Error:   "Failed to fetch metrics",
		})
		return
	}

	c.JSON(http.StatusOK, dto.GetMetricsResponse{
		Success:     true,
		Metrics:     metrics,
		Timeframe:   req.Timeframe,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// healthCheck handles GET /api/health
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		Success:   true,
		Message:   "PixelProbe analytics API is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// reset handles POST /api/reset
func (h *Handler) reset(c *gin.Context) {
	if err := h.eventService.Reset(); err != nil {
		h.log.Error("Failed to reset event store", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Success: false,
			Error:   "Failed to reset data",
		})
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{
		Success:   true,
		Message:   "All events and metrics have been reset",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// serveWS upgrades GET /ws to the live event stream.
func (h *Handler) serveWS(c *gin.Context) {
	h.hub.HandleWS(c.Writer, c.Request)
}
