package rest

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
	"github.com/Gunvolt24/wb_l2/pkg/httpx"
)

// orderService — всё, что транспорту нужно от прикладного слоя.
type orderService interface {
	ports.OrderReadService
	Process(ctx context.Context, order *domain.Order) (*domain.ProcessResult, error)
}

type Handler struct {
	service orderService
	log     ports.Logger

	// handlerTimeout ограничивает обработку одного запроса; 0 — без лимита.
	handlerTimeout time.Duration
}

func NewHandler(service orderService, log ports.Logger, handlerTimeout time.Duration) *Handler {
	return &Handler{service: service, log: log, handlerTimeout: handlerTimeout}
}

// NewRouter — маршруты и middleware. Если serviceName непустой,
// включается otelgin-трассировка входящих запросов.
func NewRouter(h *Handler, serviceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if serviceName != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	// единообразные JSON-ответы на неизвестный маршрут и метод
	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(405, gin.H{"error": "method not allowed"})
	})

	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/order", h.processOrder)
	r.GET("/order/:id", h.getOrderByID)
	r.GET("/customer/:id/orders", h.listOrdersByCustomer)

	return r
}
