package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/pkg/httpx"
	"github.com/Gunvolt24/wb_l2/pkg/metrics"
	"github.com/Gunvolt24/wb_l2/pkg/validate"
)

// requestContext — контекст запроса, ограниченный handlerTimeout (0 — без лимита).
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx := c.Request.Context()
	if h.handlerTimeout > 0 {
		return context.WithTimeout(ctx, h.handlerTimeout)
	}
	return ctx, func() {}
}

// processOrder — принять заказ и провести его через конвейер.
// Тело ответа в любом исходе — ProcessResult: клиент видит статус,
// transaction_id и все ошибки этапов, включая нефатальные.
func (h *Handler) processOrder(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var order domain.Order
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}

	result, err := h.service.Process(ctx, &order)
	if err != nil {
		c.JSON(statusForProcessError(err), result)
		return
	}

	metrics.OrdersProcessed.WithLabelValues("http").Inc()
	c.JSON(http.StatusOK, result)
}

// statusForProcessError — HTTP-статус по виду фатальной ошибки конвейера.
func statusForProcessError(err error) int {
	switch {
	case errors.Is(err, validate.ErrInvalidOrder):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return http.StatusServiceUnavailable
	default:
		// конфигурация скидки, сверка, хранилище
		return http.StatusInternalServerError
	}
}

func (h *Handler) getOrderByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty id"})
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	order, err := h.service.GetOrder(ctx, id)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "GetOrder failed id=%s err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) listOrdersByCustomer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty customer id"})
		return
	}

	// limit/offset с безопасными дефолтами и границами
	limit, offset := httpx.ParseLimitOffset(c, 20, 100)

	ctx, cancel := h.requestContext(c)
	defer cancel()

	orders, err := h.service.OrdersByCustomer(ctx, id, limit, offset)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "OrdersByCustomer failed id=%s err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, orders)
}
