package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
)

// Проверка, что HTTPGateway удовлетворяет интерфейсу PaymentGateway.
var _ ports.PaymentGateway = (*HTTPGateway)(nil)

// HTTPGateway — клиент внешнего платёжного сервиса (credit-card, wallet).
// Протокол: POST {endpoint} c JSON-телом ChargeRequest, заголовок
// Idempotency-Key = order_uid. 2xx — успех, 402/422 — отказ, остальное —
// временная недоступность.
type HTTPGateway struct {
	client   *http.Client
	endpoint string
}

func NewHTTPGateway(endpoint string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPGateway{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

func (g *HTTPGateway) Charge(ctx context.Context, req domain.ChargeRequest) (domain.PaymentResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("%w: marshal request: %v", domain.ErrGatewayUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("%w: build request: %v", domain.ErrGatewayUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.OrderUID)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		// сетевые ошибки и таймауты — временная недоступность
		return domain.PaymentResult{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var result domain.PaymentResult
		if decErr := json.NewDecoder(resp.Body).Decode(&result); decErr != nil {
			return domain.PaymentResult{}, fmt.Errorf("%w: decode response: %v", domain.ErrGatewayUnavailable, decErr)
		}
		if result.TransactionID == "" {
			return domain.PaymentResult{}, fmt.Errorf("%w: empty transaction_id in response", domain.ErrGatewayUnavailable)
		}
		if result.Status == "" {
			result.Status = domain.PaymentCaptured
		}
		return result, nil

	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.PaymentResult{}, fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, strings.TrimSpace(string(reason)))

	default:
		return domain.PaymentResult{}, fmt.Errorf("%w: status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}
}
