package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
)

// Проверка, что HTTPTracker удовлетворяет интерфейсу AnalyticsTracker.
var _ ports.AnalyticsTracker = (*HTTPTracker)(nil)

// Options — параметры повторов. Нулевые значения заменяются дефолтами.
type Options struct {
	MaxAttempts  int
	RetryInitial time.Duration
	RetryMax     time.Duration
}

// HTTPTracker — best-effort доставка событий аналитики по HTTP.
// Отправка повторяется ограниченное число раз с экспоненциальным backoff
// и equal-jitter; после исчерпания попыток возвращается
// domain.ErrAnalyticsDelivery — сбой никогда не маскируется под успех.
type HTTPTracker struct {
	client   *http.Client
	endpoint string

	maxAttempts  int
	retryInitial time.Duration
	retryMax     time.Duration

	mu         sync.Mutex
	jitterRand *rand.Rand
}

// NewHTTPTracker — конструктор.
func NewHTTPTracker(endpoint string, timeout time.Duration, opts Options) *HTTPTracker {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryInitial <= 0 {
		opts.RetryInitial = 200 * time.Millisecond
	}
	if opts.RetryMax <= 0 {
		opts.RetryMax = 5 * time.Second
	}
	return &HTTPTracker{
		client:       &http.Client{Timeout: timeout},
		endpoint:     endpoint,
		maxAttempts:  opts.MaxAttempts,
		retryInitial: opts.RetryInitial,
		retryMax:     opts.RetryMax,
		jitterRand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Track — отправить событие. Любой ответ 2xx считается доставкой;
// остальные статусы и сетевые ошибки ведут к повтору.
func (t *HTTPTracker) Track(ctx context.Context, event domain.AnalyticsEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", domain.ErrAnalyticsDelivery, err)
	}

	retry := t.retryInitial
	var lastErr error

	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		lastErr = t.send(ctx, payload)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		if attempt == t.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrAnalyticsDelivery, ctx.Err())
		case <-time.After(t.withJitterEqual(retry)):
		}
		retry = t.nextBackoff(retry)
	}

	return fmt.Errorf("%w: after %d attempts: %v", domain.ErrAnalyticsDelivery, t.maxAttempts, lastErr)
}

func (t *HTTPTracker) send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// nextBackoff — следующее время ожидания повтора с учётом retryMax.
func (t *HTTPTracker) nextBackoff(current time.Duration) time.Duration {
	current *= 2
	if current > t.retryMax {
		return t.retryMax
	}
	return current
}

// withJitterEqual — половина задержки фиксирована, вторая половина случайная.
// Доступ к jitterRand под мьютексом: Track зовут из нескольких горутин.
func (t *HTTPTracker) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2

	t.mu.Lock()
	jitter := time.Duration(t.jitterRand.Int63n(int64(d-half) + 1))
	t.mu.Unlock()

	return half + jitter
}
