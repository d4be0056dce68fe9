package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/pkg/metrics"
	"github.com/Gunvolt24/wb_l2/pkg/validate"
	"github.com/segmentio/kafka-go"
)

// permanentFailure — ошибки, исход которых не изменится при повторной доставке:
// битый JSON, невалидный заказ, отказ в оплате, некорректная конфигурация скидки.
func permanentFailure(err error) bool {
	return errors.Is(err, validate.ErrInvalidOrder) ||
		errors.Is(err, domain.ErrPaymentDeclined) ||
		errors.Is(err, domain.ErrInvalidPolicyConfig)
}

// handleMessage обрабатывает одно сообщение и определяет, нужно ли коммитить оффсет.
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	ctxTimeout, cancel := context.WithTimeout(ctx, c.processTimeout)
	result, err := c.service.ProcessFromMessage(ctxTimeout, msg.Value)
	cancel()

	switch {
	case err == nil:
		// Заказ проведён (возможно, с некритичными ошибками после оплаты —
		// они уже разобраны и залогированы процессором). Коммитим оффсет.
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		if result != nil && len(result.Errors) > 0 {
			c.log.Warnf(ctx, "order %s completed with %d post-payment errors", result.OrderUID, len(result.Errors))
		}
		return true
	case permanentFailure(err):
		// Постоянная ошибка: логируем и коммитим, чтобы не обрабатывать повторно
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "permanent failure offset=%d: %v (skipped)", msg.Offset, err)
		return true
	default:
		// Временная ошибка (шлюз/БД/сеть/таймаут): НЕ коммитим — будем обрабатывать повторно.
		// Повторное списание безопасно: шлюз идемпотентен по order_uid.
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "process failed offset=%d: %v (will retry without commit)", msg.Offset, err)
		return false
	}
}

// commitSafely пытается закоммитить оффсет и залогировать ошибку.
func (c *Consumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	if commitErr := c.reader.CommitMessages(ctx, *msg); commitErr != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, commitErr)
	}
}

// sleepWithBackoff ждёт backoff или останавливается по контексту.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// nextBackoff возвращает следующее время ожидания повтора с учётом retryMax.
func (c *Consumer) nextBackoff(current time.Duration) time.Duration {
	current *= 2
	if current > c.retryMax {
		return c.retryMax
	}
	return current
}

// withJitterEqual — умеренная случайность: половина задержки фиксирована,
// вторая половина — случайная. Баланс между стабильностью и случайностью.
func (c *Consumer) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	jitter := time.Duration(c.jitterRand.Int63n(int64(d-half) + 1))
	return half + jitter
}

// minDuration возвращает минимальное время из двух.
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
