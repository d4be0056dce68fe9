package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
)

// Проверка, что KafkaNotifier удовлетворяет интерфейсу NotificationService.
var _ ports.NotificationService = (*KafkaNotifier)(nil)

// messageWriter — минимальный контракт над kafka.Writer для подмены в тестах.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// notification — формат сообщения в топике уведомлений.
type notification struct {
	CustomerID string    `json:"customer_id"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sent_at"`
}

// KafkaNotifier — подтверждения клиентам через топик уведомлений.
// Доставку конечному получателю выполняет отдельный сервис-потребитель.
type KafkaNotifier struct {
	writer messageWriter
}

// NewKafkaNotifier — конструктор поверх kafka.Writer с подтверждением от всех реплик.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.LeastBytes{},
		},
	}
}

// Notify — отправить подтверждение; ключ сообщения — customer_id,
// чтобы уведомления одного клиента попадали в одну партицию по порядку.
func (n *KafkaNotifier) Notify(ctx context.Context, customerID, message string) error {
	payload, err := json.Marshal(notification{
		CustomerID: customerID,
		Message:    message,
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", domain.ErrNotificationFailed, err)
	}

	if err := n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(customerID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}
	return nil
}

// Close — закрывает writer при остановке приложения.
func (n *KafkaNotifier) Close() error { return n.writer.Close() }
