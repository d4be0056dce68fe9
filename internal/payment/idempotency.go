package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
	"github.com/Gunvolt24/wb_l2/pkg/metrics"
)

// IdempotencyStore — журнал успешных списаний по ключу идемпотентности.
type IdempotencyStore interface {
	// GetTransaction — transaction_id прошлого успешного списания; ("", false, nil) при отсутствии.
	GetTransaction(ctx context.Context, key string) (string, bool, error)

	// PutTransaction — зафиксировать успешное списание.
	PutTransaction(ctx context.Context, key, transactionID string) error
}

var _ ports.PaymentGateway = (*Idempotent)(nil)

// Idempotent — обёртка над шлюзом: повторное списание по тому же заказу
// возвращает прежний transaction_id без обращения к платёжной системе.
// Ключ идемпотентности — order_uid (charge:<uid>).
type Idempotent struct {
	inner ports.PaymentGateway
	store IdempotencyStore
	log   ports.Logger
}

func NewIdempotent(inner ports.PaymentGateway, store IdempotencyStore, log ports.Logger) *Idempotent {
	return &Idempotent{inner: inner, store: store, log: log}
}

func (d *Idempotent) Charge(ctx context.Context, req domain.ChargeRequest) (domain.PaymentResult, error) {
	key := "charge:" + req.OrderUID

	txID, found, err := d.store.GetTransaction(ctx, key)
	if err != nil {
		// Хранилище недоступно — продолжаем: у самого шлюза тоже есть Idempotency-Key.
		d.log.Warnf(ctx, "idempotency lookup failed key=%s err=%v", key, err)
	}
	if found {
		metrics.ChargeOutcomes.WithLabelValues(req.Method, "replayed").Inc()
		d.log.Infof(ctx, "charge replayed order_uid=%s tx=%s", req.OrderUID, txID)
		return domain.PaymentResult{TransactionID: txID, Status: domain.PaymentCaptured}, nil
	}

	result, err := d.inner.Charge(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentDeclined):
			metrics.ChargeOutcomes.WithLabelValues(req.Method, "declined").Inc()
		default:
			metrics.ChargeOutcomes.WithLabelValues(req.Method, "unavailable").Inc()
		}
		return domain.PaymentResult{}, err
	}

	if putErr := d.store.PutTransaction(ctx, key, result.TransactionID); putErr != nil {
		d.log.Warnf(ctx, "idempotency store failed key=%s tx=%s err=%v", key, result.TransactionID, putErr)
	}
	metrics.ChargeOutcomes.WithLabelValues(req.Method, "captured").Inc()
	return result, nil
}

// MemoryStore — in-memory реализация для локальной разработки и тестов.
type MemoryStore struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]memEntry
}

type memEntry struct {
	transactionID string
	expiresAt     time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memEntry)}
}

func (s *MemoryStore) GetTransaction(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if s.ttl > 0 && time.Now().After(ent.expiresAt) {
		return "", false, nil
	}
	return ent.transactionID, true, nil
}

func (s *MemoryStore) PutTransaction(_ context.Context, key, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memEntry{transactionID: transactionID, expiresAt: time.Now().Add(s.ttl)}
	return nil
}
