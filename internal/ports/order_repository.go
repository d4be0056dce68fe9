package ports

import (
	"context"

	"github.com/Gunvolt24/wb_l2/internal/domain"
)

// OrderRepository — чистая абстракция хранилища без бизнес-логики.
type OrderRepository interface {
	// Save — транзакционно сохранить заказ; ошибки оборачиваются в domain.ErrPersistence.
	Save(ctx context.Context, order *domain.Order) error

	// GetByUID — заказ по UID; (nil, nil), если записи нет.
	GetByUID(ctx context.Context, orderUID string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error)
	LastN(ctx context.Context, n int) ([]*domain.Order, error)
}
