package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Gunvolt24/wb_l2/internal/domain"
)

// OrderOption — настройка заказа из фабрики.
type OrderOption func(*domain.Order)

// WithItems — заказ с n позициями (цена 10.00, количество 1 у каждой).
func WithItems(n int) OrderOption {
	return func(o *domain.Order) {
		items := make([]domain.Item, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, domain.Item{
				ProductID: fmt.Sprintf("prod-%d", i+1),
				Name:      fmt.Sprintf("Товар %d", i+1),
				Price:     decimal.NewFromInt(10),
				Quantity:  1,
			})
		}
		o.Items = items
	}
}

// WithCustomer — заказ от конкретного клиента.
func WithCustomer(id string) OrderOption {
	return func(o *domain.Order) { o.CustomerID = id }
}

// WithPromo — заказ с промокодом.
func WithPromo(code string) OrderOption {
	return func(o *domain.Order) { o.PromoCode = code }
}

// MakeOrder — валидный уникальный заказ для тестов.
// По умолчанию: одна позиция 10.00 x 1, оплата картой, статус pending.
func MakeOrder(opts ...OrderOption) domain.Order {
	order := domain.Order{
		OrderUID:      "ord-" + uuid.NewString(),
		CustomerID:    "cust-" + uuid.NewString()[:8],
		PaymentMethod: domain.MethodCreditCard,
		Items: []domain.Item{{
			ProductID: "prod-1",
			Name:      "Товар 1",
			Price:     decimal.NewFromInt(10),
			Quantity:  1,
		}},
		Status:      domain.StatusPending,
		DateCreated: time.Now().UTC().Truncate(time.Microsecond), // точность timestamptz
	}
	for _, opt := range opts {
		opt(&order)
	}
	return order
}
