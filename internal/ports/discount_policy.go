package ports

import (
	"context"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/shopspring/decimal"
)

// DiscountPolicy — стратегия расчёта скидки. Конкретный вариант
// (none / percentage / fixed / promo) выбирается при сборке приложения,
// а не ветвлением по типу во время обработки.
// Реализация не имеет побочных эффектов; результат лежит в [0, subtotal].
type DiscountPolicy interface {
	// Apply — вернуть размер скидки для заказа с непустым списком позиций.
	// Возвращает domain.ErrInvalidPolicyConfig при некорректной конфигурации.
	Apply(ctx context.Context, order *domain.Order) (decimal.Decimal, error)
}
