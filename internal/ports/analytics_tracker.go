package ports

import (
	"context"

	"github.com/Gunvolt24/wb_l2/internal/domain"
)

// AnalyticsTracker — best-effort доставка событий аналитики.
// Реализация повторяет отправку ограниченное число раз; после исчерпания
// попыток возвращает domain.ErrAnalyticsDelivery — никогда не «успех».
type AnalyticsTracker interface {
	Track(ctx context.Context, event domain.AnalyticsEvent) error
}
