package usecase

import (
	"context"
	"time"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
)

// Проверка, что процессор закрывает и читающий порт.
var _ ports.OrderReadService = (*OrderProcessor)(nil)

// GetOrder — получить заказ по UID: сначала из кэша, при промахе — из БД с записью в кэш.
// Возвращает (*Order, nil) или (nil, nil), если записи нет.
func (p *OrderProcessor) GetOrder(ctx context.Context, orderUID string) (*domain.Order, error) {
	if p.cache != nil {
		if order, found := p.cache.Get(ctx, orderUID); found {
			p.log.Infof(ctx, "cache hit for order=%s", orderUID)
			return order, nil
		}
		p.log.Infof(ctx, "cache miss for order=%s", orderUID)
	}

	start := time.Now()
	order, err := p.repo.GetByUID(ctx, orderUID)
	if err != nil {
		p.log.Errorf(ctx, "repo.GetByUID failed order_uid=%s err=%v", orderUID, err)
		return nil, err
	}

	if order != nil && p.cache != nil {
		if setErr := p.cache.Set(ctx, order); setErr != nil {
			p.log.Warnf(ctx, "cache.Set failed order_uid=%s err=%v", orderUID, setErr)
		}
	}

	p.log.Infof(ctx, "db fetch order_uid=%s took=%s", orderUID, time.Since(start))
	return order, nil
}

// OrdersByCustomer — проксирование в репозиторий (пагинация уже валидирована на верхнем уровне).
func (p *OrderProcessor) OrdersByCustomer(
	ctx context.Context,
	customerID string,
	limit, offset int,
) ([]*domain.Order, error) {
	return p.repo.ListByCustomer(ctx, customerID, limit, offset)
}

// WarmUpCache — прогрев кэша последними N заказами из БД.
// Если n <= 0 или кэш не задан, прогрев не выполняется (но это не ошибка).
func (p *OrderProcessor) WarmUpCache(ctx context.Context, n int) error {
	if p.cache == nil {
		return nil
	}
	if n <= 0 {
		p.log.Warnf(ctx, "cache warm-up skipped: n <= 0 (n=%d)", n)
		return nil
	}

	start := time.Now()
	list, err := p.repo.LastN(ctx, n)
	if err != nil {
		p.log.Errorf(ctx, "repo.LastN failed n=%d err=%v", n, err)
		return err
	}
	if warmUpErr := p.cache.WarmUp(ctx, list); warmUpErr != nil {
		p.log.Warnf(ctx, "cache.WarmUp failed err=%v", warmUpErr)
	}
	p.log.Infof(ctx, "cache warmed with %d orders in %s", len(list), time.Since(start))
	return nil
}
