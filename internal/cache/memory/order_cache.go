package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
	"github.com/Gunvolt24/wb_l2/pkg/metrics"
)

// Проверка, что LRUCacheTTL удовлетворяет интерфейсу OrderCache.
var _ ports.OrderCache = (*LRUCacheTTL)(nil)

type entry struct {
	id        string
	order     *domain.Order
	expiresAt time.Time
}

// LRUCacheTTL — потокобезопасный LRU-кэш заказов с TTL.
// Хранит и возвращает копии: внешние изменения не задевают данные внутри.
type LRUCacheTTL struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

func NewLRUCacheTTL(capacity int, ttl time.Duration) *LRUCacheTTL {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCacheTTL{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

func (c *LRUCacheTTL) Get(_ context.Context, id string) (*domain.Order, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[id]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(len(c.index)))
		return nil, false
	}
	c.ll.MoveToFront(elem)

	// скользящий TTL: обращение продлевает жизнь записи
	if c.ttl > 0 {
		ent.expiresAt = c.expiryFrom(now)
	}

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneOrder(ent.order), true
}

func (c *LRUCacheTTL) Set(_ context.Context, order *domain.Order) error {
	if order == nil || order.OrderUID == "" {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[order.OrderUID]; ok {
		ent := elem.Value.(*entry)
		ent.order = cloneOrder(order)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry{
		id:        order.OrderUID,
		order:     cloneOrder(order),
		expiresAt: c.expiryFrom(now),
	})
	c.index[order.OrderUID] = elem
	metrics.CacheSize.Set(float64(len(c.index)))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	return nil
}

func (c *LRUCacheTTL) WarmUp(ctx context.Context, orders []*domain.Order) error {
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Set(ctx, order); err != nil {
			return err
		}
	}
	return nil
}
