package domain

import "fmt"

// Status — этап жизненного цикла заказа.
type Status string

const (
	StatusPending    Status = "pending"
	StatusPriced     Status = "priced"
	StatusDiscounted Status = "discounted"
	StatusPaid       Status = "paid"
	StatusRecorded   Status = "recorded"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// statusRank — порядок статусов; переходы разрешены только вперёд.
var statusRank = map[Status]int{
	StatusPending:    0,
	StatusPriced:     1,
	StatusDiscounted: 2,
	StatusPaid:       3,
	StatusRecorded:   4,
	StatusCompleted:  5,
}

// Terminal — достигнут ли терминальный статус (completed или failed).
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// AdvanceTo — монотонный переход к следующему статусу.
// Возврат назад, повторный вход и переходы из терминального статуса запрещены.
func (o *Order) AdvanceTo(next Status) error {
	if o.Status.Terminal() {
		return fmt.Errorf("order %s: status %s is terminal", o.OrderUID, o.Status)
	}
	if next == StatusFailed {
		o.Status = StatusFailed
		return nil
	}
	from, ok := statusRank[o.Status]
	if !ok {
		// Пустой статус трактуем как pending.
		from = statusRank[StatusPending]
	}
	to, ok := statusRank[next]
	if !ok {
		return fmt.Errorf("order %s: unknown status %q", o.OrderUID, next)
	}
	if to <= from && !(o.Status == "" && next == StatusPending) {
		return fmt.Errorf("order %s: transition %s -> %s is not monotonic", o.OrderUID, o.Status, next)
	}
	o.Status = next
	return nil
}

// Fail — перевод заказа в терминальный статус failed.
// Из терминального статуса не выполняется.
func (o *Order) Fail() {
	if !o.Status.Terminal() {
		o.Status = StatusFailed
	}
}
