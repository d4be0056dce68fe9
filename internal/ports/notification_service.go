package ports

import "context"

// NotificationService — отправка подтверждения клиенту.
// Сбой доставки не фатален для заказа, но обязан быть виден в результате:
// молча проглатывать ошибку и логировать успех запрещено.
type NotificationService interface {
	Notify(ctx context.Context, customerID, message string) error
}
