package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

// ErrInvalidOrder — базовая (sentinel error) ошибка валидации.
var ErrInvalidOrder = errors.New("order validation failed")

// OrderValidator — структура для валидации заказа.
type OrderValidator struct{}

// NewOrderValidator — конструктор OrderValidator.
// Validate возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewOrderValidator() *OrderValidator { return &OrderValidator{} }

// Validate — проверяет корректность полей заказа до начала обработки.
func (v *OrderValidator) Validate(_ context.Context, order *domain.Order) error {
	if err := v.validateCore(order); err != nil {
		return err
	}
	return v.validateItems(order.Items)
}

// validateCore — валидация основных полей заказа.
func (v *OrderValidator) validateCore(order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("%w: заказ не может быть nil", ErrInvalidOrder)
	}
	if order.OrderUID == "" {
		return fmt.Errorf("%w: order_uid обязателен", ErrInvalidOrder)
	}
	if order.CustomerID == "" {
		return fmt.Errorf("%w: customer_id обязателен", ErrInvalidOrder)
	}
	if order.PaymentMethod != "" && !domain.KnownPaymentMethod(order.PaymentMethod) {
		return fmt.Errorf("%w: неизвестный payment_method %q", ErrInvalidOrder, order.PaymentMethod)
	}
	if order.Status != "" && order.Status != domain.StatusPending {
		return fmt.Errorf("%w: заказ уже в статусе %q", ErrInvalidOrder, order.Status)
	}
	return nil
}

// Валидация позиций: список непустой, цена неотрицательна, количество >= 1.
func (v *OrderValidator) validateItems(items []domain.Item) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items не могут быть пустыми", ErrInvalidOrder)
	}
	for i, item := range items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: items[%d].product_id обязателен", ErrInvalidOrder, i)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: items[%d].price должен быть неотрицательным", ErrInvalidOrder, i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: items[%d].quantity должен быть >= 1", ErrInvalidOrder, i)
		}
	}
	return nil
}
