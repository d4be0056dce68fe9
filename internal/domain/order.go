package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item — позиция заказа.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`    // цена за единицу, >= 0
	Quantity  int             `json:"quantity"` // количество, >= 1
}

// LineTotal — стоимость позиции (цена * количество).
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order — заказ. Создаётся вызывающей стороной; поля Total, Discount,
// TransactionID и Status заполняет только процессор во время обработки.
// После достижения терминального статуса заказ больше не изменяется.
type Order struct {
	OrderUID      string          `json:"order_uid"`
	CustomerID    string          `json:"customer_id"`
	PaymentMethod string          `json:"payment_method"`       // credit-card | wallet | promo; пусто -> дефолт из конфигурации
	PromoCode     string          `json:"promo_code,omitempty"` // используется промо-политикой скидок
	Items         []Item          `json:"items"`
	Discount      decimal.Decimal `json:"discount"` // производное, >= 0
	Total         decimal.Decimal `json:"total"`    // производное: subtotal - discount, >= 0
	TransactionID string          `json:"transaction_id,omitempty"`
	Status        Status          `json:"status"`
	DateCreated   time.Time       `json:"date_created"`
}

// Subtotal — сумма всех позиций до скидки.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}
