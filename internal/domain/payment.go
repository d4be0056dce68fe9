package domain

import "github.com/shopspring/decimal"

// Способы оплаты, известные системе.
const (
	MethodCreditCard = "credit-card"
	MethodWallet     = "wallet"
	MethodPromo      = "promo"
)

// KnownPaymentMethod — входит ли метод в поддерживаемый набор.
func KnownPaymentMethod(method string) bool {
	switch method {
	case MethodCreditCard, MethodWallet, MethodPromo:
		return true
	}
	return false
}

// ChargeRequest — запрос на списание средств.
// OrderUID служит ключом идемпотентности: повторное списание по тому же
// заказу не должно приводить к повторному движению средств.
type ChargeRequest struct {
	OrderUID   string          `json:"order_uid"`
	CustomerID string          `json:"customer_id"`
	Method     string          `json:"method"`
	Amount     decimal.Decimal `json:"amount"`
}

// PaymentResult — результат успешного списания.
type PaymentResult struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// PaymentCaptured — статус успешно проведённого платежа.
const PaymentCaptured = "captured"
