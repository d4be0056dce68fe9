package ports

import (
	"context"

	"github.com/Gunvolt24/wb_l2/internal/domain"
)

// PaymentGateway — списание средств через внешнюю платёжную систему.
type PaymentGateway interface {
	// Charge — списать req.Amount у req.CustomerID способом req.Method.
	// Возвращает domain.ErrPaymentDeclined (постоянная ошибка) или
	// domain.ErrGatewayUnavailable (временная, можно повторить).
	Charge(ctx context.Context, req domain.ChargeRequest) (domain.PaymentResult, error)
}
