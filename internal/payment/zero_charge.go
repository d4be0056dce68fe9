package payment

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
	"github.com/google/uuid"
)

var _ ports.PaymentGateway = (*ZeroCharge)(nil)

// ZeroCharge — шлюз для промо-заказов: средства не списываются,
// транзакция генерируется локально.
type ZeroCharge struct{}

func NewZeroCharge() *ZeroCharge { return &ZeroCharge{} }

func (*ZeroCharge) Charge(_ context.Context, req domain.ChargeRequest) (domain.PaymentResult, error) {
	if req.Amount.IsNegative() {
		return domain.PaymentResult{}, fmt.Errorf("%w: отрицательная сумма %s", domain.ErrPaymentDeclined, req.Amount)
	}
	return domain.PaymentResult{
		TransactionID: "promo-" + uuid.New().String(),
		Status:        domain.PaymentCaptured,
	}, nil
}
