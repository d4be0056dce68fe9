package payment

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/wb_l2/config"
	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
)

var _ ports.PaymentGateway = (*Selector)(nil)

// Selector — диспетчеризация по способу оплаты. Таблица вариантов
// собирается один раз при конструировании; во время обработки нет
// ни ветвления по типам, ни создания шлюзов.
type Selector struct {
	gateways map[string]ports.PaymentGateway
}

func NewSelector(gateways map[string]ports.PaymentGateway) *Selector {
	copied := make(map[string]ports.PaymentGateway, len(gateways))
	for method, gw := range gateways {
		copied[method] = gw
	}
	return &Selector{gateways: copied}
}

// FromConfig — стандартный набор: credit-card и wallet через HTTP-шлюз,
// promo без списания средств.
func FromConfig(cfg config.Payment) *Selector {
	httpGw := NewHTTPGateway(cfg.Endpoint, cfg.Timeout)
	return NewSelector(map[string]ports.PaymentGateway{
		domain.MethodCreditCard: httpGw,
		domain.MethodWallet:     httpGw,
		domain.MethodPromo:      NewZeroCharge(),
	})
}

func (s *Selector) Charge(ctx context.Context, req domain.ChargeRequest) (domain.PaymentResult, error) {
	gw, ok := s.gateways[req.Method]
	if !ok {
		return domain.PaymentResult{}, fmt.Errorf("%w: способ оплаты %q не поддерживается", domain.ErrPaymentDeclined, req.Method)
	}
	return gw.Charge(ctx, req)
}
