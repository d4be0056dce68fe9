package discount

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/wb_l2/config"
	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
	"github.com/shopspring/decimal"
)

// Проверки реализации интерфейса DiscountPolicy.
var (
	_ ports.DiscountPolicy = (*None)(nil)
	_ ports.DiscountPolicy = (*Percentage)(nil)
	_ ports.DiscountPolicy = (*FixedAmount)(nil)
	_ ports.DiscountPolicy = (*PromoCode)(nil)
)

var hundred = decimal.NewFromInt(100)

// None — скидка отсутствует.
type None struct{}

func NewNone() *None { return &None{} }

func (*None) Apply(_ context.Context, _ *domain.Order) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// Percentage — процент от суммы заказа.
type Percentage struct {
	percent decimal.Decimal
}

// NewPercentage — конструктор. Процент за пределами [0,100] — ошибка конфигурации.
func NewPercentage(percent float64) (*Percentage, error) {
	if percent < 0 || percent > 100 {
		return nil, fmt.Errorf("%w: percent %v вне диапазона [0,100]", domain.ErrInvalidPolicyConfig, percent)
	}
	return &Percentage{percent: decimal.NewFromFloat(percent)}, nil
}

// Apply — subtotal * percent / 100, округление до 2 знаков (банковское не требуется).
func (p *Percentage) Apply(_ context.Context, order *domain.Order) (decimal.Decimal, error) {
	subtotal := order.Subtotal()
	return subtotal.Mul(p.percent).Div(hundred).Round(2), nil
}

// FixedAmount — фиксированная сумма; не может превышать subtotal.
type FixedAmount struct {
	amount decimal.Decimal
}

func NewFixedAmount(amount decimal.Decimal) (*FixedAmount, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: фиксированная скидка %s отрицательна", domain.ErrInvalidPolicyConfig, amount)
	}
	return &FixedAmount{amount: amount}, nil
}

func (f *FixedAmount) Apply(_ context.Context, order *domain.Order) (decimal.Decimal, error) {
	subtotal := order.Subtotal()
	if f.amount.GreaterThan(subtotal) {
		// скидка не больше стоимости заказа
		return subtotal, nil
	}
	return f.amount, nil
}

// PromoCode — процент по промокоду заказа; неизвестный или пустой код — без скидки.
type PromoCode struct {
	rates map[string]decimal.Decimal
}

func NewPromoCode(rates map[string]float64) (*PromoCode, error) {
	parsed := make(map[string]decimal.Decimal, len(rates))
	for code, percent := range rates {
		if percent < 0 || percent > 100 {
			return nil, fmt.Errorf("%w: промокод %q имеет процент %v вне диапазона [0,100]",
				domain.ErrInvalidPolicyConfig, code, percent)
		}
		parsed[code] = decimal.NewFromFloat(percent)
	}
	return &PromoCode{rates: parsed}, nil
}

func (p *PromoCode) Apply(_ context.Context, order *domain.Order) (decimal.Decimal, error) {
	rate, ok := p.rates[order.PromoCode]
	if !ok {
		return decimal.Zero, nil
	}
	return order.Subtotal().Mul(rate).Div(hundred).Round(2), nil
}

// FromConfig — выбор политики один раз при сборке приложения.
func FromConfig(cfg config.Discount) (ports.DiscountPolicy, error) {
	switch cfg.Policy {
	case "", "none":
		return NewNone(), nil
	case "percentage":
		return NewPercentage(cfg.Percent)
	case "fixed":
		amount, err := decimal.NewFromString(cfg.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: сумма fixed-скидки %q не разбирается: %v",
				domain.ErrInvalidPolicyConfig, cfg.Amount, err)
		}
		return NewFixedAmount(amount)
	case "promo":
		return NewPromoCode(cfg.PromoRates)
	default:
		return nil, fmt.Errorf("%w: неизвестная политика %q", domain.ErrInvalidPolicyConfig, cfg.Policy)
	}
}
