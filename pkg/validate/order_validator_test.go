package validate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/pkg/validate"
	"github.com/shopspring/decimal"
)

func validOrder() *domain.Order {
	return &domain.Order{
		OrderUID:      "order-1",
		CustomerID:    "cust-1",
		PaymentMethod: domain.MethodCreditCard,
		Items: []domain.Item{
			{ProductID: "A", Name: "Item A", Price: decimal.NewFromInt(10), Quantity: 2},
			{ProductID: "B", Name: "Item B", Price: decimal.NewFromInt(5), Quantity: 1},
		},
	}
}

func TestOrderValidator_Validate(t *testing.T) {
	v := validate.NewOrderValidator()
	ctx := context.Background()

	t.Run("valid order", func(t *testing.T) {
		o := validOrder()
		if err := v.Validate(ctx, o); err != nil {
			t.Fatalf("expected valid order, got: %v", err)
		}
	})

	type testCase struct {
		name      string
		makeOrder func() *domain.Order
		msg       string
	}

	cases := []testCase{
		{
			name:      "nil order",
			makeOrder: func() *domain.Order { return nil },
			msg:       "заказ не может быть nil",
		},
		{
			name: "empty order_uid",
			makeOrder: func() *domain.Order {
				o := validOrder()
				o.OrderUID = ""
				return o
			},
			msg: "order_uid обязателен",
		},
		{
			name: "empty customer_id",
			makeOrder: func() *domain.Order {
				o := validOrder()
				o.CustomerID = ""
				return o
			},
			msg: "customer_id обязателен",
		},
		{
			name: "unknown payment method",
			makeOrder: func() *domain.Order {
				o := validOrder()
				o.PaymentMethod = "barter"
				return o
			},
			msg: "неизвестный payment_method",
		},
		{
			name: "already processed",
			makeOrder: func() *domain.Order {
				o := validOrder()
				o.Status = domain.StatusPaid
				return o
			},
			msg: "уже в статусе",
		},
		{
			name: "no items",
			makeOrder: func() *domain.Order {
				o := validOrder()
				o.Items = nil
				return o
			},
			msg: "items не могут быть пустыми",
		},
		{
			name: "negative price",
			makeOrder: func() *domain.Order {
				o := validOrder()
				o.Items[0].Price = decimal.NewFromInt(-1)
				return o
			},
			msg: "price должен быть неотрицательным",
		},
		{
			name: "zero quantity",
			makeOrder: func() *domain.Order {
				o := validOrder()
				o.Items[1].Quantity = 0
				return o
			},
			msg: "quantity должен быть >= 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(ctx, tc.makeOrder())
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !errors.Is(err, validate.ErrInvalidOrder) {
				t.Fatalf("want wrapped ErrInvalidOrder, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("want message %q, got %q", tc.msg, err.Error())
			}
		})
	}
}
