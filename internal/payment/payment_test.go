package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gunvolt24/wb_l2/config"
	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func chargeReq(method string) domain.ChargeRequest {
	return domain.ChargeRequest{
		OrderUID:   "order-1",
		CustomerID: "cust-1",
		Method:     method,
		Amount:     decimal.RequireFromString("22.50"),
	}
}

func TestHTTPGateway_Captured(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "order-1", r.Header.Get("Idempotency-Key"))

		var req domain.ChargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "order-1", req.OrderUID)

		_ = json.NewEncoder(w).Encode(domain.PaymentResult{TransactionID: "tx-42", Status: domain.PaymentCaptured})
	}))
	defer srv.Close()

	gw := payment.NewHTTPGateway(srv.URL, time.Second)

	res, err := gw.Charge(context.Background(), chargeReq(domain.MethodCreditCard))
	require.NoError(t, err)
	assert.Equal(t, "tx-42", res.TransactionID)
	assert.Equal(t, domain.PaymentCaptured, res.Status)
}

func TestHTTPGateway_Declined(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "insufficient funds", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	gw := payment.NewHTTPGateway(srv.URL, time.Second)

	_, err := gw.Charge(context.Background(), chargeReq(domain.MethodCreditCard))
	require.ErrorIs(t, err, domain.ErrPaymentDeclined)
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestHTTPGateway_Unavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := payment.NewHTTPGateway(srv.URL, time.Second)

	_, err := gw.Charge(context.Background(), chargeReq(domain.MethodWallet))
	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestHTTPGateway_NetworkError(t *testing.T) {
	t.Parallel()

	// закрытый сервер -> connection refused
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	gw := payment.NewHTTPGateway(srv.URL, 100*time.Millisecond)

	_, err := gw.Charge(context.Background(), chargeReq(domain.MethodCreditCard))
	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestZeroCharge_NoFundsMovement(t *testing.T) {
	t.Parallel()

	gw := payment.NewZeroCharge()

	res, err := gw.Charge(context.Background(), chargeReq(domain.MethodPromo))
	require.NoError(t, err)
	assert.NotEmpty(t, res.TransactionID)
	assert.Equal(t, domain.PaymentCaptured, res.Status)
}

func TestSelector_UnknownMethodDeclined(t *testing.T) {
	t.Parallel()

	sel := payment.FromConfig(config.Payment{Endpoint: "http://unused", Timeout: time.Second})

	_, err := sel.Charge(context.Background(), chargeReq("barter"))
	require.ErrorIs(t, err, domain.ErrPaymentDeclined)
}

func TestSelector_PromoGoesToZeroCharge(t *testing.T) {
	t.Parallel()

	// endpoint не существует: promo не должен к нему обращаться
	sel := payment.FromConfig(config.Payment{Endpoint: "http://127.0.0.1:1", Timeout: 100 * time.Millisecond})

	res, err := sel.Charge(context.Background(), chargeReq(domain.MethodPromo))
	require.NoError(t, err)
	assert.NotEmpty(t, res.TransactionID)
}

func TestIdempotent_ReplayReturnsSameTransaction(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(domain.PaymentResult{TransactionID: "tx-1", Status: domain.PaymentCaptured})
	}))
	defer srv.Close()

	gw := payment.NewIdempotent(
		payment.NewHTTPGateway(srv.URL, time.Second),
		payment.NewMemoryStore(time.Hour),
		noopLogger{},
	)

	first, err := gw.Charge(context.Background(), chargeReq(domain.MethodCreditCard))
	require.NoError(t, err)

	second, err := gw.Charge(context.Background(), chargeReq(domain.MethodCreditCard))
	require.NoError(t, err)

	assert.Equal(t, first.TransactionID, second.TransactionID)
	assert.Equal(t, 1, calls, "повторное списание не должно дойти до шлюза")
}

func TestIdempotent_DeclinedNotStored(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "declined", http.StatusPaymentRequired)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.PaymentResult{TransactionID: "tx-2", Status: domain.PaymentCaptured})
	}))
	defer srv.Close()

	gw := payment.NewIdempotent(
		payment.NewHTTPGateway(srv.URL, time.Second),
		payment.NewMemoryStore(time.Hour),
		noopLogger{},
	)

	_, err := gw.Charge(context.Background(), chargeReq(domain.MethodCreditCard))
	require.ErrorIs(t, err, domain.ErrPaymentDeclined)

	// отказ не фиксируется: следующая попытка снова идёт в шлюз
	res, err := gw.Charge(context.Background(), chargeReq(domain.MethodCreditCard))
	require.NoError(t, err)
	assert.Equal(t, "tx-2", res.TransactionID)
	assert.Equal(t, 2, calls)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	store := payment.NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.PutTransaction(ctx, "charge:o1", "tx-1"))

	_, found, err := store.GetTransaction(ctx, "charge:o1")
	require.NoError(t, err)
	assert.True(t, found)

	time.Sleep(20 * time.Millisecond)

	_, found, err = store.GetTransaction(ctx, "charge:o1")
	require.NoError(t, err)
	assert.False(t, found)
}
