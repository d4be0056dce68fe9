//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	cachemem "github.com/Gunvolt24/wb_l2/internal/cache/memory"
	"github.com/Gunvolt24/wb_l2/internal/discount"
	"github.com/Gunvolt24/wb_l2/internal/domain"
	ikafka "github.com/Gunvolt24/wb_l2/internal/kafka"
	"github.com/Gunvolt24/wb_l2/internal/payment"
	"github.com/Gunvolt24/wb_l2/internal/ports"
	pgrepo "github.com/Gunvolt24/wb_l2/internal/repo/postgres"
	"github.com/Gunvolt24/wb_l2/internal/testutil"
	"github.com/Gunvolt24/wb_l2/internal/usecase"
	"github.com/Gunvolt24/wb_l2/pkg/logger"
	"github.com/Gunvolt24/wb_l2/pkg/validate"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

// paymentStub — платёжный сервис для тестов: captured для всех заказов,
// отказ для Idempotency-Key с префиксом "declined-". Считает обращения.
func paymentStub(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		key := r.Header.Get("Idempotency-Key")
		if strings.HasPrefix(key, "declined-") {
			w.WriteHeader(http.StatusPaymentRequired)
			fmt.Fprint(w, "insufficient funds")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"transaction_id":"tx-%s","status":"captured"}`, key)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// buildProcessor — конвейер без пост-оплатных стадий: скидок нет,
// идемпотентность в памяти, кэш на минуту.
func buildProcessor(t *testing.T, repo ports.OrderRepository, logg ports.Logger, endpoint string) *usecase.OrderProcessor {
	t.Helper()
	gateway := payment.NewIdempotent(
		payment.NewHTTPGateway(endpoint, 2*time.Second),
		payment.NewMemoryStore(time.Minute),
		logg,
	)
	processor, err := usecase.NewOrderProcessor(usecase.Deps{
		Discount:  discount.NewNone(),
		Gateway:   gateway,
		Repo:      repo,
		Validator: validate.NewOrderValidator(),
		Cache:     cachemem.NewLRUCacheTTL(100, time.Minute),
		Log:       logg,
	})
	require.NoError(t, err)
	return processor
}

func waitSaved(t *testing.T, ctx context.Context, repo *pgrepo.OrderRepository, uid string) *domain.Order {
	t.Helper()
	deadline := time.Now().Add(20 * time.Second)
	for {
		got, err := repo.GetByUID(ctx, uid)
		require.NoError(t, err)
		if got != nil {
			return got
		}
		if time.Now().After(deadline) {
			t.Fatalf("order %s not saved in time", uid)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// 1) Валидный заказ из Kafka проходит конвейер и оказывается в БД оплаченным.
func TestKafka_Valid_Processed_TC(t *testing.T) {
	ctx, cancel, repo, logg, cleanup, kf := newStack(t)
	defer cancel()
	defer cleanup()

	topic, group := testutil.UniqueTopicAndGroup(kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	srv, _ := paymentStub(t)
	processor := buildProcessor(t, repo, logg, srv.URL)

	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 5 * time.Second,
		RetryInitial:   200 * time.Millisecond,
		RetryMax:       2 * time.Second,
	}, processor, logg)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()

	// даём консьюмеру присоединиться к группе/получить assignment
	time.Sleep(1500 * time.Millisecond)

	ord := testutil.MakeOrder(testutil.WithItems(2))
	raw, _ := json.Marshal(ord)
	writeMsg(t, ctx, kf.Brokers, topic, raw)

	got := waitSaved(t, ctx, repo, ord.OrderUID)
	require.Equal(t, domain.StatusPaid, got.Status)
	require.NotEmpty(t, got.TransactionID)
	require.True(t, got.Total.IsPositive(), "total must be positive")
}

// 2) Не-JSON сообщение пропускается, валидное после него — обрабатывается.
func TestKafka_Skip_InvalidJSON_Then_ProcessValid_TC(t *testing.T) {
	ctx, cancel, repo, logg, cleanup, kf := newStack(t)
	defer cancel()
	defer cleanup()

	topic, group := testutil.UniqueTopicAndGroup(kf.BaseTopic + "-invalid-json-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	srv, _ := paymentStub(t)
	processor := buildProcessor(t, repo, logg, srv.URL)
	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:     kf.Brokers,
		Topic:       topic,
		GroupID:     group,
		StartOffset: "first",
	}, processor, logg)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()
	time.Sleep(1500 * time.Millisecond)

	writeMsg(t, ctx, kf.Brokers, topic, []byte("not-a-json"))

	ord := testutil.MakeOrder()
	raw, _ := json.Marshal(ord)
	writeMsg(t, ctx, kf.Brokers, topic, raw)

	got := waitSaved(t, ctx, repo, ord.OrderUID)
	require.Equal(t, ord.OrderUID, got.OrderUID)
}

// 3) Отказ платежа: заказ не сохраняется, оффсет коммитится,
// следующий валидный заказ обрабатывается.
func TestKafka_Declined_NotSaved_Then_ProcessValid_TC(t *testing.T) {
	ctx, cancel, repo, logg, cleanup, kf := newStack(t)
	defer cancel()
	defer cleanup()

	topic, group := testutil.UniqueTopicAndGroup(kf.BaseTopic + "-declined-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	srv, _ := paymentStub(t)
	processor := buildProcessor(t, repo, logg, srv.URL)
	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:     kf.Brokers,
		Topic:       topic,
		GroupID:     group,
		StartOffset: "first",
	}, processor, logg)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()
	time.Sleep(1500 * time.Millisecond)

	declined := testutil.MakeOrder()
	declined.OrderUID = "declined-" + declined.OrderUID
	draw, _ := json.Marshal(declined)
	writeMsg(t, ctx, kf.Brokers, topic, draw)

	ok := testutil.MakeOrder()
	oraw, _ := json.Marshal(ok)
	writeMsg(t, ctx, kf.Brokers, topic, oraw)

	got := waitSaved(t, ctx, repo, ok.OrderUID)
	require.Equal(t, ok.OrderUID, got.OrderUID)

	// отклонённый не должен попасть в БД
	gotDeclined, err := repo.GetByUID(ctx, declined.OrderUID)
	require.NoError(t, err)
	require.Nil(t, gotDeclined)
}

// 4) Дубликат сообщения: списание ровно одно, запись в БД одна,
// items не раздуваются за счёт replace-логики.
func TestKafka_DuplicateMessage_ChargedOnce_TC(t *testing.T) {
	ctx, cancel, repo, logg, cleanup, kf := newStack(t)
	defer cancel()
	defer cleanup()

	topic, group := testutil.UniqueTopicAndGroup(kf.BaseTopic + "-dup-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	srv, calls := paymentStub(t)
	processor := buildProcessor(t, repo, logg, srv.URL)
	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:     kf.Brokers,
		Topic:       topic,
		GroupID:     group,
		StartOffset: "first",
	}, processor, logg)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()
	time.Sleep(1500 * time.Millisecond)

	ord := testutil.MakeOrder(testutil.WithItems(3))
	raw, _ := json.Marshal(ord)
	writeMsg(t, ctx, kf.Brokers, topic, raw)
	writeMsg(t, ctx, kf.Brokers, topic, raw)

	got := waitSaved(t, ctx, repo, ord.OrderUID)
	require.Len(t, got.Items, 3)

	// ждём обработку дубликата и проверяем, что шлюз дернулся один раз
	time.Sleep(2 * time.Second)
	require.Equal(t, int64(1), calls.Load(), "повторное сообщение не должно списывать деньги второй раз")

	gotAgain, err := repo.GetByUID(ctx, ord.OrderUID)
	require.NoError(t, err)
	require.NotNil(t, gotAgain)
	require.Len(t, gotAgain.Items, 3)
	require.Equal(t, got.TransactionID, gotAgain.TransactionID)
}

// 5) At-least-once через рестарт: временная ошибка → оффсет не коммитится,
// после перезапуска с рабочим конвейером заказ доезжает до БД.
func TestKafka_Redelivery_AfterRestart_NoCommit_TC(t *testing.T) {
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "orders-itc")
	require.NoError(t, err)
	defer func() { _ = stopKF(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	logg, closer, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	defer func() { _ = closer() }()

	topic, group := testutil.UniqueTopicAndGroup(kf.BaseTopic + "-redelivery-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	ord := testutil.MakeOrder()
	raw, _ := json.Marshal(ord)
	writeMsg(t, ctx, kf.Brokers, topic, raw)

	// Фаза 1: шлюз "лежит" → временная ошибка, оффсет не коммитится
	consumerFail := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 300 * time.Millisecond,
		RetryInitial:   100 * time.Millisecond,
		RetryMax:       300 * time.Millisecond,
	}, gatewayDownProcessor{}, logg)

	runCtx1, cancelRun1 := context.WithCancel(ctx)
	go func() { _ = consumerFail.Run(runCtx1) }()

	time.Sleep(2 * time.Second)
	cancelRun1() // выходим без коммита

	// Фаза 2: поднимаем PG и рабочий конвейер в той же группе
	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	defer func() { _ = stopPG(context.Background()) }()
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	pool, err := pgxpool.New(ctx, pg.DSN)
	require.NoError(t, err)
	defer pool.Close()

	repo := pgrepo.NewOrderRepository(pool)
	srv, _ := paymentStub(t)
	processor := buildProcessor(t, repo, logg, srv.URL)

	consumerOK := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:     kf.Brokers,
		Topic:       topic,
		GroupID:     group, // та же группа — перехватываем некоммиченное
		StartOffset: "first",
	}, processor, logg)

	runCtx2, cancelRun2 := context.WithCancel(ctx)
	defer cancelRun2()
	go func() { _ = consumerOK.Run(runCtx2) }()

	got := waitSaved(t, ctx, repo, ord.OrderUID)
	require.Equal(t, domain.StatusPaid, got.Status)
}

// -----------------функции-помощники-----------------

func newStack(t *testing.T) (
	ctx context.Context,
	cancel func(),
	repo *pgrepo.OrderRepository,
	logg ports.Logger,
	cleanup func(),
	kf *testutil.KafkaEnv,
) {
	t.Helper()

	// Длинный контекст — на контейнеры
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancelStart)

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	var stopKF func(context.Context) error
	kf, stopKF, err = testutil.StartKafkaTC(ctxStart, "orders-itc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	// Короткий контекст — сам тест
	ctx, cancel = context.WithTimeout(context.Background(), 60*time.Second)

	pool, err := pgxpool.New(ctx, pg.DSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	var closer func() error
	logg, closer, err = logger.NewZapLogger(false)
	require.NoError(t, err)
	cleanup = func() { _ = closer() }

	repo = pgrepo.NewOrderRepository(pool)
	return
}

func writeMsg(t *testing.T, ctx context.Context, brokers []string, topic string, payload []byte) {
	t.Helper()
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
	defer w.Close()
	require.NoError(t, w.WriteMessages(ctx, kafka.Message{Value: payload}))
}

// конвейер-заглушка: платёжный шлюз недоступен, результат не коммитится
type gatewayDownProcessor struct{}

func (gatewayDownProcessor) ProcessFromMessage(ctx context.Context, _ []byte) (*domain.ProcessResult, error) {
	return nil, fmt.Errorf("%w: gateway down", domain.ErrGatewayUnavailable)
}
