package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Gunvolt24/wb_l2/config"
	"github.com/Gunvolt24/wb_l2/internal/analytics"
	"github.com/Gunvolt24/wb_l2/internal/backup"
	cachemem "github.com/Gunvolt24/wb_l2/internal/cache/memory"
	"github.com/Gunvolt24/wb_l2/internal/discount"
	"github.com/Gunvolt24/wb_l2/internal/kafka"
	"github.com/Gunvolt24/wb_l2/internal/notify"
	"github.com/Gunvolt24/wb_l2/internal/payment"
	"github.com/Gunvolt24/wb_l2/internal/ports"
	"github.com/Gunvolt24/wb_l2/internal/repo/postgres"
	rest "github.com/Gunvolt24/wb_l2/internal/transport/http"
	"github.com/Gunvolt24/wb_l2/internal/usecase"
	"github.com/Gunvolt24/wb_l2/pkg/logger"
	"github.com/Gunvolt24/wb_l2/pkg/metrics"
	"github.com/Gunvolt24/wb_l2/pkg/telemetry"
	"github.com/Gunvolt24/wb_l2/pkg/validate"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	Processor       *usecase.OrderProcessor
	HTTPServer      *http.Server          // HTTP-сервер
	KafkaConsumer   ports.MessageConsumer // консьюмер сообщений
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// BuildProcessor — собирает конвейер обработки заказов поверх готового
// пула соединений. Вынесен отдельно: его использует и сервер, и CLI.
// Возвращает процессор, закрытие ресурсов конвейера и ошибку.
func BuildProcessor(ctx context.Context, cfg *config.Config, repo ports.OrderRepository, logg ports.Logger) (*usecase.OrderProcessor, Cleanup, error) {
	// Политика скидок резолвится один раз при сборке: некорректная
	// конфигурация валит старт, а не каждый заказ.
	policy, err := discount.FromConfig(cfg.Discount)
	if err != nil {
		return nil, func() {}, err
	}

	// Хранилище ключей идемпотентности: Redis либо память процесса.
	var chargeStore payment.IdempotencyStore
	var closeRedis Cleanup = func() {}
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if pingErr := client.Ping(ctx).Err(); pingErr != nil {
			return nil, func() {}, pingErr
		}
		chargeStore = payment.NewRedisStore(client, cfg.Redis.ChargeTTL)
		closeRedis = func() { _ = client.Close() }
	} else {
		logg.Warnf(ctx, "redis addr is empty, using in-memory idempotency store")
		chargeStore = payment.NewMemoryStore(cfg.Redis.ChargeTTL)
	}

	// Шлюз: выбор по способу оплаты + идемпотентная обёртка снаружи.
	gateway := payment.NewIdempotent(payment.FromConfig(cfg.Payment), chargeStore, logg)

	notifier := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.NotifyTopic)
	tracker := analytics.NewHTTPTracker(cfg.Analytics.Endpoint, cfg.Analytics.Timeout, analytics.Options{
		MaxAttempts:  cfg.Analytics.MaxAttempts,
		RetryInitial: cfg.Analytics.RetryInitial,
		RetryMax:     cfg.Analytics.RetryMax,
	})
	csvBackup := backup.NewCSVBackup(cfg.Backup.Path)
	orderCache := cachemem.NewLRUCacheTTL(cfg.Cache.Capacity, cfg.Cache.TTL)

	processor, err := usecase.NewOrderProcessor(usecase.Deps{
		Discount:      policy,
		Gateway:       gateway,
		Repo:          repo,
		Notifier:      notifier,
		Analytics:     tracker,
		Backup:        csvBackup,
		Validator:     validate.NewOrderValidator(),
		Cache:         orderCache,
		Log:           logg,
		DefaultMethod: cfg.Payment.DefaultMethod,
	})
	if err != nil {
		closeRedis()
		return nil, func() {}, err
	}

	cleanup := func() {
		if nErr := notifier.Close(); nErr != nil {
			logg.Warnf(ctx, "notifier close error: %v", nErr)
		}
		closeRedis()
	}
	return processor, cleanup, nil
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Пул подключений Postgres
	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Конвейер обработки заказов.
	orderRepo := postgres.NewOrderRepository(pool)
	processor, cleanupProcessor, err := BuildProcessor(ctx, cfg, orderRepo, logg)
	if err != nil {
		pool.Close()
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	// Прогрев кэша
	if n := cfg.Cache.WarmUpN; n > 0 {
		if err := processor.WarmUpCache(ctx, n); err != nil {
			logg.Warnf(ctx, "warm-up cache failed: %v", err)
		}
	}

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(processor, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	// Конфигурация и создание консьюмера Kafka.
	kafkaCfg := kafka.ConsumerConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		Topic:          cfg.Kafka.Topic,
		StartOffset:    cfg.Kafka.StartOffset,
		ProcessTimeout: cfg.Kafka.ProcessTimeout,
		RetryInitial:   cfg.Kafka.RetryInitial,
		RetryMax:       cfg.Kafka.RetryMax,
	}
	consumer := kafka.NewConsumer(&kafkaCfg, processor, logg)

	app := &App{
		Logger:          logg,
		Processor:       processor,
		HTTPServer:      httpSrv,
		KafkaConsumer:   consumer,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if err := consumer.Close(); err != nil {
			logg.Warnf(ctx, "kafka consumer close error: %v", err)
		}
		cleanupProcessor()

		pool.Close()
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер и консьюмера; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	// Запуск консьюмера.
	go func() {
		a.Logger.Infof(ctx, "kafka consumer starting")
		if err := a.KafkaConsumer.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка Kafka-консьюмера
	if err := a.KafkaConsumer.Close(); err != nil {
		a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
