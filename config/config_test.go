package config_test

import (
	"slices"
	"testing"
	"time"

	cfg "github.com/Gunvolt24/wb_l2/config"
)

// TestLoadWithPrefix_Defaults — проверка наличия значений по умолчанию.
func TestLoadWithPrefix_Defaults(t *testing.T) {
	t.Parallel()

	c, err := cfg.LoadWithPrefix("ORDER_TEST_DEFAULTS")
	if err != nil {
		t.Fatalf("LoadWithPrefix error: %v", err)
	}

	// HTTP
	if c.HTTP.Addr != ":8080" {
		t.Fatalf("HTTP.Addr: want :8080, got %q", c.HTTP.Addr)
	}
	if c.HTTP.GinMode != "debug" {
		t.Fatalf("HTTP.GinMode: want debug, got %q", c.HTTP.GinMode)
	}
	if c.HTTP.ReadTimeout != 10*time.Second || c.HTTP.WriteTimeout != 10*time.Second {
		t.Fatalf("HTTP timeouts wrong: %+v", c.HTTP)
	}
	if c.HTTP.HandlerTimeout != 10*time.Second || c.HTTP.GracefulTimeout != 5*time.Second {
		t.Fatalf("HTTP handler/graceful timeouts wrong: %+v", c.HTTP)
	}

	// Tracing
	if c.Tracing.Enabled {
		t.Fatalf("Tracing.Enabled: want false, got true")
	}
	if c.Tracing.ServiceName != "order-processor" || c.Tracing.SampleRatio != 1 {
		t.Fatalf("Tracing defaults wrong: %+v", c.Tracing)
	}

	// Postgres
	if c.Postgres.DSN == "" {
		t.Fatalf("Postgres.DSN should have default, got empty")
	}
	if c.Postgres.MaxConns != 10 {
		t.Fatalf("Postgres.MaxConns: want 10, got %d", c.Postgres.MaxConns)
	}

	// Kafka
	if !slices.Equal(c.Kafka.Brokers, []string{"kafka:9092"}) {
		t.Fatalf("Kafka.Brokers: want [kafka:9092], got %v", c.Kafka.Brokers)
	}
	if c.Kafka.Topic != "orders" || c.Kafka.GroupID != "order-processor" || c.Kafka.StartOffset != "last" {
		t.Fatalf("Kafka defaults wrong: %+v", c.Kafka)
	}
	if c.Kafka.NotifyTopic != "order-notifications" {
		t.Fatalf("Kafka.NotifyTopic: want order-notifications, got %q", c.Kafka.NotifyTopic)
	}

	// Redis: пустой адрес по умолчанию -> in-memory идемпотентность.
	if c.Redis.Addr != "" || c.Redis.ChargeTTL != 24*time.Hour {
		t.Fatalf("Redis defaults wrong: %+v", c.Redis)
	}

	// Payment
	if c.Payment.DefaultMethod != "credit-card" || c.Payment.Timeout != 5*time.Second {
		t.Fatalf("Payment defaults wrong: %+v", c.Payment)
	}

	// Discount
	if c.Discount.Policy != "none" || c.Discount.Percent != 0 || c.Discount.Amount != "0" {
		t.Fatalf("Discount defaults wrong: %+v", c.Discount)
	}

	// Analytics
	if c.Analytics.MaxAttempts != 3 || c.Analytics.RetryInitial != 200*time.Millisecond || c.Analytics.RetryMax != 5*time.Second {
		t.Fatalf("Analytics retry defaults wrong: %+v", c.Analytics)
	}

	// Backup
	if c.Backup.Path != "./backup/orders.csv" {
		t.Fatalf("Backup.Path default wrong: %q", c.Backup.Path)
	}

	// Cache
	if c.Cache.Capacity != 1000 || c.Cache.TTL != 10*time.Minute || c.Cache.WarmUpN != 100 {
		t.Fatalf("Cache defaults wrong: %+v", c.Cache)
	}

	// Logger
	if c.Logger.IsProd {
		t.Fatalf("Logger.IsProd: want false, got true")
	}
}

// Меняем окружение.
func TestLoadWithPrefix_Overrides(t *testing.T) {
	const p = "ORDER_TEST_OVR"

	t.Setenv(p+"_HTTP_ADDR", ":9999")
	t.Setenv(p+"_HTTP_GIN_MODE", "release")
	t.Setenv(p+"_HTTP_HANDLER_TIMEOUT", "4500ms")

	t.Setenv(p+"_TRACING_ENABLED", "true")
	t.Setenv(p+"_TRACING_SERVICE_NAME", "svc")
	t.Setenv(p+"_TRACING_SAMPLE_RATIO", "0.25")

	t.Setenv(p+"_POSTGRES_DSN", "postgres://u:p@h:5432/db?sslmode=disable")
	t.Setenv(p+"_POSTGRES_MAX_CONNS", "42")

	t.Setenv(p+"_KAFKA_BROKERS", "k1:9092,k2:9093")
	t.Setenv(p+"_KAFKA_TOPIC", "orders-test")
	t.Setenv(p+"_KAFKA_NOTIFY_TOPIC", "notify-test")

	t.Setenv(p+"_REDIS_ADDR", "redis:6379")
	t.Setenv(p+"_REDIS_CHARGE_TTL", "1h")

	t.Setenv(p+"_PAYMENT_ENDPOINT", "http://pay.local/charge")
	t.Setenv(p+"_PAYMENT_DEFAULT_METHOD", "wallet")

	t.Setenv(p+"_DISCOUNT_POLICY", "percentage")
	t.Setenv(p+"_DISCOUNT_PERCENT", "10")
	t.Setenv(p+"_DISCOUNT_PROMO_RATES", "SPRING:5,VIP:20")

	t.Setenv(p+"_ANALYTICS_MAX_ATTEMPTS", "5")
	t.Setenv(p+"_ANALYTICS_RETRY_INITIAL", "50ms")

	t.Setenv(p+"_BACKUP_PATH", "/tmp/orders.csv")

	t.Setenv(p+"_LOGGER_IS_PROD", "true")

	c, err := cfg.LoadWithPrefix(p)
	if err != nil {
		t.Fatalf("LoadWithPrefix error: %v", err)
	}

	if c.HTTP.Addr != ":9999" || c.HTTP.GinMode != "release" || c.HTTP.HandlerTimeout != 4500*time.Millisecond {
		t.Fatalf("HTTP overrides wrong: %+v", c.HTTP)
	}
	if !c.Tracing.Enabled || c.Tracing.ServiceName != "svc" || c.Tracing.SampleRatio != 0.25 {
		t.Fatalf("Tracing overrides wrong: %+v", c.Tracing)
	}
	if c.Postgres.DSN != "postgres://u:p@h:5432/db?sslmode=disable" || c.Postgres.MaxConns != 42 {
		t.Fatalf("Postgres overrides wrong: %+v", c.Postgres)
	}
	if !slices.Equal(c.Kafka.Brokers, []string{"k1:9092", "k2:9093"}) ||
		c.Kafka.Topic != "orders-test" || c.Kafka.NotifyTopic != "notify-test" {
		t.Fatalf("Kafka overrides wrong: %+v", c.Kafka)
	}
	if c.Redis.Addr != "redis:6379" || c.Redis.ChargeTTL != time.Hour {
		t.Fatalf("Redis overrides wrong: %+v", c.Redis)
	}
	if c.Payment.Endpoint != "http://pay.local/charge" || c.Payment.DefaultMethod != "wallet" {
		t.Fatalf("Payment overrides wrong: %+v", c.Payment)
	}
	if c.Discount.Policy != "percentage" || c.Discount.Percent != 10 {
		t.Fatalf("Discount overrides wrong: %+v", c.Discount)
	}
	if c.Discount.PromoRates["SPRING"] != 5 || c.Discount.PromoRates["VIP"] != 20 {
		t.Fatalf("Discount.PromoRates override wrong: %+v", c.Discount.PromoRates)
	}
	if c.Analytics.MaxAttempts != 5 || c.Analytics.RetryInitial != 50*time.Millisecond {
		t.Fatalf("Analytics overrides wrong: %+v", c.Analytics)
	}
	if c.Backup.Path != "/tmp/orders.csv" {
		t.Fatalf("Backup.Path override wrong: %q", c.Backup.Path)
	}
	if !c.Logger.IsProd {
		t.Fatalf("Logger.IsProd override wrong: %+v", c.Logger)
	}
}

// Тоже меняем окружение — но с невалидным значением.
func TestLoadWithPrefix_InvalidValue_ReturnsError(t *testing.T) {
	const p = "ORDER_TEST_BAD"
	t.Setenv(p+"_ANALYTICS_RETRY_INITIAL", "not-a-duration")

	if _, err := cfg.LoadWithPrefix(p); err == nil {
		t.Fatalf("expected error for invalid duration, got nil")
	}
}
