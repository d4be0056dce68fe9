package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/Gunvolt24/wb_l2/pkg/ctxmeta"
)

// ZapLogger — обёртка над zap, реализует ports.Logger.
// Каждая запись обогащается метаданными из контекста
// (request_id, order_uid, trace_id) через ctxmeta.
type ZapLogger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	isProd bool
}

func NewZapLogger(isProd bool) (*ZapLogger, func() error, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if isProd {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, nil, err
	}

	loggerWrap := &ZapLogger{
		base:   logger,
		sugar:  logger.Sugar(),
		isProd: isProd,
	}

	cleanup := func() error { return loggerWrap.base.Sync() }
	return loggerWrap, cleanup, nil
}

// withMeta — сахарный логгер с полями из контекста; без метаданных
// возвращается базовый, лишних аллокаций нет.
func (z *ZapLogger) withMeta(ctx context.Context) *zap.SugaredLogger {
	if kv := ctxmeta.Pairs(ctx); len(kv) > 0 {
		return z.sugar.With(kv...)
	}
	return z.sugar
}

func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.withMeta(ctx).Infof(format, args...)
}
func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.withMeta(ctx).Warnf(format, args...)
}
func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.withMeta(ctx).Errorf(format, args...)
}

func (z *ZapLogger) Base() *zap.Logger           { return z.base }
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }
