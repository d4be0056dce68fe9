package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Gunvolt24/wb_l2/config"
	"github.com/Gunvolt24/wb_l2/internal/app"
	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/repo/postgres"
	"github.com/Gunvolt24/wb_l2/pkg/logger"
	"github.com/Gunvolt24/wb_l2/pkg/validate"
)

// CLI-приложение для пакетной обработки заказов из файла.
// С флагом -dry-run только валидирует вход, без побочных эффектов.
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	dryRun := flag.Bool("dry-run", false, "validate only, do not charge/save/notify")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format := validate.InputFormat(*formatStr)
	path := *inputPath
	// stdin вариант: считаем, что jsonl
	if path == "" {
		path = "/dev/stdin"
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
	}

	sink, closeSink, err := buildSink(ctx, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		os.Exit(1)
	}
	defer closeSink()

	orderValidator := validate.NewOrderValidator()
	summary, err := validate.ForEachInFile(ctx, orderValidator, path, format, sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "process: %v (%s)\n", err, summary)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "done (%s)\n", summary)
}

// buildSink — возвращает обработчик валидного заказа. В dry-run это печать
// заказа, иначе — полный конвейер поверх реальных зависимостей из конфигурации.
func buildSink(ctx context.Context, dryRun bool) (validate.OrderSink, func(), error) {
	out := json.NewEncoder(os.Stdout)

	if dryRun {
		sink := func(_ context.Context, order *domain.Order) error {
			fmt.Fprintf(os.Stdout, "valid: %s customer=%s items=%d\n",
				order.OrderUID, order.CustomerID, len(order.Items))
			return nil
		}
		return sink, func() {}, nil
	}

	_ = godotenv.Load(".env.local")
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		_ = cleanupLogger()
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	processor, cleanupProcessor, err := app.BuildProcessor(ctx, &cfg, postgres.NewOrderRepository(pool), logg)
	if err != nil {
		pool.Close()
		_ = cleanupLogger()
		return nil, nil, fmt.Errorf("build processor: %w", err)
	}

	sink := func(ctx context.Context, order *domain.Order) error {
		result, procErr := processor.Process(ctx, order)
		if result != nil {
			if encErr := out.Encode(result); encErr != nil {
				return encErr
			}
		}
		return procErr
	}
	closeAll := func() {
		cleanupProcessor()
		pool.Close()
		_ = cleanupLogger()
	}
	return sink, closeAll, nil
}
