package validate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
)

// OrderSink — обработчик одного валидного заказа из потока.
type OrderSink func(ctx context.Context, order *domain.Order) error

// JSONLSummary — статистика обработки потока JSONL.
type JSONLSummary struct {
	ValidLinesCount   int
	InvalidLinesCount int
	SinkErrorsCount   int
}

// ForEachJSONL — читает JSONL из reader’а, валидирует каждую строку и передаёт
// валидные заказы в sink. Невалидные строки пропускаются (увеличивают счётчик),
// ошибки sink'а не останавливают поток. Пустые строки игнорируются.
func ForEachJSONL(ctx context.Context, validator ports.OrderValidator, ir io.Reader, sink OrderSink) (JSONLSummary, error) {
	var res JSONLSummary

	scanner := bufio.NewScanner(ir)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}

		order, err := OrderFromJSON(ctx, validator, lineBytes)
		if err != nil {
			res.InvalidLinesCount++
			continue
		}
		res.ValidLinesCount++

		if err := sink(ctx, order); err != nil {
			res.SinkErrorsCount++
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
