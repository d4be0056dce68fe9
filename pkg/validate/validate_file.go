package validate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/wb_l2/internal/ports"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// ForEachInFile — читает файл как JSON (один заказ) или JSONL (заказ на строку),
// валидирует и передаёт валидные заказы в sink. Возвращает краткую сводку.
func ForEachInFile(ctx context.Context, validator ports.OrderValidator, filePath string, format InputFormat, sink OrderSink) (string, error) {
	// auto по расширению
	if format == FormatAuto {
		switch strings.ToLower(filepath.Ext(filePath)) {
		case ".jsonl":
			format = FormatJSONL
		default:
			// по умолчанию считаем JSON
			format = FormatJSON
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(file)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		order, err := OrderFromJSON(ctx, validator, raw)
		if err != nil {
			return "0 valid / 1 invalid", err
		}
		if err := sink(ctx, order); err != nil {
			return "1 valid / 0 invalid / 1 failed", err
		}
		return "1 valid / 0 invalid", nil

	case FormatJSONL:
		result, err := ForEachJSONL(ctx, validator, file, sink)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d valid / %d invalid / %d failed",
			result.ValidLinesCount, result.InvalidLinesCount, result.SinkErrorsCount), nil

	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
