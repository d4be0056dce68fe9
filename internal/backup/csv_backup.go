package backup

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_l2/internal/domain"
	"github.com/Gunvolt24/wb_l2/internal/ports"
)

// Проверка, что CSVBackup удовлетворяет интерфейсу BackupService.
var _ ports.BackupService = (*CSVBackup)(nil)

// CSVBackup — долговременная копия записей заказов в CSV-файле (append-only).
// Мьютекс сериализует записи: одна строка на заказ, без чересстрочного смешивания.
type CSVBackup struct {
	path string
	mu   sync.Mutex
}

// NewCSVBackup — конструктор; каталог создаётся при первой записи.
func NewCSVBackup(path string) *CSVBackup { return &CSVBackup{path: path} }

// Backup — дописать строку заказа в файл. Формат:
// order_uid, customer_id, status, total, discount, transaction_id, date_created.
func (b *CSVBackup) Backup(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackupWrite, err)
	}
	if order == nil {
		return fmt.Errorf("%w: nil order", domain.ErrBackupWrite)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("%w: mkdir: %v", domain.ErrBackupWrite, err)
	}

	f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open: %v", domain.ErrBackupWrite, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	record := []string{
		order.OrderUID,
		order.CustomerID,
		string(order.Status),
		order.Total.StringFixed(2),
		order.Discount.StringFixed(2),
		order.TransactionID,
		order.DateCreated.UTC().Format(time.RFC3339),
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("%w: write: %v", domain.ErrBackupWrite, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush: %v", domain.ErrBackupWrite, err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", domain.ErrBackupWrite, err)
	}
	return nil
}
