package ports

import (
	"context"

	"github.com/Gunvolt24/wb_l2/internal/domain"
)

// BackupService — долговременная копия записи заказа.
// Сбой (domain.ErrBackupWrite) не откатывает платёж и запись в БД,
// но поднимается наружу для оператора.
type BackupService interface {
	Backup(ctx context.Context, order *domain.Order) error
}
