package repository

import (
	"context"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
)

// TransactionRepository хранит депозиты и выводы вместе с их спорами.
// Операции dispute, resolve и chargeback отдельно не хранятся.
type TransactionRepository interface {
	// FindByID возвращает apperror.ErrTransactionNotFound, если транзакции нет.
	FindByID(ctx context.Context, id entity.TransactionID) (*entity.Transaction, error)
	Store(ctx context.Context, tx *entity.Transaction) (created bool, err error)
	Save(ctx context.Context, tx *entity.Transaction) error
}
