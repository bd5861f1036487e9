package memory

import (
	"context"
	"sync"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/repository"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
)

// TransactionRepository хранит депозиты и выводы в памяти.
type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[entity.TransactionID]*entity.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[entity.TransactionID]*entity.Transaction),
	}
}

func (r *TransactionRepository) FindByID(ctx context.Context, id entity.TransactionID) (*entity.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.transactions[id]
	if !ok {
		return nil, apperror.ErrTransactionNotFound
	}
	return tx.Clone(), nil
}

func (r *TransactionRepository) Store(ctx context.Context, tx *entity.Transaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[tx.ID()]; exists {
		return false, nil
	}
	r.transactions[tx.ID()] = tx.Clone()
	return true, nil
}

func (r *TransactionRepository) Save(ctx context.Context, tx *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactions[tx.ID()] = tx.Clone()
	return nil
}

// Len возвращает количество сохранённых транзакций.
func (r *TransactionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.transactions)
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)
