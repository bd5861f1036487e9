package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/repository"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
)

// ClientRepository хранит счета в памяти. Безопасен для конкурентного
// использования, данные теряются при завершении процесса.
type ClientRepository struct {
	mu      sync.RWMutex
	clients map[entity.ClientID]*entity.ClientAccount
}

func NewClientRepository() *ClientRepository {
	return &ClientRepository{
		clients: make(map[entity.ClientID]*entity.ClientAccount),
	}
}

func (r *ClientRepository) FindByID(ctx context.Context, id entity.ClientID) (*entity.ClientAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, apperror.ErrClientNotFound
	}
	// Копия, чтобы изменения не обходили Save
	return client.Clone(), nil
}

func (r *ClientRepository) Store(ctx context.Context, client *entity.ClientAccount) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[client.ID()]; exists {
		return false, nil
	}
	r.clients[client.ID()] = client.Clone()
	return true, nil
}

func (r *ClientRepository) Save(ctx context.Context, client *entity.ClientAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients[client.ID()] = client.Clone()
	return nil
}

func (r *ClientRepository) FindAll(ctx context.Context) ([]*entity.ClientAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.ClientAccount, 0, len(r.clients))
	for _, client := range r.clients {
		result = append(result, client.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID() < result[j].ID()
	})
	return result, nil
}

var _ repository.ClientRepository = (*ClientRepository)(nil)
