package repository

import (
	"context"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
)

// ClientRepository хранит счета клиентов. FindByID и FindAll возвращают
// копии: изменения становятся видны только после Save.
type ClientRepository interface {
	// FindByID возвращает apperror.ErrClientNotFound, если счёта нет.
	FindByID(ctx context.Context, id entity.ClientID) (*entity.ClientAccount, error)
	// Store сохраняет счёт, только если его ещё нет. created=false, если счёт уже был.
	Store(ctx context.Context, client *entity.ClientAccount) (created bool, err error)
	// Save фиксирует изменения счёта.
	Save(ctx context.Context, client *entity.ClientAccount) error
	// FindAll возвращает все счета, упорядоченные по id.
	FindAll(ctx context.Context) ([]*entity.ClientAccount, error)
}
