package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/valueobject"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
)

func TestClientRepository_StoreIsInsertIfAbsent(t *testing.T) {
	repo := NewClientRepository()
	ctx := context.Background()

	first := entity.NewClientAccount(1)
	require.NoError(t, first.Deposit(100))

	created, err := repo.Store(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Store(ctx, entity.NewClientAccount(1))
	require.NoError(t, err)
	assert.False(t, created)

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, valueobject.Amount(100), found.Available())
}

func TestClientRepository_FindByID_NotFound(t *testing.T) {
	_, err := NewClientRepository().FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, apperror.ErrClientNotFound)
}

func TestClientRepository_ChangesVisibleOnlyAfterSave(t *testing.T) {
	repo := NewClientRepository()
	ctx := context.Background()
	_, err := repo.Store(ctx, entity.NewClientAccount(1))
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, found.Deposit(500))

	again, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, valueobject.Amount(0), again.Available())

	require.NoError(t, repo.Save(ctx, found))
	again, err = repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, valueobject.Amount(500), again.Available())
}

func TestClientRepository_FindAllOrdered(t *testing.T) {
	repo := NewClientRepository()
	ctx := context.Background()
	for _, id := range []entity.ClientID{3, 1, 2} {
		_, err := repo.Store(ctx, entity.NewClientAccount(id))
		require.NoError(t, err)
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, entity.ClientID(1), all[0].ID())
	assert.Equal(t, entity.ClientID(2), all[1].ID())
	assert.Equal(t, entity.ClientID(3), all[2].ID())
}

func TestTransactionRepository_StoreFindSave(t *testing.T) {
	repo := NewTransactionRepository()
	ctx := context.Background()

	tx, err := entity.NewDeposit(1, 1, 10000)
	require.NoError(t, err)

	created, err := repo.Store(ctx, tx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Store(ctx, tx)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, repo.Len())

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, found.Dispute(entity.NewDispute(1, 1)))

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, stored.IsDisputed())

	require.NoError(t, repo.Save(ctx, found))
	stored, err = repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, stored.IsDisputed())

	_, err = repo.FindByID(ctx, 2)
	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}
