package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := Open(path)
	require.NoError(t, err)
	return db, path
}

func TestClientRepository_StoreIsInsertIfAbsent(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()
	repo := NewClientRepository(db)
	ctx := context.Background()

	c := entity.NewClientAccount(1)
	require.NoError(t, c.Deposit(10000))

	created, err := repo.Store(ctx, c)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Store(ctx, entity.NewClientAccount(1))
	require.NoError(t, err)
	assert.False(t, created)

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, c, found)
}

func TestClientRepository_NotFound(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	_, err := NewClientRepository(db).FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, apperror.ErrClientNotFound)
}

func TestClientRepository_FindAllOrderedAcrossReopen(t *testing.T) {
	db, path := openTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	for _, id := range []entity.ClientID{300, 2, 65535, 17} {
		c := entity.NewClientAccount(id)
		require.NoError(t, c.Deposit(10000))
		require.NoError(t, c.DisputeDeposit(10000))
		require.NoError(t, c.Chargeback(10000))
		require.NoError(t, repo.Save(ctx, c))
	}
	require.NoError(t, db.Close())

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	clients, err := NewClientRepository(db).FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 4)
	ids := []entity.ClientID{clients[0].ID(), clients[1].ID(), clients[2].ID(), clients[3].ID()}
	assert.Equal(t, []entity.ClientID{2, 17, 300, 65535}, ids)
	assert.True(t, clients[0].IsFrozen())
}

func TestTransactionRepository_DisputeSurvivesSave(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	tx, err := entity.NewWithdrawal(7, 1, 25000)
	require.NoError(t, err)

	created, err := repo.Store(ctx, tx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Store(ctx, tx)
	require.NoError(t, err)
	assert.False(t, created)

	found, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, found.Dispute(entity.NewDispute(7, 1)))
	require.NoError(t, found.Settle(entity.NewResolve(7, 1)))
	require.NoError(t, repo.Save(ctx, found))

	again, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, again.IsSettled())
	assert.Equal(t, found, again)

	_, err = repo.FindByID(ctx, 8)
	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}
