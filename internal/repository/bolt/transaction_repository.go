package bolt

import (
	"context"
	"encoding/json"

	bolt "github.com/boltdb/bolt"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/repository"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
	"github.com/ignatzorin/ledger-engine/internal/repository/common"
)

type TransactionRepository struct {
	db *bolt.DB
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)

func NewTransactionRepository(d *DB) *TransactionRepository {
	return &TransactionRepository{db: d.db}
}

func (r *TransactionRepository) FindByID(ctx context.Context, id entity.TransactionID) (*entity.Transaction, error) {
	var rec common.TransactionRecord
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(transactionsBucket).Get(transactionKey(uint32(id)))
		if v == nil {
			return apperror.ErrTransactionNotFound
		}
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.ToEntity()
}

func (r *TransactionRepository) Store(ctx context.Context, t *entity.Transaction) (bool, error) {
	data, err := marshalTransaction(t)
	if err != nil {
		return false, err
	}

	created := false
	err = r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(transactionsBucket)
		key := transactionKey(uint32(t.ID()))
		if b.Get(key) != nil {
			return nil
		}
		created = true
		return b.Put(key, data)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *TransactionRepository) Save(ctx context.Context, t *entity.Transaction) error {
	data, err := marshalTransaction(t)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(transactionsBucket).Put(transactionKey(uint32(t.ID())), data)
	})
}

func marshalTransaction(t *entity.Transaction) ([]byte, error) {
	rec, err := common.NewTransactionRecord(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}
