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

type ClientRepository struct {
	db *bolt.DB
}

var _ repository.ClientRepository = (*ClientRepository)(nil)

func NewClientRepository(d *DB) *ClientRepository {
	return &ClientRepository{db: d.db}
}

func (r *ClientRepository) FindByID(ctx context.Context, id entity.ClientID) (*entity.ClientAccount, error) {
	var rec common.ClientRecord
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(clientsBucket).Get(clientKey(uint16(id)))
		if v == nil {
			return apperror.ErrClientNotFound
		}
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.ToEntity()
}

// Store записывает счёт, только если ключа ещё нет.
func (r *ClientRepository) Store(ctx context.Context, client *entity.ClientAccount) (bool, error) {
	created := false
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(clientsBucket)
		key := clientKey(uint16(client.ID()))
		if b.Get(key) != nil {
			return nil
		}

		data, err := json.Marshal(common.NewClientRecord(client))
		if err != nil {
			return err
		}
		created = true
		return b.Put(key, data)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *ClientRepository) Save(ctx context.Context, client *entity.ClientAccount) error {
	data, err := json.Marshal(common.NewClientRecord(client))
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(clientsBucket).Put(clientKey(uint16(client.ID())), data)
	})
}

func (r *ClientRepository) FindAll(ctx context.Context) ([]*entity.ClientAccount, error) {
	clients := []*entity.ClientAccount{}
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(clientsBucket).ForEach(func(k, v []byte) error {
			var rec common.ClientRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			c, err := rec.ToEntity()
			if err != nil {
				return err
			}
			clients = append(clients, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return clients, nil
}
