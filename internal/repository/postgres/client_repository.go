package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/repository"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
	"github.com/ignatzorin/ledger-engine/internal/repository/common"
)

const clientColumns = "id, available, held, status"

type ClientRepository struct {
	db *sqlx.DB
}

var _ repository.ClientRepository = (*ClientRepository)(nil)

func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) FindByID(ctx context.Context, id entity.ClientID) (*entity.ClientAccount, error) {
	rec, err := common.GetByID[common.ClientRecord](ctx, r.db, "clients", clientColumns, int64(id), apperror.ErrClientNotFound)
	if err != nil {
		return nil, err
	}
	return rec.ToEntity()
}

// Store вставляет счёт, если строки с таким id ещё нет.
func (r *ClientRepository) Store(ctx context.Context, client *entity.ClientAccount) (bool, error) {
	res, err := r.db.NamedExecContext(ctx, `
		INSERT INTO clients (id, available, held, status)
		VALUES (:id, :available, :held, :status)
		ON CONFLICT (id) DO NOTHING
	`, common.NewClientRecord(client))
	if err != nil {
		return false, fmt.Errorf("client repository: store %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("client repository: store %w", err)
	}
	return n == 1, nil
}

func (r *ClientRepository) Save(ctx context.Context, client *entity.ClientAccount) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO clients (id, available, held, status)
		VALUES (:id, :available, :held, :status)
		ON CONFLICT (id) DO UPDATE SET
			available = EXCLUDED.available,
			held = EXCLUDED.held,
			status = EXCLUDED.status,
			updated_at = NOW()
	`, common.NewClientRecord(client))
	if err != nil {
		return fmt.Errorf("client repository: save %w", err)
	}
	return nil
}

func (r *ClientRepository) FindAll(ctx context.Context) ([]*entity.ClientAccount, error) {
	var records []common.ClientRecord
	if err := r.db.SelectContext(ctx, &records, `SELECT `+clientColumns+` FROM clients ORDER BY id`); err != nil {
		return nil, fmt.Errorf("client repository: find all %w", err)
	}

	clients := make([]*entity.ClientAccount, 0, len(records))
	for _, rec := range records {
		c, err := rec.ToEntity()
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, nil
}
