package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/repository"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
	"github.com/ignatzorin/ledger-engine/internal/repository/common"
)

const transactionColumns = "id, client_id, kind, amount, dispute_client_id, settlement_kind, settlement_client_id"

type TransactionRepository struct {
	db *sqlx.DB
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) FindByID(ctx context.Context, id entity.TransactionID) (*entity.Transaction, error) {
	rec, err := common.GetByID[common.TransactionRecord](ctx, r.db, "transactions", transactionColumns, int64(id), apperror.ErrTransactionNotFound)
	if err != nil {
		return nil, err
	}
	return rec.ToEntity()
}

func (r *TransactionRepository) Store(ctx context.Context, tx *entity.Transaction) (bool, error) {
	rec, err := common.NewTransactionRecord(tx)
	if err != nil {
		return false, err
	}

	res, err := r.db.NamedExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (:id, :client_id, :kind, :amount, :dispute_client_id, :settlement_kind, :settlement_client_id)
		ON CONFLICT (id) DO NOTHING
	`, rec)
	if err != nil {
		return false, fmt.Errorf("transaction repository: store %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transaction repository: store %w", err)
	}
	return n == 1, nil
}

// Save обновляет состояние спора. Строка блокируется FOR UPDATE; состояние
// спора не может откатиться назад (урегулированный спор не перезаписывается
// открытым).
func (r *TransactionRepository) Save(ctx context.Context, tx *entity.Transaction) error {
	rec, err := common.NewTransactionRecord(tx)
	if err != nil {
		return err
	}

	return common.WithTransaction(ctx, r.db, func(dbTx *sqlx.Tx) error {
		var current common.TransactionRecord
		err := dbTx.GetContext(ctx, &current, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, rec.ID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("transaction repository: lock %w", err)
		case disputeStage(current) > disputeStage(rec):
			return fmt.Errorf("%w: tx %d", apperror.ErrAlreadySettled, rec.ID)
		}

		_, err = dbTx.NamedExecContext(ctx, `
			INSERT INTO transactions (`+transactionColumns+`)
			VALUES (:id, :client_id, :kind, :amount, :dispute_client_id, :settlement_kind, :settlement_client_id)
			ON CONFLICT (id) DO UPDATE SET
				dispute_client_id = EXCLUDED.dispute_client_id,
				settlement_kind = EXCLUDED.settlement_kind,
				settlement_client_id = EXCLUDED.settlement_client_id,
				updated_at = NOW()
		`, rec)
		if err != nil {
			return fmt.Errorf("transaction repository: save %w", err)
		}
		return nil
	})
}

// disputeStage: 0 без спора, 1 спор открыт, 2 урегулирован.
func disputeStage(rec common.TransactionRecord) int {
	switch {
	case rec.SettlementKind != nil:
		return 2
	case rec.DisputeClientID != nil:
		return 1
	default:
		return 0
	}
}
