package common

import (
	"fmt"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/valueobject"
)

// ClientRecord описывает форму хранения счёта клиента (JSON в bolt, строка в postgres).
type ClientRecord struct {
	ID        int64  `json:"id" db:"id"`
	Available int64  `json:"available" db:"available"`
	Held      int64  `json:"held" db:"held"`
	Status    string `json:"status" db:"status"`
}

// TransactionRecord описывает форму хранения депозита или вывода вместе со спором.
// Спор хранится как id клиента, открывшего его, и тип урегулирования.
type TransactionRecord struct {
	ID                 int64   `json:"id" db:"id"`
	ClientID           int64   `json:"client_id" db:"client_id"`
	Kind               string  `json:"kind" db:"kind"`
	Amount             int64   `json:"amount" db:"amount"`
	DisputeClientID    *int64  `json:"dispute_client_id,omitempty" db:"dispute_client_id"`
	SettlementKind     *string `json:"settlement_kind,omitempty" db:"settlement_kind"`
	SettlementClientID *int64  `json:"settlement_client_id,omitempty" db:"settlement_client_id"`
}

func NewClientRecord(c *entity.ClientAccount) ClientRecord {
	return ClientRecord{
		ID:        int64(c.ID()),
		Available: int64(c.Available()),
		Held:      int64(c.Held()),
		Status:    string(c.Status()),
	}
}

// ToEntity восстанавливает счёт клиента.
func (r ClientRecord) ToEntity() (*entity.ClientAccount, error) {
	status, err := valueobject.NewAccountStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: client %d: %v", ErrCorruptRecord, r.ID, err)
	}
	c, err := entity.RestoreClientAccount(entity.ClientID(r.ID), valueobject.Amount(r.Available), valueobject.Amount(r.Held), status)
	if err != nil {
		return nil, fmt.Errorf("%w: client %d: %v", ErrCorruptRecord, r.ID, err)
	}
	return c, nil
}

func NewTransactionRecord(tx *entity.Transaction) (TransactionRecord, error) {
	amount, err := tx.Amount()
	if err != nil {
		return TransactionRecord{}, err
	}

	rec := TransactionRecord{
		ID:       int64(tx.ID()),
		ClientID: int64(tx.ClientID()),
		Kind:     string(tx.Kind()),
		Amount:   int64(amount),
	}

	if dispute, ok := tx.OpenDispute(); ok {
		opening := dispute.Opening()
		openedBy := int64(opening.ClientID())
		rec.DisputeClientID = &openedBy

		if settlement, ok := dispute.Settlement(); ok {
			kind := string(settlement.Kind())
			settledBy := int64(settlement.ClientID())
			rec.SettlementKind = &kind
			rec.SettlementClientID = &settledBy
		}
	}

	return rec, nil
}

// ToEntity восстанавливает транзакцию, повторяя переходы спора через методы домена.
func (r TransactionRecord) ToEntity() (*entity.Transaction, error) {
	id := entity.TransactionID(r.ID)

	kind, err := valueobject.NewTransactionKind(r.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: tx %d: %v", ErrCorruptRecord, r.ID, err)
	}
	tx, err := entity.NewTransaction(id, entity.ClientID(r.ClientID), kind, valueobject.Amount(r.Amount))
	if err != nil {
		return nil, fmt.Errorf("%w: tx %d: %v", ErrCorruptRecord, r.ID, err)
	}

	if r.DisputeClientID == nil {
		return tx, nil
	}
	if err := tx.Dispute(entity.NewDispute(id, entity.ClientID(*r.DisputeClientID))); err != nil {
		return nil, fmt.Errorf("%w: tx %d: %v", ErrCorruptRecord, r.ID, err)
	}

	if r.SettlementKind == nil {
		return tx, nil
	}
	settlementKind, err := valueobject.NewTransactionKind(*r.SettlementKind)
	if err != nil {
		return nil, fmt.Errorf("%w: tx %d: %v", ErrCorruptRecord, r.ID, err)
	}
	var settledBy int64
	if r.SettlementClientID != nil {
		settledBy = *r.SettlementClientID
	}
	settlement, err := entity.NewTransaction(id, entity.ClientID(settledBy), settlementKind, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: tx %d: %v", ErrCorruptRecord, r.ID, err)
	}
	if err := tx.Settle(settlement); err != nil {
		return nil, fmt.Errorf("%w: tx %d: %v", ErrCorruptRecord, r.ID, err)
	}

	return tx, nil
}
