package valueobject

import "github.com/ignatzorin/ledger-engine/internal/pkg/apperror"

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusFrozen AccountStatus = "frozen"
)

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusFrozen:
		return true
	}
	return false
}

// CanTransitionTo: единственный переход active -> frozen, frozen терминален.
func (s AccountStatus) CanTransitionTo(newStatus AccountStatus) bool {
	transitions := map[AccountStatus][]AccountStatus{
		AccountStatusActive: {AccountStatusFrozen},
		AccountStatusFrozen: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewAccountStatus(status string) (AccountStatus, error) {
	s := AccountStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус счёта")
	}
	return s, nil
}

type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "deposit"
	TransactionKindWithdrawal TransactionKind = "withdrawal"
	TransactionKindDispute    TransactionKind = "dispute"
	TransactionKindResolve    TransactionKind = "resolve"
	TransactionKindChargeback TransactionKind = "chargeback"
)

func (k TransactionKind) IsValid() bool {
	switch k {
	case TransactionKindDeposit, TransactionKindWithdrawal, TransactionKindDispute,
		TransactionKindResolve, TransactionKindChargeback:
		return true
	}
	return false
}

// HasAmount сообщает, несёт ли операция собственную сумму.
func (k TransactionKind) HasAmount() bool {
	return k == TransactionKindDeposit || k == TransactionKindWithdrawal
}

// IsSettlement сообщает, является ли тип resolve или chargeback.
func (k TransactionKind) IsSettlement() bool {
	return k == TransactionKindResolve || k == TransactionKindChargeback
}

func NewTransactionKind(kind string) (TransactionKind, error) {
	k := TransactionKind(kind)
	if !k.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный тип транзакции")
	}
	return k, nil
}
