package entity

import (
	"fmt"

	"github.com/ignatzorin/ledger-engine/internal/domain/valueobject"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
)

type TransactionID uint32

// Transaction описывает входящую операцию. Сумму несут только deposit и withdrawal;
// dispute, resolve и chargeback лишь ссылаются на ранее сохранённую
// транзакцию по её id.
type Transaction struct {
	id       TransactionID
	clientID ClientID
	kind     valueobject.TransactionKind
	amount   valueobject.Amount
	dispute  *Dispute
}

// Dispute описывает спор по депозиту или выводу. Своего id не имеет и существует
// только внутри оспоренной транзакции.
type Dispute struct {
	opening    Transaction
	settlement *Transaction
}

// NewTransaction проверяет обязательные поля и создаёт транзакцию.
func NewTransaction(id TransactionID, clientID ClientID, kind valueobject.TransactionKind, amount valueobject.Amount) (*Transaction, error) {
	if !kind.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("некорректный тип транзакции %q", kind))
	}
	if kind.HasAmount() && !amount.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма депозита или вывода должна быть положительной")
	}
	if !kind.HasAmount() && amount != 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("у операции %s не может быть суммы", kind))
	}

	return &Transaction{
		id:       id,
		clientID: clientID,
		kind:     kind,
		amount:   amount,
	}, nil
}

func NewDeposit(id TransactionID, clientID ClientID, amount valueobject.Amount) (*Transaction, error) {
	return NewTransaction(id, clientID, valueobject.TransactionKindDeposit, amount)
}

func NewWithdrawal(id TransactionID, clientID ClientID, amount valueobject.Amount) (*Transaction, error) {
	return NewTransaction(id, clientID, valueobject.TransactionKindWithdrawal, amount)
}

func NewDispute(id TransactionID, clientID ClientID) *Transaction {
	return &Transaction{id: id, clientID: clientID, kind: valueobject.TransactionKindDispute}
}

func NewResolve(id TransactionID, clientID ClientID) *Transaction {
	return &Transaction{id: id, clientID: clientID, kind: valueobject.TransactionKindResolve}
}

func NewChargeback(id TransactionID, clientID ClientID) *Transaction {
	return &Transaction{id: id, clientID: clientID, kind: valueobject.TransactionKindChargeback}
}

func (t *Transaction) ID() TransactionID { return t.id }
func (t *Transaction) ClientID() ClientID { return t.clientID }
func (t *Transaction) Kind() valueobject.TransactionKind { return t.kind }

// Amount возвращает сумму депозита или вывода.
func (t *Transaction) Amount() (valueobject.Amount, error) {
	if !t.kind.HasAmount() {
		return 0, fmt.Errorf("%w: транзакция %d (%s)", apperror.ErrNotAmountBearing, t.id, t.kind)
	}
	return t.amount, nil
}

// OpenDispute возвращает спор по транзакции, если он есть.
func (t *Transaction) OpenDispute() (*Dispute, bool) {
	if t.dispute == nil {
		return nil, false
	}
	return t.dispute, true
}

func (t *Transaction) IsDisputed() bool {
	return t.dispute != nil
}

func (t *Transaction) IsSettled() bool {
	return t.dispute != nil && t.dispute.settlement != nil
}

// Dispute открывает спор по транзакции. opening должен быть операцией
// dispute с тем же id.
func (t *Transaction) Dispute(opening *Transaction) error {
	if opening.kind != valueobject.TransactionKindDispute {
		return fmt.Errorf("%w: получен %s", apperror.ErrNotDisputeKind, opening.kind)
	}
	if opening.id != t.id {
		return fmt.Errorf("%w: транзакция %d, спор по %d", apperror.ErrWrongTarget, t.id, opening.id)
	}
	if !t.kind.HasAmount() {
		return apperror.ErrNotDisputable
	}
	if t.dispute != nil {
		return apperror.ErrAlreadyDisputed
	}

	t.dispute = &Dispute{opening: *opening}
	return nil
}

// Settle фиксирует итог спора: resolve или chargeback с тем же id.
func (t *Transaction) Settle(settlement *Transaction) error {
	if !settlement.kind.IsSettlement() {
		return fmt.Errorf("%w: получен %s", apperror.ErrNotSettlementKind, settlement.kind)
	}
	if settlement.id != t.id {
		return fmt.Errorf("%w: транзакция %d, урегулирование по %d", apperror.ErrWrongTarget, t.id, settlement.id)
	}
	if !t.kind.HasAmount() {
		return apperror.ErrNotDisputable
	}
	if t.dispute == nil {
		return apperror.ErrNoOpenDispute
	}
	if t.dispute.settlement != nil {
		return apperror.ErrAlreadySettled
	}

	s := *settlement
	t.dispute.settlement = &s
	return nil
}

// Clone возвращает глубокую копию транзакции вместе со спором.
func (t *Transaction) Clone() *Transaction {
	cp := *t
	if t.dispute != nil {
		d := *t.dispute
		if t.dispute.settlement != nil {
			s := *t.dispute.settlement
			d.settlement = &s
		}
		cp.dispute = &d
	}
	return &cp
}

// Opening возвращает операцию, открывшую спор.
func (d *Dispute) Opening() Transaction {
	return d.opening
}

// Settlement возвращает операцию урегулирования, если спор уже закрыт.
func (d *Dispute) Settlement() (Transaction, bool) {
	if d.settlement == nil {
		return Transaction{}, false
	}
	return *d.settlement, true
}
