package entity

import (
	"fmt"

	"github.com/ignatzorin/ledger-engine/internal/domain/valueobject"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
)

type ClientID uint16

// ClientAccount хранит счёт клиента: доступные и удержанные средства и статус.
// Все операции сначала проверяют условия и только потом меняют состояние,
// поэтому неуспешная операция счёт не изменяет.
type ClientAccount struct {
	id        ClientID
	available valueobject.Amount
	held      valueobject.Amount
	status    valueobject.AccountStatus
}

// NewClientAccount создаёт пустой активный счёт.
func NewClientAccount(id ClientID) *ClientAccount {
	return &ClientAccount{
		id:     id,
		status: valueobject.AccountStatusActive,
	}
}

// RestoreClientAccount собирает счёт из сохранённого состояния.
func RestoreClientAccount(id ClientID, available, held valueobject.Amount, status valueobject.AccountStatus) (*ClientAccount, error) {
	if held < 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "удержанные средства не могут быть отрицательными")
	}
	if !status.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный статус счёта")
	}
	return &ClientAccount{id: id, available: available, held: held, status: status}, nil
}

func (c *ClientAccount) ID() ClientID { return c.id }
func (c *ClientAccount) Available() valueobject.Amount { return c.available }
func (c *ClientAccount) Held() valueobject.Amount { return c.held }
func (c *ClientAccount) Status() valueobject.AccountStatus { return c.status }

func (c *ClientAccount) Total() valueobject.Amount {
	return c.available + c.held
}

func (c *ClientAccount) IsFrozen() bool {
	return c.status == valueobject.AccountStatusFrozen
}

// Clone возвращает независимую копию счёта.
func (c *ClientAccount) Clone() *ClientAccount {
	cp := *c
	return &cp
}

// Deposit зачисляет средства на доступный остаток.
func (c *ClientAccount) Deposit(amount valueobject.Amount) error {
	if c.IsFrozen() {
		return apperror.ErrAccountFrozen
	}
	available, err := c.available.Add(amount)
	if err != nil {
		return err
	}
	if _, err := available.Add(c.held); err != nil {
		return err
	}
	c.available = available
	return nil
}

// Withdraw списывает средства с доступного остатка.
// Условие строгое: вывести весь доступный остаток целиком нельзя,
// сумма должна быть меньше остатка.
func (c *ClientAccount) Withdraw(amount valueobject.Amount) error {
	if c.IsFrozen() {
		return apperror.ErrAccountFrozen
	}
	if amount >= c.available {
		return fmt.Errorf("%w: доступно %s, запрошено %s", apperror.ErrInsufficientFunds, c.available, amount)
	}
	available, err := c.available.Sub(amount)
	if err != nil {
		return err
	}
	c.available = available
	return nil
}

// DisputeDeposit переводит сумму оспоренного депозита из доступных в удержанные.
// Доступный остаток может стать отрицательным: средства уже могли быть потрачены.
func (c *ClientAccount) DisputeDeposit(amount valueobject.Amount) error {
	if c.IsFrozen() {
		return apperror.ErrAccountFrozen
	}
	available, err := c.available.Sub(amount)
	if err != nil {
		return err
	}
	held, err := c.held.Add(amount)
	if err != nil {
		return err
	}
	c.available = available
	c.held = held
	return nil
}

// DisputeWithdrawal удерживает сумму оспоренного вывода. Доступный остаток
// не трогаем: деньги ушли с него ещё при выводе.
func (c *ClientAccount) DisputeWithdrawal(amount valueobject.Amount) error {
	if c.IsFrozen() {
		return apperror.ErrAccountFrozen
	}
	held, err := c.held.Add(amount)
	if err != nil {
		return err
	}
	if _, err := held.Add(c.available); err != nil {
		return err
	}
	c.held = held
	return nil
}

// Resolve возвращает удержанные средства в доступные.
func (c *ClientAccount) Resolve(amount valueobject.Amount) error {
	if c.IsFrozen() {
		return apperror.ErrAccountFrozen
	}
	if c.held < amount {
		return fmt.Errorf("%w: удержано %s, возвращается %s", apperror.ErrInsufficientHeld, c.held, amount)
	}
	available, err := c.available.Add(amount)
	if err != nil {
		return err
	}
	c.held -= amount
	c.available = available
	return nil
}

// Chargeback списывает удержанные средства и навсегда замораживает счёт.
func (c *ClientAccount) Chargeback(amount valueobject.Amount) error {
	if c.IsFrozen() {
		return apperror.ErrAccountFrozen
	}
	if c.held < amount {
		return fmt.Errorf("%w: удержано %s, списывается %s", apperror.ErrInsufficientHeld, c.held, amount)
	}
	if !c.status.CanTransitionTo(valueobject.AccountStatusFrozen) {
		return apperror.ErrAccountFrozen
	}
	c.held -= amount
	c.status = valueobject.AccountStatusFrozen
	return nil
}
