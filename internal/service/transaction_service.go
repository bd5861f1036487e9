package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/repository"
	"github.com/ignatzorin/ledger-engine/internal/domain/valueobject"
	"github.com/ignatzorin/ledger-engine/internal/logger"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
)

// TransactionService применяет транзакции к счетам клиентов.
// Безопасен для конкурентного использования: операции над одним клиентом
// и одной транзакцией сериализуются через KeyLock.
type TransactionService struct {
	clients      repository.ClientRepository
	transactions repository.TransactionRepository
	locks        *KeyLock
}

func NewTransactionService(clients repository.ClientRepository, transactions repository.TransactionRepository) *TransactionService {
	return &TransactionService{
		clients:      clients,
		transactions: transactions,
		locks:        NewKeyLock(),
	}
}

// Process применяет одну транзакцию. Изменения счёта и транзакции
// сохраняются целиком либо не сохраняются вовсе; счёт клиента передаётся
// в Save при любом исходе.
//
// Транзакция записывается только после успешного сохранения счёта. Если
// запись транзакции не удалась, счёт возвращается к исходному состоянию.
func (s *TransactionService) Process(ctx context.Context, tx *entity.Transaction) error {
	unlock := s.locks.Lock(clientKey(tx.ClientID()))
	defer unlock()
	unlockTx := s.locks.Lock(transactionKey(tx.ID()))
	defer unlockTx()

	client, err := s.resolveClient(ctx, tx.ClientID())
	if err != nil {
		return err
	}

	staged := client.Clone()
	write, procErr := s.apply(ctx, staged, tx)
	if procErr != nil {
		staged = client
	}

	if err := s.clients.Save(ctx, staged); err != nil {
		if procErr == nil {
			procErr = apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить счёт клиента")
		}
		s.log(tx, procErr)
		return procErr
	}

	if procErr == nil {
		if err := s.commit(ctx, write); err != nil {
			procErr = err
			if rbErr := s.clients.Save(ctx, client); rbErr != nil {
				logger.Log.WithFields(logrus.Fields{
					"client": tx.ClientID(),
					"tx":     tx.ID(),
				}).WithError(rbErr).Error("не удалось вернуть счёт клиента после ошибки записи транзакции")
			}
		}
	}

	s.log(tx, procErr)
	return procErr
}

// Clients возвращает текущее состояние всех счетов по возрастанию id.
func (s *TransactionService) Clients(ctx context.Context) ([]*entity.ClientAccount, error) {
	return s.clients.FindAll(ctx)
}

func (s *TransactionService) resolveClient(ctx context.Context, id entity.ClientID) (*entity.ClientAccount, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, apperror.ErrClientNotFound) {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить счёт клиента")
	}

	client = entity.NewClientAccount(id)
	created, err := s.clients.Store(ctx, client)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать счёт клиента")
	}
	if created {
		return client, nil
	}

	// Счёт успел появиться в хранилище, берём сохранённую версию.
	client, err = s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить счёт клиента")
	}
	return client, nil
}

// transactionWrite описывает отложенную запись транзакции: новую
// (insert) либо обновлённую копию уже сохранённой.
type transactionWrite struct {
	tx     *entity.Transaction
	insert bool
}

func (s *TransactionService) apply(ctx context.Context, client *entity.ClientAccount, tx *entity.Transaction) (transactionWrite, error) {
	switch tx.Kind() {
	case valueobject.TransactionKindDeposit, valueobject.TransactionKindWithdrawal:
		return s.applyMovement(ctx, client, tx)
	case valueobject.TransactionKindDispute:
		return s.applyDispute(ctx, client, tx)
	case valueobject.TransactionKindResolve, valueobject.TransactionKindChargeback:
		return s.applySettlement(ctx, client, tx)
	default:
		return transactionWrite{}, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("некорректный тип транзакции %q", tx.Kind()))
	}
}

func (s *TransactionService) applyMovement(ctx context.Context, client *entity.ClientAccount, tx *entity.Transaction) (transactionWrite, error) {
	_, err := s.transactions.FindByID(ctx, tx.ID())
	switch {
	case err == nil:
		return transactionWrite{}, fmt.Errorf("%w: tx %d", apperror.ErrDuplicateTransaction, tx.ID())
	case !errors.Is(err, apperror.ErrTransactionNotFound):
		return transactionWrite{}, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить транзакцию")
	}

	amount, err := tx.Amount()
	if err != nil {
		return transactionWrite{}, err
	}

	if tx.Kind() == valueobject.TransactionKindDeposit {
		err = client.Deposit(amount)
	} else {
		err = client.Withdraw(amount)
	}
	if err != nil {
		return transactionWrite{}, err
	}
	return transactionWrite{tx: tx, insert: true}, nil
}

func (s *TransactionService) applyDispute(ctx context.Context, client *entity.ClientAccount, tx *entity.Transaction) (transactionWrite, error) {
	found, err := s.findReferenced(ctx, tx, apperror.ErrDisputedTransactionNotFound)
	if err != nil {
		return transactionWrite{}, err
	}

	if err := found.Dispute(tx); err != nil {
		return transactionWrite{}, err
	}
	amount, err := found.Amount()
	if err != nil {
		return transactionWrite{}, err
	}

	switch found.Kind() {
	case valueobject.TransactionKindDeposit:
		err = client.DisputeDeposit(amount)
	case valueobject.TransactionKindWithdrawal:
		err = client.DisputeWithdrawal(amount)
	default:
		return transactionWrite{}, apperror.New(apperror.ErrCodeInternal, fmt.Sprintf("оспорена транзакция типа %s", found.Kind()))
	}
	if err != nil {
		return transactionWrite{}, err
	}
	return transactionWrite{tx: found}, nil
}

func (s *TransactionService) applySettlement(ctx context.Context, client *entity.ClientAccount, tx *entity.Transaction) (transactionWrite, error) {
	found, err := s.findReferenced(ctx, tx, apperror.ErrSettledTransactionNotFound)
	if err != nil {
		return transactionWrite{}, err
	}

	if err := found.Settle(tx); err != nil {
		return transactionWrite{}, err
	}
	amount, err := found.Amount()
	if err != nil {
		return transactionWrite{}, err
	}

	if tx.Kind() == valueobject.TransactionKindResolve {
		err = client.Resolve(amount)
	} else {
		err = client.Chargeback(amount)
	}
	if err != nil {
		return transactionWrite{}, err
	}
	return transactionWrite{tx: found}, nil
}

// findReferenced возвращает копию транзакции, на которую ссылается операция спора.
func (s *TransactionService) findReferenced(ctx context.Context, tx *entity.Transaction, notFound error) (*entity.Transaction, error) {
	found, err := s.transactions.FindByID(ctx, tx.ID())
	if err != nil {
		if errors.Is(err, apperror.ErrTransactionNotFound) {
			return nil, fmt.Errorf("%w: tx %d", notFound, tx.ID())
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить транзакцию")
	}
	// Намеренное ужесточение: операция спора над чужой транзакцией отклоняется.
	if found.ClientID() != tx.ClientID() {
		return nil, fmt.Errorf("%w: tx %d принадлежит клиенту %d, а не %d",
			apperror.ErrClientMismatch, tx.ID(), found.ClientID(), tx.ClientID())
	}
	return found.Clone(), nil
}

func (s *TransactionService) commit(ctx context.Context, w transactionWrite) error {
	if !w.insert {
		if err := s.transactions.Save(ctx, w.tx); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить транзакцию")
		}
		return nil
	}

	created, err := s.transactions.Store(ctx, w.tx)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить транзакцию")
	}
	if !created {
		return fmt.Errorf("%w: tx %d", apperror.ErrDuplicateTransaction, w.tx.ID())
	}
	return nil
}

func (s *TransactionService) log(tx *entity.Transaction, err error) {
	entry := logger.Log.WithFields(logrus.Fields{
		"client": tx.ClientID(),
		"tx":     tx.ID(),
		"type":   tx.Kind(),
	})
	if err != nil {
		entry.WithError(err).Debug("транзакция отклонена")
		return
	}
	entry.Debug("транзакция применена")
}

func clientKey(id entity.ClientID) string {
	return fmt.Sprintf("client:%d", id)
}

func transactionKey(id entity.TransactionID) string {
	return fmt.Sprintf("tx:%d", id)
}
