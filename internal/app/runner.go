// Package app собирает пакетную обработку: чтение CSV, применение транзакций
// и итоговый снимок счетов.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/valueobject"
	"github.com/ignatzorin/ledger-engine/internal/goroutine"
	"github.com/ignatzorin/ledger-engine/internal/ingest"
	"github.com/ignatzorin/ledger-engine/internal/logger"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
	"github.com/ignatzorin/ledger-engine/internal/service"
)

type Options struct {
	Workers   int
	Precision int32
	// MaxFailures ограничивает число ошибок, попадающих в Result.Failures.
	// При 0 ошибки только логируются.
	MaxFailures int
}

// Failure описывает отклонённую строку или транзакцию.
type Failure struct {
	Line   int     `json:"line,omitempty"`
	Client *uint16 `json:"client,omitempty"`
	Tx     *uint32 `json:"tx,omitempty"`
	Type   string  `json:"type,omitempty"`
	Code   string  `json:"code"`
	Error  string  `json:"error"`
}

type Result struct {
	RunID   string
	Summary service.Summary
	// Skipped считает строки входа, которые не удалось разобрать.
	Skipped  int
	Failures []Failure
	Clients  []*entity.ClientAccount
}

// Run читает транзакции из input, применяет их к storage и возвращает
// состояние всех счетов. Ошибка возвращается только при сбое чтения входа
// или хранилища; отклонённые транзакции и строки лишь учитываются.
func Run(ctx context.Context, input io.Reader, storage *Storage, opts Options) (*Result, error) {
	if opts.Precision == 0 {
		opts.Precision = valueobject.DefaultPrecision
	}

	res := &Result{RunID: logger.NewRunID()}
	log := logger.WithRun(res.RunID)

	var mu sync.Mutex
	record := func(f Failure) {
		mu.Lock()
		defer mu.Unlock()
		if len(res.Failures) < opts.MaxFailures {
			res.Failures = append(res.Failures, f)
		}
	}

	svc := service.NewTransactionService(storage.Clients, storage.Transactions)
	dispatcher := service.NewDispatcher(svc, opts.Workers)
	reader := ingest.NewReader(input, opts.Precision)

	in := make(chan *entity.Transaction, 256)
	var readErr error
	goroutine.SafeGo(func() {
		defer close(in)
		readErr = goroutine.Call(func() error {
			return reader.Each(
				func(tx *entity.Transaction) error {
					select {
					case in <- tx:
						return nil
					case <-ctx.Done():
						return ctx.Err()
					}
				},
				func(rowErr *ingest.RowError) {
					res.Skipped++
					log.WithField("line", rowErr.Line).WithError(rowErr.Err).Warn("строка пропущена")
					record(Failure{Line: rowErr.Line, Code: string(apperror.CodeOf(rowErr.Err)), Error: rowErr.Err.Error()})
				},
			)
		})
	})

	res.Summary = dispatcher.Run(ctx, in, func(tx *entity.Transaction, err error) {
		log.WithFields(logrus.Fields{
			"client": tx.ClientID(),
			"tx":     tx.ID(),
			"type":   tx.Kind(),
		}).WithError(err).Warn("транзакция отклонена")

		client, id := uint16(tx.ClientID()), uint32(tx.ID())
		record(Failure{Client: &client, Tx: &id, Type: string(tx.Kind()), Code: string(apperror.CodeOf(err)), Error: err.Error()})
	})

	if readErr != nil {
		return nil, fmt.Errorf("app: чтение входа: %w", readErr)
	}

	clients, err := svc.Clients(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось прочитать счета")
	}
	res.Clients = clients

	log.WithFields(logrus.Fields{
		"processed": res.Summary.Processed,
		"failed":    res.Summary.Failed,
		"skipped":   res.Skipped,
		"clients":   len(clients),
		"workers":   dispatcher.Workers(),
	}).Info("пакет обработан")

	return res, nil
}
