package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/goroutine"
)

// Processor применяет одну транзакцию.
type Processor interface {
	Process(ctx context.Context, tx *entity.Transaction) error
}

// FailureHandler получает отклонённую транзакцию и причину. При нескольких
// воркерах вызывается конкурентно.
type FailureHandler func(tx *entity.Transaction, err error)

// Summary итог обработки пакета.
type Summary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Dispatcher раздаёт поток транзакций воркерам. Шардирование по id клиента
// сохраняет порядок поступления транзакций каждого клиента.
type Dispatcher struct {
	processor Processor
	workers   int
	recovery  *goroutine.RecoveryHandler
}

func NewDispatcher(processor Processor, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		processor: processor,
		workers:   workers,
		recovery:  goroutine.DefaultRecoveryHandler,
	}
}

// WithRecovery подменяет обработчик panic (например, для логгера прогона).
func (d *Dispatcher) WithRecovery(rh *goroutine.RecoveryHandler) *Dispatcher {
	d.recovery = rh
	return d
}

func (d *Dispatcher) Workers() int {
	return d.workers
}

// Run обрабатывает транзакции, пока канал in не закрыт. Ошибка или panic
// в одной транзакции не прерывает пакет.
func (d *Dispatcher) Run(ctx context.Context, in <-chan *entity.Transaction, onFailure FailureHandler) Summary {
	var processed, failed atomic.Int64

	handle := func(tx *entity.Transaction) {
		err := d.recovery.Call(func() error {
			return d.processor.Process(ctx, tx)
		})
		if err != nil {
			failed.Add(1)
			if onFailure != nil {
				onFailure(tx, err)
			}
			return
		}
		processed.Add(1)
	}

	if d.workers == 1 {
		for tx := range in {
			handle(tx)
		}
		return Summary{Processed: int(processed.Load()), Failed: int(failed.Load())}
	}

	shards := make([]chan *entity.Transaction, d.workers)
	var wg sync.WaitGroup
	for i := range shards {
		shard := make(chan *entity.Transaction, 64)
		shards[i] = shard
		d.recovery.SafeGoGroup(&wg, func() {
			for tx := range shard {
				handle(tx)
			}
		})
	}

	for tx := range in {
		shards[int(tx.ClientID())%d.workers] <- tx
	}
	for _, shard := range shards {
		close(shard)
	}
	wg.Wait()

	return Summary{Processed: int(processed.Load()), Failed: int(failed.Load())}
}
