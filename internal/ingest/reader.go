// Package ingest читает поток транзакций из CSV с колонками type, client, tx, amount.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/valueobject"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
)

// RowError описывает некорректную строку входа. Строку пропускают, чтение продолжается.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("строка %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Reader разбирает CSV построчно. Заголовок в первой строке необязателен.
type Reader struct {
	csv       *csv.Reader
	precision int32
	started   bool
}

func NewReader(r io.Reader, precision int32) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	return &Reader{csv: cr, precision: precision}
}

// Read возвращает следующую транзакцию. Ошибка *RowError относится к одной
// строке; io.EOF означает конец входа; любая другая ошибка фатальна.
func (r *Reader) Read() (*entity.Transaction, error) {
	for {
		record, err := r.csv.Read()
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.started = true
				return nil, &RowError{Line: parseErr.StartLine, Err: parseErr.Err}
			}
			return nil, err
		}

		line, _ := r.csv.FieldPos(0)
		isFirst := !r.started
		r.started = true

		if isFirst && isHeader(record) {
			continue
		}
		if isBlank(record) {
			continue
		}

		tx, err := r.parse(record)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		return tx, nil
	}
}

// Each читает вход до конца. Ошибки строк передаются в onRowError,
// ошибка из fn или фатальная ошибка чтения останавливает разбор.
func (r *Reader) Each(fn func(tx *entity.Transaction) error, onRowError func(err *RowError)) error {
	for {
		tx, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			if onRowError != nil {
				onRowError(rowErr)
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			return err
		}
	}
}

func (r *Reader) parse(record []string) (*entity.Transaction, error) {
	if len(record) < 3 {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("ожидалось минимум 3 поля, получено %d", len(record)))
	}

	kind, err := valueobject.NewTransactionKind(strings.ToLower(field(record, 0)))
	if err != nil {
		return nil, err
	}

	client, err := strconv.ParseUint(field(record, 1), 10, 16)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, fmt.Sprintf("некорректный id клиента %q", field(record, 1)))
	}
	id, err := strconv.ParseUint(field(record, 2), 10, 32)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, fmt.Sprintf("некорректный id транзакции %q", field(record, 2)))
	}

	// Сумма у dispute, resolve и chargeback игнорируется.
	var amount valueobject.Amount
	if kind.HasAmount() {
		raw := field(record, 3)
		if raw == "" {
			return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("у операции %s нет суммы", kind))
		}
		if amount, err = valueobject.ParseAmount(raw, r.precision); err != nil {
			return nil, err
		}
	}

	return entity.NewTransaction(entity.TransactionID(id), entity.ClientID(client), kind, amount)
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isHeader(record []string) bool {
	return strings.EqualFold(field(record, 0), "type")
}

func isBlank(record []string) bool {
	for i := range record {
		if field(record, i) != "" {
			return false
		}
	}
	return true
}
