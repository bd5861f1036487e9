package ingest

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/valueobject"
)

func readAll(t *testing.T, input string) ([]*entity.Transaction, []*RowError) {
	t.Helper()
	var txs []*entity.Transaction
	var rowErrs []*RowError

	err := NewReader(strings.NewReader(input), valueobject.DefaultPrecision).Each(
		func(tx *entity.Transaction) error {
			txs = append(txs, tx)
			return nil
		},
		func(err *RowError) {
			rowErrs = append(rowErrs, err)
		},
	)
	require.NoError(t, err)
	return txs, rowErrs
}

func TestReader_ParsesAllKinds(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, 1, 1, 1.0\n" +
		"withdrawal,  2, 5, 0.1234\n" +
		"dispute, 1, 1,\n" +
		"resolve, 1, 1\n" +
		"chargeback , 65535, 4294967295, \n"

	txs, rowErrs := readAll(t, input)
	require.Empty(t, rowErrs)
	require.Len(t, txs, 5)

	amount, err := txs[0].Amount()
	require.NoError(t, err)
	assert.Equal(t, valueobject.Amount(10000), amount)
	assert.Equal(t, entity.ClientID(1), txs[0].ClientID())

	amount, err = txs[1].Amount()
	require.NoError(t, err)
	assert.Equal(t, valueobject.Amount(1234), amount)
	assert.Equal(t, valueobject.TransactionKindWithdrawal, txs[1].Kind())

	assert.Equal(t, valueobject.TransactionKindDispute, txs[2].Kind())
	assert.Equal(t, valueobject.TransactionKindResolve, txs[3].Kind())
	assert.Equal(t, valueobject.TransactionKindChargeback, txs[4].Kind())
	assert.Equal(t, entity.ClientID(65535), txs[4].ClientID())
	assert.Equal(t, entity.TransactionID(4294967295), txs[4].ID())
}

func TestReader_TruncatesExtraPrecision(t *testing.T) {
	txs, rowErrs := readAll(t, "type,client,tx,amount\ndeposit,1,1,2.99999\n")
	require.Empty(t, rowErrs)
	require.Len(t, txs, 1)

	amount, err := txs[0].Amount()
	require.NoError(t, err)
	assert.Equal(t, valueobject.Amount(29999), amount)
}

func TestReader_AmountIgnoredForDisputeFamily(t *testing.T) {
	txs, rowErrs := readAll(t, "type,client,tx,amount\ndispute,1,1,5.0\n")
	require.Empty(t, rowErrs)
	require.Len(t, txs, 1)

	_, err := txs[0].Amount()
	assert.Error(t, err)
}

func TestReader_HeaderIsOptional(t *testing.T) {
	txs, rowErrs := readAll(t, "deposit,1,1,1\ndeposit,1,2,1\n")
	assert.Empty(t, rowErrs)
	assert.Len(t, txs, 2)
}

func TestReader_BadRowsSkippedWithLineNumbers(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"deposit,1,1,1.0\n" +
		"refund,1,2,1.0\n" +
		"deposit,70000,3,1.0\n" +
		"deposit,1,-4,1.0\n" +
		"deposit,1,5,\n" +
		"withdrawal,1,6,abc\n" +
		"deposit,1,7,-3\n" +
		"deposit,1\n" +
		"\n" +
		"deposit,1,8,0.5\n"

	txs, rowErrs := readAll(t, input)

	require.Len(t, txs, 2)
	assert.Equal(t, entity.TransactionID(1), txs[0].ID())
	assert.Equal(t, entity.TransactionID(8), txs[1].ID())

	lines := make([]int, 0, len(rowErrs))
	for _, e := range rowErrs {
		lines = append(lines, e.Line)
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9}, lines)
}

func TestReader_QuoteErrorIsRowError(t *testing.T) {
	txs, rowErrs := readAll(t, "type,client,tx,amount\ndeposit,1,1,\"1.0\n")
	assert.Empty(t, txs)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, 2, rowErrs[0].Line)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device not ready")
}

func TestReader_IOErrorIsFatal(t *testing.T) {
	r := NewReader(failingReader{}, valueobject.DefaultPrecision)

	_, err := r.Read()
	require.Error(t, err)
	var rowErr *RowError
	assert.False(t, errors.As(err, &rowErr))

	err = r.Each(func(*entity.Transaction) error { return nil }, nil)
	assert.EqualError(t, err, "device not ready")
}

func TestReader_EOF(t *testing.T) {
	_, err := NewReader(strings.NewReader("type,client,tx,amount\n"), 4).Read()
	assert.ErrorIs(t, err, io.EOF)
}
