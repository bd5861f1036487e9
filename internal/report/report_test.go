package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/ledger-engine/internal/domain/entity"
	"github.com/ignatzorin/ledger-engine/internal/domain/valueobject"
)

func sampleClients(t *testing.T) []*entity.ClientAccount {
	t.Helper()
	active, err := entity.RestoreClientAccount(1, 15000, 5000, valueobject.AccountStatusActive)
	require.NoError(t, err)
	frozen, err := entity.RestoreClientAccount(2, -30000, 0, valueobject.AccountStatusFrozen)
	require.NoError(t, err)
	return []*entity.ClientAccount{active, frozen}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleClients(t), valueobject.DefaultPrecision))

	want := "client,available,held,total,locked\n" +
		"1,1.5000,0.5000,2.0000,false\n" +
		"2,-3.0000,0.0000,-3.0000,true\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, valueobject.DefaultPrecision))
	assert.Equal(t, "client,available,held,total,locked\n", buf.String())
}

func TestRows(t *testing.T) {
	rows := Rows(sampleClients(t), valueobject.DefaultPrecision)

	require.Len(t, rows, 2)
	assert.Equal(t, Row{Client: 1, Available: "1.5000", Held: "0.5000", Total: "2.0000"}, rows[0])
	assert.True(t, rows[1].Locked)
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriteCSV_WriterError(t *testing.T) {
	err := WriteCSV(brokenWriter{}, sampleClients(t), valueobject.DefaultPrecision)
	assert.EqualError(t, err, "broken pipe")
}
