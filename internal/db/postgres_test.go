package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/ledger-engine/migrations"
)

func TestMigrationNames_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.sql":   {Data: []byte("SELECT 2")},
		"0001_a.sql":   {Data: []byte("SELECT 1")},
		"README.md":    {Data: []byte("docs")},
		"old/0000.sql": {Data: []byte("SELECT 0")},
	}

	names, err := migrationNames(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, names)
}

func TestMigrationNames_Embedded(t *testing.T) {
	names, err := migrationNames(migrations.FS)
	require.NoError(t, err)
	assert.Contains(t, names, "0001_ledger.sql")
}
