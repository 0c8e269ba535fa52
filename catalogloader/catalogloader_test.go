package catalogloader

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/assert"
)

// modernc.org/sqlite is pure Go, so these run against a real in-memory
// database rather than a mock — the same introspection path Load takes
// against a file-backed database.
func TestLoadSqliteIntrospectsTablesAndColumns(t *testing.T) {
	db, err := sql.Open(DriverSqlite3, "file::memory:?cache=shared")
	assert.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	assert.NoError(t, err)

	tables, err := loadSqlite(context.Background(), db)
	assert.NoError(t, err)
	assert.Len(t, tables, 1)
	assert.Equal(t, "users", tables[0].Name)
	assert.Len(t, tables[0].Columns, 2)
	assert.Equal(t, "id", tables[0].Columns[0].Name)
	assert.True(t, tables[0].Columns[0].IsPrimaryKey)
	assert.Equal(t, "name", tables[0].Columns[1].Name)
	assert.False(t, tables[0].Columns[1].IsPrimaryKey)
}

func TestLoadRejectsUnsupportedDriver(t *testing.T) {
	_, _, err := Load(context.Background(), Config{Driver: "oracle", DSN: "unused"})
	assert.Error(t, err)
}

func TestLoadReturnsFingerprintForSqlite(t *testing.T) {
	schema, fp, err := Load(context.Background(), Config{Driver: DriverSqlite3, DSN: "file::memory:?cache=shared&mode=memory"})
	assert.NoError(t, err)
	assert.NotNil(t, schema)
	_ = fp
}
