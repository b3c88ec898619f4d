package db

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/nickyhof/RecordDB/core"
	"github.com/stretchr/testify/require"
)

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func memStorage() *Storage {
	return &Storage{FS: memfs.New()}
}

func setupLibrary(t *testing.T, opts ...Option) *Database[core.StringKey] {
	t.Helper()
	opts = append([]Option{WithLogger(testLogger(t)), WithStorage(memStorage())}, opts...)
	database := NewDatabase[core.StringKey](opts...)
	mustExecute(t, database, "CREATE library KEY id\nFIELDS id: String, year: Int")
	return database
}

func insertBooks(t *testing.T, database *Database[core.StringKey]) {
	t.Helper()
	mustExecute(t, database, `INSERT id = "1", year = 2002 INTO library`)
	mustExecute(t, database, `INSERT id = "2", year = 2001 INTO library`)
	mustExecute(t, database, `INSERT id = "3", year = 2000 INTO library`)
}

type executor interface {
	ExecuteCommand(text string) (Result, error)
}

func mustExecute(t *testing.T, database executor, text string) Result {
	t.Helper()
	result, err := database.ExecuteCommand(text)
	require.NoError(t, err, text)
	return result
}

func selectIDs(t *testing.T, database executor, query string) []string {
	t.Helper()
	result := mustExecute(t, database, query)
	selected, ok := result.(SelectResult)
	require.True(t, ok)

	var ids []string
	for _, row := range selected.Rows {
		for _, column := range row {
			if column.Field == "id" {
				ids = append(ids, column.Value.Raw())
			}
		}
	}
	return ids
}
