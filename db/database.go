package db

import (
	"log/slog"
	"slices"
	"time"

	"github.com/nickyhof/RecordDB/core"
	"github.com/nickyhof/RecordDB/op"
	"github.com/nickyhof/RecordDB/sql"
)

// Database is a catalog of tables sharing key kind K, plus the transcript of
// the commands executed against it.
type Database[K core.Key[K]] struct {
	*op.Catalog[K]

	transcript []string
	logger     *slog.Logger
	storage    *Storage
	replay     ReplayPolicy

	// paths of the READ_FROM commands currently running, outermost first
	replaying []string
}

func NewDatabase[K core.Key[K]](opts ...Option) *Database[K] {
	o := buildOptions(opts)
	return &Database[K]{
		Catalog: op.NewCatalog[K](),
		logger:  o.logger,
		storage: o.storage,
		replay:  o.replay,
	}
}

// ExecuteCommand parses, binds and runs one command. Successful commands are
// appended verbatim to the transcript, except READ_FROM and SAVE_AS.
func (database *Database[K]) ExecuteCommand(text string) (Result, error) {
	startTime := time.Now()

	statement, err := sql.Parse(text)
	if err != nil {
		return nil, err
	}

	command, err := parseCommand(database, statement)
	if err != nil {
		return nil, err
	}

	result, err := command.Execute()
	if err != nil {
		database.logger.Debug("command failed",
			"verb", statement.Type().String(),
			"error", err)
		return nil, err
	}

	if result.Type() != FileResultType {
		database.transcript = append(database.transcript, text)
	}

	database.logger.Debug("command executed",
		"verb", statement.Type().String(),
		"duration", time.Since(startTime))

	return result, nil
}

// Transcript returns a copy of the logged commands.
func (database *Database[K]) Transcript() []string {
	return slices.Clone(database.transcript)
}

func (database *Database[K]) KeyKind() core.KeyKind {
	var zero K
	return zero.KeyKind()
}

// KeyType is the field type every table's key field must be declared with.
func (database *Database[K]) KeyType() core.FieldType {
	var zero K
	return zero.FieldType()
}

// DescribeTable returns the key field and schema of a table.
func (database *Database[K]) DescribeTable(name string) (TableInfo, error) {
	table, err := database.GetTable(name)
	if err != nil {
		return TableInfo{}, err
	}
	return TableInfo{
		Name:     name,
		KeyField: table.KeyField(),
		Schema:   table.Schema(),
		Records:  table.Len(),
	}, nil
}

// TableInfo summarises a table for display.
type TableInfo struct {
	Name     string
	KeyField string
	Schema   core.Schema
	Records  int
}

// String renders the table as the CREATE command that would recreate it.
func (info TableInfo) String() string {
	return "CREATE " + info.Name + " KEY " + info.KeyField + "\nFIELDS " + info.Schema.String()
}
