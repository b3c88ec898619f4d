package db

import (
	"fmt"
	"time"

	"github.com/nickyhof/RecordDB/core"
	"github.com/nickyhof/RecordDB/op"
	"github.com/nickyhof/RecordDB/sql"
)

// Command is a statement bound to the state it acts on. Commands are built
// right before execution and discarded afterwards.
type Command interface {
	Execute() (Result, error)
}

// parseCommand binds a statement to database, resolving the target table
// where the verb has one.
func parseCommand[K core.Key[K]](database *Database[K], statement sql.Statement) (Command, error) {
	switch statement := statement.(type) {
	case sql.CreateStatement:
		keyType, ok := statement.Schema[statement.Key]
		if !ok {
			return nil, fmt.Errorf("%w: key field '%s' is not declared in FIELDS", core.ErrNotSpecified, statement.Key)
		}
		if keyType != database.KeyType() {
			return nil, fmt.Errorf("%w: key field '%s' is %s but the database uses %s keys",
				core.ErrType, statement.Key, keyType, database.KeyKind())
		}
		return &CreateCommand[K]{
			catalog: database.Catalog,
			name:    statement.Table,
			table:   op.NewTable[K](statement.Key, statement.Schema, nil),
		}, nil

	case sql.InsertStatement:
		table, err := database.GetTable(statement.Table)
		if err != nil {
			return nil, err
		}
		return &InsertCommand[K]{table: table, record: statement.Record}, nil

	case sql.DeleteStatement:
		table, err := database.GetTable(statement.Table)
		if err != nil {
			return nil, err
		}
		return &DeleteCommand[K]{table: table, key: statement.Key}, nil

	case sql.SelectStatement:
		table, err := database.GetTable(statement.Table)
		if err != nil {
			return nil, err
		}
		return &SelectCommand[K]{
			table:   table,
			fields:  statement.Fields,
			clauses: clausesFor(statement),
		}, nil

	case sql.ReadStatement:
		return &ReadCommand[K]{database: database, path: statement.Path}, nil

	case sql.SaveStatement:
		return &SaveCommand{
			storage:  database.storage,
			path:     statement.Path,
			commands: database.Transcript(),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported statement type %v", core.ErrUnknownToken, statement.Type())
	}
}

type CreateCommand[K core.Key[K]] struct {
	catalog *op.Catalog[K]
	name    string
	table   *op.Table[K]
}

func (command *CreateCommand[K]) Execute() (Result, error) {
	if err := command.catalog.AddTable(command.name, command.table); err != nil {
		return nil, err
	}
	return MessageResult{Message: fmt.Sprintf("Table '%s' created successfully", command.name)}, nil
}

type InsertCommand[K core.Key[K]] struct {
	table  *op.Table[K]
	record core.IntermediateRecord
}

func (command *InsertCommand[K]) Execute() (Result, error) {
	if err := command.table.AddRecord(command.record); err != nil {
		return nil, err
	}
	return MessageResult{Message: "Successfully inserted record"}, nil
}

type DeleteCommand[K core.Key[K]] struct {
	table *op.Table[K]
	key   core.KeyValue
}

func (command *DeleteCommand[K]) Execute() (Result, error) {
	var zero K
	key, err := zero.FromKeyValue(command.key)
	if err != nil {
		return nil, err
	}
	if err := command.table.DeleteRecord(key); err != nil {
		return nil, err
	}
	return MessageResult{Message: "Successfully deleted record"}, nil
}

type SelectCommand[K core.Key[K]] struct {
	table   *op.Table[K]
	fields  []string
	clauses []Clause
}

func (command *SelectCommand[K]) Execute() (Result, error) {
	startTime := time.Now()

	slice := command.table.ToSlice()
	scanned := len(slice)

	var err error
	for _, clause := range command.clauses {
		slice, err = clause.Apply(slice)
		if err != nil {
			return nil, err
		}
	}

	rows, err := project(slice, command.fields)
	if err != nil {
		return nil, err
	}

	return SelectResult{
		Columns: command.fields,
		Rows:    rows,
		Scanned: scanned,
		Elapsed: time.Since(startTime),
	}, nil
}
