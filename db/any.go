package db

import (
	"fmt"

	"github.com/nickyhof/RecordDB/core"
)

// database is what AnyDatabase needs from either instantiation.
type database interface {
	ExecuteCommand(text string) (Result, error)
	Transcript() []string
	TableNames() []string
	DescribeTable(name string) (TableInfo, error)
	KeyKind() core.KeyKind
	KeyType() core.FieldType
}

var (
	_ database = (*Database[core.StringKey])(nil)
	_ database = (*Database[core.IntKey])(nil)
)

// AnyDatabase holds a Database over whichever key kind was chosen at runtime
// and forwards every operation to it.
type AnyDatabase struct {
	database
}

// NewAnyDatabase creates an empty database using the given key kind.
func NewAnyDatabase(kind core.KeyKind, opts ...Option) (*AnyDatabase, error) {
	switch kind {
	case core.KeyString:
		return &AnyDatabase{database: NewDatabase[core.StringKey](opts...)}, nil
	case core.KeyInt:
		return &AnyDatabase{database: NewDatabase[core.IntKey](opts...)}, nil
	default:
		return nil, fmt.Errorf("%w: %v", core.ErrKeyType, kind)
	}
}

// OpenAnyDatabase is NewAnyDatabase for a textual key kind ("string" or "int").
func OpenAnyDatabase(kind string, opts ...Option) (*AnyDatabase, error) {
	keyKind, err := core.ParseKeyKind(kind)
	if err != nil {
		return nil, err
	}
	return NewAnyDatabase(keyKind, opts...)
}

// StringDatabase returns the concrete database when the key kind is string.
func (anyDB *AnyDatabase) StringDatabase() (*Database[core.StringKey], bool) {
	database, ok := anyDB.database.(*Database[core.StringKey])
	return database, ok
}

// IntDatabase returns the concrete database when the key kind is int.
func (anyDB *AnyDatabase) IntDatabase() (*Database[core.IntKey], bool) {
	database, ok := anyDB.database.(*Database[core.IntKey])
	return database, ok
}
