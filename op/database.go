package op

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nickyhof/RecordDB/core"
)

// Catalog maps table names to tables sharing one key kind.
type Catalog[K core.Key[K]] struct {
	tables map[string]*Table[K]
}

func NewCatalog[K core.Key[K]]() *Catalog[K] {
	return &Catalog[K]{tables: make(map[string]*Table[K])}
}

// AddTable registers table under name. The table's key field must be
// declared with K's field type.
func (catalog *Catalog[K]) AddTable(name string, table *Table[K]) error {
	if _, exists := catalog.tables[name]; exists {
		return fmt.Errorf("%w: table '%s'", core.ErrAlreadyExists, name)
	}

	keyType, err := table.KeyType()
	if err != nil {
		return err
	}

	var zero K
	if keyType != zero.FieldType() {
		return fmt.Errorf("%w: key field '%s' is %s but the database uses %s keys",
			core.ErrType, table.KeyField(), keyType, zero.KeyKind())
	}

	catalog.tables[name] = table
	return nil
}

func (catalog *Catalog[K]) GetTable(name string) (*Table[K], error) {
	table, ok := catalog.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: table '%s'", core.ErrNotExist, name)
	}
	return table, nil
}

func (catalog *Catalog[K]) HasTable(name string) bool {
	_, ok := catalog.tables[name]
	return ok
}

// TableNames returns every table name in sorted order.
func (catalog *Catalog[K]) TableNames() []string {
	return slices.Sorted(maps.Keys(catalog.tables))
}
