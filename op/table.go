package op

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/nickyhof/RecordDB/core"
)

// Table is schema-validated record storage keyed by K.
type Table[K core.Key[K]] struct {
	keyField string
	schema   core.Schema
	records  map[K]core.Record
}

// NewTable builds a table. Initial records are taken as-is; AddRecord is the
// only validated way in.
func NewTable[K core.Key[K]](keyField string, schema core.Schema, records map[K]core.Record) *Table[K] {
	if records == nil {
		records = make(map[K]core.Record)
	}
	return &Table[K]{
		keyField: keyField,
		schema:   schema,
		records:  records,
	}
}

func (table *Table[K]) KeyField() string {
	return table.keyField
}

// Schema returns a copy of the table's field declarations.
func (table *Table[K]) Schema() core.Schema {
	return maps.Clone(table.schema)
}

// KeyType returns the declared type of the key field.
func (table *Table[K]) KeyType() (core.FieldType, error) {
	fieldType, ok := table.schema[table.keyField]
	if !ok {
		return 0, fmt.Errorf("%w: key field '%s' is not declared", core.ErrNotSpecified, table.keyField)
	}
	return fieldType, nil
}

func (table *Table[K]) Len() int {
	return len(table.records)
}

func (table *Table[K]) Get(key K) (core.Record, bool) {
	record, ok := table.records[key]
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// AddRecord validates input against the schema and stores it. Nothing is
// stored unless every check passes.
func (table *Table[K]) AddRecord(input core.IntermediateRecord) error {
	record := make(core.Record, len(table.schema))
	for _, field := range table.schema.Fields() {
		literal, ok := input[field]
		if !ok {
			return fmt.Errorf("%w: field '%s' is required", core.ErrMissingField, field)
		}
		value, err := literal.ToValue(table.schema[field])
		if err != nil {
			return fmt.Errorf("field '%s': %w", field, err)
		}
		record[field] = value
	}

	for _, field := range slices.Sorted(maps.Keys(input)) {
		if _, ok := table.schema[field]; !ok {
			return fmt.Errorf("%w: field '%s' is not in the schema", core.ErrNotExist, field)
		}
	}

	keyValue, ok := record[table.keyField]
	if !ok {
		return fmt.Errorf("%w: key field '%s' is required", core.ErrMissingField, table.keyField)
	}

	var zero K
	key, err := zero.FromValue(keyValue)
	if err != nil {
		return err
	}

	if _, exists := table.records[key]; exists {
		return fmt.Errorf("%w: record with key %s", core.ErrAlreadyExists, key)
	}

	table.records[key] = record
	return nil
}

func (table *Table[K]) DeleteRecord(key K) error {
	if _, exists := table.records[key]; !exists {
		return fmt.Errorf("%w: record with key %s", core.ErrNotExist, key)
	}
	delete(table.records, key)
	return nil
}

// Scan yields records in key order.
func (table *Table[K]) Scan() iter.Seq2[K, core.Record] {
	return func(yield func(K, core.Record) bool) {
		keys := slices.SortedFunc(maps.Keys(table.records), func(a, b K) int {
			return cmp.Compare(a, b)
		})
		for _, key := range keys {
			if !yield(key, table.records[key]) {
				return
			}
		}
	}
}

// ToSlice snapshots every record. Callers that need a particular order must
// sort the result themselves.
func (table *Table[K]) ToSlice() core.TableSlice {
	slice := make(core.TableSlice, 0, len(table.records))
	for _, record := range table.Scan() {
		slice = append(slice, record.Clone())
	}
	return slice
}
