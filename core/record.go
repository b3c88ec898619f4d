package core

import (
	"maps"
	"slices"
	"strings"
)

// Record is a stored row: every schema field mapped to its typed value.
type Record map[string]Value

// IntermediateRecord is a row as supplied by INSERT, before schema checking.
type IntermediateRecord map[string]IntermediateValue

// Schema maps field names to their declared types.
type Schema map[string]FieldType

// TableSlice is an ordered snapshot of records, the unit the SELECT clauses work on.
type TableSlice []Record

// Lookup returns a pointer to the named value, or nil if the record lacks it.
func (record Record) Lookup(field string) *Value {
	value, ok := record[field]
	if !ok {
		return nil
	}
	return &value
}

func (record Record) Clone() Record {
	return maps.Clone(record)
}

// Fields returns the schema's field names in sorted order.
func (schema Schema) Fields() []string {
	return slices.Sorted(maps.Keys(schema))
}

// String renders the schema as a FIELDS declaration list, e.g. "id: Int, title: String".
func (schema Schema) String() string {
	parts := make([]string, 0, len(schema))
	for _, field := range schema.Fields() {
		parts = append(parts, field+": "+schema[field].String())
	}
	return strings.Join(parts, ", ")
}

// Clone returns a slice whose records can be reordered without touching the original.
func (slice TableSlice) Clone() TableSlice {
	return slices.Clone(slice)
}
