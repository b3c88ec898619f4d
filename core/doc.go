// Package core provides core types used throughout RecordDB.
//
// The package defines the typed value model (FieldType, Value), the untyped
// literals produced by the parser (IntermediateValue, KeyValue), records and
// schemas, the Key capability shared by the two concrete key kinds, and the
// error taxonomy every other package wraps.
//
// # Field Types
//
// Supported field types:
//   - BoolType: true / false
//   - StringType: text
//   - IntType: 64-bit signed integers
//   - FloatType: 64-bit floating point numbers
//
// # Coercion
//
// Literals only become stored values through IntermediateValue.ToValue:
//
//	v, err := core.NumericLiteral(2000).ToValue(core.IntType)
//	// v == core.IntValue(2000)
//
//	_, err = core.NumericLiteral(4.5).ToValue(core.IntType)
//	// errors.Is(err, core.ErrType)
//
// # Keys
//
// Tables and databases are generic over a Key. StringKey and IntKey are the
// two implementations; KeyKind selects between them at runtime.
package core
