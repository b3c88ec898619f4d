package core

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a typed, stored field value. Only the member matching Type is meaningful.
type Value struct {
	Type  FieldType
	Bool  bool
	Str   string
	Int   int64
	Float float64
}

func BoolValue(b bool) Value {
	return Value{Type: BoolType, Bool: b}
}

func StringValue(s string) Value {
	return Value{Type: StringType, Str: s}
}

func IntValue(i int64) Value {
	return Value{Type: IntType, Int: i}
}

func FloatValue(f float64) Value {
	return Value{Type: FloatType, Float: f}
}

// String renders the value as it appears in SELECT output: strings are
// double-quoted, everything else is printed as its natural literal.
func (value Value) String() string {
	switch value.Type {
	case BoolType:
		return strconv.FormatBool(value.Bool)
	case StringType:
		return "\"" + value.Str + "\""
	case IntType:
		return strconv.FormatInt(value.Int, 10)
	case FloatType:
		return formatFloat(value.Float)
	default:
		return fmt.Sprintf("Value(%d)", int(value.Type))
	}
}

// Raw renders the value without quoting, for tabular output.
func (value Value) Raw() string {
	if value.Type == StringType {
		return value.Str
	}
	return value.String()
}

// Interface returns the value as a plain Go value (bool, string, int64 or float64).
func (value Value) Interface() any {
	switch value.Type {
	case BoolType:
		return value.Bool
	case StringType:
		return value.Str
	case IntType:
		return value.Int
	default:
		return value.Float
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// LiteralKind tags the variant of an IntermediateValue.
type LiteralKind int

const (
	LiteralBool LiteralKind = iota
	LiteralString
	LiteralNumeric
)

func (kind LiteralKind) String() string {
	switch kind {
	case LiteralBool:
		return "Bool"
	case LiteralString:
		return "String"
	case LiteralNumeric:
		return "Numeric"
	default:
		return fmt.Sprintf("LiteralKind(%d)", int(kind))
	}
}

// IntermediateValue is an untyped literal as written in a command. It only
// becomes a Value once checked against a schema type.
type IntermediateValue struct {
	Kind LiteralKind
	Bool bool
	Str  string
	Num  float64
}

func BoolLiteral(b bool) IntermediateValue {
	return IntermediateValue{Kind: LiteralBool, Bool: b}
}

func StringLiteral(s string) IntermediateValue {
	return IntermediateValue{Kind: LiteralString, Str: s}
}

func NumericLiteral(n float64) IntermediateValue {
	return IntermediateValue{Kind: LiteralNumeric, Num: n}
}

func (literal IntermediateValue) String() string {
	switch literal.Kind {
	case LiteralBool:
		return strconv.FormatBool(literal.Bool)
	case LiteralString:
		return strconv.Quote(literal.Str)
	default:
		return formatFloat(literal.Num)
	}
}

// ToValue coerces the literal into the given field type. Numerics only become
// Int when they have no fractional part and fit in 64 bits.
func (literal IntermediateValue) ToValue(fieldType FieldType) (Value, error) {
	switch {
	case fieldType == BoolType && literal.Kind == LiteralBool:
		return BoolValue(literal.Bool), nil
	case fieldType == StringType && literal.Kind == LiteralString:
		return StringValue(literal.Str), nil
	case fieldType == IntType && literal.Kind == LiteralNumeric:
		i, ok := integral(literal.Num)
		if !ok {
			return Value{}, fmt.Errorf("%w: %s is not an integer", ErrType, formatFloat(literal.Num))
		}
		return IntValue(i), nil
	case fieldType == FloatType && literal.Kind == LiteralNumeric:
		return FloatValue(literal.Num), nil
	default:
		return Value{}, fmt.Errorf("%w: cannot store %s literal %s as %s", ErrType, literal.Kind, literal, fieldType)
	}
}

// ToKeyValue converts a literal used to address a record.
func (literal IntermediateValue) ToKeyValue() (KeyValue, error) {
	switch literal.Kind {
	case LiteralString:
		return StringKeyValue(literal.Str), nil
	case LiteralNumeric:
		i, ok := integral(literal.Num)
		if !ok {
			return KeyValue{}, fmt.Errorf("%w: key %s is not an integer", ErrType, formatFloat(literal.Num))
		}
		return IntKeyValue(i), nil
	default:
		return KeyValue{}, fmt.Errorf("%w: %s literal cannot be used as a key", ErrType, literal.Kind)
	}
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// KeyValue is a literal addressing a record for DELETE.
type KeyValue struct {
	Kind KeyKind
	Str  string
	Int  int64
}

func StringKeyValue(s string) KeyValue {
	return KeyValue{Kind: KeyString, Str: s}
}

func IntKeyValue(i int64) KeyValue {
	return KeyValue{Kind: KeyInt, Int: i}
}

func (key KeyValue) String() string {
	if key.Kind == KeyInt {
		return strconv.FormatInt(key.Int, 10)
	}
	return key.Str
}

// Compare orders a stored value against a filter literal. Only same-kind
// pairs are comparable; NaN operands are reported as type errors.
func Compare(value Value, literal IntermediateValue) (int, error) {
	switch {
	case value.Type == IntType && literal.Kind == LiteralNumeric:
		return partialCompare(float64(value.Int), literal.Num)
	case value.Type == FloatType && literal.Kind == LiteralNumeric:
		return partialCompare(value.Float, literal.Num)
	case value.Type == BoolType && literal.Kind == LiteralBool:
		return compareBool(value.Bool, literal.Bool), nil
	case value.Type == StringType && literal.Kind == LiteralString:
		return strings.Compare(value.Str, literal.Str), nil
	default:
		return 0, fmt.Errorf("%w: cannot compare %s with %s literal", ErrType, value.Type, literal.Kind)
	}
}

func partialCompare(a, b float64) (int, error) {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, fmt.Errorf("%w: cannot order %s and %s", ErrType, formatFloat(a), formatFloat(b))
	}
	return cmp.Compare(a, b), nil
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// variantRank orders values of different types: Bool < String < Int < Float.
func variantRank(fieldType FieldType) int {
	switch fieldType {
	case BoolType:
		return 0
	case StringType:
		return 1
	case IntType:
		return 2
	default:
		return 3
	}
}

// CompareOptional is the total order used by ORDER_BY. A missing value sorts
// first, NaN compares equal to everything of its type and mixed types are
// ordered by variant rank. It never fails.
func CompareOptional(a, b *Value) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if a.Type != b.Type {
		return cmp.Compare(variantRank(a.Type), variantRank(b.Type))
	}

	switch a.Type {
	case BoolType:
		return compareBool(a.Bool, b.Bool)
	case StringType:
		return strings.Compare(a.Str, b.Str)
	case IntType:
		return cmp.Compare(a.Int, b.Int)
	default:
		if math.IsNaN(a.Float) || math.IsNaN(b.Float) {
			return 0
		}
		return cmp.Compare(a.Float, b.Float)
	}
}
