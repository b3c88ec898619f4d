package core

import (
	"fmt"
	"strings"
)

type FieldType int

const (
	BoolType FieldType = iota
	StringType
	IntType
	FloatType
)

func (fieldType FieldType) String() string {
	switch fieldType {
	case BoolType:
		return "Bool"
	case StringType:
		return "String"
	case IntType:
		return "Int"
	case FloatType:
		return "Float"
	default:
		return fmt.Sprintf("FieldType(%d)", int(fieldType))
	}
}

// ParseFieldType resolves a declared type name. Names are case-sensitive.
func ParseFieldType(name string) (FieldType, error) {
	switch name {
	case "Bool":
		return BoolType, nil
	case "String":
		return StringType, nil
	case "Int":
		return IntType, nil
	case "Float":
		return FloatType, nil
	default:
		return 0, fmt.Errorf("%w: unknown field type '%s'", ErrUnknownToken, name)
	}
}

// KeyKind is the representation chosen for record keys when a database is created.
type KeyKind int

const (
	KeyString KeyKind = iota
	KeyInt
)

func (kind KeyKind) String() string {
	switch kind {
	case KeyString:
		return "string"
	case KeyInt:
		return "int"
	default:
		return fmt.Sprintf("KeyKind(%d)", int(kind))
	}
}

// FieldType returns the schema type a key field must have for this kind.
func (kind KeyKind) FieldType() FieldType {
	if kind == KeyInt {
		return IntType
	}
	return StringType
}

// ParseKeyKind accepts "string" or "int" in any case.
func ParseKeyKind(text string) (KeyKind, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "string":
		return KeyString, nil
	case "int":
		return KeyInt, nil
	default:
		return 0, fmt.Errorf("%w: %s is not a valid key type", ErrKeyType, text)
	}
}
