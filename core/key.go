package core

import (
	"fmt"
	"strconv"
)

// Key is the capability shared by the concrete key kinds a table or database
// can be instantiated over.
type Key[K any] interface {
	~string | ~int64

	// KeyKind reports which key kind this type implements.
	KeyKind() KeyKind
	// FieldType is the schema type a key field must be declared with.
	FieldType() FieldType
	// FromValue converts a stored value into a key of this kind.
	FromValue(Value) (K, error)
	// FromKeyValue converts a DELETE literal into a key of this kind.
	FromKeyValue(KeyValue) (K, error)
	String() string
}

// StringKey addresses records by text.
type StringKey string

func (StringKey) KeyKind() KeyKind { return KeyString }

func (StringKey) FieldType() FieldType { return StringType }

func (StringKey) FromValue(value Value) (StringKey, error) {
	if value.Type != StringType {
		return "", fmt.Errorf("%w: expected a String key, got %s", ErrType, value.Type)
	}
	return StringKey(value.Str), nil
}

func (StringKey) FromKeyValue(key KeyValue) (StringKey, error) {
	if key.Kind != KeyString {
		return "", fmt.Errorf("%w: expected a string key, got %s", ErrType, key.Kind)
	}
	return StringKey(key.Str), nil
}

func (key StringKey) String() string { return string(key) }

// IntKey addresses records by a 64-bit integer.
type IntKey int64

func (IntKey) KeyKind() KeyKind { return KeyInt }

func (IntKey) FieldType() FieldType { return IntType }

func (IntKey) FromValue(value Value) (IntKey, error) {
	if value.Type != IntType {
		return 0, fmt.Errorf("%w: expected an Int key, got %s", ErrType, value.Type)
	}
	return IntKey(value.Int), nil
}

func (IntKey) FromKeyValue(key KeyValue) (IntKey, error) {
	if key.Kind != KeyInt {
		return 0, fmt.Errorf("%w: expected an int key, got %s", ErrType, key.Kind)
	}
	return IntKey(key.Int), nil
}

func (key IntKey) String() string { return strconv.FormatInt(int64(key), 10) }
