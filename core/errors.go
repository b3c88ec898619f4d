package core

import "errors"

// Error kinds. Every error produced by the engine wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	ErrParse         = errors.New("parse error")
	ErrNoToken       = errors.New("no token")
	ErrUnknownToken  = errors.New("unknown token")
	ErrMissingToken  = errors.New("missing token")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotExist      = errors.New("does not exist")
	ErrNotSpecified  = errors.New("not specified")
	ErrType          = errors.New("type error")
	ErrMissingField  = errors.New("missing field")
	ErrIO            = errors.New("io error")
	ErrKeyType       = errors.New("invalid key type")
)

var errorKinds = []error{
	ErrParse,
	ErrNoToken,
	ErrUnknownToken,
	ErrMissingToken,
	ErrAlreadyExists,
	ErrNotExist,
	ErrNotSpecified,
	ErrType,
	ErrMissingField,
	ErrIO,
	ErrKeyType,
}

// Kind returns the sentinel wrapped by err, or nil if err is not an engine error.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName returns a stable identifier for the error kind, e.g. "ParseError".
func KindName(err error) string {
	switch Kind(err) {
	case ErrParse:
		return "ParseError"
	case ErrNoToken:
		return "NoTokenError"
	case ErrUnknownToken:
		return "UnknownTokenError"
	case ErrMissingToken:
		return "MissingTokenError"
	case ErrAlreadyExists:
		return "AlreadyExistsError"
	case ErrNotExist:
		return "NotExistError"
	case ErrNotSpecified:
		return "NotSpecifiedError"
	case ErrType:
		return "TypeError"
	case ErrMissingField:
		return "MissingFieldError"
	case ErrIO:
		return "IOError"
	case ErrKeyType:
		return "KeyTypeError"
	default:
		return ""
	}
}
