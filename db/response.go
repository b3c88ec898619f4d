package db

import (
	"encoding/json"

	"github.com/nickyhof/RecordDB/core"
)

// Response is the JSON envelope returned by the network server and the C
// bindings, one per executed command.
type Response struct {
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	ErrorKind string          `json:"error_kind,omitempty"` // e.g. "ParseError"
	Type      string          `json:"type,omitempty"`       // "message", "file", "select" or "auth"
	Result    json.RawMessage `json:"result,omitempty"`
}

// NewResponse wraps the outcome of ExecuteCommand.
func NewResponse(result Result, err error) Response {
	if err != nil {
		return ErrorResponse(err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return ErrorResponse(err)
	}
	return Response{
		Success: true,
		Type:    result.Type().String(),
		Result:  data,
	}
}

// ErrorResponse reports a failed command. ErrorKind is empty for errors that
// did not come from the engine.
func ErrorResponse(err error) Response {
	return Response{
		Success:   false,
		Error:     err.Error(),
		ErrorKind: core.KindName(err),
	}
}

// EncodeResponse serializes a Response to JSON with a newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
