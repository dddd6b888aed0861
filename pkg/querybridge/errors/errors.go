package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorCode string

const (
	ErrUnsupportedOperator ErrorCode = "unsupported_operator"
	ErrUnknownServer       ErrorCode = "unknown_server"
	ErrBadRequest          ErrorCode = "bad_request"
	ErrTransport           ErrorCode = "transport"
	ErrDecode              ErrorCode = "decode"
	ErrConfig              ErrorCode = "config"
	ErrBackend             ErrorCode = "backend"
)

// Error is the typed error returned from all querybridge entry points.
// Attr carries the offending attribute or operator name where one exists.
type Error struct {
	Code  ErrorCode
	Msg   string
	Attr  string
	Cause error
}

func (e *Error) Error() string {
	base := fmt.Sprintf("%s: %s", e.Code, e.Msg)
	if e.Attr != "" {
		base = fmt.Sprintf("%s (%s)", base, e.Attr)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, msg string) *Error { return &Error{Code: code, Msg: msg} }

func Wrap(code ErrorCode, msg string, cause error) *Error {
	return &Error{Code: code, Msg: msg, Cause: cause}
}

// UnsupportedOperator reports an operator outside the engine's supported set.
func UnsupportedOperator(op string) *Error {
	return &Error{Code: ErrUnsupportedOperator, Msg: "operator not supported by engine", Attr: op}
}

// UnknownServer reports a request naming a server absent from configuration.
func UnknownServer(name string) *Error {
	return &Error{Code: ErrUnknownServer, Msg: "server not configured", Attr: name}
}

func BadRequest(msg string) *Error { return &Error{Code: ErrBadRequest, Msg: msg} }

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns "" for nil or untyped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}
