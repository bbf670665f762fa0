package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/schema"
)

type Code string

const (
	CodeParseError         Code = "PARSE_ERROR"
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotSupported Code = "METHOD_NOT_SUPPORTED"
	CodeTimeout            Code = "TIMEOUT"
	CodeConflict           Code = "CONFLICT"
	CodeTooManyRequests    Code = "TOO_MANY_REQUESTS"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
	CodeNotImplemented     Code = "NOT_IMPLEMENTED"
	CodeBadGateway         Code = "BAD_GATEWAY"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
)

var codeTable = map[Code]struct{ rpc, http int }{
	CodeParseError:         {-32700, http.StatusBadRequest},
	CodeBadRequest:         {-32600, http.StatusBadRequest},
	CodeUnauthorized:       {-32001, http.StatusUnauthorized},
	CodeForbidden:          {-32003, http.StatusForbidden},
	CodeNotFound:           {-32004, http.StatusNotFound},
	CodeMethodNotSupported: {-32005, http.StatusMethodNotAllowed},
	CodeTimeout:            {-32008, http.StatusRequestTimeout},
	CodeConflict:           {-32009, http.StatusConflict},
	CodeTooManyRequests:    {-32029, http.StatusTooManyRequests},
	CodeInternal:           {-32603, http.StatusInternalServerError},
	CodeNotImplemented:     {-32603, http.StatusNotImplemented},
	CodeBadGateway:         {-32603, http.StatusBadGateway},
	CodeServiceUnavailable: {-32603, http.StatusServiceUnavailable},
}

// HTTPStatus of the code; unknown codes are 500.
func (c Code) HTTPStatus() int {
	if v, ok := codeTable[c]; ok {
		return v.http
	}
	return http.StatusInternalServerError
}

// JSONRPC numeric code.
func (c Code) JSONRPC() int {
	if v, ok := codeTable[c]; ok {
		return v.rpc
	}
	return -32603
}

// Error is what a procedure reports to the caller.
type Error struct {
	Code    Code
	Message string
	Issues  []schema.Issue
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code Code, msg string) *Error { return &Error{Code: code, Message: msg} }

func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps cause for logs; only msg reaches the caller.
func Wrap(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

// FromError normalises a handler error. The bool is false when the error was
// not anticipated and should be logged.
func FromError(err error) (*Error, bool) {
	var (
		e  *Error
		ve *schema.ValidationError
	)
	switch {
	case errors.As(err, &e):
		return e, true
	case errors.As(err, &ve):
		return &Error{Code: CodeBadRequest, Message: ve.Error(), Issues: ve.Issues, Cause: err}, true
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(CodeNotFound, "Not found", err), true
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(CodeTimeout, "Request timed out", err), true
	default:
		return Wrap(CodeInternal, "Internal server error", err), false
	}
}
