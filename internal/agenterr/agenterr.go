// Package agenterr defines the coded errors returned by lessonpress operations.
//
// Every failure that crosses an operation boundary carries a human-readable
// message and a stable code. Callers switch on the code, not the message.
package agenterr

import (
	"context"
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error condition.
type Code string

// Transport and protocol failures.
const (
	CodeConnection   Code = "CONNECTION_ERROR"
	CodeRequestBuild Code = "REQUEST_BUILD_ERROR"
	CodeParse        Code = "PARSE_ERROR"
	CodeQueryFailed  Code = "QUERY_FAILED"
	CodeQuery        Code = "QUERY_ERROR"
)

// Store response shape failures.
const (
	CodeUnexpectedResult    Code = "UNEXPECTED_RESULT"
	CodeMissingResult       Code = "MISSING_RESULT"
	CodeInsufficientResults Code = "INSUFFICIENT_RESULTS"
	CodeEmptyResult         Code = "EMPTY_RESULT"
	CodeDeserialize         Code = "DESERIALIZE_ERROR"
)

// Generation failures.
const (
	CodeGeneration        Code = "GENERATION_ERROR"
	CodeContentGeneration Code = "CONTENT_GENERATION_ERROR"
	CodeInvalidClassLevel Code = "INVALID_CLASS_LEVEL"
	CodeInvalidTerm       Code = "INVALID_TERM"
)

// Persistence failures.
const (
	CodeStructToValue     Code = "STRUCT_TO_VALUE_ERROR"
	CodeJSONToStringParse Code = "JSON_TO_STRING_PARSE_ERROR"
	CodeContentDBUpdate   Code = "CONTENT_DB_UPDATE_ERROR"
)

// Rendering failures. TYPST_COMPILE_ERROR is kept as the compile code so
// existing consumers keep matching on it.
const (
	CodeTemplateRead  Code = "TEMPLATE_READ_ERROR"
	CodeFontRead      Code = "FONT_READ_ERROR"
	CodeImageRead     Code = "IMAGE_READ_ERROR"
	CodeCompile       Code = "TYPST_COMPILE_ERROR"
	CodePDFGeneration Code = "PDF_GENERATION_ERROR"
)

// Request handling failures.
const (
	CodeInvalidRequest Code = "INVALID_REQUEST"
	CodeNotFound       Code = "NOT_FOUND"
	CodeCanceled       Code = "CANCELED"
)

// Error is a coded error. Err, when set, is the underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// New returns a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a coded error with a formatted message and cause.
// The cause's text is appended to the message.
func Wrap(code Code, err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &Error{Code: code, Message: msg, Err: err}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
// This lets errors.Is(err, &Error{Code: CodeQueryFailed}) match any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// CodeOf returns the code of the outermost *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

// Payload is the wire shape of a failure.
type Payload struct {
	Message string `json:"message"`
	Code    Code   `json:"code"`
}

// ToPayload converts err to its wire shape. Uncoded context cancellation and
// deadline errors are reported as CANCELED; any other uncoded error is
// QUERY_ERROR.
func ToPayload(err error) Payload {
	if err == nil {
		return Payload{}
	}
	var ae *Error
	if errors.As(err, &ae) {
		return Payload{Message: ae.Message, Code: ae.Code}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Payload{Message: err.Error(), Code: CodeCanceled}
	}
	return Payload{Message: err.Error(), Code: CodeQuery}
}
