package fieldml

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failed operation.
type ErrorCode int

const (
	CodeNoError ErrorCode = iota
	// CodeUnknownHandle means the session handle does not resolve.
	CodeUnknownHandle
	// CodeInvalidRegion means the operation needs a region the session lacks.
	CodeInvalidRegion
	// CodeUnknownObject means an object handle does not resolve.
	CodeUnknownObject
	// CodeInvalidObject means the object is the wrong kind for the operation.
	CodeInvalidObject
	// CodeNonlocalObject means the object is not visible from the current region.
	CodeNonlocalObject
	CodeNameCollision
	CodeCyclicDependency
	CodeInvalidParameter1
	CodeInvalidParameter2
	CodeInvalidParameter3
	CodeInvalidParameter4
	CodeInvalidParameter5
	CodeInvalidParameter6
	CodeInvalidParameter7
	CodeInvalidParameter8
	// CodeAccessViolation means a one-shot property was already set.
	CodeAccessViolation
	CodeUnsupported
	// CodeMisconfiguredObject means an object lacks state the operation relies on.
	CodeMisconfiguredObject
	CodeReadError
	CodeIOError
)

var codeNames = [...]string{
	CodeNoError:             "NO_ERROR",
	CodeUnknownHandle:       "UNKNOWN_HANDLE",
	CodeInvalidRegion:       "INVALID_REGION",
	CodeUnknownObject:       "UNKNOWN_OBJECT",
	CodeInvalidObject:       "INVALID_OBJECT",
	CodeNonlocalObject:      "NONLOCAL_OBJECT",
	CodeNameCollision:       "NAME_COLLISION",
	CodeCyclicDependency:    "CYCLIC_DEPENDENCY",
	CodeInvalidParameter1:   "INVALID_PARAMETER_1",
	CodeInvalidParameter2:   "INVALID_PARAMETER_2",
	CodeInvalidParameter3:   "INVALID_PARAMETER_3",
	CodeInvalidParameter4:   "INVALID_PARAMETER_4",
	CodeInvalidParameter5:   "INVALID_PARAMETER_5",
	CodeInvalidParameter6:   "INVALID_PARAMETER_6",
	CodeInvalidParameter7:   "INVALID_PARAMETER_7",
	CodeInvalidParameter8:   "INVALID_PARAMETER_8",
	CodeAccessViolation:     "ACCESS_VIOLATION",
	CodeUnsupported:         "UNSUPPORTED",
	CodeMisconfiguredObject: "MISCONFIGURED_OBJECT",
	CodeReadError:           "READ_ERROR",
	CodeIOError:             "IO_ERROR",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
	return codeNames[c]
}

// InvalidParameter returns the code blaming method argument n (1-based).
func InvalidParameter(n int) ErrorCode {
	if n < 1 || n > 8 {
		panic(fmt.Sprintf("fieldml: no invalid-parameter code for argument %d", n))
	}
	return CodeInvalidParameter1 + ErrorCode(n-1)
}

// IsInvalidParameter reports whether c blames a method argument.
func (c ErrorCode) IsInvalidParameter() bool {
	return c >= CodeInvalidParameter1 && c <= CodeInvalidParameter8
}

// Error is the error returned by every failed session operation.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the operation that failed.
	Op string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code.String()
}

// Is matches any *Error with the same code, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrUnknownHandle       = &Error{Code: CodeUnknownHandle}
	ErrInvalidRegion       = &Error{Code: CodeInvalidRegion}
	ErrUnknownObject       = &Error{Code: CodeUnknownObject}
	ErrInvalidObject       = &Error{Code: CodeInvalidObject}
	ErrNonlocalObject      = &Error{Code: CodeNonlocalObject}
	ErrNameCollision       = &Error{Code: CodeNameCollision}
	ErrCyclicDependency    = &Error{Code: CodeCyclicDependency}
	ErrAccessViolation     = &Error{Code: CodeAccessViolation}
	ErrUnsupported         = &Error{Code: CodeUnsupported}
	ErrMisconfiguredObject = &Error{Code: CodeMisconfiguredObject}
	ErrReadError           = &Error{Code: CodeReadError}
	ErrIOError             = &Error{Code: CodeIOError}
)

// CodeOf extracts the ErrorCode from err. Non-fieldml errors map to
// CodeIOError; nil maps to CodeNoError.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeNoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeIOError
}

// IsCycleError reports whether err is a cyclic-dependency rejection.
func IsCycleError(err error) bool {
	return CodeOf(err) == CodeCyclicDependency
}
