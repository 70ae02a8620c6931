package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Error kinds. Use [errors.Is] to classify errors returned by the engine.
var (
	ErrTemplateNotFound = NewError("template not found")
	ErrParse            = NewError("parse error")
	ErrResolve          = NewError("cannot resolve")
	ErrInvalidContext   = NewError("invalid context")

	ErrInvalidFormat          = ErrResolve.Sub("invalid format")
	ErrInvalidScheme          = ErrResolve.Sub("invalid scheme")
	ErrColorDoesNotExist      = ErrResolve.Sub("color does not exist")
	ErrInvalidColorDefinition = ErrResolve.Sub("invalid color definition")

	ErrFilter                = NewError("filter error")
	ErrNotEnoughArguments    = ErrFilter.Sub("not enough arguments")
	ErrInvalidArgumentType   = ErrFilter.Sub("invalid argument type")
	ErrColorFilterOnString   = ErrFilter.Sub("color filter applied to a string")
	ErrFilterNotFound        = ErrFilter.Sub("filter not found")
	ErrUnexpectedStringValue = ErrFilter.Sub("unexpected string value")

	ErrTooManyLoopVariables = NewError("too many loop variables")
	ErrLoopOverNonIterable  = NewError("cannot iterate")

	ErrIncludeNotFound = NewError("included template not found")
	ErrIncludeCycle    = NewError("include cycle")

	ErrInvalidBinaryOperatorType = NewError("invalid operand type")
	ErrDivisionByZero            = NewError("division by zero")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// An Error created by [NewError] or [Error.Sub] is a kind. Errors derived
// from a kind with [Error.Wrap] or [Error.With] match it, and every kind it
// was created from, under [errors.Is].
type Error struct {
	msg    string
	kind   *Error
	parent *Error
	err    error
	attrs  []slog.Attr
}

// NewError creates a new Error kind with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Sub creates a narrower kind of e.
func (e *Error) Sub(msg string) *Error {
	return &Error{msg: msg, parent: e.root()}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the kind of e or one of its parent kinds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.kind != nil {
		return false
	}

	for k := e.root(); k != nil; k = k.parent {
		if k == t {
			return true
		}
	}

	return false
}

func (e *Error) root() *Error {
	if e.kind != nil {
		return e.kind
	}

	return e
}

// Message returns the kind message without the wrapped cause.
func (e *Error) Message() string { return e.msg }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error of the same kind wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		kind:  e.root(),
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		kind:  e.root(),
		err:   e.err,
		attrs: newAttrs,
	}
}

// ArgumentTypeError reports a filter argument of the wrong type.
type ArgumentTypeError struct {
	Span     Span
	Index    int
	Expected string
	Actual   string
}

func (e *ArgumentTypeError) Error() string {
	return "argument " + strconv.Itoa(e.Index+1) + ": expected " + e.Expected +
		", found " + e.Actual
}

func (e *ArgumentTypeError) Unwrap() error { return ErrInvalidArgumentType }

// ErrSpan returns the span of the offending argument.
func (e *ArgumentTypeError) ErrSpan() Span { return e.Span }

// UnexpectedValueError reports a string argument outside its allowed set.
type UnexpectedValueError struct {
	Span     Span
	Expected []string
	Actual   string
}

func (e *UnexpectedValueError) Error() string {
	return "expected one of " + quoteList(e.Expected) + ", found " +
		strconv.Quote(e.Actual)
}

func (e *UnexpectedValueError) Unwrap() error { return ErrUnexpectedStringValue }

// ErrSpan returns the span of the offending argument.
func (e *UnexpectedValueError) ErrSpan() Span { return e.Span }

// spanned is implemented by errors that point at a narrower span than the
// node that produced them.
type spanned interface {
	ErrSpan() Span
}

func quoteList(s []string) string {
	q := make([]string, len(s))
	for i, v := range s {
		q[i] = strconv.Quote(v)
	}

	return strings.Join(q, ", ")
}
