package color

import "strconv"

// Error describes a color that could not be constructed.
type Error struct {
	msg   string
	input string
}

// ErrInvalidHex is returned when a hex color string is malformed.
var ErrInvalidHex = &Error{msg: "invalid hex color"}

// With returns a copy of e that records the offending input.
func (e *Error) With(input string) *Error {
	return &Error{msg: e.msg, input: input}
}

// Is reports whether target is the same kind of error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

func (e *Error) Error() string {
	if e.input == "" {
		return e.msg
	}

	return e.msg + ": " + strconv.Quote(e.input)
}
