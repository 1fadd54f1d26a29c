package errorx

import "fmt"

type Code uint64

type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

// Is allows comparing wrapped errors against the package sentinels with
// errors.Is. Two errors are the same if their codes match.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Code == e.Code
}

// New creates an error with an existing code but a contextual message.
func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}
