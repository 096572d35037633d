package plugin

import "strconv"

// Error is a host-facing status code. Zero is success, the standard failures
// are negative and plugin-specific codes are positive.
type Error int

const (
	OK                    Error = 0
	ErrAlreadyInitialized Error = -1
	ErrNotInitialized     Error = -2
	ErrNotImplemented     Error = -3
	ErrInvalidInstance    Error = -4
)

// Error implements the error interface.
func (e Error) Error() string {
	switch e {
	case OK:
		return "ok"
	case ErrAlreadyInitialized:
		return "already initialized"
	case ErrNotInitialized:
		return "not initialized"
	case ErrNotImplemented:
		return "not implemented"
	case ErrInvalidInstance:
		return "invalid instance"
	}

	if e > 0 {
		return "plugin error " + strconv.Itoa(int(e))
	}

	return "unknown error"
}

// Std reports whether e is one of the standard codes.
func (e Error) Std() bool { return e <= OK && e >= ErrInvalidInstance }

// ErrorStringer is implemented by plugins that define their own codes.
type ErrorStringer interface {
	ErrorString(code Error) string
}

// ErrorString resolves the text for code, asking p for plugin-specific codes.
// p may be nil.
func ErrorString(p ErrorStringer, code Error) string {
	if code.Std() || p == nil {
		return code.Error()
	}

	return p.ErrorString(code)
}

// AsError converts a status into a Go error, mapping OK to nil.
func AsError(code Error) error {
	if code == OK {
		return nil
	}

	return code
}
