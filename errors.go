package arrangements

import "github.com/pkg/errors"

// ErrorKind classifies a boundary error.
type ErrorKind int

const (
	// InvalidInput covers bad types, negative frequencies, m < 1, two
	// equal comparison targets, equality mixed into a two-limit comparison, an
	// unsupported fun, or an out-of-range rank.
	InvalidInput ErrorKind = iota
	// Overflow is returned when the requested row count exceeds
	// INT32_MAX.
	Overflow
	// Unsupported is returned for limit constraints requested against a
	// character or logical base sequence.
	Unsupported
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case Overflow:
		return "Overflow"
	case Unsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// Error is the tagged result returned at the API boundary. Every
// diagnostic names the offending option.
type Error struct {
	Kind   ErrorKind
	Option string
	msg    string
}

func (e *Error) Error() string {
	return e.msg
}

func newError(kind ErrorKind, option, format string, args ...any) error {
	e := &Error{Kind: kind, Option: option, msg: errors.Wrapf(fmtError(format, args...), "invalid option %q", option).Error()}
	return e
}

func fmtError(format string, args ...any) error {
	return errors.Errorf(format, args...)
}

// invalidInput is a small constructor helper used throughout request
// normalisation.
func invalidInput(option, format string, args ...any) error {
	return newError(InvalidInput, option, format, args...)
}

func overflow(option, format string, args ...any) error {
	return newError(Overflow, option, format, args...)
}

func unsupported(option, format string, args ...any) error {
	return newError(Unsupported, option, format, args...)
}

// InvariantViolation is panicked, never returned, when internal state
// (e.g. an out-of-range z) would violate an assumption enumeration bodies
// rely on without re-checking. Only malformed arguments produce errors;
// a violated internal invariant is a programmer error.
type InvariantViolation struct {
	msg string
}

func (e InvariantViolation) Error() string { return e.msg }

func invariantf(format string, args ...any) {
	panic(InvariantViolation{msg: errors.Errorf(format, args...).Error()})
}
