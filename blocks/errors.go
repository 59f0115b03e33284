package blocks

import "fmt"

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	// MissingSeparator: no separator line directly after a FILE header.
	MissingSeparator ErrorKind = iota
	// UnmatchedSeparator: input ended before the closing separator.
	UnmatchedSeparator
	// MissingEndMarker: the closing separator was not followed by END FILE.
	MissingEndMarker
	// InvalidPath: the header path failed validation.
	InvalidPath
	// EmptyInput: the input contained no file blocks at all.
	EmptyInput
)

func (k ErrorKind) String() string {
	switch k {
	case MissingSeparator:
		return "missing separator"
	case UnmatchedSeparator:
		return "unmatched separator"
	case MissingEndMarker:
		return "missing END FILE marker"
	case InvalidPath:
		return "invalid path"
	case EmptyInput:
		return "no file blocks found"
	default:
		return "unknown parse error"
	}
}

// ParseError is the single error type returned by Parse. Line is the
// 1-based line number the error is attributed to (0 for EmptyInput).
type ParseError struct {
	Kind   ErrorKind
	Line   int
	Detail string

	cause error
}

func (e *ParseError) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	return msg
}

// Unwrap exposes the underlying cause (set for InvalidPath).
func (e *ParseError) Unwrap() error { return e.cause }
