// Package errors defines the fatal error values the compiler and
// interpreter can produce. Both stages abort on the first error: there is
// no partial IR and no recovery from a runtime fault.
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Position identifies a point in the original source text.
type Position struct {
	Offset int // byte offset into the filtered symbol stream
	Line   int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, symbol %d", p.Line, p.Offset)
}

// CompileErrorKind enumerates the ways the loop tree builder can reject a
// program.
type CompileErrorKind string

const (
	UnmatchedOpen  CompileErrorKind = "UnmatchedOpen"
	UnmatchedClose CompileErrorKind = "UnmatchedClose"
)

// CompileError is returned by compile() when bracket matching fails. No
// IR is produced alongside it.
type CompileError struct {
	Kind CompileErrorKind
	Pos  Position
}

func (e *CompileError) Error() string {
	switch e.Kind {
	case UnmatchedOpen:
		return fmt.Sprintf("unmatched '[' at %s", e.Pos)
	case UnmatchedClose:
		return fmt.Sprintf("unmatched ']' at %s", e.Pos)
	default:
		return fmt.Sprintf("%s at %s", e.Kind, e.Pos)
	}
}

func NewUnmatchedOpen(pos Position) *CompileError {
	return &CompileError{Kind: UnmatchedOpen, Pos: pos}
}

func NewUnmatchedClose(pos Position) *CompileError {
	return &CompileError{Kind: UnmatchedClose, Pos: pos}
}

// RuntimeErrorKind enumerates the fatal conditions the interpreter can hit.
type RuntimeErrorKind string

const (
	TapeUnderflow RuntimeErrorKind = "TapeUnderflow"
	IOError       RuntimeErrorKind = "IOError"
)

// RuntimeError is returned by run() on a fatal execution fault.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RuntimeError) Unwrap() error { return e.Cause }

// NewTapeUnderflow reports a pointer move below index 0.
func NewTapeUnderflow(ptr, delta int) *RuntimeError {
	return &RuntimeError{
		Kind:    TapeUnderflow,
		Message: fmt.Sprintf("pointer %d + delta %d moves below tape start", ptr, delta),
	}
}

// NewIOError wraps a non-EOF I/O failure from the byte source or sink.
// The cause is stack-traced via pkg/errors so a crash report (the CLI's
// %+v fallback path) can show where the failure actually originated,
// since the interpreter's own dispatch loop carries no call stack.
func NewIOError(op string, cause error) *RuntimeError {
	return &RuntimeError{
		Kind:    IOError,
		Message: op,
		Cause:   pkgerrors.WithStack(cause),
	}
}
