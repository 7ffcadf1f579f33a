package sarif

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure reported by the document API.
type Kind int

const (
	KindIO        Kind = iota + 1 // file unreadable or unwritable
	KindParse                     // malformed JSON
	KindSchema                    // missing or non-SARIF $schema
	KindStructure                 // runs/results missing or of the wrong type
	KindPattern                   // invalid location filter regex
	KindCancelled                 // cooperative cancellation observed
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io error"
	case KindParse:
		return "parse error"
	case KindSchema:
		return "schema error"
	case KindStructure:
		return "structure error"
	case KindPattern:
		return "pattern error"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is. Any *Error matches the sentinel of its Kind.
var (
	ErrIO        = &Error{Kind: KindIO}
	ErrParse     = &Error{Kind: KindParse}
	ErrSchema    = &Error{Kind: KindSchema}
	ErrStructure = &Error{Kind: KindStructure}
	ErrPattern   = &Error{Kind: KindPattern}
	ErrCancelled = &Error{Kind: KindCancelled}
)

// Error is the error type returned by Load, Export and the filter setters.
type Error struct {
	Kind Kind
	Op   string // "load", "export", "add location filter", ...
	Path string // file or pattern the operation was working on, if any
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind, so errors.Is(err, ErrSchema) holds for every
// schema failure regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Path == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, op, path, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Msg: msg, Err: err}
}

// checkCancel converts a done context into a KindCancelled error.
func checkCancel(ctx context.Context, op, path string) error {
	if err := ctx.Err(); err != nil {
		return newError(KindCancelled, op, path, "", err)
	}
	return nil
}
