// Package diagnostics defines the error/warning vocabulary the parser core
// reports at its boundary.
package diagnostics

import (
	"fmt"

	"github.com/perlfront/perlfront/internal/token"
)

// Kind is one of the error kinds observable at the parser boundary.
type Kind string

const (
	UnexpectedToken         Kind = "UnexpectedToken"
	MissingTerminator       Kind = "MissingTerminator"
	BadArgCount             Kind = "BadArgCount"
	ChainingError           Kind = "ChainingError"
	DeclaredReferenceMisuse Kind = "DeclaredReferenceMisuse"
	FeatureDisabled         Kind = "FeatureDisabled"
	VersionMismatch         Kind = "VersionMismatch"
	BeginFailed             Kind = "BeginFailed"
	NotImplemented          Kind = "NotImplemented"
)

var templates = map[Kind]string{
	UnexpectedToken:         "unexpected token %s",
	MissingTerminator:       "%s",
	BadArgCount:             "Bad number of arguments%s",
	ChainingError:           "%s",
	DeclaredReferenceMisuse: "Can't declare %s in %s",
	FeatureDisabled:         "\"%s\" is experimental%s",
	VersionMismatch:         "%s",
	BeginFailed:             "%s failed--compilation aborted",
	NotImplemented:          "Unimplemented: %s",
}

// Error is the structured {index, message, sourceLocator} error the parser
// throws.
type Error struct {
	Kind  Kind
	Index int // token index within the consumed range, for diagnostics
	Loc   token.SourceLocator
	Args  []interface{}
}

func New(kind Kind, index int, loc token.SourceLocator, args ...interface{}) *Error {
	return &Error{Kind: kind, Index: index, Loc: loc, Args: args}
}

func AtToken(kind Kind, tok token.Token, index int, args ...interface{}) *Error {
	return New(kind, index, tok.Loc, args...)
}

// Error renders the user-visible message shape: a single line ending in a
// period, with the source locator, and no stack trace.
func (e *Error) Error() string {
	template, ok := templates[e.Kind]
	if !ok {
		template = "%v"
	}
	msg := fmt.Sprintf(template, e.Args...)
	if len(msg) == 0 || msg[len(msg)-1] != '.' {
		msg += "."
	}
	return fmt.Sprintf("%s at %s.", trimPeriod(msg), e.Loc)
}

func trimPeriod(s string) string {
	if len(s) > 0 && s[len(s)-1] == '.' {
		return s[:len(s)-1]
	}
	return s
}

// Warning is emitted on a side channel and never aborts the compile.
type Warning struct {
	Message string
	Loc     token.SourceLocator
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at %s.", w.Message, w.Loc)
}
