// Package pipeline carries the mutable state a parse shares across the
// statement parser, expression engine, string engine, heredoc coordinator,
// and special-block handling: one context threaded everywhere instead of
// six separate arguments.
package pipeline

import (
	"github.com/perlfront/perlfront/internal/diagnostics"
	"github.com/perlfront/perlfront/internal/runtime"
	"github.com/perlfront/perlfront/internal/symtab"
)

// Context is the mutable compiler context the parser receives alongside
// the token stream: symbol table, runtime host, feature flags, and the
// collected diagnostics.
type Context struct {
	FilePath string

	Symbols *symtab.SymbolTable
	Host    runtime.Host

	Errors   []*diagnostics.Error
	Warnings []diagnostics.Warning

	// HeredocQueue and FormatQueue hold deferred work in explicit queues
	// rather than a generator abstraction; they are drained at fixed
	// suspension points (the next newline, the end of a format body).
	HeredocQueue []*PendingHeredoc
	FormatQueue  []*PendingFormat

	// UnitCheckQueue accumulates UNITCHECK blocks for the compile unit.
	UnitCheckQueue []func() error

	// beginBlockCounter counts BEGIN blocks seen; the synthetic package
	// name suffix comes from Host.NewSyntheticID, not from this counter.
	beginBlockCounter int
}

// PendingHeredoc and PendingFormat are opaque handles the Heredoc
// Coordinator and Format Parser attach a
// resolver callback to; the parser package defines the concrete node types
// these close over; pipeline only needs to know "there is unfinished work"
// so ParseProgram can fail at EOF if anything is still pending.
type PendingHeredoc struct {
	Tag      string
	Resolve  func(body string) error
	Resolved bool
}

type PendingFormat struct {
	Name     string
	Resolve  func(lines []string) error
	Resolved bool
}

// New builds a fresh Context with an initialized symbol table and a
// no-op runtime host; callers inject a real Host for BEGIN/use execution.
func New(filePath string, host runtime.Host) *Context {
	if host == nil {
		host = runtime.NewNullHost()
	}
	return &Context{
		FilePath: filePath,
		Symbols:  symtab.New(),
		Host:     host,
	}
}

func (c *Context) AddError(err *diagnostics.Error) {
	c.Errors = append(c.Errors, err)
}

func (c *Context) AddWarning(w diagnostics.Warning) {
	c.Warnings = append(c.Warnings, w)
}

// NextBeginSuffix mints the next synthetic-package suffix for a BEGIN-like
// block, using a uuid-backed minter from runtime so two
// BEGIN blocks never collide even across re-entrant sub-parsers.
func (c *Context) NextBeginSuffix() string {
	c.beginBlockCounter++
	return c.Host.NewSyntheticID()
}

// PendingCount reports how many heredocs/formats are still unresolved,
// used by ParseProgram to fail the compile when anything remains
// unresolved at end-of-input.
func (c *Context) PendingCount() (heredocs, formats int) {
	for _, h := range c.HeredocQueue {
		if !h.Resolved {
			heredocs++
		}
	}
	for _, f := range c.FormatQueue {
		if !f.Resolved {
			formats++
		}
	}
	return
}
