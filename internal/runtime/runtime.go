// Package runtime defines the synchronous-call contract the parser uses to
// reach the bytecode/value runtime collaborator, plus a NullHost fixture so
// BEGIN/use/class-version tests can run without a real VM.
package runtime

import (
	"fmt"

	"github.com/google/uuid"
)

// Context flags a compiled code reference is invoked under.
type EvalContext int

const (
	ContextVoid EvalContext = iota
	ContextScalar
	ContextList
)

// Host is the runtime collaborator contract: everything the parser is
// allowed to ask of the execution subsystem during a compile.
type Host interface {
	// Require loads a module file and returns its scalar result.
	Require(moduleFile string) (interface{}, error)

	// Can reports whether pkg has (or, with autoloadEnabled, can autoload)
	// method, returning the resolved code reference when found.
	Can(pkg, method string, autoloadEnabled bool) (found bool, resolved interface{})

	// Invoke calls a compiled code reference with an argument array and a
	// context flag.
	Invoke(coderef interface{}, args []interface{}, ctx EvalContext) (interface{}, error)

	// CompareVersion throws (returns a non-nil error) on insufficiency.
	CompareVersion(have, want, who string) error

	// Phase hooks.
	SaveEndBlock(code interface{})
	SaveInitBlock(code interface{})
	SaveCheckBlock(code interface{})

	// OpenDataHandle backs `__DATA__`/`__END__` capture.
	OpenDataHandle(pkg string, backing string) (handle interface{}, err error)

	// ReplaceDataBacking swaps the backing buffer of a previously opened
	// data handle in place once the captured text is known.
	ReplaceDataBacking(handle interface{}, backing string) error

	// PackageExists/SetPackageExists back the package-existence cache.
	PackageExists(pkg string) bool
	SetPackageExists(pkg string)

	// NewSyntheticID mints a collision-proof identifier, used to name
	// per-BEGIN-block synthetic packages. (`state`-variable persistent ids
	// are minted by the symbol table itself.)
	NewSyntheticID() string
}

// NullHost is a recording fixture: calls are logged to Calls (except
// ReplaceDataBacking, PackageExists, SetPackageExists and NewSyntheticID)
// and return a configurable canned result, so parser tests can exercise
// BEGIN/use/:isa(...) without a real bytecode VM.
type NullHost struct {
	Calls []string

	RequireResult    interface{}
	RequireErr       error
	CanFound         bool
	CanResolved      interface{}
	InvokeResult     interface{}
	InvokeErr        error
	CompareVersionErr error

	dataHandles    map[string]*dataHandle
	packageExists  map[string]bool
}

type dataHandle struct {
	pkg     string
	backing string
}

func NewNullHost() *NullHost {
	return &NullHost{
		dataHandles:   make(map[string]*dataHandle),
		packageExists: make(map[string]bool),
	}
}

func (h *NullHost) record(call string) {
	h.Calls = append(h.Calls, call)
}

func (h *NullHost) Require(moduleFile string) (interface{}, error) {
	h.record("Require:" + moduleFile)
	return h.RequireResult, h.RequireErr
}

func (h *NullHost) Can(pkg, method string, autoloadEnabled bool) (bool, interface{}) {
	h.record(fmt.Sprintf("Can:%s::%s", pkg, method))
	return h.CanFound, h.CanResolved
}

func (h *NullHost) Invoke(coderef interface{}, args []interface{}, ctx EvalContext) (interface{}, error) {
	h.record("Invoke")
	return h.InvokeResult, h.InvokeErr
}

func (h *NullHost) CompareVersion(have, want, who string) error {
	h.record(fmt.Sprintf("CompareVersion:%s:%s:%s", have, want, who))
	return h.CompareVersionErr
}

func (h *NullHost) SaveEndBlock(code interface{})   { h.record("SaveEndBlock") }
func (h *NullHost) SaveInitBlock(code interface{})  { h.record("SaveInitBlock") }
func (h *NullHost) SaveCheckBlock(code interface{}) { h.record("SaveCheckBlock") }

func (h *NullHost) OpenDataHandle(pkg string, backing string) (interface{}, error) {
	h.record("OpenDataHandle:" + pkg)
	dh := &dataHandle{pkg: pkg, backing: backing}
	h.dataHandles[pkg] = dh
	return dh, nil
}

func (h *NullHost) ReplaceDataBacking(handle interface{}, backing string) error {
	dh, ok := handle.(*dataHandle)
	if !ok {
		return fmt.Errorf("not a data handle")
	}
	dh.backing = backing
	return nil
}

func (h *NullHost) PackageExists(pkg string) bool {
	return h.packageExists[pkg]
}

func (h *NullHost) SetPackageExists(pkg string) {
	h.packageExists[pkg] = true
}

func (h *NullHost) NewSyntheticID() string {
	return uuid.NewString()
}
