// Package symtab implements the symbol-table collaborator: a stack of
// scopes mapping sigil-qualified names to variable records, plus
// package/version/feature bookkeeping for declaration and special-block
// parsing.
//
// The scopes form an index-addressed stack rather than a parent-pointer
// chain because class bodies and BEGIN handling both need to restore to a
// specific previously-entered scope, not just pop one level.
package symtab

import (
	"github.com/google/uuid"
)

// DeclKind is the declarator that introduced a variable.
type DeclKind int

const (
	DeclNone DeclKind = iota
	DeclMy
	DeclOur
	DeclState
	DeclLocal
)

// Variable is one entry of a scope.
type Variable struct {
	Name        string // sigil-qualified, e.g. "$x", "@a", "%h"
	DeclKind    DeclKind
	Package     string
	BackingNode interface{} // weak, non-owning handle to the declaring AST node
	PersistentID string     // assigned once for `state` variables, survives re-entry
}

type scope struct {
	vars    map[string]int // name -> index into order
	order   []Variable
}

func newScope() *scope {
	return &scope{vars: make(map[string]int)}
}

// SymbolTable is a stack of lexical scopes plus process-wide-for-this-unit
// package/feature/version state.
type SymbolTable struct {
	scopes  []*scope
	pkg     string
	pkgVersions map[string]string
	features    map[string]bool

	// statePersistentIDs maps a stable declaration-site key (package +
	// name) to the uuid minted the first time that `state`
	// variable was seen, so re-entry (a closure invoked twice) reuses the
	// same id rather than minting a fresh one.
	statePersistentIDs map[string]string
}

// New creates a symbol table with one (the outermost/file) scope already
// entered.
func New() *SymbolTable {
	st := &SymbolTable{
		pkg:                "main",
		pkgVersions:        make(map[string]string),
		features:           make(map[string]bool),
		statePersistentIDs: make(map[string]string),
	}
	st.scopes = append(st.scopes, newScope())
	return st
}

// EnterScope pushes a new lexical scope and returns its index, so a caller
// can later ExitScope back to exactly this point.
func (st *SymbolTable) EnterScope() int {
	st.scopes = append(st.scopes, newScope())
	return len(st.scopes) - 1
}

// ExitScope pops scopes down to (and including) the scope at index.
func (st *SymbolTable) ExitScope(index int) {
	if index < 0 || index >= len(st.scopes) {
		return
	}
	st.scopes = st.scopes[:index]
}

// CurrentScopeIndex returns the index of the innermost scope.
func (st *SymbolTable) CurrentScopeIndex() int {
	return len(st.scopes) - 1
}

// AddVariable registers a variable in the current (innermost) scope. It
// returns the masking-warning flag: true if this name already existed in
// the *same* scope.
func (st *SymbolTable) AddVariable(v Variable) (masksExisting bool) {
	cur := st.scopes[len(st.scopes)-1]
	if v.DeclKind == DeclState {
		v.PersistentID = st.persistentIDFor(v.Package, v.Name)
	}
	if _, exists := cur.vars[v.Name]; exists {
		cur.vars[v.Name] = len(cur.order)
		cur.order = append(cur.order, v)
		return true
	}
	cur.vars[v.Name] = len(cur.order)
	cur.order = append(cur.order, v)
	return false
}

func (st *SymbolTable) persistentIDFor(pkg, name string) string {
	key := pkg + "\x00" + name
	if id, ok := st.statePersistentIDs[key]; ok {
		return id
	}
	id := uuid.NewString()
	st.statePersistentIDs[key] = id
	return id
}

// GetVariableIndex searches from the innermost scope outward and returns
// the (scopeIndex, slotIndex) of the nearest visible binding for name.
func (st *SymbolTable) GetVariableIndex(name string) (scopeIdx, slotIdx int, ok bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if slot, found := st.scopes[i].vars[name]; found {
			return i, slot, true
		}
	}
	return 0, 0, false
}

// GetVariableIndexInCurrentScope looks only in the innermost scope, which
// is what masking-declaration detection and the declared-reference guard
// need.
func (st *SymbolTable) GetVariableIndexInCurrentScope(name string) (slotIdx int, ok bool) {
	cur := st.scopes[len(st.scopes)-1]
	slot, found := cur.vars[name]
	return slot, found
}

// Lookup returns the nearest visible Variable for name.
func (st *SymbolTable) Lookup(name string) (Variable, bool) {
	scopeIdx, slotIdx, ok := st.GetVariableIndex(name)
	if !ok {
		return Variable{}, false
	}
	return st.scopes[scopeIdx].order[slotIdx], true
}

// GetAllVisibleVariables returns every variable visible from the innermost
// scope outward, innermost-first, walked when deciding what outer lexicals
// a BEGIN block must see.
func (st *SymbolTable) GetAllVisibleVariables() []Variable {
	var all []Variable
	seen := make(map[string]bool)
	for i := len(st.scopes) - 1; i >= 0; i-- {
		for _, v := range st.scopes[i].order {
			if seen[v.Name] {
				continue
			}
			seen[v.Name] = true
			all = append(all, v)
		}
	}
	return all
}

// Snapshot captures the current lexical scope chain for eval.
// The snapshot is a value copy; mutating the live table afterward does not
// affect it.
type Snapshot struct {
	scopes []*scope
	pkg    string
}

func (st *SymbolTable) Snapshot() Snapshot {
	cp := make([]*scope, len(st.scopes))
	for i, s := range st.scopes {
		ns := newScope()
		for k, v := range s.vars {
			ns.vars[k] = v
		}
		ns.order = append([]Variable{}, s.order...)
		cp[i] = ns
	}
	return Snapshot{scopes: cp, pkg: st.pkg}
}

// Restore installs a previously captured Snapshot as the live table state
// (used when a string-eval needs the lexical view at its construction
// site rather than at its execution site).
func (st *SymbolTable) Restore(s Snapshot) {
	st.scopes = s.scopes
	st.pkg = s.pkg
}

// SetCurrentPackage switches the active package.
func (st *SymbolTable) SetCurrentPackage(name string) {
	st.pkg = name
}

func (st *SymbolTable) CurrentPackage() string {
	return st.pkg
}

// SetPackageVersion/GetPackageVersion back `package NAME VERSION` and
// `:isa(Parent VERSION)` checks.
func (st *SymbolTable) SetPackageVersion(pkg, version string) {
	st.pkgVersions[pkg] = version
}

func (st *SymbolTable) GetPackageVersion(pkg string) (string, bool) {
	v, ok := st.pkgVersions[pkg]
	return v, ok
}

// EnableFeatureCategory/IsFeatureCategoryEnabled back the feature-bundle
// gates (bitwise, isa, class, try, signatures, ...).
func (st *SymbolTable) EnableFeatureCategory(category string) {
	st.features[category] = true
}

func (st *SymbolTable) DisableFeatureCategory(category string) {
	st.features[category] = false
}

func (st *SymbolTable) IsFeatureCategoryEnabled(category string) bool {
	return st.features[category]
}
