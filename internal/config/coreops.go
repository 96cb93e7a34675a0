package config

// CoreOpInfo is the single source of truth for a built-in operator/function
// name's calling convention.
type CoreOpInfo struct {
	Name        string
	Prototype   string // "" means no prototype; parse as general list
	Overridable bool   // true if CORE::GLOBAL::<Name> may replace it
}

// CoreOps lists the built-in names the Primary Parser's core-op dispatcher
// recognizes, together with the prototype the Prototype Engine
// uses to collect their arguments.
var CoreOps = []CoreOpInfo{
	// No-prototype (general list) builtins.
	{Name: "print", Prototype: "", Overridable: true},
	{Name: "printf", Prototype: "", Overridable: true},
	{Name: "say", Prototype: "", Overridable: true},
	{Name: "sort", Prototype: "", Overridable: true},
	{Name: "map", Prototype: "", Overridable: true},
	{Name: "grep", Prototype: "", Overridable: true},
	{Name: "join", Prototype: "", Overridable: true},
	{Name: "push", Prototype: "", Overridable: true},
	{Name: "unshift", Prototype: "", Overridable: true},
	{Name: "splice", Prototype: "", Overridable: true},
	{Name: "reverse", Prototype: "", Overridable: true},
	{Name: "die", Prototype: "", Overridable: true},
	{Name: "warn", Prototype: "", Overridable: true},
	{Name: "open", Prototype: "", Overridable: true},

	// One-scalar builtins.
	{Name: "chomp", Prototype: "_", Overridable: true},
	{Name: "chop", Prototype: "_", Overridable: true},
	{Name: "lc", Prototype: "_", Overridable: true},
	{Name: "uc", Prototype: "_", Overridable: true},
	{Name: "lcfirst", Prototype: "_", Overridable: true},
	{Name: "ucfirst", Prototype: "_", Overridable: true},
	{Name: "length", Prototype: "_", Overridable: true},
	{Name: "chr", Prototype: "_", Overridable: true},
	{Name: "ord", Prototype: "_", Overridable: true},
	{Name: "hex", Prototype: "_", Overridable: true},
	{Name: "oct", Prototype: "_", Overridable: true},
	{Name: "abs", Prototype: "_", Overridable: true},
	{Name: "int", Prototype: "_", Overridable: true},
	{Name: "sqrt", Prototype: "_", Overridable: true},
	{Name: "defined", Prototype: "_", Overridable: true},
	{Name: "ref", Prototype: "_", Overridable: true},
	{Name: "quotemeta", Prototype: "_", Overridable: true},

	// Array/hash-accepting builtins.
	{Name: "scalar", Prototype: "$", Overridable: false},
	{Name: "keys", Prototype: "+", Overridable: true},
	{Name: "values", Prototype: "+", Overridable: true},
	{Name: "each", Prototype: "+", Overridable: true},
	{Name: "shift", Prototype: ";\\@", Overridable: true},
	{Name: "pop", Prototype: ";\\@", Overridable: true},
	{Name: "wantarray", Prototype: "", Overridable: true},

	// Block-taking builtins.
	{Name: "eval", Prototype: "", Overridable: false},
	{Name: "do", Prototype: "", Overridable: false},

	// File tests (unary named operators).
	{Name: "-e", Prototype: "_", Overridable: false},
	{Name: "-f", Prototype: "_", Overridable: false},
	{Name: "-d", Prototype: "_", Overridable: false},
	{Name: "-r", Prototype: "_", Overridable: false},
	{Name: "-w", Prototype: "_", Overridable: false},
	{Name: "-x", Prototype: "_", Overridable: false},
	{Name: "-z", Prototype: "_", Overridable: false},
	{Name: "-s", Prototype: "_", Overridable: false},

	// select: 0, 1, or 4 args.
	{Name: "select", Prototype: "", Overridable: true},
}

var (
	coreOpByName    map[string]CoreOpInfo
	overridableSet  map[string]bool
)

func init() {
	coreOpByName = make(map[string]CoreOpInfo, len(CoreOps))
	overridableSet = make(map[string]bool)
	for _, op := range CoreOps {
		coreOpByName[op.Name] = op
		if op.Overridable {
			overridableSet[op.Name] = true
		}
	}
}

// LookupCoreOp returns the prototype info for a built-in name.
func LookupCoreOp(name string) (CoreOpInfo, bool) {
	info, ok := coreOpByName[name]
	return info, ok
}

// IsOverridable reports whether CORE::GLOBAL::<name> may replace this
// built-in.
func IsOverridable(name string) bool {
	return overridableSet[name]
}

// SelectArgCounts lists the accepted positional-argument counts for
// `select`.
var SelectArgCounts = map[int]bool{0: true, 1: true, 4: true}
