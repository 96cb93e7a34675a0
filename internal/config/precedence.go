// Package config holds the parser's immutable, process-wide static tables:
// precedence levels, associativity, terminator sets, the core-op prototype
// map, and the overridable-builtin set. Everything here is registered in
// init() and read-only thereafter.
package config

// Precedence levels, low to high. 24 is highest.
const (
	PrecComma      = 5  // , =>
	PrecAssign     = 6  // = += -= ...
	PrecTernary    = 7  // ?:
	PrecRange      = 8  // ..
	PrecLogicalOr  = 9  // or xor || //
	PrecLogicalAnd = 10 // and &&
	PrecNot        = 10 // not (unary, same band as logical-and family per Perl grammar)
	PrecBitwiseOr  = 11 // | ^
	PrecBitwiseAnd = 12 // &
	PrecEquality   = 13 // == != eq ne (chainable)
	PrecRelational = 14 // < > <= >= lt gt le ge (chainable)
	PrecIsa        = 15 // isa
	PrecUniop      = 16 // named unary operators
	PrecShift      = 17 // << >>
	PrecAdditive   = 18 // + - .
	PrecMultiplic  = 19 // * / % x
	PrecBinding    = 20 // =~ !~
	PrecUnaryPrefix = 21 // ! ~ \ unary - unary +
	PrecPower      = 22 // **
	PrecIncDec     = 23 // ++ --
	PrecArrow      = 24 // ->
)

// Precedence maps an operator's surface text to its level. Operators not
// present here are not infix/postfix operators at all.
var Precedence = map[string]int{
	",":  PrecComma,
	"=>": PrecComma,

	"=":   PrecAssign,
	"+=":  PrecAssign,
	"-=":  PrecAssign,
	"*=":  PrecAssign,
	"/=":  PrecAssign,
	"%=":  PrecAssign,
	"**=": PrecAssign,
	".=":  PrecAssign,
	"x=":  PrecAssign,
	"||=": PrecAssign,
	"&&=": PrecAssign,
	"//=": PrecAssign,
	"|=":  PrecAssign,
	"&=":  PrecAssign,
	"^=":  PrecAssign,
	"<<=": PrecAssign,
	">>=": PrecAssign,

	"?": PrecTernary,

	"..":  PrecRange,
	"...": PrecRange,

	"or":  PrecLogicalOr,
	"xor": PrecLogicalOr,
	"||":  PrecLogicalOr,
	"//":  PrecLogicalOr,

	"and": PrecLogicalAnd,
	"&&":  PrecLogicalAnd,

	"|": PrecBitwiseOr,
	"^": PrecBitwiseOr,

	"&": PrecBitwiseAnd,

	"==":  PrecEquality,
	"!=":  PrecEquality,
	"eq":  PrecEquality,
	"ne":  PrecEquality,
	"<=>": PrecEquality,
	"cmp": PrecEquality,
	"~~":  PrecEquality,

	"<":  PrecRelational,
	">":  PrecRelational,
	"<=": PrecRelational,
	">=": PrecRelational,
	"lt": PrecRelational,
	"gt": PrecRelational,
	"le": PrecRelational,
	"ge": PrecRelational,

	"isa": PrecIsa,

	"<<": PrecShift,
	">>": PrecShift,

	"+": PrecAdditive,
	"-": PrecAdditive,
	".": PrecAdditive,

	"*": PrecMultiplic,
	"/": PrecMultiplic,
	"%": PrecMultiplic,
	"x": PrecMultiplic,

	"=~": PrecBinding,
	"!~": PrecBinding,

	"**": PrecPower,

	"++": PrecIncDec,
	"--": PrecIncDec,

	"->": PrecArrow,

	// Postfix call/subscript forms bind at the same tightest level as
	// `->` itself.
	"(": PrecArrow,
	"{": PrecArrow,
	"[": PrecArrow,
}

// RightAssoc is the set of right-associative operators.
var RightAssoc = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, ".=": true, "x=": true, "||=": true, "&&=": true,
	"//=": true, "|=": true, "&=": true, "^=": true, "<<=": true, ">>=": true,
	"**": true,
	"?":  true,
}

// Terminators stop expression parsing outright.
var Terminators = map[string]bool{
	":": true, ";": true, ")": true, "}": true, "]": true,
	"if": true, "unless": true, "while": true, "until": true,
	"for": true, "foreach": true, "when": true,
}

// ListTerminators additionally stop comma-list parsing.
var ListTerminators = map[string]bool{}

func init() {
	for k, v := range Terminators {
		ListTerminators[k] = v
	}
	ListTerminators["not"] = true
	ListTerminators["and"] = true
	ListTerminators["or"] = true
}

// InfixSet is every operator the Infix Parser knows how to
// consume as a binary/ternary/postfix/arrow operator.
var InfixSet = map[string]bool{}

func init() {
	for op := range Precedence {
		InfixSet[op] = true
	}
	// Postfix-only forms that still belong to the infix dispatcher.
	InfixSet["++"] = true
	InfixSet["--"] = true
	InfixSet["("] = true
	InfixSet["{"] = true
	InfixSet["["] = true
}

// NonChainable, ChainableEquality, and ChainableRelational partition the
// comparison operators for the Perl 5.32+ chaining rule.
var (
	NonChainable = map[string]bool{
		"<=>": true, "cmp": true, "~~": true, "isa": true,
	}
	ChainableEquality = map[string]bool{
		"==": true, "!=": true, "eq": true, "ne": true,
	}
	ChainableRelational = map[string]bool{
		"<": true, ">": true, "<=": true, ">=": true,
		"lt": true, "gt": true, "le": true, "ge": true,
	}
)
