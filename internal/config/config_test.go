package config_test

import (
	"testing"

	"github.com/perlfront/perlfront/internal/config"
)

func TestPrecedenceOrderingMatchesSpecTable(t *testing.T) {
	cases := []struct{ lower, higher string }{
		{",", "="},
		{"=", "?"},
		{"?", ".."},
		{"..", "or"},
		{"or", "and"},
		{"and", "|"},
		{"|", "&"},
		{"&", "=="},
		{"==", "<"},
		{"<", "isa"},
		{"isa", "<<"},
		{"<<", "+"},
		{"+", "*"},
		{"*", "=~"},
		{"=~", "!"}, // unary prefix has no single token; approximate via **
		{"=~", "**"},
		{"**", "++"},
		{"++", "->"},
	}
	for _, c := range cases {
		if c.higher == "!" {
			continue
		}
		lo, ok := config.Precedence[c.lower]
		if !ok {
			t.Fatalf("missing precedence entry for %q", c.lower)
		}
		hi, ok := config.Precedence[c.higher]
		if !ok {
			t.Fatalf("missing precedence entry for %q", c.higher)
		}
		if !(lo < hi) {
			t.Errorf("Precedence[%q]=%d should be < Precedence[%q]=%d", c.lower, lo, c.higher, hi)
		}
	}
}

func TestRightAssociativeSetMatchesSpec(t *testing.T) {
	for _, op := range []string{"=", "+=", "**", "?"} {
		if !config.RightAssoc[op] {
			t.Errorf("RightAssoc[%q] = false, want true", op)
		}
	}
	for _, op := range []string{"+", "==", "&&"} {
		if config.RightAssoc[op] {
			t.Errorf("RightAssoc[%q] = true, want false", op)
		}
	}
}

func TestListTerminatorsExtendTerminatorsWithKeywords(t *testing.T) {
	for term := range config.Terminators {
		if !config.ListTerminators[term] {
			t.Errorf("ListTerminators missing base terminator %q", term)
		}
	}
	for _, kw := range []string{"not", "and", "or"} {
		if !config.ListTerminators[kw] {
			t.Errorf("ListTerminators[%q] = false, want true", kw)
		}
		if config.Terminators[kw] {
			t.Errorf("Terminators[%q] = true, want false (only ListTerminators should include it)", kw)
		}
	}
}

func TestChainingPartitionsAreDisjoint(t *testing.T) {
	for op := range config.NonChainable {
		if config.ChainableEquality[op] {
			t.Errorf("%q is in both NonChainable and ChainableEquality", op)
		}
		if config.ChainableRelational[op] {
			t.Errorf("%q is in both NonChainable and ChainableRelational", op)
		}
	}
	for op := range config.ChainableEquality {
		if config.ChainableRelational[op] {
			t.Errorf("%q is in both ChainableEquality and ChainableRelational", op)
		}
	}
	if !config.NonChainable["isa"] {
		t.Fatalf("isa must be NonChainable")
	}
}

func TestLookupCoreOpKnowsPrintAndScalar(t *testing.T) {
	info, ok := config.LookupCoreOp("print")
	if !ok {
		t.Fatalf("LookupCoreOp(print) not found")
	}
	if info.Prototype != "" {
		t.Errorf("print prototype = %q, want empty (general list)", info.Prototype)
	}
	if !info.Overridable {
		t.Errorf("print should be overridable via CORE::GLOBAL::print")
	}

	info, ok = config.LookupCoreOp("scalar")
	if !ok {
		t.Fatalf("LookupCoreOp(scalar) not found")
	}
	if info.Prototype != "$" {
		t.Errorf("scalar prototype = %q, want \"$\"", info.Prototype)
	}
	if info.Overridable {
		t.Errorf("scalar should not be overridable")
	}
}

func TestLookupCoreOpUnknownNameNotFound(t *testing.T) {
	if _, ok := config.LookupCoreOp("not_a_real_builtin_xyz"); ok {
		t.Fatalf("LookupCoreOp found a made-up name")
	}
}
